package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"arc-setup/internal/logger"
)

// Runner executes an external command in dir.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) error
}

// ExecRunner runs commands with os/exec, streaming their output.
// Generator and installer scripts may prompt, so stdin is passed through.
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New returns an ExecRunner attached to the process's standard streams.
func New() *ExecRunner {
	return &ExecRunner{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	argv := Command(runtime.GOOS, resolve(runtime.GOOS, dir, name), args...)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	logger.Debug("[DEBUG] Running command in %s: %s\n", dir, strings.Join(cmd.Args, " "))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return nil
}

// Command builds the argv for name on goos. Batch files cannot be exec'd
// directly on Windows and go through cmd /C.
func Command(goos, name string, args ...string) []string {
	if isBatch(goos, name) {
		return append([]string{"cmd", "/C", name}, args...)
	}
	return append([]string{name}, args...)
}

// resolve points a bare name at dir when the file lives there, since exec does
// not search the working directory. cmd /C already does for batch files.
func resolve(goos, dir, name string) string {
	if strings.ContainsAny(name, `/\`) || isBatch(goos, name) {
		return name
	}
	local := filepath.Join(dir, name)
	if info, err := os.Stat(local); err != nil || info.IsDir() {
		return name
	}
	if abs, err := filepath.Abs(local); err == nil {
		return abs
	}
	return local
}

func isBatch(goos, name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return goos == "windows" && (ext == ".bat" || ext == ".cmd")
}
