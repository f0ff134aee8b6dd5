package setup

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arc-setup/internal/config"
	"arc-setup/internal/download"
	"arc-setup/internal/installer"
	"arc-setup/internal/logger"
	"arc-setup/internal/state"
	"arc-setup/internal/toolchain"
)

type fakeRunner struct {
	names []string
	fail  map[string]error
}

func (f *fakeRunner) Run(_ context.Context, _, name string, _ ...string) error {
	f.names = append(f.names, name)
	return f.fail[name]
}

// workspace lays out a scripts dir with every batch file, a project tree with
// one ClangCL project, and an already installed clang.
func workspace(t *testing.T) config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.ScriptsDir = filepath.Join(root, "scripts")
	cfg.ProjectRoot = root
	cfg.CacheDir = filepath.Join(root, ".cache")
	cfg.LLVM.ClangPath = filepath.Join(root, "LLVM", "bin", "clang.exe")

	for _, p := range []string{
		filepath.Join(cfg.ScriptsDir, "Install-LLVM.bat"),
		filepath.Join(cfg.ScriptsDir, "Install-LLVM-Utils.bat"),
	} {
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte("@echo off"), 0644))
	}
	proj := filepath.Join(root, "Arc", "Arc.vcxproj")
	require.NoError(t, os.MkdirAll(filepath.Dir(proj), 0755))
	require.NoError(t, os.WriteFile(proj, []byte(config.DefaultToolsetFrom), 0644))
	return cfg
}

func newSetup(cfg config.Config, r *fakeRunner) *Setup {
	inst := installer.New(cfg, r, download.New(time.Second, nil), state.New())
	s := New(cfg, inst)
	s.now = func() time.Time { return time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC) }
	return s
}

func TestRun_PerCompiler(t *testing.T) {
	tests := []struct {
		compiler toolchain.Compiler
		want     []string
		patched  bool
	}{
		{compiler: toolchain.MSVC, want: []string{"GenerateSolution.bat"}},
		{compiler: toolchain.Clang, want: []string{"GenerateSolutionClang.bat"}},
		{
			compiler: toolchain.LLVM,
			want:     []string{"GenerateSolutionClang.bat", "Install-LLVM.bat", "Install-LLVM-Utils.bat"},
			patched:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.compiler.String(), func(t *testing.T) {
			cfg := workspace(t)
			r := &fakeRunner{}
			s := newSetup(cfg, r)

			require.NoError(t, s.Run(context.Background(), tt.compiler))
			assert.Equal(t, tt.want, r.names)
			assert.Equal(t, tt.compiler.String(), s.State.LastCompiler)
			assert.False(t, s.State.LastRun.IsZero())

			proj, err := os.ReadFile(filepath.Join(cfg.ProjectRoot, "Arc", "Arc.vcxproj"))
			require.NoError(t, err)
			if tt.patched {
				assert.Equal(t, config.DefaultToolsetTo, string(proj))
				assert.Len(t, s.State.Patched, 1)
			} else {
				assert.Equal(t, config.DefaultToolsetFrom, string(proj))
				assert.Empty(t, s.State.Patched)
			}
		})
	}
}

func TestRun_SkipsInstallWhenClangPresent(t *testing.T) {
	cfg := workspace(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.LLVM.ClangPath), 0755))
	require.NoError(t, os.WriteFile(cfg.LLVM.ClangPath, nil, 0755))
	r := &fakeRunner{}

	require.NoError(t, newSetup(cfg, r).Run(context.Background(), toolchain.LLVM))
	assert.Equal(t, []string{"GenerateSolutionClang.bat", "Install-LLVM-Utils.bat"}, r.names)
}

func TestRun_GeneratorFailureStops(t *testing.T) {
	cfg := workspace(t)
	boom := errors.New("exit status 1")
	r := &fakeRunner{fail: map[string]error{"GenerateSolutionClang.bat": boom}}
	s := newSetup(cfg, r)

	err := s.Run(context.Background(), toolchain.LLVM)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"GenerateSolutionClang.bat"}, r.names)
	assert.Empty(t, s.State.LastCompiler)
}

func TestRun_KeepGoing(t *testing.T) {
	cfg := workspace(t)
	r := &fakeRunner{fail: map[string]error{
		"GenerateSolutionClang.bat": errors.New("premake missing"),
		"Install-LLVM.bat":          errors.New("cancelled"),
	}}
	s := newSetup(cfg, r)
	s.KeepGoing = true

	var out bytes.Buffer
	prev := logger.SetOutput(&out)
	defer logger.SetOutput(prev)

	require.NoError(t, s.Run(context.Background(), toolchain.LLVM))
	assert.Len(t, r.names, 3)
	assert.Len(t, s.State.Patched, 1)
	assert.Contains(t, out.String(), "[WARN] generate solution failed, continuing: premake missing")
	assert.Contains(t, out.String(), "[WARN] install LLVM failed, continuing: cancelled")
}

func TestRun_PatchFailureAlwaysStops(t *testing.T) {
	cfg := workspace(t)
	cfg.ProjectRoot = filepath.Join(cfg.ProjectRoot, "does-not-exist")
	s := newSetup(cfg, &fakeRunner{})
	s.KeepGoing = true

	assert.Error(t, s.Run(context.Background(), toolchain.LLVM))
}

func TestRun_NonLLVMClearsPatchedFiles(t *testing.T) {
	for _, c := range []toolchain.Compiler{toolchain.MSVC, toolchain.Clang} {
		t.Run(c.String(), func(t *testing.T) {
			cfg := workspace(t)
			s := newSetup(cfg, &fakeRunner{})

			require.NoError(t, s.Run(context.Background(), toolchain.LLVM))
			require.Len(t, s.State.Patched, 1)

			require.NoError(t, s.Run(context.Background(), c))
			assert.Empty(t, s.State.Patched)
			assert.Equal(t, c.String(), s.State.LastCompiler)
		})
	}
}
