package toolchain

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// PromptText is shown when no compiler was passed on the command line.
const PromptText = "Select compiler: msvc/clang/llvm "

// Prompter asks the user for a compiler.
type Prompter interface {
	Prompt() (Compiler, error)
}

// NewPrompter returns an interactive select form when stdin is a terminal and
// a plain line prompt otherwise (CI, piped input, IDE task runners).
func NewPrompter(in *os.File, out io.Writer) Prompter {
	if isatty.IsTerminal(in.Fd()) || isatty.IsCygwinTerminal(in.Fd()) {
		return &FormPrompter{Default: MSVC}
	}
	return &LinePrompter{In: in, Out: out}
}

// FormPrompter shows a huh select list of the supported compilers.
type FormPrompter struct {
	Default Compiler
}

func (p *FormPrompter) Prompt() (Compiler, error) {
	selected := string(p.Default)

	opts := make([]huh.Option[string], 0, len(All()))
	for _, c := range All() {
		opts = append(opts, huh.NewOption(c.String(), c.String()))
	}
	sel := huh.NewSelect[string]().
		Title("Select compiler").
		Options(opts...).
		Value(&selected)

	if err := huh.NewForm(huh.NewGroup(sel)).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrAborted
		}
		return "", fmt.Errorf("prompt error: %w", err)
	}
	return Parse(selected)
}

// LinePrompter prints PromptText and parses one line of input.
type LinePrompter struct {
	In  io.Reader
	Out io.Writer
}

func (p *LinePrompter) Prompt() (Compiler, error) {
	if _, err := fmt.Fprint(p.Out, PromptText); err != nil {
		return "", err
	}
	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", ErrAborted
		}
		return "", fmt.Errorf("failed to read compiler: %w", err)
	}
	return Parse(line)
}
