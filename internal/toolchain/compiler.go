package toolchain

import (
	"errors"
	"fmt"
	"strings"
)

// Compiler is the toolchain the solution is generated for.
type Compiler string

const (
	MSVC  Compiler = "msvc"
	Clang Compiler = "clang"
	LLVM  Compiler = "llvm"
)

// Generator selects which generator batch file produces the solution.
type Generator int

const (
	GeneratorMSVC Generator = iota
	GeneratorClang
)

var (
	// ErrInvalidCompiler is returned for any name outside msvc/clang/llvm.
	ErrInvalidCompiler = errors.New("invalid compiler")
	// ErrTooManyArgs is the usage error for more than one positional argument.
	ErrTooManyArgs = errors.New("invalid syntax, should only contain one argument: msvc/clang/llvm")
	// ErrAborted is returned when the user cancels the interactive prompt.
	ErrAborted = errors.New("compiler selection aborted")
)

// All lists the accepted compilers in prompt order.
func All() []Compiler {
	return []Compiler{MSVC, Clang, LLVM}
}

// Parse accepts exactly "msvc", "clang" or "llvm". Surrounding whitespace is
// ignored, case is not.
func Parse(s string) (Compiler, error) {
	c := Compiler(strings.TrimSpace(s))
	switch c {
	case MSVC, Clang, LLVM:
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCompiler, s)
}

// Generator reports which generator the compiler is built with.
// LLVM projects are generated as ClangCL and patched afterwards.
func (c Compiler) Generator() Generator {
	if c == Clang || c == LLVM {
		return GeneratorClang
	}
	return GeneratorMSVC
}

// NeedsLLVM is true when the LLVM install and project patch steps apply.
func (c Compiler) NeedsLLVM() bool {
	return c == LLVM
}

func (c Compiler) String() string { return string(c) }

// Select resolves the compiler from the positional arguments, falling back to
// the prompter when none was given.
func Select(args []string, p Prompter) (Compiler, error) {
	switch len(args) {
	case 0:
		if p == nil {
			return "", errors.New("no compiler given and no prompt available")
		}
		return p.Prompt()
	case 1:
		return Parse(args[0])
	default:
		return "", ErrTooManyArgs
	}
}
