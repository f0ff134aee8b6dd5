package toolchain

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Compiler
		wantErr bool
	}{
		{in: "msvc", want: MSVC},
		{in: "clang", want: Clang},
		{in: "llvm", want: LLVM},
		{in: " llvm\r\n", want: LLVM},
		{in: "", wantErr: true},
		{in: "gcc", wantErr: true},
		{in: "MSVC", wantErr: true},
		{in: "clang-cl", wantErr: true},
		{in: "llvm clang", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidCompiler)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompiler_Generator(t *testing.T) {
	assert.Equal(t, GeneratorMSVC, MSVC.Generator())
	assert.Equal(t, GeneratorClang, Clang.Generator())
	assert.Equal(t, GeneratorClang, LLVM.Generator())

	assert.False(t, MSVC.NeedsLLVM())
	assert.False(t, Clang.NeedsLLVM())
	assert.True(t, LLVM.NeedsLLVM())
}

type fixedPrompter struct {
	c     Compiler
	calls int
}

func (f *fixedPrompter) Prompt() (Compiler, error) {
	f.calls++
	return f.c, nil
}

func TestSelect(t *testing.T) {
	t.Run("argument", func(t *testing.T) {
		p := &fixedPrompter{c: MSVC}
		c, err := Select([]string{"clang"}, p)
		require.NoError(t, err)
		assert.Equal(t, Clang, c)
		assert.Zero(t, p.calls)
	})

	t.Run("prompt when no argument", func(t *testing.T) {
		p := &fixedPrompter{c: LLVM}
		c, err := Select(nil, p)
		require.NoError(t, err)
		assert.Equal(t, LLVM, c)
		assert.Equal(t, 1, p.calls)
	})

	t.Run("too many arguments", func(t *testing.T) {
		_, err := Select([]string{"msvc", "clang"}, &fixedPrompter{})
		assert.ErrorIs(t, err, ErrTooManyArgs)
	})

	t.Run("invalid argument", func(t *testing.T) {
		_, err := Select([]string{"icc"}, &fixedPrompter{})
		assert.ErrorIs(t, err, ErrInvalidCompiler)
	})
}

func TestLinePrompter(t *testing.T) {
	var out bytes.Buffer
	p := &LinePrompter{In: strings.NewReader("llvm\n"), Out: &out}

	c, err := p.Prompt()
	require.NoError(t, err)
	assert.Equal(t, LLVM, c)
	assert.Equal(t, PromptText, out.String())

	// No trailing newline is still a complete answer.
	p = &LinePrompter{In: strings.NewReader("clang"), Out: &out}
	c, err = p.Prompt()
	require.NoError(t, err)
	assert.Equal(t, Clang, c)

	p = &LinePrompter{In: strings.NewReader(""), Out: &out}
	_, err = p.Prompt()
	assert.ErrorIs(t, err, ErrAborted)

	p = &LinePrompter{In: strings.NewReader("vc6\n"), Out: &out}
	_, err = p.Prompt()
	assert.ErrorIs(t, err, ErrInvalidCompiler)
}
