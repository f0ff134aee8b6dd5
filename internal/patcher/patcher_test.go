package patcher

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	clangCL = "<PlatformToolset>ClangCL</PlatformToolset>"
	llvm    = "<PlatformToolset>LLVM_v143</PlatformToolset>"
)

func defaultOptions() Options {
	return Options{Extension: ".vcxproj", From: clangCL, To: llvm, Skip: []string{".git"}}
}

func project(markers int) string {
	var b strings.Builder
	b.WriteString("<Project>\n")
	for i := 0; i < markers; i++ {
		b.WriteString("  <PropertyGroup>" + clangCL + "</PropertyGroup>\n")
	}
	b.WriteString("</Project>\n")
	return b.String()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestPatch_ReplacesEveryMarker(t *testing.T) {
	root := t.TempDir()
	arc := filepath.Join(root, "Arc", "Arc.vcxproj")
	editor := filepath.Join(root, "Arc-Editor", "Arc-Editor.vcxproj")
	sandbox := filepath.Join(root, "Sandbox", "nested", "deep", "Sandbox.vcxproj")
	writeFile(t, arc, project(4))
	writeFile(t, editor, project(1))
	writeFile(t, sandbox, project(2))

	res, err := Patch(root, defaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 3, res.Scanned)
	assert.ElementsMatch(t, []string{arc, editor, sandbox}, res.Patched)
	assert.Equal(t, 7, res.Replacements)

	for _, p := range []string{arc, editor, sandbox} {
		content := readFile(t, p)
		assert.NotContains(t, content, clangCL, p)
		assert.Contains(t, content, llvm, p)
	}
	assert.Equal(t, 4, strings.Count(readFile(t, arc), llvm))
}

func TestPatch_LeavesOtherFilesUntouched(t *testing.T) {
	root := t.TempDir()
	filters := filepath.Join(root, "Arc", "Arc.vcxproj.filters")
	user := filepath.Join(root, "Arc", "Arc.vcxproj.user")
	lua := filepath.Join(root, "premake5.lua")
	upper := filepath.Join(root, "Arc", "Legacy.VCXPROJ")
	for _, p := range []string{filters, user, lua, upper} {
		writeFile(t, p, project(2))
	}
	before := modTime(t, filters)

	res, err := Patch(root, defaultOptions())
	require.NoError(t, err)

	assert.Zero(t, res.Scanned)
	assert.Empty(t, res.Patched)
	for _, p := range []string{filters, user, lua, upper} {
		assert.Equal(t, project(2), readFile(t, p), p)
	}
	assert.Equal(t, before, modTime(t, filters))
}

func TestPatch_SkipsUnmarkedAndSkippedDirectories(t *testing.T) {
	root := t.TempDir()
	clean := filepath.Join(root, "Arc-ScriptCore", "Arc-ScriptCore.vcxproj")
	vendored := filepath.Join(root, ".git", "modules", "x.vcxproj")
	writeFile(t, clean, "<Project><PlatformToolset>v143</PlatformToolset></Project>")
	writeFile(t, vendored, project(1))

	require.NoError(t, os.Chmod(clean, 0600))

	res, err := Patch(root, defaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Scanned)
	assert.Empty(t, res.Patched)
	assert.Equal(t, project(1), readFile(t, vendored))

	info, err := os.Stat(clean)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestPatch_PreservesMode(t *testing.T) {
	root := t.TempDir()
	p := filepath.Join(root, "Arc.vcxproj")
	writeFile(t, p, project(1))
	require.NoError(t, os.Chmod(p, 0600))

	_, err := Patch(root, defaultOptions())
	require.NoError(t, err)

	info, err := os.Stat(p)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestPatch_Errors(t *testing.T) {
	_, err := Patch(t.TempDir(), Options{Extension: ".vcxproj"})
	assert.Error(t, err)

	_, err = Patch(filepath.Join(t.TempDir(), "missing"), defaultOptions())
	assert.Error(t, err)
}

func modTime(t *testing.T, path string) int64 {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	return info.ModTime().UnixNano()
}
