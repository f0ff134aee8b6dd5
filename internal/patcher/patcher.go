package patcher

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"arc-setup/internal/logger"
)

// Options selects which files are patched and what is replaced.
type Options struct {
	Extension string   // Exact file extension, e.g. ".vcxproj"
	From      string   // Toolset marker to replace
	To        string   // Replacement marker
	Skip      []string // Directory names not descended into
}

// Result summarizes a Patch run.
type Result struct {
	Scanned      int      // Files with a matching extension
	Patched      []string // Files that were rewritten
	Replacements int      // Total marker occurrences replaced
}

// Patch replaces every occurrence of opts.From with opts.To in every regular
// file under root whose extension is exactly opts.Extension. Other files are
// never written, and matching files without the marker are left untouched.
func Patch(root string, opts Options) (Result, error) {
	var res Result
	if opts.From == "" {
		return res, errors.New("empty toolset marker")
	}
	from, to := []byte(opts.From), []byte(opts.To)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && slices.Contains(opts.Skip, d.Name()) {
				logger.Debug("[DEBUG] Skipping directory %s\n", path)
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || filepath.Ext(path) != opts.Extension {
			return nil
		}
		res.Scanned++

		n, err := patchFile(path, from, to)
		if err != nil {
			return err
		}
		if n > 0 {
			logger.Debug("[DEBUG] Patched %d toolset marker(s) in %s\n", n, path)
			res.Patched = append(res.Patched, path)
			res.Replacements += n
		}
		return nil
	})
	if err != nil {
		return res, fmt.Errorf("failed to patch projects under %s: %w", root, err)
	}
	return res, nil
}

func patchFile(path string, from, to []byte) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}

	n := bytes.Count(data, from)
	if n == 0 {
		return 0, nil
	}
	patched := bytes.ReplaceAll(data, from, to)
	if err := os.WriteFile(path, patched, info.Mode().Perm()); err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	return n, nil
}
