package installer

import (
	"errors"
	"io/fs"
	"os"

	"arc-setup/internal/logger"
	"arc-setup/internal/state"
)

// Clean removes every cached download recorded in st, along with the folder it
// was extracted to. Entries whose files are already gone are dropped as well.
// It returns false if any file could not be removed; those entries are kept.
func Clean(st *state.State) bool {
	ok := true
	for key, d := range st.Downloads {
		removed := true
		for _, p := range []string{d.Path, d.Extracted} {
			if p == "" {
				continue
			}
			if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
				logger.Debug("[DEBUG] %s already removed\n", p)
				continue
			}
			if err := os.RemoveAll(p); err != nil {
				logger.Error("[ERROR] Failed to remove %s: %v\n", p, err)
				removed = false
				continue
			}
			logger.Info("[INFO] Removed %s\n", p)
		}
		if removed {
			delete(st.Downloads, key)
		} else {
			ok = false
		}
	}
	if len(st.Downloads) == 0 {
		logger.Info("[INFO] Download cache is clean\n")
	}
	return ok
}
