package state

import (
	"encoding/json" // For JSON encoding and decoding of the state file
	"fmt"
	"os"   // For file system operations like reading and writing files
	"time" // Run timestamps

	"arc-setup/internal/logger"
)

// DownloadState records a file fetched into the cache directory.
type DownloadState struct {
	URL    string `json:"url"`    // Mirror that served the file
	Path   string `json:"path"`   // Location in the cache directory
	SHA256 string `json:"sha256"` // Hex digest of the downloaded bytes
	Size   int64  `json:"size"`

	Extracted string `json:"extracted,omitempty"` // Folder the archive was unpacked to
}

// State holds what the last setup run did.
// Downloads is keyed by a logical name ("llvm-installer", "llvm-utils").
type State struct {
	LastCompiler string                   `json:"last_compiler"`
	LastRun      time.Time                `json:"last_run"`
	LLVMVersion  string                   `json:"llvm_version,omitempty"` // Version installed by this tool, if any
	Patched      []string                 `json:"patched,omitempty"`      // Project files rewritten by the last run
	Downloads    map[string]DownloadState `json:"downloads"`
}

// New returns an empty state with its maps initialized.
func New() *State {
	return &State{Downloads: make(map[string]DownloadState)}
}

// LoadState loads the saved state from a JSON file at the given path.
// If the file does not exist or cannot be parsed, it returns a new empty State.
func LoadState(path string) *State {
	file, err := os.ReadFile(path)
	if err != nil {
		return New()
	}

	var st State
	if err := json.Unmarshal(file, &st); err != nil {
		logger.Warn("[WARN] Ignoring unreadable state file %s: %v\n", path, err)
		return New()
	}
	// Ensure the map is initialized if the JSON contained null
	if st.Downloads == nil {
		st.Downloads = make(map[string]DownloadState)
	}
	return &st
}

// SaveState writes the state as indented JSON.
func SaveState(path string, st *State) error {
	file, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	logger.Debug("[DEBUG] Writing state to %s:\n%s\n", path, string(file))

	if err := os.WriteFile(path, file, 0644); err != nil {
		return fmt.Errorf("failed to write state file %s: %w", path, err)
	}
	return nil
}
