package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pysetup/internal/logger"
)

// DefaultPath is the state file location relative to the project directory.
const DefaultPath = ".pysetup/state.json"

// ProfileState records the last profile fetched by an update, so an unchanged
// download can be reported as current instead of rewriting the file.
type ProfileState struct {
	SourceURL string    `json:"source_url"` // URL the profile was fetched from
	SHA256    string    `json:"sha256"`     // Digest of the profile YAML that was written
	FetchedAt time.Time `json:"fetched_at"` // When the update completed
}

// ProjectState records the outcome of the last successful bootstrap.
type ProjectState struct {
	Manager     string    `json:"manager"`      // "pip" or "poetry"
	PackageName string    `json:"package_name"` // Package name written into pyproject.toml, if we created it
	CompletedAt time.Time `json:"completed_at"` // When the bootstrap finished
}

// State holds everything pysetup persists between runs.
type State struct {
	Profile ProfileState `json:"profile"` // Last profile update
	Project ProjectState `json:"project"` // Last bootstrap
}

// LoadState loads the saved state from a JSON file at the given path.
// A missing or unreadable file yields an empty State; a corrupt one is logged
// and also treated as empty so a bad state file never blocks a bootstrap.
func LoadState(path string) *State {
	file, err := os.ReadFile(path)
	if err != nil {
		logger.Debug("[DEBUG] No state at %s: %v\n", path, err)
		return &State{}
	}

	var st State
	if err := json.Unmarshal(file, &st); err != nil {
		logger.Warn("[WARN] Ignoring corrupt state file %s: %v\n", path, err)
		return &State{}
	}
	return &st
}

// SaveState writes the given State to path as indented JSON, creating the
// parent directory if needed. Errors are returned for the caller to report.
func SaveState(path string, st *State) error {
	// Serialize the state with indentation for readability
	file, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	logger.Debug("[DEBUG] Writing state to %s:\n%s\n", path, string(file))

	// Make sure .pysetup/ exists before writing into it
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create state dir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, file, 0o644); err != nil {
		return fmt.Errorf("write state file %s: %w", path, err)
	}
	return nil
}
