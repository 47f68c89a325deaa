package setup

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"pysetup/internal/logger"
)

// setupRequirements makes sure both requirement files exist. Existing files
// are never touched.
func (b *Bootstrap) setupRequirements() error {
	if err := writeIfMissing(filepath.Join(b.Dir, "requirements.txt"), "# project requirements\n"); err != nil {
		return err
	}
	// One dev requirement per line, newline-terminated
	dev := strings.Join(b.Profile.DevRequirements, "\n")
	if dev != "" {
		dev += "\n"
	}
	return writeIfMissing(filepath.Join(b.Dir, "requirements.dev.txt"), dev)
}

// writeIfMissing creates path with content unless it already exists.
func writeIfMissing(path, content string) error {
	name := filepath.Base(path)
	if _, err := os.Stat(path); err == nil {
		logger.Success("%s already exists.", name)
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	logger.Info("[INFO] %s not found. Let's create one.\n", name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.Success("%s created.", name)
	return nil
}

// requirementsFiles lists requirements*.txt in dir, sorted by name.
func requirementsFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasPrefix(name, "requirements") && strings.HasSuffix(name, ".txt") {
			files = append(files, name)
		}
	}
	return files, nil
}
