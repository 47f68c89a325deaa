package setup

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"pysetup/internal/logger"
)

// Manager is the dependency manager the environment is built with.
type Manager string

const (
	Pip    Manager = "pip"
	Poetry Manager = "poetry"
)

// ProjectTool is the build tool an existing pyproject.toml declares.
type ProjectTool string

const (
	ToolNone   ProjectTool = ""
	ToolPoetry ProjectTool = "poetry"
	ToolHatch  ProjectTool = "hatch"
	ToolFlit   ProjectTool = "flit"
)

// DetectProjectTool inspects the [tool.*] tables of the pyproject.toml at path.
// A missing or unparsable file yields ToolNone.
func DetectProjectTool(path string) ProjectTool {
	raw, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("[WARN] Cannot read %s: %v\n", path, err)
		}
		return ToolNone
	}

	var doc map[string]any
	if err := toml.Unmarshal(raw, &doc); err != nil {
		logger.Warn("[WARN] Cannot parse %s: %v\n", path, err)
		return ToolNone
	}

	tools, _ := doc["tool"].(map[string]any)
	for _, t := range []ProjectTool{ToolPoetry, ToolHatch, ToolFlit} {
		if _, ok := tools[string(t)]; ok {
			return t
		}
	}
	return ToolNone
}

// DefaultPackageName derives a package name from the project directory name.
func DefaultPackageName(dir string) string {
	return NormalizePackageName(filepath.Base(dir))
}

// NormalizePackageName lower-cases name and turns spaces and hyphens into
// underscores so it is a valid import name.
func NormalizePackageName(name string) string {
	r := strings.NewReplacer(" ", "_", "-", "_")
	return r.Replace(strings.ToLower(strings.TrimSpace(name)))
}

// ReadRequirements returns the non-empty, non-comment lines of a pip
// requirements file. A missing file yields no requirements.
func ReadRequirements(path string) ([]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var reqs []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		reqs = append(reqs, line)
	}
	return reqs, scanner.Err()
}

// PoetryDependency converts one pip requirement line into a Poetry
// dependency entry. The value is a version constraint string, or a table with
// version and extras when the requirement names extras. ok is false for lines
// Poetry cannot express this way (pip options, URLs, local paths).
func PoetryDependency(req string) (name string, value any, ok bool) {
	// Drop inline comments and environment markers.
	if i := strings.Index(req, " #"); i >= 0 {
		req = req[:i]
	}
	if i := strings.Index(req, ";"); i >= 0 {
		req = req[:i]
	}
	req = strings.TrimSpace(req)
	if req == "" || strings.HasPrefix(req, "-") || strings.HasPrefix(req, ".") || strings.Contains(req, "://") {
		return "", nil, false
	}

	end := strings.IndexAny(req, "<>=!~[ @(")
	if end < 0 {
		return req, "*", true
	}
	name = req[:end]
	rest := strings.TrimSpace(req[end:])

	var extras []string
	if strings.HasPrefix(rest, "[") {
		rb := strings.Index(rest, "]")
		if rb < 0 {
			return "", nil, false
		}
		for _, e := range strings.Split(rest[1:rb], ",") {
			if e = strings.TrimSpace(e); e != "" {
				extras = append(extras, e)
			}
		}
		rest = strings.TrimSpace(rest[rb+1:])
	}
	if strings.HasPrefix(rest, "@") {
		return "", nil, false
	}

	constraint := strings.NewReplacer(" ", "", "(", "", ")", "").Replace(rest)
	if constraint == "" {
		constraint = "*"
	}
	if len(extras) > 0 {
		return name, map[string]any{"version": constraint, "extras": extras}, true
	}
	return name, constraint, true
}
