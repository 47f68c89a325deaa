package setup

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"pysetup/internal/config"
	"pysetup/internal/logger"
)

// Metadata is the package information collected before writing pyproject.toml.
type Metadata struct {
	Name        string
	Version     string
	Description string
	AuthorName  string
	AuthorEmail string
}

type buildSystem struct {
	Requires     []string `toml:"requires"`
	BuildBackend string   `toml:"build-backend"`
}

// Poetry layout: [tool.poetry], its dependency tables, poetry-core backend.

type poetryDocument struct {
	Tool        poetryToolTable `toml:"tool"`
	BuildSystem buildSystem     `toml:"build-system"`
}

type poetryToolTable struct {
	Poetry poetryTable `toml:"poetry"`
}

type poetryTable struct {
	Name            string            `toml:"name"`
	Version         string            `toml:"version"`
	Description     string            `toml:"description"`
	Authors         []string          `toml:"authors"`
	Dependencies    map[string]any    `toml:"dependencies"`
	DevDependencies map[string]string `toml:"dev-dependencies"`
}

// PEP 621 layout: [project] plus pytest and (for hatchling) wheel target config.

type pep621Document struct {
	Project     projectTable    `toml:"project"`
	Tool        pep621ToolTable `toml:"tool"`
	BuildSystem buildSystem     `toml:"build-system"`
}

type projectTable struct {
	Name           string   `toml:"name"`
	Version        string   `toml:"version"`
	Description    string   `toml:"description"`
	Authors        []author `toml:"authors"`
	RequiresPython string   `toml:"requires-python"`
}

type author struct {
	Name  string `toml:"name"`
	Email string `toml:"email"`
}

type pep621ToolTable struct {
	Pytest pytestTable `toml:"pytest"`
	Hatch  *hatchTable `toml:"hatch,omitempty"`
}

type pytestTable struct {
	IniOptions pytestOptions `toml:"ini_options"`
}

type pytestOptions struct {
	PythonPath []string `toml:"pythonpath"`
	TestPaths  []string `toml:"testpaths"`
	Markers    []string `toml:"markers"`
	AddOpts    string   `toml:"addopts"`
}

type hatchTable struct {
	Build hatchBuild `toml:"build"`
}

type hatchBuild struct {
	Targets hatchTargets `toml:"targets"`
}

type hatchTargets struct {
	Wheel hatchWheel `toml:"wheel"`
}

type hatchWheel struct {
	Packages []string `toml:"packages"`
}

// buildBackends maps build-system packages to their PEP 517 backend module.
// Unknown packages fall back to "<package>.build", the hatchling convention.
var buildBackends = map[string]string{
	"hatchling":   "hatchling.build",
	"setuptools":  "setuptools.build_meta",
	"flit_core":   "flit_core.buildapi",
	"flit-core":   "flit_core.buildapi",
	"pdm-backend": "pdm.backend",
	"poetry-core": "poetry.core.masonry.api",
	"maturin":     "maturin",
}

// BuildBackend returns the build-backend value for a build-system package.
func BuildBackend(pkg string) string {
	if b, ok := buildBackends[pkg]; ok {
		return b
	}
	return pkg + ".build"
}

// PoetryPyproject renders a Poetry-managed pyproject.toml. requirements are
// pip requirement lines carried over as Poetry dependencies; lines Poetry
// cannot express as a version constraint are skipped with a warning.
func PoetryPyproject(meta Metadata, p *config.Profile, requirements []string) ([]byte, error) {
	deps := map[string]any{"python": p.PoetryPython}
	for _, req := range requirements {
		name, value, ok := PoetryDependency(req)
		if !ok {
			logger.Warn("[WARN] Skipping requirement %q: add it with 'poetry add' by hand\n", req)
			continue
		}
		deps[name] = value
	}

	doc := poetryDocument{
		Tool: poetryToolTable{Poetry: poetryTable{
			Name:            meta.Name,
			Version:         meta.Version,
			Description:     meta.Description,
			Authors:         []string{fmt.Sprintf("%s <%s>", meta.AuthorName, meta.AuthorEmail)},
			Dependencies:    deps,
			DevDependencies: p.PoetryDevDependencies,
		}},
		BuildSystem: buildSystem{
			Requires:     []string{p.PoetryCore},
			BuildBackend: BuildBackend("poetry-core"),
		},
	}
	return toml.Marshal(doc)
}

// PEP621Pyproject renders a standards-based pyproject.toml built with buildPkg.
// Sources live under src/<name> and tests under tests/.
func PEP621Pyproject(meta Metadata, p *config.Profile, buildPkg string) ([]byte, error) {
	doc := pep621Document{
		Project: projectTable{
			Name:           meta.Name,
			Version:        meta.Version,
			Description:    meta.Description,
			Authors:        []author{{Name: meta.AuthorName, Email: meta.AuthorEmail}},
			RequiresPython: p.RequiresPython,
		},
		Tool: pep621ToolTable{
			Pytest: pytestTable{IniOptions: pytestOptions{
				PythonPath: []string{"src"},
				TestPaths:  []string{"tests", "src"},
				Markers:    []string{`integration: marks tests as integration (deselect with '-m "not integration"')`},
				AddOpts:    "-m 'not integration'",
			}},
		},
		BuildSystem: buildSystem{
			Requires:     []string{buildPkg},
			BuildBackend: BuildBackend(buildPkg),
		},
	}
	if buildPkg == "hatchling" {
		doc.Tool.Hatch = &hatchTable{Build: hatchBuild{Targets: hatchTargets{
			Wheel: hatchWheel{Packages: []string{"src/" + meta.Name}},
		}}}
	}
	return toml.Marshal(doc)
}
