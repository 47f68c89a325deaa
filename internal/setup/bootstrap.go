package setup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pysetup/internal/config"
	"pysetup/internal/fetch"
	"pysetup/internal/logger"
	"pysetup/internal/state"
)

// Asker answers the questions the bootstrap needs when it cannot infer a value.
type Asker interface {
	Ask(question, def string) string
}

// Bootstrap prepares a Python project directory: requirement files,
// pyproject.toml and a pip- or poetry-managed environment.
type Bootstrap struct {
	Dir     string          // absolute project directory
	Profile *config.Profile // settings driving every step (venv, python, build system...)
	State   *state.State    // updated with the outcome; saving it is the caller's job
	Runner  Runner          // executes pip, poetry, python and git
	Asker   Asker           // answers questions the project files cannot
	Client  *http.Client    // downloads the Poetry installer
	Out     io.Writer       // receives the environment report and the final hints

	manager Manager // chosen in Run, read by the later steps
}

// NewBootstrap returns a Bootstrap for dir using real commands and HTTP.
func NewBootstrap(dir string, p *config.Profile, st *state.State, asker Asker) (*Bootstrap, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve project dir %s: %w", dir, err)
	}
	return &Bootstrap{
		Dir:     abs,
		Profile: p,
		State:   st,
		Runner:  NewExecRunner(),
		Asker:   asker,
		Client:  fetch.NewClient(),
		Out:     os.Stdout,
	}, nil
}

// Run executes the whole bootstrap. A failing package-manager command is
// returned as a *CommandError.
func (b *Bootstrap) Run(ctx context.Context) error {
	// Step 1: refuse to run on platforms the venv layout does not cover
	fmt.Fprintln(b.Out, "🧠 Detecting OS and architecture...")
	plat, err := DetectPlatform()
	if err != nil {
		return err
	}
	fmt.Fprintf(b.Out, "📟 OS: %s | Architecture: %s\n", plat.OS, plat.Arch)

	// Step 2: pip or poetry, from pyproject.toml or the user
	b.manager = b.chooseManager()
	logger.Debug("[DEBUG] Using %s for environment setup\n", b.manager)

	// Steps 3 and 4: project files, each only when missing
	if err := b.setupRequirements(); err != nil {
		return err
	}
	pkg, err := b.createPyproject(ctx)
	if err != nil {
		return err
	}

	// Steps 5 and 6: build the environment
	if b.manager == Poetry {
		err = b.setupPoetry(ctx)
	} else {
		err = b.setupPip(ctx)
	}
	if err != nil {
		return err
	}

	// Step 7: report the interpreter the project will use
	if err := b.PrintEnvInfo(ctx, b.manager); err != nil {
		// The environment is usable even if the report could not be produced.
		logger.Warn("[WARN] Could not collect environment info: %v\n", err)
	}

	// Step 8: record the outcome and tell the user what to do next
	b.State.Project = state.ProjectState{
		Manager:     string(b.manager),
		PackageName: pkg,
		CompletedAt: time.Now().UTC(),
	}

	fmt.Fprintln(b.Out, "\n🎉 Setup complete!")
	if b.manager == Pip {
		fmt.Fprintf(b.Out, "➡️  Run 'source %s/bin/activate' to activate the virtual environment.\n", b.Profile.Venv)
	}
	return nil
}

// chooseManager picks poetry for Poetry projects, pip for Hatch and Flit
// projects, and asks otherwise.
func (b *Bootstrap) chooseManager() Manager {
	switch DetectProjectTool(filepath.Join(b.Dir, "pyproject.toml")) {
	case ToolPoetry:
		logger.Info("[INFO] Detected Poetry project from pyproject.toml.\n")
		return Poetry
	case ToolHatch:
		logger.Info("[INFO] Detected Hatch project from pyproject.toml.\n")
		return Pip
	case ToolFlit:
		logger.Info("[INFO] Detected Flit project from pyproject.toml.\n")
		return Pip
	}

	answer := b.Asker.Ask("📦 Do you want to use pip or poetry?", string(Pip))
	if strings.EqualFold(strings.TrimSpace(answer), string(Poetry)) {
		return Poetry
	}
	return Pip
}

// createPyproject writes pyproject.toml when it is missing and returns the
// package name it used, or "" when the file already existed.
func (b *Bootstrap) createPyproject(ctx context.Context) (string, error) {
	path := filepath.Join(b.Dir, "pyproject.toml")
	if _, err := os.Stat(path); err == nil {
		logger.Success("pyproject.toml already exists.")
		return "", nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}

	logger.Info("[INFO] pyproject.toml not found. Let's create one.\n")
	meta := b.askMetadata(ctx)

	// src/ layout: the package dir exists before the first install
	if err := b.createPackageDir(meta.Name); err != nil {
		return "", err
	}

	var content []byte
	var err error
	if b.manager == Poetry {
		// Poetry keeps dependencies in pyproject.toml, so carry requirements.txt over
		reqs, rerr := ReadRequirements(filepath.Join(b.Dir, "requirements.txt"))
		if rerr != nil {
			return "", fmt.Errorf("read requirements.txt: %w", rerr)
		}
		content, err = PoetryPyproject(meta, b.Profile, reqs)
	} else {
		// PEP 621 projects pick their own build backend
		buildPkg := b.Asker.Ask("Build system", b.Profile.BuildSystem)
		content, err = PEP621Pyproject(meta, b.Profile, buildPkg)
		if err == nil {
			err = os.MkdirAll(filepath.Join(b.Dir, "tests"), 0o755)
		}
	}
	if err != nil {
		return "", fmt.Errorf("render pyproject.toml: %w", err)
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.Success("pyproject.toml created.")
	return meta.Name, nil
}

// askMetadata collects the [project]/[tool.poetry] fields. Author defaults
// come from git config when available.
func (b *Bootstrap) askMetadata(ctx context.Context) Metadata {
	meta := Metadata{Name: DefaultPackageName(b.Dir)}
	if name := b.Asker.Ask("Package name", meta.Name); name != meta.Name {
		meta.Name = NormalizePackageName(name)
	}
	meta.Version = b.Asker.Ask("Package version", "0.1.0")
	meta.Description = b.Asker.Ask("Package description", "")

	authorName := b.gitConfig(ctx, "user.name")
	if authorName == "" {
		authorName = "unnamed developer"
	}
	authorEmail := b.gitConfig(ctx, "user.email")
	if authorEmail == "" {
		authorEmail = "developer@example.com"
	}
	meta.AuthorName = b.Asker.Ask("Author name", authorName)
	meta.AuthorEmail = b.Asker.Ask("Author email", authorEmail)
	return meta
}

// createPackageDir creates src/<name>/__init__.py, leaving an existing file alone.
func (b *Bootstrap) createPackageDir(name string) error {
	pkgDir := filepath.Join(b.Dir, "src", name)
	if err := os.MkdirAll(pkgDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", pkgDir, err)
	}
	f, err := os.OpenFile(filepath.Join(pkgDir, "__init__.py"), os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create __init__.py: %w", err)
	}
	return f.Close()
}

// gitConfig returns a git config value, or "" when git or the key is missing.
func (b *Bootstrap) gitConfig(ctx context.Context, key string) string {
	out, err := b.Runner.Output(ctx, b.Dir, "git", "config", "--get", key)
	if err != nil {
		logger.Debug("[DEBUG] git config %s unavailable: %v\n", key, err)
		return ""
	}
	return out
}
