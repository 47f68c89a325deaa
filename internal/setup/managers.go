package setup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"pysetup/internal/fetch"
	"pysetup/internal/logger"
)

// setupPoetry installs Poetry when it is not on PATH, then lets it create the
// environment with `poetry install`. Failures are returned wrapped; the
// caller reports them.
func (b *Bootstrap) setupPoetry(ctx context.Context) error {
	fmt.Fprintln(b.Out, "📚  Using Poetry for environment setup...")

	// Install Poetry only when it cannot be found
	if _, err := b.Runner.LookPath("poetry"); err != nil {
		logger.Debug("[DEBUG] poetry not on PATH: %v\n", err)
		if err := b.installPoetry(ctx); err != nil {
			return err
		}
	}

	// Verify the binary actually runs before relying on it
	version, err := b.Runner.Output(ctx, b.Dir, "poetry", "--version")
	if err != nil {
		return fmt.Errorf("poetry installation failed: %w", err)
	}
	logger.Success("%s", version)

	// Let Poetry create the venv and install the locked dependencies
	fmt.Fprintln(b.Out, "🔧 Creating virtual environment with Poetry...")
	if err := b.Runner.Run(ctx, b.Dir, "poetry", "install"); err != nil {
		return fmt.Errorf("poetry setup failed: %w", err)
	}
	return nil
}

// installPoetry runs the official installer script with the profile's
// interpreter and puts ~/.local/bin, where the installer drops the binary,
// at the front of PATH for the rest of the run.
func (b *Bootstrap) installPoetry(ctx context.Context) error {
	fmt.Fprintln(b.Out, "⬇️ Installing Poetry...")

	// Scratch dir for the installer script, removed once it has run
	tmp, err := os.MkdirTemp("", "pysetup-poetry-")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	// Fetch the installer script
	script := filepath.Join(tmp, "install-poetry.py")
	if err := fetch.Download(ctx, b.Client, b.Profile.PoetryInstallerURL, script); err != nil {
		return fmt.Errorf("download poetry installer: %w", err)
	}

	// Run it with the interpreter named in the profile
	if err := b.Runner.Run(ctx, b.Dir, b.Profile.Python, script); err != nil {
		return fmt.Errorf("poetry installer failed: %w", err)
	}

	// Make the freshly installed binary visible to later LookPath/exec calls
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("locate home directory: %w", err)
	}
	bin := filepath.Join(home, ".local", "bin")
	logger.Debug("[DEBUG] Prepending %s to PATH\n", bin)
	return os.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))
}

// setupPip creates the virtual environment, upgrades pip, installs every
// requirements*.txt and finally the project itself in editable mode.
func (b *Bootstrap) setupPip(ctx context.Context) error {
	fmt.Fprintf(b.Out, "🐍 Setting up Python virtual environment at %s...\n", b.Profile.Venv)

	// Create the venv, then upgrade the pip inside it
	pip := b.venvBin("pip")
	steps := [][]string{
		{b.Profile.Python, "-m", "venv", b.Profile.Venv},
		{pip, "install", "--upgrade", "pip"},
	}
	for _, step := range steps {
		if err := b.Runner.Run(ctx, b.Dir, step[0], step[1:]...); err != nil {
			return fmt.Errorf("pip setup failed: %w", err)
		}
	}

	// Install every requirements file in name order
	files, err := requirementsFiles(b.Dir)
	if err != nil {
		return fmt.Errorf("list requirements files: %w", err)
	}
	for _, f := range files {
		fmt.Fprintf(b.Out, "🔗 Installing packages from %s...\n", f)
		if err := b.Runner.Run(ctx, b.Dir, pip, "install", "-r", f, "--upgrade"); err != nil {
			return fmt.Errorf("pip install -r %s failed: %w", f, err)
		}
	}

	// Finally the project itself, so src/<pkg> is importable from the venv
	fmt.Fprintln(b.Out, "🔗 Installing local package in editable mode...")
	if err := b.Runner.Run(ctx, b.Dir, pip, "install", "-e", "."); err != nil {
		return fmt.Errorf("pip install -e . failed: %w", err)
	}
	return nil
}

// venvBin returns the absolute path of an executable inside the venv.
func (b *Bootstrap) venvBin(name string) string {
	venv := b.Profile.Venv
	if !filepath.IsAbs(venv) {
		venv = filepath.Join(b.Dir, venv)
	}
	return filepath.Join(venv, "bin", name)
}
