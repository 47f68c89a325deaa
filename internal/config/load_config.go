package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
	"pysetup/internal/logger"
)

// DefaultProfilePath is where the CLI looks for the profile unless --config says otherwise.
const DefaultProfilePath = ".pysetup/profile.yaml"

//go:embed default_profile.yaml
var defaultProfileYAML []byte

// DefaultProfile returns the built-in profile shipped with the binary.
func DefaultProfile() *Profile {
	var f profileFile
	if err := yaml.Unmarshal(defaultProfileYAML, &f); err != nil {
		// The embedded file is part of the build; a parse failure is a programming error.
		panic("embedded default profile is invalid: " + err.Error())
	}
	return &f.Profile
}

// LoadProfile reads the profile at path. A missing file is not an error: the
// embedded default is returned instead so a fresh checkout can bootstrap.
func LoadProfile(path string) (*Profile, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("[DEBUG] No profile at %s, using built-in defaults\n", path)
		return DefaultProfile(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}

	p, err := ParseProfile(raw)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	logger.Debug("[DEBUG] Loaded profile from %s\n", path)
	return p, nil
}

// ParseProfile decodes profile YAML and fills every unset field from the
// built-in defaults. It is also used to validate a freshly fetched profile
// before it replaces the local copy.
func ParseProfile(raw []byte) (*Profile, error) {
	var f profileFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	p := &f.Profile
	p.applyDefaults(DefaultProfile())

	if (p.SignatureURL == "") != (p.PublicKeyFile == "") {
		return nil, errors.New("signature_url and public_key_file must be set together")
	}
	return p, nil
}

func (p *Profile) applyDefaults(d *Profile) {
	if p.Venv == "" {
		p.Venv = d.Venv
	}
	if p.Python == "" {
		p.Python = d.Python
	}
	if p.RequiresPython == "" {
		p.RequiresPython = d.RequiresPython
	}
	if p.PoetryPython == "" {
		p.PoetryPython = d.PoetryPython
	}
	if p.BuildSystem == "" {
		p.BuildSystem = d.BuildSystem
	}
	if p.PoetryCore == "" {
		p.PoetryCore = d.PoetryCore
	}
	if p.PoetryInstallerURL == "" {
		p.PoetryInstallerURL = d.PoetryInstallerURL
	}
	// nil means "not specified"; an explicit empty list is respected.
	if p.DevRequirements == nil {
		p.DevRequirements = d.DevRequirements
	}
	if p.PoetryDevDependencies == nil {
		p.PoetryDevDependencies = d.PoetryDevDependencies
	}
}
