package config

// Profile drives the project bootstrap: which interpreter to use, what the
// generated pyproject.toml pins, and where updated profiles are fetched from.
// - SourceURL: location of the latest profile (plain YAML or an archive holding profile.yaml).
// - SignatureURL/PublicKeyFile: optional minisign signature and key used to verify the download.
// - Venv/Python: virtual environment directory and interpreter used by the pip flow.
type Profile struct {
	SourceURL     string `yaml:"source_url"`
	SignatureURL  string `yaml:"signature_url"`
	PublicKeyFile string `yaml:"public_key_file"`

	Venv           string `yaml:"venv"`
	Python         string `yaml:"python"`
	RequiresPython string `yaml:"requires_python"` // PEP 621 requires-python
	PoetryPython   string `yaml:"poetry_python"`   // python constraint under [tool.poetry.dependencies]
	BuildSystem    string `yaml:"build_system"`    // default build backend package, e.g. hatchling
	PoetryCore     string `yaml:"poetry_core"`

	PoetryInstallerURL string `yaml:"poetry_installer_url"`

	DevRequirements       []string          `yaml:"dev_requirements"`
	PoetryDevDependencies map[string]string `yaml:"poetry_dev_dependencies"`
}

// profileFile is the on-disk wrapper; the profile lives under a `profile:` key
// so the file can grow other sections without breaking older readers.
type profileFile struct {
	Profile Profile `yaml:"profile"`
}

// Signed reports whether the profile asks for signature verification on update.
func (p *Profile) Signed() bool {
	return p.SignatureURL != "" && p.PublicKeyFile != ""
}
