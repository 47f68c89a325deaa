package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadProfileMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	p, err := LoadProfile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, ".venv", p.Venv)
	require.Equal(t, "python3", p.Python)
	require.Equal(t, "hatchling", p.BuildSystem)
	require.Contains(t, p.DevRequirements, "pytest")
	require.Equal(t, "^7.0", p.PoetryDevDependencies["pytest"])
	require.False(t, p.Signed())
}

func TestLoadProfileOverridesAndFillsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "profile.yaml")
	body := `
profile:
  source_url: https://example.com/profile.yaml
  venv: env
  dev_requirements: [pytest, ruff]
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	p, err := LoadProfile(path)
	require.NoError(t, err)
	require.Equal(t, "https://example.com/profile.yaml", p.SourceURL)
	require.Equal(t, "env", p.Venv)
	require.Equal(t, []string{"pytest", "ruff"}, p.DevRequirements)
	require.Equal(t, ">=3.8", p.RequiresPython)
	require.Equal(t, "https://install.python-poetry.org", p.PoetryInstallerURL)
}

func TestParseProfileErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "malformed yaml",
			body:    "profile: [unterminated",
			wantErr: "unmarshal",
		},
		{
			name:    "signature without key",
			body:    "profile:\n  signature_url: https://example.com/p.minisig\n",
			wantErr: "must be set together",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseProfile([]byte(tc.body))
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}
