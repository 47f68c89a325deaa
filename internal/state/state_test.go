package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadState(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "state.json")
	fetched := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	st := &State{
		Profile: ProfileState{SourceURL: "https://example.com/p.yaml", SHA256: "abc", FetchedAt: fetched},
		Project: ProjectState{Manager: "poetry", PackageName: "demo"},
	}
	require.NoError(t, SaveState(path, st))

	got := LoadState(path)
	require.Equal(t, "abc", got.Profile.SHA256)
	require.True(t, got.Profile.FetchedAt.Equal(fetched))
	require.Equal(t, "poetry", got.Project.Manager)
}

func TestLoadStateMissingOrCorrupt(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.Equal(t, &State{}, LoadState(filepath.Join(dir, "missing.json")))

	corrupt := filepath.Join(dir, "corrupt.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{not json"), 0o644))
	require.Equal(t, &State{}, LoadState(corrupt))
}

func TestSaveStateReturnsWriteErrors(t *testing.T) {
	t.Parallel()

	// A regular file where the state directory should be.
	blocker := filepath.Join(t.TempDir(), ".pysetup")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	err := SaveState(filepath.Join(blocker, "state.json"), &State{})
	require.ErrorContains(t, err, "create state dir")
}
