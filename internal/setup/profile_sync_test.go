package setup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"pysetup/internal/config"
	"pysetup/internal/fetch"
	"pysetup/internal/state"
	"pysetup/internal/testutil"
)

const remoteProfile = "profile:\n  venv: env\n  build_system: setuptools\n"

// serveFiles serves fixed bodies by URL path.
func serveFiles(t *testing.T, files map[string][]byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newSync(t *testing.T, srv *httptest.Server, current *config.Profile) *ProfileSync {
	t.Helper()
	return &ProfileSync{
		Path:    filepath.Join(t.TempDir(), ".pysetup", "profile.yaml"),
		Current: current,
		State:   &state.State{},
		Client:  srv.Client(),
	}
}

func TestProfileSyncWithoutSourceKeepsCurrent(t *testing.T) {
	t.Parallel()

	current := config.DefaultProfile()
	s := &ProfileSync{Path: filepath.Join(t.TempDir(), "profile.yaml"), Current: current, State: &state.State{}}

	got, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Same(t, current, got)
	require.NoFileExists(t, s.Path)
	require.Empty(t, s.State.Profile.SHA256)
}

func TestProfileSyncPlainYAML(t *testing.T) {
	t.Parallel()

	srv := serveFiles(t, map[string][]byte{"/profile.yaml": []byte(remoteProfile)})
	current := config.DefaultProfile()
	current.SourceURL = srv.URL + "/profile.yaml"
	s := newSync(t, srv, current)

	got, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, "env", got.Venv)
	require.Equal(t, "setuptools", got.BuildSystem)

	written, err := os.ReadFile(s.Path)
	require.NoError(t, err)
	require.Equal(t, remoteProfile, string(written))
	require.Equal(t, fetch.SHA256([]byte(remoteProfile)), s.State.Profile.SHA256)
	require.Equal(t, current.SourceURL, s.State.Profile.SourceURL)
	require.False(t, s.State.Profile.FetchedAt.IsZero())

	// A second run finds the same bytes and leaves the file alone.
	info, err := os.Stat(s.Path)
	require.NoError(t, err)
	_, err = s.Run(context.Background())
	require.NoError(t, err)
	info2, err := os.Stat(s.Path)
	require.NoError(t, err)
	require.Equal(t, info.ModTime(), info2.ModTime())
}

func TestProfileSyncFromArchive(t *testing.T) {
	t.Parallel()

	bundle := filepath.Join(t.TempDir(), "profiles.zip")
	testutil.WriteZip(t, bundle, map[string]string{"profiles/profile.yaml": remoteProfile})
	data, err := os.ReadFile(bundle)
	require.NoError(t, err)

	srv := serveFiles(t, map[string][]byte{"/releases/profiles.zip": data})
	current := config.DefaultProfile()
	current.SourceURL = srv.URL + "/releases/profiles.zip"
	s := newSync(t, srv, current)

	got, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, "env", got.Venv)
}

func TestProfileSyncVerifiesSignature(t *testing.T) {
	t.Parallel()

	key := testutil.NewMinisignKey(t)
	goodSig := key.Sign([]byte(remoteProfile))
	badSig := key.Sign([]byte("profile:\n  venv: other\n"))

	srv := serveFiles(t, map[string][]byte{
		"/profile.yaml":     []byte(remoteProfile),
		"/profile.minisig":  goodSig,
		"/tampered.minisig": badSig,
	})

	t.Run("valid", func(t *testing.T) {
		current := config.DefaultProfile()
		current.SourceURL = srv.URL + "/profile.yaml"
		current.SignatureURL = srv.URL + "/profile.minisig"
		current.PublicKeyFile = key.PublicKeyPath
		s := newSync(t, srv, current)

		got, err := s.Run(context.Background())
		require.NoError(t, err)
		require.Equal(t, "env", got.Venv)
		require.FileExists(t, s.Path)
	})

	t.Run("invalid leaves local file untouched", func(t *testing.T) {
		current := config.DefaultProfile()
		current.SourceURL = srv.URL + "/profile.yaml"
		current.SignatureURL = srv.URL + "/tampered.minisig"
		current.PublicKeyFile = key.PublicKeyPath
		s := newSync(t, srv, current)
		require.NoError(t, os.MkdirAll(filepath.Dir(s.Path), 0o755))
		require.NoError(t, os.WriteFile(s.Path, []byte("profile: {}\n"), 0o644))

		_, err := s.Run(context.Background())
		require.ErrorIs(t, err, fetch.ErrBadSignature)

		local, err := os.ReadFile(s.Path)
		require.NoError(t, err)
		require.Equal(t, "profile: {}\n", string(local))
		require.Empty(t, s.State.Profile.SHA256)
	})

	t.Run("relative key resolves next to the profile", func(t *testing.T) {
		current := config.DefaultProfile()
		current.SourceURL = srv.URL + "/profile.yaml"
		current.SignatureURL = srv.URL + "/profile.minisig"
		current.PublicKeyFile = "minisign.pub"
		s := newSync(t, srv, current)

		pub, err := os.ReadFile(key.PublicKeyPath)
		require.NoError(t, err)
		require.NoError(t, os.MkdirAll(filepath.Dir(s.Path), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(s.Path), "minisign.pub"), pub, 0o644))
		require.Equal(t, filepath.Join(filepath.Dir(s.Path), "minisign.pub"), s.publicKeyPath())

		got, err := s.Run(context.Background())
		require.NoError(t, err)
		require.Equal(t, "env", got.Venv)
		require.FileExists(t, s.Path)
	})

	t.Run("relative key missing from the profile dir", func(t *testing.T) {
		current := config.DefaultProfile()
		current.SourceURL = srv.URL + "/profile.yaml"
		current.SignatureURL = srv.URL + "/profile.minisig"
		current.PublicKeyFile = "minisign.pub"
		s := newSync(t, srv, current)

		_, err := s.Run(context.Background())
		require.ErrorContains(t, err, "read minisign pubkey")
		require.NoFileExists(t, s.Path)
	})

	t.Run("missing signature", func(t *testing.T) {
		current := config.DefaultProfile()
		current.SourceURL = srv.URL + "/profile.yaml"
		current.SignatureURL = srv.URL + "/absent.minisig"
		current.PublicKeyFile = key.PublicKeyPath
		s := newSync(t, srv, current)

		_, err := s.Run(context.Background())
		require.ErrorContains(t, err, "404")
		require.NoFileExists(t, s.Path)
	})
}

func TestProfileSyncRejectsInvalidProfile(t *testing.T) {
	t.Parallel()

	srv := serveFiles(t, map[string][]byte{"/profile.yaml": []byte("profile: [oops")})
	current := config.DefaultProfile()
	current.SourceURL = srv.URL + "/profile.yaml"
	s := newSync(t, srv, current)

	_, err := s.Run(context.Background())
	require.ErrorContains(t, err, "fetched profile is invalid")
	require.NoFileExists(t, s.Path)
}

func TestArtifactName(t *testing.T) {
	t.Parallel()
	require.Equal(t, "bundle.tar.gz", artifactName("https://example.com/r/bundle.tar.gz?x=1"))
	require.Equal(t, "profile.yaml", artifactName("https://example.com/"))
	require.Equal(t, "profile.yaml", artifactName("https://example.com"))
	require.Equal(t, "profile.yaml", artifactName("https://example.com/r/.."))
	require.Equal(t, "profile.yaml", artifactName("https://example.com/r/%2e%2e"))
	require.Equal(t, "profile.yaml", artifactName("https://example.com/r/."))
}
