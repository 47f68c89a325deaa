package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"pysetup/internal/testutil"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/profile.yaml", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("profile:\n  venv: env\n"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestDownload(t *testing.T) {
	t.Parallel()

	srv := newServer(t)
	dest := filepath.Join(t.TempDir(), "profile.yaml")

	require.NoError(t, Download(context.Background(), srv.Client(), srv.URL+"/profile.yaml", dest))
	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, "profile:\n  venv: env\n", string(got))
}

func TestDownloadNotFound(t *testing.T) {
	t.Parallel()

	srv := newServer(t)
	dest := filepath.Join(t.TempDir(), "missing")

	err := Download(context.Background(), srv.Client(), srv.URL+"/missing", dest)
	require.ErrorContains(t, err, "HTTP status 404")
	require.NoFileExists(t, dest)
}

func TestFetchBytes(t *testing.T) {
	t.Parallel()

	srv := newServer(t)
	got, err := FetchBytes(context.Background(), srv.Client(), srv.URL+"/profile.yaml")
	require.NoError(t, err)
	require.Contains(t, string(got), "venv: env")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = FetchBytes(ctx, srv.Client(), srv.URL+"/profile.yaml")
	require.ErrorIs(t, err, context.Canceled)
}

func TestSHA256(t *testing.T) {
	t.Parallel()
	require.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", SHA256([]byte("abc")))
}

func TestIsArchive(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"a.zip", "a.7z", "a.tar", "a.tar.gz", "A.TGZ", "a.tar.bz2", "a.tar.xz"} {
		require.True(t, IsArchive(name), name)
	}
	for _, name := range []string{"profile.yaml", "a.gz", "a.rar"} {
		require.False(t, IsArchive(name), name)
	}
}

func TestExtractFile(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"bundle/README.md":    "readme",
		"bundle/profile.yaml": "profile:\n  python: python3.12\n",
	}

	tests := []struct {
		name  string
		write func(t *testing.T, path string)
	}{
		{name: "bundle.zip", write: func(t *testing.T, p string) { testutil.WriteZip(t, p, files) }},
		{name: "bundle.tar", write: func(t *testing.T, p string) { testutil.WriteTar(t, p, files, false) }},
		{name: "bundle.tar.gz", write: func(t *testing.T, p string) { testutil.WriteTar(t, p, files, true) }},
		{name: "bundle.tgz", write: func(t *testing.T, p string) { testutil.WriteTar(t, p, files, true) }},
		// No Go writers for these formats; the fixtures hold the same two files.
		{name: "bundle.tar.bz2", write: copyFixture},
		{name: "bundle.tar.xz", write: copyFixture},
		{name: "bundle.7z", write: copyFixture},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			src := filepath.Join(dir, tc.name)
			tc.write(t, src)

			dest := filepath.Join(dir, "out.yaml")
			require.NoError(t, ExtractFile(src, "profile.yaml", dest))
			got, err := os.ReadFile(dest)
			require.NoError(t, err)
			require.Equal(t, files["bundle/profile.yaml"], string(got))

			err = ExtractFile(src, "absent.yaml", dest)
			require.ErrorIs(t, err, ErrNotInArchive)
		})
	}
}

// copyFixture copies testdata/<base of p> to p.
func copyFixture(t *testing.T, p string) {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", filepath.Base(p)))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(p, b, 0o644))
}

func TestExtractFileUnsupported(t *testing.T) {
	t.Parallel()
	err := ExtractFile("bundle.rar", "profile.yaml", filepath.Join(t.TempDir(), "out"))
	require.ErrorContains(t, err, "unsupported archive format")
}

func TestVerifyMinisign(t *testing.T) {
	t.Parallel()

	key := testutil.NewMinisignKey(t)
	content := []byte("profile:\n  venv: .venv\n")
	sig := key.Sign(content)

	require.NoError(t, VerifyMinisign(content, sig, key.PublicKeyPath))

	err := VerifyMinisign([]byte("profile:\n  venv: evil\n"), sig, key.PublicKeyPath)
	require.ErrorIs(t, err, ErrBadSignature)

	err = VerifyMinisign(content, []byte("garbage"), key.PublicKeyPath)
	require.ErrorContains(t, err, "decode minisign signature")
}
