package setup

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"
	"pysetup/internal/config"
	"pysetup/internal/fetch"
	"pysetup/internal/logger"
	"pysetup/internal/state"
)

// profileEntry is the file looked up inside archived profile bundles.
const profileEntry = "profile.yaml"

// ProfileSync pulls the latest profile described by the current one and
// replaces the local file with it.
type ProfileSync struct {
	Path    string // local profile file
	Current *config.Profile
	State   *state.State
	Client  *http.Client
}

// Run fetches, verifies and installs the latest profile, returning the profile
// to use for the rest of the run. Verification uses the signature settings of
// the current (local) profile, never those of the download. On any error the
// local file is left untouched.
func (s *ProfileSync) Run(ctx context.Context) (*config.Profile, error) {
	src := s.Current.SourceURL
	if src == "" {
		logger.Warn("[WARN] No source_url configured in %s; keeping the local profile\n", s.Path)
		return s.Current, nil
	}
	logger.Info("[INFO] Pulling latest setup profile from %s\n", src)

	tmp, err := os.MkdirTemp("", "pysetup-profile-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	artifact := filepath.Join(tmp, artifactName(src))
	var sig []byte

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return fetch.Download(gctx, s.Client, src, artifact)
	})
	if s.Current.Signed() {
		g.Go(func() error {
			var err error
			sig, err = fetch.FetchBytes(gctx, s.Client, s.Current.SignatureURL)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if s.Current.Signed() {
		raw, err := os.ReadFile(artifact)
		if err != nil {
			return nil, err
		}
		if err := fetch.VerifyMinisign(raw, sig, s.publicKeyPath()); err != nil {
			return nil, fmt.Errorf("verify %s: %w", src, err)
		}
		logger.Info("[INFO] Signature verified for %s\n", src)
	}

	profilePath := artifact
	if fetch.IsArchive(artifact) {
		profilePath = filepath.Join(tmp, profileEntry)
		if err := fetch.ExtractFile(artifact, profileEntry, profilePath); err != nil {
			return nil, err
		}
	}

	content, err := os.ReadFile(profilePath)
	if err != nil {
		return nil, err
	}
	next, err := config.ParseProfile(content)
	if err != nil {
		return nil, fmt.Errorf("fetched profile is invalid: %w", err)
	}

	sum := fetch.SHA256(content)
	if local, err := os.ReadFile(s.Path); err == nil && bytes.Equal(local, content) {
		logger.Info("[INFO] Profile is current (sha256 %s). Skipping.\n", sum[:12])
	} else {
		if err := writeAtomic(s.Path, content); err != nil {
			return nil, err
		}
		logger.Success("Profile updated: %s", s.Path)
	}

	s.State.Profile = state.ProfileState{SourceURL: src, SHA256: sum, FetchedAt: time.Now().UTC()}
	return next, nil
}

// publicKeyPath resolves a relative public_key_file against the profile's directory.
func (s *ProfileSync) publicKeyPath() string {
	key := s.Current.PublicKeyFile
	if filepath.IsAbs(key) {
		return key
	}
	return filepath.Join(filepath.Dir(s.Path), key)
}

// artifactName keeps the remote file name so archive types can be told apart
// by extension. Paths without a usable file name (root, ".", "..") fall back
// to profile.yaml so the artifact always lands inside the temp dir.
func artifactName(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return profileEntry
	}
	switch base := path.Base(u.Path); base {
	case ".", "..", "/":
		return profileEntry
	default:
		return base
	}
}

// writeAtomic replaces path with content via a temp file in the same directory.
func writeAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	f, err := os.CreateTemp(dir, ".profile-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp profile: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(content); err != nil {
		f.Close()
		return fmt.Errorf("write temp profile: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Chmod(f.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}
