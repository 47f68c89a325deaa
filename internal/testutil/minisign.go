// Package testutil holds helpers shared by package tests.
package testutil

import (
	"crypto/ed25519"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// MinisignKey is a throwaway minisign key pair for signing test fixtures.
type MinisignKey struct {
	id      [8]byte
	private ed25519.PrivateKey
	// PublicKeyPath is a minisign .pub file for the key, inside t.TempDir().
	PublicKeyPath string
}

// NewMinisignKey generates a key and writes its public half in minisign's
// file format.
func NewMinisignKey(t *testing.T) *MinisignKey {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	k := &MinisignKey{id: [8]byte{1, 2, 3, 4, 5, 6, 7, 8}, private: priv}

	raw := append([]byte("Ed"), k.id[:]...)
	raw = append(raw, pub...)
	body := "untrusted comment: minisign public key\n" + base64.StdEncoding.EncodeToString(raw) + "\n"

	k.PublicKeyPath = filepath.Join(t.TempDir(), "minisign.pub")
	require.NoError(t, os.WriteFile(k.PublicKeyPath, []byte(body), 0o644))
	return k
}

// Sign returns a legacy (non-prehashed) minisign signature of content.
func (k *MinisignKey) Sign(content []byte) []byte {
	sig := ed25519.Sign(k.private, content)

	raw := append([]byte("Ed"), k.id[:]...)
	raw = append(raw, sig...)

	trusted := "timestamp:1760000000\tfile:profile.yaml"
	global := ed25519.Sign(k.private, append(append([]byte{}, sig...), trusted...))

	return []byte("untrusted comment: signature from test key\n" +
		base64.StdEncoding.EncodeToString(raw) + "\n" +
		"trusted comment: " + trusted + "\n" +
		base64.StdEncoding.EncodeToString(global) + "\n")
}
