package fetch

import (
	"errors"
	"fmt"

	"github.com/jedisct1/go-minisign"
)

// ErrBadSignature is returned when a minisign signature does not match the content.
var ErrBadSignature = errors.New("minisign: signature verification failed")

// VerifyMinisign checks content against a minisign signature (the full .minisig
// text) using the public key stored in pubKeyPath.
func VerifyMinisign(content, sig []byte, pubKeyPath string) error {
	pubKey, err := minisign.NewPublicKeyFromFile(pubKeyPath)
	if err != nil {
		return fmt.Errorf("read minisign pubkey: %w", err)
	}

	signature, err := minisign.DecodeSignature(string(sig))
	if err != nil {
		return fmt.Errorf("decode minisign signature: %w", err)
	}

	valid, err := pubKey.Verify(content, signature)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	}
	if !valid {
		return ErrBadSignature
	}
	return nil
}
