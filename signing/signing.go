// Package signing signs and verifies result documents with Ed25519.
//
// Private keys are stored as the raw 64-byte seed||public-key form and
// public keys as the raw 32-byte form. Signatures are base64url without
// padding.
package signing

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// PrivateKeyFile is the file name GenerateKey uses for the private key.
	PrivateKeyFile = "threadstone.key"
	// PublicKeyFile is the file name GenerateKey uses for the public key.
	PublicKeyFile = "threadstone.pub"
)

var (
	// ErrInvalidSignature means a signature did not verify.
	ErrInvalidSignature = errors.New("invalid signature")
	// ErrUnsigned means the document carries no signature.
	ErrUnsigned = errors.New("document is not signed")
)

var encoding = base64.RawURLEncoding

// Sign signs msg with a 64-byte private key.
func Sign(msg []byte, key ed25519.PrivateKey) (string, error) {
	if len(key) != ed25519.PrivateKeySize {
		return "", fmt.Errorf("private key is %d bytes, want %d",
			len(key), ed25519.PrivateKeySize)
	}

	return encoding.EncodeToString(ed25519.Sign(key, msg)), nil
}

// Verify reports whether sig is a valid signature of msg by pub. Malformed
// input yields false.
func Verify(msg []byte, sig string, pub ed25519.PublicKey) bool {
	if len(pub) != ed25519.PublicKeySize {
		return false
	}

	raw, err := encoding.DecodeString(sig)
	if err != nil {
		return false
	}

	return ed25519.Verify(pub, msg, raw)
}

// GenerateKey writes a new key pair into dir and returns the paths of the
// private and public key files. The private key is readable by the owner
// only.
func GenerateKey(dir string) (privPath, pubPath string, err error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return "", "", fmt.Errorf("generate key: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create key dir: %w", err)
	}

	privPath = filepath.Join(dir, PrivateKeyFile)
	pubPath = filepath.Join(dir, PublicKeyFile)

	if err := os.WriteFile(privPath, priv, 0o600); err != nil {
		return "", "", fmt.Errorf("write private key: %w", err)
	}

	if err := os.WriteFile(pubPath, pub, 0o644); err != nil {
		return "", "", fmt.Errorf("write public key: %w", err)
	}

	return privPath, pubPath, nil
}

// LoadPrivateKey reads a raw 64-byte private key.
func LoadPrivateKey(path string) (ed25519.PrivateKey, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}

	if len(b) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("private key %s is %d bytes, want %d",
			path, len(b), ed25519.PrivateKeySize)
	}

	return ed25519.PrivateKey(b), nil
}

// LoadPublicKey reads a raw 32-byte public key.
func LoadPublicKey(path string) (ed25519.PublicKey, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}

	if len(b) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("public key %s is %d bytes, want %d",
			path, len(b), ed25519.PublicKeySize)
	}

	return ed25519.PublicKey(b), nil
}
