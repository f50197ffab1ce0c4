package signing

import (
	"crypto/ed25519"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerify(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	msg := []byte(`{"workload":"dhrystone"}`)

	sig, err := Sign(msg, priv)
	require.NoError(t, err)

	assert.NotContains(t, sig, "=")
	assert.NotContains(t, sig, "+")
	assert.NotContains(t, sig, "/")

	assert.True(t, Verify(msg, sig, pub))
	assert.False(t, Verify([]byte("tampered"), sig, pub))
}

func TestSignRejectsShortKey(t *testing.T) {
	_, err := Sign([]byte("x"), make([]byte, 32))
	require.Error(t, err)
}

func TestVerifyMalformed(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	msg := []byte("payload")
	sig, err := Sign(msg, priv)
	require.NoError(t, err)

	tests := []struct {
		name string
		sig  string
		pub  ed25519.PublicKey
	}{
		{"bad base64", "!!!not base64!!!", pub},
		{"padded", sig + "==", pub},
		{"truncated", sig[:10], pub},
		{"short key", sig, pub[:16]},
		{"empty", "", pub},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, Verify(msg, tt.sig, tt.pub))
		})
	}
}

func TestGenerateAndLoadKey(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "keys")

	privPath, pubPath, err := GenerateKey(dir)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(privPath, PrivateKeyFile))
	assert.True(t, strings.HasSuffix(pubPath, PublicKeyFile))

	info, err := os.Stat(privPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	priv, err := LoadPrivateKey(privPath)
	require.NoError(t, err)
	pub, err := LoadPublicKey(pubPath)
	require.NoError(t, err)

	// The private key embeds its public half.
	assert.Equal(t, pub, priv.Public())

	sig, err := Sign([]byte("hello"), priv)
	require.NoError(t, err)
	assert.True(t, Verify([]byte("hello"), sig, pub))
}

func TestLoadKeyWrongSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.key")
	require.NoError(t, os.WriteFile(path, []byte("short"), 0o600))

	_, err := LoadPrivateKey(path)
	require.Error(t, err)
	_, err = LoadPublicKey(path)
	require.Error(t, err)
}

func TestLoadKeyMissing(t *testing.T) {
	_, err := LoadPrivateKey(filepath.Join(t.TempDir(), "nope"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
