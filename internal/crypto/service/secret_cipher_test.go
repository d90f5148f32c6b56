package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/adminsuite/vault/internal/crypto/domain"
)

// testIterations keeps the deliberately slow KDF fast enough for unit tests.
const testIterations = 1000

func newTestCipher(t *testing.T) SecretCipher {
	t.Helper()

	masterKey, err := cryptoDomain.GenerateMasterKey()
	require.NoError(t, err)

	return NewSecretCipher(masterKey, testIterations)
}

func TestSecretCipher_RoundTrip(t *testing.T) {
	cipher := newTestCipher(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		plaintext string
	}{
		{"Simple", "hunter2"},
		{"Empty", ""},
		{"Unicode", "pässwörd-日本語-🔐"},
		{"WithNullBytes", "before\x00after"},
		{"VeryLong", strings.Repeat("correct horse battery staple ", 10000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encrypted, err := cipher.Encrypt(ctx, tt.plaintext)
			require.NoError(t, err)

			decrypted, err := cipher.Decrypt(ctx, encrypted)
			require.NoError(t, err)
			assert.Equal(t, tt.plaintext, decrypted)
		})
	}
}

func TestSecretCipher_Encrypt_FieldSizes(t *testing.T) {
	cipher := newTestCipher(t)

	encrypted, err := cipher.Encrypt(context.Background(), "value")
	require.NoError(t, err)

	assert.Len(t, encrypted.Salt, cryptoDomain.SaltSize)
	assert.Len(t, encrypted.IV, cryptoDomain.IVSize)
	assert.Len(t, encrypted.AuthTag, cryptoDomain.AuthTagSize)
	assert.Len(t, encrypted.Ciphertext, len("value"))
}

func TestSecretCipher_Encrypt_Freshness(t *testing.T) {
	cipher := newTestCipher(t)
	ctx := context.Background()

	first, err := cipher.Encrypt(ctx, "same plaintext")
	require.NoError(t, err)

	second, err := cipher.Encrypt(ctx, "same plaintext")
	require.NoError(t, err)

	// Salt and IV must be freshly random on every call; ciphertext follows.
	assert.NotEqual(t, first.Salt, second.Salt)
	assert.NotEqual(t, first.IV, second.IV)
	assert.NotEqual(t, first.Ciphertext, second.Ciphertext)
}

func TestSecretCipher_Decrypt_TamperDetection(t *testing.T) {
	cipher := newTestCipher(t)
	ctx := context.Background()

	encrypted, err := cipher.Encrypt(ctx, "tamper target")
	require.NoError(t, err)

	t.Run("FlippedCiphertextBit", func(t *testing.T) {
		tampered := encrypted
		tampered.Ciphertext = append([]byte(nil), encrypted.Ciphertext...)
		tampered.Ciphertext[0] ^= 0x01

		_, err := cipher.Decrypt(ctx, tampered)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("FlippedAuthTagBit", func(t *testing.T) {
		tampered := encrypted
		tampered.AuthTag = append([]byte(nil), encrypted.AuthTag...)
		tampered.AuthTag[cryptoDomain.AuthTagSize-1] ^= 0x80

		_, err := cipher.Decrypt(ctx, tampered)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("FlippedSaltBit", func(t *testing.T) {
		tampered := encrypted
		tampered.Salt = append([]byte(nil), encrypted.Salt...)
		tampered.Salt[10] ^= 0x04

		_, err := cipher.Decrypt(ctx, tampered)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})
}

func TestSecretCipher_Decrypt_WrongKey(t *testing.T) {
	ctx := context.Background()

	encrypted, err := newTestCipher(t).Encrypt(ctx, "keyed to another master")
	require.NoError(t, err)

	otherCipher := newTestCipher(t)
	_, err = otherCipher.Decrypt(ctx, encrypted)
	assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
}

func TestSecretCipher_Decrypt_MalformedFields(t *testing.T) {
	cipher := newTestCipher(t)
	ctx := context.Background()

	encrypted, err := cipher.Encrypt(ctx, "value")
	require.NoError(t, err)

	t.Run("TruncatedIV", func(t *testing.T) {
		malformed := encrypted
		malformed.IV = encrypted.IV[:8]

		_, err := cipher.Decrypt(ctx, malformed)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("EmptySalt", func(t *testing.T) {
		malformed := encrypted
		malformed.Salt = nil

		_, err := cipher.Decrypt(ctx, malformed)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("MissingAuthTag", func(t *testing.T) {
		malformed := encrypted
		malformed.AuthTag = nil

		_, err := cipher.Decrypt(ctx, malformed)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})
}

func TestSecretCipher_DifferentIterationCountsAreIncompatible(t *testing.T) {
	ctx := context.Background()

	masterKey, err := cryptoDomain.GenerateMasterKey()
	require.NoError(t, err)

	encrypted, err := NewSecretCipher(masterKey, testIterations).Encrypt(ctx, "value")
	require.NoError(t, err)

	// Same master key, different KDF cost: derived keys differ, so the tag
	// cannot validate.
	_, err = NewSecretCipher(masterKey, testIterations*2).Decrypt(ctx, encrypted)
	assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
}
