package domain

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSecret() EncryptedSecret {
	return EncryptedSecret{
		Ciphertext: []byte("opaque-ciphertext-bytes"),
		IV:         bytes.Repeat([]byte{0xAB}, IVSize),
		Salt:       bytes.Repeat([]byte{0xCD}, SaltSize),
		AuthTag:    bytes.Repeat([]byte{0xEF}, AuthTagSize),
	}
}

func TestEncryptedSecret_SerializeRoundTrip(t *testing.T) {
	original := validSecret()

	raw, err := original.Serialize()
	require.NoError(t, err)

	decoded, err := DeserializeSecret(raw)
	require.NoError(t, err)

	assert.Equal(t, original.Ciphertext, decoded.Ciphertext)
	assert.Equal(t, original.IV, decoded.IV)
	assert.Equal(t, original.Salt, decoded.Salt)
	assert.Equal(t, original.AuthTag, decoded.AuthTag)
}

func TestEncryptedSecret_SerializeRoundTrip_EmptyCiphertext(t *testing.T) {
	original := validSecret()
	original.Ciphertext = []byte{}

	raw, err := original.Serialize()
	require.NoError(t, err)

	decoded, err := DeserializeSecret(raw)
	require.NoError(t, err)
	assert.Empty(t, decoded.Ciphertext)
}

func TestDeserializeSecret_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"NotJSON", "definitely not json"},
		{"EmptyString", ""},
		{"EmptyObject", "{}"},
		{"InvalidBase64", `{"ciphertext":"!!!","iv":"","salt":"","auth_tag":""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DeserializeSecret(tt.raw)
			assert.ErrorIs(t, err, ErrMalformedSecret)
		})
	}
}

func TestDeserializeSecret_WrongFieldLengths(t *testing.T) {
	secret := validSecret()
	secret.Salt = secret.Salt[:16] // too short

	raw, err := json.Marshal(map[string]string{
		"ciphertext": base64.StdEncoding.EncodeToString(secret.Ciphertext),
		"iv":         base64.StdEncoding.EncodeToString(secret.IV),
		"salt":       base64.StdEncoding.EncodeToString(secret.Salt),
		"auth_tag":   base64.StdEncoding.EncodeToString(secret.AuthTag),
	})
	require.NoError(t, err)

	_, err = DeserializeSecret(string(raw))
	assert.ErrorIs(t, err, ErrMalformedSecret)
}

func TestEncryptedSecret_Validate(t *testing.T) {
	assert.NoError(t, validSecret().Validate())

	truncatedIV := validSecret()
	truncatedIV.IV = truncatedIV.IV[:4]
	assert.ErrorIs(t, truncatedIV.Validate(), ErrMalformedSecret)

	missingTag := validSecret()
	missingTag.AuthTag = nil
	assert.ErrorIs(t, missingTag.Validate(), ErrMalformedSecret)
}
