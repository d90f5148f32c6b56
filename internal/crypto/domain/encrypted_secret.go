package domain

import (
	"encoding/base64"
	"encoding/json"
)

// EncryptedSecret is the at-rest representation of one secret value.
//
// Salt and IV are freshly random on every encryption call and are never reused
// across records or across re-encryptions of the same record. The AuthTag is
// produced by the AEAD mode; decryption fails closed when it does not validate.
type EncryptedSecret struct {
	// Ciphertext contains the encrypted payload (auth tag stripped).
	Ciphertext []byte
	// IV is the random initialization vector, unique per encryption operation.
	IV []byte
	// Salt is the random PBKDF2 salt, unique per encryption operation.
	Salt []byte
	// AuthTag is the GCM authentication tag used to detect tampering.
	AuthTag []byte
}

// serializedSecret is the storage-layer encoding of an EncryptedSecret.
// Fields are base64 so the whole value round-trips through a text column.
type serializedSecret struct {
	Ciphertext string `json:"ciphertext"`
	IV         string `json:"iv"`
	Salt       string `json:"salt"`
	AuthTag    string `json:"auth_tag"`
}

// Serialize encodes the secret as a lossless JSON/base64 string for storage.
// It carries no security logic of its own; the fields remain opaque ciphertext.
func (e EncryptedSecret) Serialize() (string, error) {
	raw, err := json.Marshal(serializedSecret{
		Ciphertext: base64.StdEncoding.EncodeToString(e.Ciphertext),
		IV:         base64.StdEncoding.EncodeToString(e.IV),
		Salt:       base64.StdEncoding.EncodeToString(e.Salt),
		AuthTag:    base64.StdEncoding.EncodeToString(e.AuthTag),
	})
	if err != nil {
		return "", ErrMalformedSecret
	}
	return string(raw), nil
}

// DeserializeSecret decodes a string produced by Serialize.
//
// It fails loudly on malformed input rather than returning a partially-populated
// structure: every field must decode and the fixed-length fields must have their
// exact expected lengths.
func DeserializeSecret(raw string) (EncryptedSecret, error) {
	var enc serializedSecret
	if err := json.Unmarshal([]byte(raw), &enc); err != nil {
		return EncryptedSecret{}, ErrMalformedSecret
	}

	ciphertext, err := base64.StdEncoding.DecodeString(enc.Ciphertext)
	if err != nil {
		return EncryptedSecret{}, ErrMalformedSecret
	}
	iv, err := base64.StdEncoding.DecodeString(enc.IV)
	if err != nil {
		return EncryptedSecret{}, ErrMalformedSecret
	}
	salt, err := base64.StdEncoding.DecodeString(enc.Salt)
	if err != nil {
		return EncryptedSecret{}, ErrMalformedSecret
	}
	authTag, err := base64.StdEncoding.DecodeString(enc.AuthTag)
	if err != nil {
		return EncryptedSecret{}, ErrMalformedSecret
	}

	secret := EncryptedSecret{Ciphertext: ciphertext, IV: iv, Salt: salt, AuthTag: authTag}
	if err := secret.Validate(); err != nil {
		return EncryptedSecret{}, err
	}

	return secret, nil
}

// Validate checks that the fixed-length fields have their expected sizes.
// Ciphertext length is not constrained (empty plaintext yields empty ciphertext).
func (e EncryptedSecret) Validate() error {
	if len(e.IV) != IVSize || len(e.Salt) != SaltSize || len(e.AuthTag) != AuthTagSize {
		return ErrMalformedSecret
	}
	return nil
}
