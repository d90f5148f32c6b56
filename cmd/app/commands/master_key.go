package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	cryptoDomain "github.com/adminsuite/vault/internal/crypto/domain"
	cryptoService "github.com/adminsuite/vault/internal/crypto/service"
)

// RunCreateMasterKey generates a cryptographically secure 32-byte master key
// for record encryption. Key material is zeroed from memory after encoding.
//
// With a KMS key URI the master key is encrypted through the keeper and the
// output is the wrapped form (VAULT_MASTER_KEY_WRAPPED + KMS_KEY_URI). Without
// one the key is printed as plain base64 for VAULT_MASTER_KEY.
//
// Security: wrap the key with a cloud KMS in production (gcpkms, awskms,
// azurekeyvault). The base64key:// scheme is for local development only.
func RunCreateMasterKey(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	writer io.Writer,
	kmsKeyURI string,
) error {
	masterKey := make([]byte, cryptoDomain.MasterKeySize)
	if _, err := rand.Read(masterKey); err != nil {
		return fmt.Errorf("failed to generate master key: %w", err)
	}
	defer cryptoDomain.Zero(masterKey)

	if kmsKeyURI == "" {
		_, _ = fmt.Fprintln(writer, "# Master Key Configuration (plain mode)")
		_, _ = fmt.Fprintln(writer, "# Copy this environment variable to your .env file or secrets manager")
		_, _ = fmt.Fprintln(writer)
		_, _ = fmt.Fprintf(writer, "VAULT_MASTER_KEY=%q\n", base64.StdEncoding.EncodeToString(masterKey))
		return nil
	}

	keeperInterface, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeperInterface.Close(); closeErr != nil {
			_, _ = fmt.Fprintf(writer, "Warning: failed to close KMS keeper: %v\n", closeErr)
		}
	}()

	// The keeper abstraction only exposes Decrypt; wrapping needs the
	// Encrypt side of the underlying gocloud keeper.
	keeper, ok := keeperInterface.(interface {
		Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	})
	if !ok {
		return fmt.Errorf("KMS keeper does not support encryption")
	}

	ciphertext, err := keeper.Encrypt(ctx, masterKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt master key with KMS: %w", err)
	}

	_, _ = fmt.Fprintln(writer, "# Master Key Configuration (KMS mode)")
	_, _ = fmt.Fprintln(writer, "# Copy these environment variables to your .env file or secrets manager")
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=%q\n", kmsKeyURI)
	_, _ = fmt.Fprintf(writer, "VAULT_MASTER_KEY_WRAPPED=%q\n", base64.StdEncoding.EncodeToString(ciphertext))

	return nil
}
