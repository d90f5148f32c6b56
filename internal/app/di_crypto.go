package app

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	cryptoDomain "github.com/adminsuite/vault/internal/crypto/domain"
	cryptoService "github.com/adminsuite/vault/internal/crypto/service"
)

// MasterKey returns the process-wide master key, resolving it from the
// configuration on first access.
func (c *Container) MasterKey() (*cryptoDomain.MasterKey, error) {
	var err error
	c.masterKeyInit.Do(func() {
		c.masterKey, err = c.initMasterKey()
		if err != nil {
			c.initErrors["masterKey"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["masterKey"]; exists {
		return nil, storedErr
	}
	return c.masterKey, nil
}

// KMSService returns the KMS service used to unwrap KMS-encrypted master keys.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// SecretCipher returns the secret cipher bound to the master key.
func (c *Container) SecretCipher() (cryptoService.SecretCipher, error) {
	var err error
	c.secretCipherInit.Do(func() {
		c.secretCipher, err = c.initSecretCipher()
		if err != nil {
			c.initErrors["secretCipher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secretCipher"]; exists {
		return nil, storedErr
	}
	return c.secretCipher, nil
}

// initMasterKey resolves the master key from the configuration.
//
// Resolution order:
//  1. A KMS-wrapped key (VAULT_MASTER_KEY_WRAPPED + KMS_KEY_URI) is unwrapped
//     through the configured keeper.
//  2. A plain base64 key (VAULT_MASTER_KEY) is decoded directly.
//  3. With neither configured, an ephemeral key is generated and a warning is
//     logged: encrypted data will not survive a restart in that mode.
func (c *Container) initMasterKey() (*cryptoDomain.MasterKey, error) {
	logger := c.Logger()

	if c.config.MasterKeyWrapped != "" {
		if c.config.KMSKeyURI == "" {
			return nil, fmt.Errorf("VAULT_MASTER_KEY_WRAPPED is set but KMS_KEY_URI is empty")
		}

		wrapped, err := base64.StdEncoding.DecodeString(c.config.MasterKeyWrapped)
		if err != nil {
			return nil, fmt.Errorf("failed to decode wrapped master key: %w", err)
		}

		ctx := context.Background()
		keeper, err := c.KMSService().OpenKeeper(ctx, c.config.KMSKeyURI)
		if err != nil {
			return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
		}
		defer func() { _ = keeper.Close() }()

		key, err := keeper.Decrypt(ctx, wrapped)
		if err != nil {
			return nil, fmt.Errorf("failed to unwrap master key: %w", err)
		}

		masterKey, err := cryptoDomain.NewMasterKey(key)
		if err != nil {
			return nil, fmt.Errorf("unwrapped master key is invalid: %w", err)
		}

		logger.Info("master key unwrapped via KMS")
		return masterKey, nil
	}

	if c.config.MasterKey != "" {
		masterKey, err := cryptoDomain.DecodeMasterKey(c.config.MasterKey)
		if err != nil {
			return nil, fmt.Errorf("failed to decode master key: %w", err)
		}
		return masterKey, nil
	}

	masterKey, err := cryptoDomain.GenerateMasterKey()
	if err != nil {
		return nil, err
	}

	logger.Warn("no master key configured, generated an ephemeral key; " +
		"encrypted data will be unrecoverable after a restart")

	return masterKey, nil
}

// initSecretCipher creates the secret cipher, raising the KDF iteration count
// to the floor when configured below it.
func (c *Container) initSecretCipher() (cryptoService.SecretCipher, error) {
	masterKey, err := c.MasterKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get master key for secret cipher: %w", err)
	}

	iterations := c.config.KDFIterations
	if iterations < cryptoDomain.MinKDFIterations {
		c.Logger().Warn("KDF iteration count below the floor, raising it",
			slog.Int("configured", iterations),
			slog.Int("floor", cryptoDomain.MinKDFIterations),
		)
		iterations = cryptoDomain.MinKDFIterations
	}

	return cryptoService.NewSecretCipher(masterKey, iterations), nil
}
