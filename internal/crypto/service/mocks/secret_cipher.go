// Package mocks provides mock implementations for cryptographic services.
package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/adminsuite/vault/internal/crypto/domain"
)

// MockSecretCipher is a mock implementation of SecretCipher for testing.
type MockSecretCipher struct {
	mock.Mock
}

// NewMockSecretCipher creates a MockSecretCipher that asserts its
// expectations when the test finishes.
func NewMockSecretCipher(t *testing.T) *MockSecretCipher {
	m := &MockSecretCipher{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Encrypt mocks the Encrypt method of SecretCipher.
func (m *MockSecretCipher) Encrypt(ctx context.Context, plaintext string) (cryptoDomain.EncryptedSecret, error) {
	args := m.Called(ctx, plaintext)
	return args.Get(0).(cryptoDomain.EncryptedSecret), args.Error(1)
}

// Decrypt mocks the Decrypt method of SecretCipher.
func (m *MockSecretCipher) Decrypt(ctx context.Context, secret cryptoDomain.EncryptedSecret) (string, error) {
	args := m.Called(ctx, secret)
	return args.String(0), args.Error(1)
}
