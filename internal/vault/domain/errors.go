package domain

import (
	"github.com/adminsuite/vault/internal/errors"
)

// Vault-specific error definitions.
var (
	// ErrSecretRecordNotFound indicates no secret record exists with the given id.
	ErrSecretRecordNotFound = errors.Wrap(errors.ErrNotFound, "secret record not found")

	// ErrFolderNotFound indicates no folder exists with the given id.
	ErrFolderNotFound = errors.Wrap(errors.ErrNotFound, "folder not found")

	// ErrShareGrantNotFound indicates no share grant exists for the
	// (resource, grantee) pair.
	ErrShareGrantNotFound = errors.Wrap(errors.ErrNotFound, "share grant not found")

	// ErrAccessDenied indicates the principal may not perform the requested
	// action on the resource.
	ErrAccessDenied = errors.Wrap(errors.ErrForbidden, "access denied")

	// ErrCapabilityNotGrantable indicates a permission set carries a flag the
	// resource kind does not allow in share grants (e.g. delete on a secret record).
	ErrCapabilityNotGrantable = errors.Wrap(errors.ErrInvalidInput, "capability not grantable for resource")

	// ErrGranteeIsOwner indicates an attempt to share a resource with its owner,
	// who already holds every capability implicitly.
	ErrGranteeIsOwner = errors.Wrap(errors.ErrInvalidInput, "grantee already owns the resource")

	// ErrSignatureInvalid indicates an access log entry's signature does not
	// match its contents (tampering or wrong signing key).
	ErrSignatureInvalid = errors.New("access log signature invalid")
)
