package usecase

import (
	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	customValidation "github.com/adminsuite/vault/internal/validation"
)

// CreateSecretRecordInput contains the parameters for creating a secret record.
type CreateSecretRecordInput struct {
	OwnerID  uuid.UUID
	FolderID *uuid.UUID
	Title    string
	Username string
	URL      string
	Notes    string
	Tags     []string
	Favorite bool
	// Value is the plaintext secret. It is encrypted before storage and
	// never persisted as-is.
	Value string
}

// Validate checks if the create secret record input is valid.
func (i *CreateSecretRecordInput) Validate() error {
	err := validation.ValidateStruct(i,
		validation.Field(&i.OwnerID, validation.Required),
		validation.Field(&i.Title,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&i.Username, validation.Length(0, 255)),
		validation.Field(&i.URL, validation.Length(0, 2048)),
		validation.Field(&i.Notes, validation.Length(0, 10000)),
		validation.Field(&i.Tags, validation.Each(customValidation.Tag)),
	)
	return customValidation.WrapValidationError(err)
}

// UpdateSecretRecordInput contains the parameters for a partial secret record
// update. Nil fields are left unchanged.
type UpdateSecretRecordInput struct {
	Title    *string
	Username *string
	URL      *string
	Notes    *string
	Tags     []string
	Favorite *bool
	// Value replaces the stored secret; it is re-encrypted under a fresh
	// salt and IV.
	Value *string
	// FolderID moves the record into another folder. Requires the
	// addSecrets capability on the target folder.
	FolderID *uuid.UUID
}

// Validate checks if the update secret record input is valid.
func (i *UpdateSecretRecordInput) Validate() error {
	err := validation.ValidateStruct(i,
		validation.Field(&i.Title, validation.By(notBlankPtr), validation.Length(1, 255)),
		validation.Field(&i.Username, validation.Length(0, 255)),
		validation.Field(&i.URL, validation.Length(0, 2048)),
		validation.Field(&i.Notes, validation.Length(0, 10000)),
		validation.Field(&i.Tags, validation.Each(customValidation.Tag)),
	)
	return customValidation.WrapValidationError(err)
}

// CreateFolderInput contains the parameters for creating a folder.
type CreateFolderInput struct {
	OwnerID  uuid.UUID
	Name     string
	ParentID *uuid.UUID
}

// Validate checks if the create folder input is valid.
func (i *CreateFolderInput) Validate() error {
	err := validation.ValidateStruct(i,
		validation.Field(&i.OwnerID, validation.Required),
		validation.Field(&i.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
	)
	return customValidation.WrapValidationError(err)
}

// UpdateFolderInput contains the parameters for renaming a folder.
type UpdateFolderInput struct {
	Name string
}

// Validate checks if the update folder input is valid.
func (i *UpdateFolderInput) Validate() error {
	err := validation.ValidateStruct(i,
		validation.Field(&i.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
	)
	return customValidation.WrapValidationError(err)
}

// notBlankPtr applies the NotBlank rule to optional string fields.
func notBlankPtr(value interface{}) error {
	s, ok := value.(*string)
	if !ok || s == nil {
		return nil
	}
	return customValidation.NotBlank.Validate(*s)
}
