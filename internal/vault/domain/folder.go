package domain

import (
	"time"

	"github.com/google/uuid"
)

// Folder groups secret records and carries its own share grants.
//
// A folder's grants act as a template: when a record is created inside the
// folder, the grants in force at that moment are copied onto the record
// (restricted to record capabilities). Later edits to the folder's grants do
// not retroactively change records created earlier.
type Folder struct {
	// ID is the unique identifier of the folder.
	ID uuid.UUID
	// Name is the display name of the folder.
	Name string
	// OwnerID is the principal that created and owns the folder.
	OwnerID uuid.UUID
	// ParentID references the parent folder (nil for a root folder).
	ParentID *uuid.UUID
	// CreatedAt is the UTC timestamp when the folder was created.
	CreatedAt time.Time
	// UpdatedAt is the UTC timestamp of the last mutation.
	UpdatedAt time.Time
}

// ResourceID returns the folder id for authorization decisions.
func (f *Folder) ResourceID() uuid.UUID { return f.ID }

// ResourceOwnerID returns the owning principal for authorization decisions.
func (f *Folder) ResourceOwnerID() uuid.UUID { return f.OwnerID }

// Kind returns FolderKind.
func (f *Folder) Kind() ResourceKind { return FolderKind }

// Resource is the common view the authorizer takes of secret records and
// folders: identity, ownership, and kind.
type Resource interface {
	ResourceID() uuid.UUID
	ResourceOwnerID() uuid.UUID
	Kind() ResourceKind
}
