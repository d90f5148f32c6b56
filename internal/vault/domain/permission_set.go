package domain

// PermissionSet is the closed set of capability flags carried by a share grant.
//
// Modeling the flags as struct fields rather than a string-keyed map means an
// undefined capability name cannot be granted at all: there is no field for it.
type PermissionSet struct {
	View       bool
	Edit       bool
	Delete     bool
	Share      bool
	AddSecrets bool
}

// Has reports whether the capability flag is set.
func (p PermissionSet) Has(c Capability) bool {
	switch c {
	case ViewCapability:
		return p.View
	case EditCapability:
		return p.Edit
	case DeleteCapability:
		return p.Delete
	case ShareCapability:
		return p.Share
	case AddSecretsCapability:
		return p.AddSecrets
	default:
		return false
	}
}

// Empty reports whether no capability flag is set.
func (p PermissionSet) Empty() bool {
	return p == PermissionSet{}
}

// RestrictTo intersects the set with the capabilities grantable for the given
// resource kind. The folder-to-record share cascade uses this to copy a
// folder grant onto a new secret record: folder-only flags (delete,
// addSecrets) are dropped rather than smuggled onto the record.
func (p PermissionSet) RestrictTo(kind ResourceKind) PermissionSet {
	restricted := PermissionSet{}
	if p.View && kind.Grantable(ViewCapability) {
		restricted.View = true
	}
	if p.Edit && kind.Grantable(EditCapability) {
		restricted.Edit = true
	}
	if p.Delete && kind.Grantable(DeleteCapability) {
		restricted.Delete = true
	}
	if p.Share && kind.Grantable(ShareCapability) {
		restricted.Share = true
	}
	if p.AddSecrets && kind.Grantable(AddSecretsCapability) {
		restricted.AddSecrets = true
	}
	return restricted
}

// Validate reports whether every set flag is grantable for the resource kind.
func (p PermissionSet) Validate(kind ResourceKind) error {
	if p != p.RestrictTo(kind) {
		return ErrCapabilityNotGrantable
	}
	return nil
}
