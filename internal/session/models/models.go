// Package models holds the identity types owned by the session manager.
package models

// Identity is the authenticated user record. It is either fully absent
// (signed out) or fully present with a non-empty ID; no partially
// authenticated state is visible outside the session manager.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo,omitempty"`
}

// Present reports whether the identity is the authenticated state.
func (i Identity) Present() bool {
	return i.ID != ""
}

// Absent is the signed-out identity value.
var Absent = Identity{}

// IdentityRecordVersion tags the durable identity record so future field
// additions do not silently break restore's malformed-record tolerance.
const IdentityRecordVersion = 1

// IdentityRecord is the serialized form persisted to durable storage under
// the session key.
type IdentityRecord struct {
	SchemaVersion int      `json:"schema_version"`
	Provider      string   `json:"provider"`
	Identity      Identity `json:"identity"`
}
