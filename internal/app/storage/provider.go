// Package storage defines the capability interface for enumerating
// storage locations and managing durable access grants. The engine
// consumes this interface; it never implements filesystem primitives
// itself.
package storage

// Entry is one child of a listed location.
type Entry struct {
	Name        string
	Location    string
	IsDirectory bool
	MediaType   string // declared media type, empty when unknown
}

// Provider grants and enumerates access to storage locations.
// Location tokens are opaque and stable across restarts. The tree of
// locations is assumed to be a strict tree, not a graph; callers rely
// on that for cycle-free recursion.
type Provider interface {
	// List returns the children of location.
	List(location string) ([]Entry, error)

	// GrantAccess makes location durably readable.
	GrantAccess(location string) error

	// RevokeAccess releases a previous grant. Revoking an unknown
	// location is not an error.
	RevokeAccess(location string) error

	// CanRead reports whether location is currently readable.
	CanRead(location string) bool
}
