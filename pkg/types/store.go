package types

// Store is the capability set over a hierarchical namespace store (the
// Windows registry or anything shaped like it).
//
// Paths are backslash-separated and relative to the store root. Like the
// registry, path segments and value names match case-insensitively and keep
// the case they were created with. Implementations return *Error values so
// callers can branch with errors.Is.
type Store interface {
	// ListChildren returns the names of the direct children of path.
	// Fails with ErrNotFound if path is absent, ErrAccessDenied on permission failure.
	ListChildren(path string) ([]string, error)

	// ListValues returns every named value of path.
	// Same failure modes as ListChildren.
	ListValues(path string) ([]NamedValue, error)

	// GetValue returns one named value. Fails with ErrNotFound if the path
	// or the value is absent.
	GetValue(path, name string) (Value, error)

	// SetValue writes one named value, creating path (and its ancestors) if
	// absent. Fails with ErrAccessDenied, or ErrInvalidArgument if v does not
	// validate.
	SetValue(path, name string, v Value) error

	// DeletePath removes path together with its values.
	// Fails with ErrNotFound (callers treat as success) or ErrAccessDenied.
	DeletePath(path string) error

	// EnsurePath creates path and all missing ancestors. Idempotent.
	EnsurePath(path string) error
}
