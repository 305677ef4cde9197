package types

import "fmt"

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindNotFound        ErrKind = iota + 1 // missing path/value
	ErrKindAccessDenied                       // permission failure; fatal to the enclosing operation
	ErrKindInvalidArgument                    // unsupported value type or malformed argument
	ErrKindCorruptBackup                      // backup text could not be decoded
	ErrKindNoBackup                           // restore requested with nothing to restore
)

// String implements fmt.Stringer.
func (k ErrKind) String() string {
	switch k {
	case ErrKindNotFound:
		return "not found"
	case ErrKindAccessDenied:
		return "access denied"
	case ErrKindInvalidArgument:
		return "invalid argument"
	case ErrKindCorruptBackup:
		return "corrupt backup"
	case ErrKindNoBackup:
		return "no backup"
	default:
		return fmt.Sprintf("ErrKind(%d)", int(k))
	}
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind. Backends attach
// path detail to their errors, so matching is by category only.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is.
var (
	// ErrNotFound indicates a missing path or value.
	ErrNotFound = &Error{Kind: ErrKindNotFound, Msg: "not found"}
	// ErrAccessDenied indicates the store refused the operation.
	ErrAccessDenied = &Error{Kind: ErrKindAccessDenied, Msg: "access denied"}
	// ErrInvalidArgument indicates an unsupported value type or bad argument.
	ErrInvalidArgument = &Error{Kind: ErrKindInvalidArgument, Msg: "invalid argument"}
	// ErrCorruptBackup indicates backup data that cannot be decoded.
	ErrCorruptBackup = &Error{Kind: ErrKindCorruptBackup, Msg: "corrupt backup"}
	// ErrNoBackup indicates there is no backup unit to restore from.
	ErrNoBackup = &Error{Kind: ErrKindNoBackup, Msg: "no backup"}
)

// NotFound returns an ErrKindNotFound error naming what was missing.
func NotFound(format string, args ...any) error {
	return &Error{Kind: ErrKindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// AccessDenied returns an ErrKindAccessDenied error wrapping cause.
func AccessDenied(cause error, format string, args ...any) error {
	return &Error{Kind: ErrKindAccessDenied, Msg: fmt.Sprintf(format, args...), Err: cause}
}

// InvalidArgument returns an ErrKindInvalidArgument error.
func InvalidArgument(format string, args ...any) error {
	return &Error{Kind: ErrKindInvalidArgument, Msg: fmt.Sprintf(format, args...)}
}

// CorruptBackup returns an ErrKindCorruptBackup error wrapping cause.
func CorruptBackup(cause error, format string, args ...any) error {
	return &Error{Kind: ErrKindCorruptBackup, Msg: fmt.Sprintf(format, args...), Err: cause}
}

// NoBackup returns an ErrKindNoBackup error.
func NoBackup(format string, args ...any) error {
	return &Error{Kind: ErrKindNoBackup, Msg: fmt.Sprintf(format, args...)}
}
