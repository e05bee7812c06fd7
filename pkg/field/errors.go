package field

import "errors"

var (
	// ErrDuplicateField is returned when two inputs share a name.
	ErrDuplicateField = errors.New("field: duplicate name")
	// ErrUnknownField is returned when a name does not resolve to an input.
	ErrUnknownField = errors.New("field: unknown field")
	// ErrUnknownGroup is returned when a group has no members.
	ErrUnknownGroup = errors.New("field: unknown group")
	// ErrKindMismatch is returned when a rule or value does not fit the input kind.
	ErrKindMismatch = errors.New("field: kind mismatch")
	// ErrInvalidValue is returned when a value cannot be assigned to an input.
	ErrInvalidValue = errors.New("field: invalid value")
)
