package session

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C) or quit.
	ErrAborted = errors.New("session: aborted")
	// ErrNoEntries is returned for a registry without any inputs.
	ErrNoEntries = errors.New("session: form has no inputs")
)
