package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoActions is returned when a view offers nothing to interact with.
	ErrNoActions = errors.New("tui: view has no interactive elements")
)
