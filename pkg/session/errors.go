package session

import "errors"

var (
	// ErrClosed is returned once the event loop has stopped.
	ErrClosed = errors.New("session: closed")
	// ErrUnknownElement is returned when an event targets an id absent from
	// the last rendered view.
	ErrUnknownElement = errors.New("session: unknown element")
	// ErrRunning is returned when Run is called twice.
	ErrRunning = errors.New("session: already running")
)
