package form

import "errors"

// ErrUnknownField is returned when a change targets a key that the bound
// channel does not declare.
var ErrUnknownField = errors.New("form: unknown field")
