// Package model defines the static metadata the notification form engine is
// built from: channels, field descriptors, choice options, and the typed value
// union stored in a form state. Descriptors are immutable once declared; the
// schema package owns the per-channel tables and the form package owns state.
package model
