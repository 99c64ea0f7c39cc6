package tui

import (
	"context"
	"time"

	"github.com/goliatone/go-payform/pkg/toast"
)

// Theme captures optional prefixes applied when printing. Keep minimal to
// avoid coupling the loop to ANSI specifics.
type Theme struct {
	PromptPrefix string
	InfoPrefix   string
	ErrorPrefix  string
}

// Drainer yields toasts accumulated since the last call.
type Drainer interface {
	Drain() []toast.Toast
}

// Option configures the terminal loop.
type Option func(*Loop)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(l *Loop) {
		if driver != nil {
			l.driver = driver
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(l *Loop) {
		l.theme = theme
	}
}

// WithToasts prints toasts drained from d after every action.
func WithToasts(d Drainer) Option {
	return func(l *Loop) {
		l.toasts = d
	}
}

// WithPending tells the loop how to detect an outstanding backend call.
// Choosing the refresh entry waits up to timeout for pending to turn false
// before redrawing. Actions never wait, so a pending view stays cancellable.
func WithPending(pending func(ctx context.Context) bool, timeout time.Duration) Option {
	return func(l *Loop) {
		l.pending = pending
		if timeout > 0 {
			l.wait = timeout
		}
	}
}

// WithUpdates ends a refresh wait as soon as a value arrives on ch instead of
// polling.
func WithUpdates(ch <-chan struct{}) Option {
	return func(l *Loop) {
		l.updates = ch
	}
}
