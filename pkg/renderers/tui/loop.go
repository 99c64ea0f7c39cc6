package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-payform/pkg/presentation"
	"github.com/goliatone/go-payform/pkg/render"
)

// Menu entries appended after the view's own actions.
const (
	MenuRefresh = "Actualizar"
	MenuQuit    = "Salir"
)

const (
	pollInterval = 50 * time.Millisecond
	defaultWait  = 2 * time.Second
)

// Session is what the loop drives: a view to render and events by element id.
type Session interface {
	Render(ctx context.Context) (*presentation.Element, error)
	Activate(ctx context.Context, id string) (bool, error)
	Change(ctx context.Context, id, value string) error
}

// Loop prints the current view, offers its enabled controls as a menu and
// forwards the chosen event to the session.
type Loop struct {
	driver  PromptDriver
	theme   Theme
	toasts  Drainer
	pending func(ctx context.Context) bool
	updates <-chan struct{}
	wait    time.Duration
	text    Renderer
}

// NewLoop constructs a loop with the survey driver unless one is supplied.
func NewLoop(options ...Option) *Loop {
	l := &Loop{wait: defaultWait}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(l)
	}
	if l.driver == nil {
		l.driver = NewSurveyDriver(nil)
	}
	return l
}

type action struct {
	label string
	el    *presentation.Element
}

// Run loops until the operator quits, aborts, or ctx is done. Quitting returns
// nil; Ctrl+C returns ErrAborted.
func (l *Loop) Run(ctx context.Context, sess Session) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		root, err := sess.Render(ctx)
		if err != nil {
			return err
		}
		if err := l.draw(ctx, root); err != nil {
			return err
		}

		actions := collectActions(root)
		labels := make([]string, 0, len(actions)+2)
		for _, a := range actions {
			labels = append(labels, a.label)
		}
		labels = append(labels, MenuRefresh, MenuQuit)

		choice, err := l.driver.Select(ctx, SelectConfig{
			Message:      l.theme.PromptPrefix + "Acción",
			Options:      labels,
			DefaultIndex: 0,
		})
		if err != nil {
			return err
		}
		switch {
		case choice < 0 || choice >= len(labels):
			continue
		case labels[choice] == MenuQuit:
			return nil
		case labels[choice] == MenuRefresh:
			l.await(ctx)
			continue
		}

		if err := l.perform(ctx, sess, actions[choice].el, actions[choice].label); err != nil {
			if errors.Is(err, ErrAborted) || ctx.Err() != nil {
				return err
			}
			_ = l.driver.Info(ctx, l.theme.ErrorPrefix+err.Error())
		}
	}
}

func (l *Loop) draw(ctx context.Context, root *presentation.Element) error {
	var opts render.RenderOptions
	if l.toasts != nil {
		opts.Toasts = l.toasts.Drain()
	}
	out, err := l.text.Render(ctx, root, opts)
	if err != nil {
		return err
	}
	return l.driver.Info(ctx, l.theme.InfoPrefix+strings.TrimRight(string(out), "\n"))
}

func (l *Loop) perform(ctx context.Context, sess Session, el *presentation.Element, label string) error {
	switch el.Kind {
	case presentation.KindTextField:
		value, err := l.driver.Input(ctx, InputConfig{
			Message:     label,
			Default:     el.Value,
			Placeholder: el.Placeholder,
		})
		if err != nil {
			return err
		}
		return sess.Change(ctx, el.ID, value)
	case presentation.KindChoiceField:
		names := make([]string, 0, len(el.Options))
		current := 0
		for i, opt := range el.Options {
			names = append(names, opt.Label)
			if opt.Value == el.Value {
				current = i
			}
		}
		idx, err := l.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      names,
			DefaultIndex: current,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(el.Options) {
			return nil
		}
		return sess.Change(ctx, el.ID, el.Options[idx].Value)
	default:
		// no wait here: while a call is outstanding the view offers Cancelar
		_, err := sess.Activate(ctx, el.ID)
		return err
	}
}

// await backs the refresh entry: it blocks while an outstanding call is
// reported, up to the configured wait, so the redraw shows the result.
func (l *Loop) await(ctx context.Context) {
	if l.pending == nil {
		return
	}
	deadline := time.NewTimer(l.wait)
	defer deadline.Stop()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for l.pending(ctx) {
		select {
		case <-ctx.Done():
			return
		case <-deadline.C:
			return
		case <-l.updates:
		case <-ticker.C:
		}
	}
}

// collectActions lists enabled controls in view order. Fields are named after
// the label rendered before them.
func collectActions(root *presentation.Element) []action {
	var out []action
	lastLabel := ""
	root.Walk(func(el *presentation.Element) bool {
		switch el.Kind {
		case presentation.KindLabel:
			lastLabel = strings.TrimSuffix(el.Text, ":")
		case presentation.KindTextField:
			name := lastLabel
			if name == "" {
				name = el.Placeholder
			}
			out = append(out, action{label: fmt.Sprintf("%s: %s", name, el.Value), el: el})
		case presentation.KindChoiceField:
			current := el.Value
			if opt, ok := el.Selected(); ok {
				current = opt.Label
			}
			out = append(out, action{label: fmt.Sprintf("%s: %s", lastLabel, current), el: el})
		case presentation.KindButton:
			if !el.Disabled {
				out = append(out, action{label: "> " + el.Text, el: el})
			}
		case presentation.KindDownloadTrigger:
			out = append(out, action{label: "> Descargar " + el.Text, el: el})
		}
		return true
	})
	return out
}
