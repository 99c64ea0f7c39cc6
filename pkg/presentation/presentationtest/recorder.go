// Package presentationtest offers a recording factory and a contract suite
// for Factory implementations.
package presentationtest

import (
	"sync"

	"github.com/goliatone/go-payform/pkg/presentation"
)

// Call is one recorded factory invocation.
type Call struct {
	Op   string
	Args []string
}

// Recorder wraps a factory and records every call made through it.
type Recorder struct {
	presentation.Factory

	mu    sync.Mutex
	calls []Call
}

// NewRecorder wraps inner. A nil inner records against a plain themed
// factory with an empty palette.
func NewRecorder(inner presentation.Factory) *Recorder {
	if inner == nil {
		inner = presentation.NewThemed("recorder", presentation.Palette{})
	}
	return &Recorder{Factory: inner}
}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Ops returns the recorded operation names in order.
func (r *Recorder) Ops() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.calls))
	for _, c := range r.calls {
		out = append(out, c.Op)
	}
	return out
}

// Reset clears the recording.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.calls = nil
	r.mu.Unlock()
}

func (r *Recorder) record(op string, args ...string) {
	r.mu.Lock()
	r.calls = append(r.calls, Call{Op: op, Args: args})
	r.mu.Unlock()
}

func (r *Recorder) Button(content presentation.Content, onActivate func(), disabled bool) *presentation.Element {
	state := "enabled"
	if disabled {
		state = "disabled"
	}
	r.record("Button", content.Text, state)
	return r.Factory.Button(content, onActivate, disabled)
}

func (r *Recorder) TextField(placeholder, value string, onChange func(string)) *presentation.Element {
	r.record("TextField", placeholder, value)
	return r.Factory.TextField(placeholder, value, onChange)
}

func (r *Recorder) ChoiceField(options []presentation.Option, value string, onChange func(string)) *presentation.Element {
	args := make([]string, 0, len(options)+1)
	args = append(args, value)
	for _, opt := range options {
		args = append(args, opt.Value)
	}
	r.record("ChoiceField", args...)
	return r.Factory.ChoiceField(options, value, onChange)
}

func (r *Recorder) LabeledLine(label, value string, style *presentation.LineStyle) *presentation.Element {
	r.record("LabeledLine", label, value)
	return r.Factory.LabeledLine(label, value, style)
}

func (r *Recorder) Label(text string, style *presentation.LabelStyle) *presentation.Element {
	r.record("Label", text)
	return r.Factory.Label(text, style)
}

func (r *Recorder) Container(children ...*presentation.Element) *presentation.Element {
	r.record("Container")
	return r.Factory.Container(children...)
}

func (r *Recorder) DownloadTrigger(onActivate func()) *presentation.Element {
	r.record("DownloadTrigger")
	return r.Factory.DownloadTrigger(onActivate)
}
