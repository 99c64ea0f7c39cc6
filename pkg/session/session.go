// Package session coordinates the payment flow: payment entry, summary,
// notification form and report overlay. All state is owned by a single event
// loop goroutine; transports post events to it and backend calls report back
// to it, so no locks guard the screen state.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/goliatone/go-payform/pkg/backend"
	"github.com/goliatone/go-payform/pkg/form"
	"github.com/goliatone/go-payform/pkg/invoice"
	"github.com/goliatone/go-payform/pkg/model"
	"github.com/goliatone/go-payform/pkg/presentation"
	"github.com/goliatone/go-payform/pkg/pricing"
	"github.com/goliatone/go-payform/pkg/toast"
)

// Screen identifies the active view.
type Screen string

const (
	ScreenEntry        Screen = "entry"
	ScreenSummary      Screen = "summary"
	ScreenNotification Screen = "notification"
	ScreenReport       Screen = "report"
)

// Backend is the subset of the backend client the session calls.
type Backend interface {
	Pay(ctx context.Context, req backend.PaymentRequest) (decimal.Decimal, error)
	Notify(ctx context.Context, req backend.NotificationRequest) error
	Report(ctx context.Context, req backend.ReportRequest) ([]byte, error)
}

// Option customises a Session.
type Option func(*Session)

// WithEngine sets the form engine.
func WithEngine(engine *form.Engine) Option {
	return func(s *Session) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// WithPricing sets the table used for the displayed tax.
func WithPricing(table *pricing.Table) Option {
	return func(s *Session) {
		if table != nil {
			s.table = table
		}
	}
}

// WithNotifier sets the toast collaborator.
func WithNotifier(n toast.Notifier) Option {
	return func(s *Session) {
		if n != nil {
			s.toasts = n
		}
	}
}

// WithSaver sets where downloaded PDFs go.
func WithSaver(saver Saver) Option {
	return func(s *Session) {
		if saver != nil {
			s.saver = saver
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used on local invoices.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithOnUpdate registers fn to run on the loop whenever an asynchronous
// result changes the state. Transports use it to redraw.
func WithOnUpdate(fn func()) Option {
	return func(s *Session) {
		s.onUpdate = fn
	}
}

type pendingCall struct {
	kind   string
	gen    uint64
	cancel context.CancelFunc
}

// Session is one operator's run through the payment flow.
type Session struct {
	engine   *form.Engine
	backend  Backend
	table    *pricing.Table
	toasts   toast.Notifier
	saver    Saver
	logger   *zap.Logger
	now      func() time.Time
	onUpdate func()

	events  chan func()
	stop    chan struct{}
	done    chan struct{}
	runOnce sync.Once
	stopped sync.Once

	// Owned by the loop goroutine.
	ctx       context.Context
	factory   presentation.Factory
	screen    Screen
	entry     PaymentEntry
	channel   model.Channel
	invoice   *invoice.Invoice
	formState form.State
	report    invoice.ReportConfig
	pending   *pendingCall
	gen       uint64
	index     map[string]*presentation.Element
}

// New constructs a session drawing through factory and calling be. Run must
// be called for events to be processed.
func New(factory presentation.Factory, be Backend, options ...Option) *Session {
	s := &Session{
		engine:  form.NewEngine(),
		backend: be,
		table:   pricing.DefaultTable(),
		toasts:  toast.NewLog(nil),
		saver:   DirSaver("."),
		logger:  zap.NewNop(),
		now:     time.Now,
		events:  make(chan func(), 64),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
		factory: factory,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	s.resetFlow()
	return s
}

// Run processes events until ctx is done or Close is called. Outstanding
// backend calls are cancelled on return.
func (s *Session) Run(ctx context.Context) error {
	started := false
	s.runOnce.Do(func() { started = true })
	if !started {
		return ErrRunning
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.ctx = loopCtx
	defer func() {
		cancel()
		s.stopped.Do(func() { close(s.stop) })
		close(s.done)
	}()

	for {
		select {
		case fn := <-s.events:
			fn()
		case <-s.stop:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close stops the loop.
func (s *Session) Close() {
	s.stopped.Do(func() { close(s.stop) })
}

// Done is closed once Run has returned.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) post(fn func()) error {
	select {
	case <-s.stop:
		return ErrClosed
	default:
	}
	select {
	case s.events <- fn:
		return nil
	case <-s.stop:
		return ErrClosed
	}
}

// Do runs fn on the loop and waits for it to finish.
func (s *Session) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if err := s.post(func() {
		defer close(finished)
		fn()
	}); err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return ErrClosed
	}
}

// Render builds the active screen and indexes it. Ids in the returned tree
// are valid for Activate and Change until the next Render.
func (s *Session) Render(ctx context.Context) (*presentation.Element, error) {
	var root *presentation.Element
	err := s.Do(ctx, func() {
		root = s.build()
		s.index = presentation.Index(root)
	})
	return root, err
}

// Activate fires the element with id from the last rendered view. It reports
// whether a callback ran; disabled elements never fire.
func (s *Session) Activate(ctx context.Context, id string) (bool, error) {
	var fired bool
	var lookupErr error
	err := s.Do(ctx, func() {
		el, ok := s.index[id]
		if !ok {
			lookupErr = ErrUnknownElement
			return
		}
		fired = el.Activate()
	})
	if err != nil {
		return false, err
	}
	return fired, lookupErr
}

// Change forwards value to the element with id from the last rendered view.
func (s *Session) Change(ctx context.Context, id, value string) error {
	var lookupErr error
	err := s.Do(ctx, func() {
		el, ok := s.index[id]
		if !ok {
			lookupErr = ErrUnknownElement
			return
		}
		el.Change(value)
	})
	if err != nil {
		return err
	}
	return lookupErr
}

// SetFactory swaps the presentation variant. Screen state is untouched.
func (s *Session) SetFactory(ctx context.Context, factory presentation.Factory) error {
	return s.Do(ctx, func() {
		if factory != nil {
			s.factory = factory
		}
	})
}

// Snapshot is a copy of the session state for inspection.
type Snapshot struct {
	Screen  Screen
	Factory string
	Entry   PaymentEntry
	Channel model.Channel
	Invoice *invoice.Invoice
	Form    form.State
	Report  invoice.ReportConfig
	Pending string
}

// Snapshot copies the current state.
func (s *Session) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := s.Do(ctx, func() {
		snap = Snapshot{
			Screen:  s.screen,
			Factory: s.factory.Name(),
			Entry:   s.entry,
			Channel: s.channel,
			Form:    s.formState,
			Report:  s.report,
		}
		if s.invoice != nil {
			inv := *s.invoice
			snap.Invoice = &inv
		}
		if s.pending != nil {
			snap.Pending = s.pending.kind
		}
	})
	return snap, err
}

// startCall runs call off the loop with its own context. The function it
// returns is applied on the loop unless the call was cancelled or superseded
// in the meantime.
func (s *Session) startCall(kind string, call func(ctx context.Context) func()) {
	s.cancelPending()
	s.gen++
	gen := s.gen
	ctx, cancel := context.WithCancel(s.ctx)
	s.pending = &pendingCall{kind: kind, gen: gen, cancel: cancel}

	go func() {
		apply := call(ctx)
		_ = s.post(func() {
			if s.pending == nil || s.pending.gen != gen {
				s.logger.Debug("discarding stale result", zap.String("call", kind))
				return
			}
			s.pending.cancel()
			s.pending = nil
			apply()
			if s.onUpdate != nil {
				s.onUpdate()
			}
		})
	}()
}

func (s *Session) cancelPending() {
	if s.pending == nil {
		return
	}
	s.logger.Debug("cancelling outstanding call", zap.String("call", s.pending.kind))
	s.pending.cancel()
	s.pending = nil
}

func (s *Session) isPending(kind string) bool {
	return s.pending != nil && s.pending.kind == kind
}

func (s *Session) resetFlow() {
	s.cancelPending()
	s.screen = ScreenEntry
	s.entry = NewPaymentEntry()
	s.channel = model.ChannelUnset
	s.invoice = nil
	s.formState = form.NewState(model.ChannelUnset)
	s.report = invoice.DefaultReportConfig()
}

// Submit applies a batch of edits and then fires activate, the way a posted
// HTML form arrives. Edits whose value equals the rendered one are skipped.
// The view is rebuilt between the edits and the activation so the target's
// disabled state reflects the edits; the activation is dropped if the element
// at that id is no longer the same control.
func (s *Session) Submit(ctx context.Context, changes map[string]string, activate string) (bool, error) {
	var fired bool
	var lookupErr error
	err := s.Do(ctx, func() {
		var target *presentation.Element
		if activate != "" {
			target = s.index[activate]
			if target == nil {
				lookupErr = ErrUnknownElement
			}
		}
		for id, value := range changes {
			el, ok := s.index[id]
			if !ok || el.Value == value {
				continue
			}
			el.Change(value)
		}
		if target == nil {
			return
		}
		s.index = presentation.Index(s.build())
		next := s.index[activate]
		if next == nil || next.Kind != target.Kind || next.Text != target.Text {
			return
		}
		fired = next.Activate()
	})
	if err != nil {
		return false, err
	}
	return fired, lookupErr
}
