// Package payform wires the payment UI together: configuration, pricing,
// channel schemas, presentation variants, renderers and the backend client.
// Transports (terminal, web) build sessions from an App.
package payform

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/goliatone/go-payform/internal/config"
	"github.com/goliatone/go-payform/internal/metrics"
	"github.com/goliatone/go-payform/pkg/backend"
	"github.com/goliatone/go-payform/pkg/form"
	"github.com/goliatone/go-payform/pkg/presentation"
	"github.com/goliatone/go-payform/pkg/presentation/dark"
	"github.com/goliatone/go-payform/pkg/presentation/light"
	"github.com/goliatone/go-payform/pkg/pricing"
	"github.com/goliatone/go-payform/pkg/render"
	"github.com/goliatone/go-payform/pkg/renderers/html"
	"github.com/goliatone/go-payform/pkg/renderers/tui"
	"github.com/goliatone/go-payform/pkg/schema"
	"github.com/goliatone/go-payform/pkg/session"
)

// Option customises the App.
type Option func(*App)

// WithLogger sets the logger shared by every component.
func WithLogger(logger *zap.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithMetrics records backend calls on collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(a *App) {
		a.metrics = collector
	}
}

// WithBackend bypasses the HTTP client, e.g. with an in-process stub.
func WithBackend(be session.Backend) Option {
	return func(a *App) {
		a.backend = be
	}
}

// WithHTTPClient sets the client used to reach the backend.
func WithHTTPClient(client *http.Client) Option {
	return func(a *App) {
		a.httpClient = client
	}
}

// WithPricing replaces the rate table named in the configuration.
func WithPricing(table *pricing.Table) Option {
	return func(a *App) {
		a.table = table
	}
}

// WithSchemaSource replaces the channel schemas named in the configuration.
func WithSchemaSource(src schema.Source) Option {
	return func(a *App) {
		a.schemas = src
	}
}

// WithFactories replaces the presentation variant registry.
func WithFactories(registry *presentation.Registry) Option {
	return func(a *App) {
		a.factories = registry
	}
}

// WithRenderers replaces the renderer registry.
func WithRenderers(registry *render.Registry) Option {
	return func(a *App) {
		a.renderers = registry
	}
}

// App holds the long-lived collaborators shared by sessions.
type App struct {
	cfg        *config.Config
	logger     *zap.Logger
	metrics    *metrics.Collector
	httpClient *http.Client
	backend    session.Backend
	table      *pricing.Table
	schemas    schema.Source
	engine     *form.Engine
	factories  *presentation.Registry
	renderers  *render.Registry
}

// New builds an App from cfg. A nil cfg loads defaults and the environment.
// Missing collaborators are built from the configuration.
func New(cfg *config.Config, options ...Option) (*App, error) {
	if cfg == nil {
		loaded, err := config.Load("")
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	a := &App{cfg: cfg, logger: zap.NewNop()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(a)
	}

	if err := a.applyDefaults(); err != nil {
		return nil, err
	}
	if !a.factories.Has(cfg.UI.Theme) {
		return nil, fmt.Errorf("payform: ui.theme %q is not one of %v", cfg.UI.Theme, a.factories.List())
	}
	return a, nil
}

func (a *App) applyDefaults() error {
	var err error
	if a.table == nil {
		if a.table, err = LoadPricingTable(a.cfg.Pricing.TableFile); err != nil {
			return err
		}
	}
	if a.schemas == nil {
		if a.schemas, err = LoadSchemas(a.cfg.Schema.OverlayDir); err != nil {
			return err
		}
	}
	a.engine = form.NewEngine(form.WithSource(a.schemas))

	if a.factories == nil {
		a.factories = presentation.NewRegistry()
		a.factories.MustRegister(light.New())
		a.factories.MustRegister(dark.New())
	}

	if a.renderers == nil {
		htmlRenderer, err := html.New()
		if err != nil {
			return fmt.Errorf("payform: %w", err)
		}
		a.renderers = render.NewRegistry()
		a.renderers.MustRegister(htmlRenderer)
		a.renderers.MustRegister(tui.Renderer{})
	}

	if a.backend == nil {
		opts := []backend.Option{
			backend.WithLogger(a.logger.Named("backend")),
			backend.WithRequestTimeout(a.cfg.Backend.RequestTimeout),
		}
		if a.httpClient != nil {
			opts = append(opts, backend.WithHTTPClient(a.httpClient))
		}
		if a.metrics != nil {
			opts = append(opts, backend.WithObserver(a.metrics))
		}
		client, err := backend.New(a.cfg.Backend.BaseURL, opts...)
		if err != nil {
			return fmt.Errorf("payform: %w", err)
		}
		a.backend = client
	}
	return nil
}

// ErrUnknownVariant is returned for a presentation variant nobody registered.
var ErrUnknownVariant = errors.New("payform: unknown presentation variant")

// NewSession starts a session drawn with the configured variant. Options are
// applied after the App defaults, so callers can override the notifier or the
// saver. The caller runs and closes the session.
func (a *App) NewSession(options ...session.Option) (*session.Session, error) {
	factory, err := a.Factory(a.cfg.UI.Theme)
	if err != nil {
		return nil, err
	}
	opts := []session.Option{
		session.WithEngine(a.engine),
		session.WithPricing(a.table),
		session.WithSaver(session.DirSaver(a.cfg.Download.Dir)),
		session.WithLogger(a.logger.Named("session")),
	}
	return session.New(factory, a.backend, append(opts, options...)...), nil
}

// Factory returns the presentation variant called name.
func (a *App) Factory(name string) (presentation.Factory, error) {
	factory, err := a.factories.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}
	return factory, nil
}

// Variants lists the registered presentation variants.
func (a *App) Variants() []string {
	return a.factories.List()
}

// Renderer returns the renderer registered as name.
func (a *App) Renderer(name string) (render.Renderer, error) {
	return a.renderers.Get(name)
}

// Config returns the configuration the App was built from.
func (a *App) Config() *config.Config { return a.cfg }

// Logger returns the shared logger.
func (a *App) Logger() *zap.Logger { return a.logger }

// Metrics returns the collector, or nil when metrics are off.
func (a *App) Metrics() *metrics.Collector { return a.metrics }

// Pricing returns the active rate table.
func (a *App) Pricing() *pricing.Table { return a.table }

// Engine returns the form engine bound to the active schemas.
func (a *App) Engine() *form.Engine { return a.engine }
