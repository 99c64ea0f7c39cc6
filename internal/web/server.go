// Package web serves payment sessions as HTML pages. Each browser gets its own
// session keyed by a cookie; posted forms are turned into element events.
package web

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-payform"
	"github.com/goliatone/go-payform/pkg/invoice"
	"github.com/goliatone/go-payform/pkg/presentation"
	"github.com/goliatone/go-payform/pkg/render"
	"github.com/goliatone/go-payform/pkg/session"
	"github.com/goliatone/go-payform/pkg/toast"
)

// CookieName carries the session id.
const CookieName = "payform_session"

// Route paths.
const (
	PathPage     = "/"
	PathEvents   = "/events"
	PathDownload = "/download"
	PathTheme    = "/theme"
	PathMetrics  = "/metrics"
	PathHealth   = "/healthz"
)

type client struct {
	sess     *session.Session
	toasts   *toast.Queue
	saver    *session.MemorySaver
	lastSeen time.Time
}

// Option customises a Server.
type Option func(*Server)

// WithRequestTimeout bounds every request.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithIdleTimeout closes sessions not used for d. Idle sessions are swept when
// a new one is opened.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.idle = d
		}
	}
}

// WithMaxSessions caps the open sessions; opening one more closes the least
// recently used.
func WithMaxSessions(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithClock replaces time.Now for idle tracking.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// Server owns the browser sessions of one process.
type Server struct {
	app      *payform.App
	renderer render.Renderer
	logger   *zap.Logger
	timeout  time.Duration

	idle        time.Duration
	maxSessions int
	now         func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	clients map[string]*client
}

// NewServer builds a server whose sessions live until ctx is done, Close is
// called, or they are evicted for idleness or to stay under the cap.
func NewServer(ctx context.Context, app *payform.App, options ...Option) (*Server, error) {
	renderer, err := app.Renderer("html")
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(ctx)
	s := &Server{
		app:         app,
		renderer:    renderer,
		logger:      app.Logger().Named("web"),
		timeout:     30 * time.Second,
		idle:        30 * time.Minute,
		maxSessions: 1000,
		now:         time.Now,
		ctx:         ctx,
		cancel:      cancel,
		clients:     make(map[string]*client),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Routes mounts the handlers.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get(PathHealth, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	if m := s.app.Metrics(); m != nil {
		r.Handle(PathMetrics, m.Handler())
	}

	r.Get(PathPage, s.pageHandler)
	r.Post(PathEvents, s.eventsHandler)
	r.Post(PathTheme, s.themeHandler)
	r.Get(PathDownload, s.downloadHandler)
	return r
}

// Close stops every session.
func (s *Server) Close() {
	s.cancel()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.clients {
		s.dropLocked(id)
	}
}

func (s *Server) dropLocked(id string) {
	c, ok := s.clients[id]
	if !ok {
		return
	}
	c.sess.Close()
	delete(s.clients, id)
	if m := s.app.Metrics(); m != nil {
		m.SessionClosed()
	}
}

// evictLocked closes idle sessions, then the least recently used ones until
// there is room for one more.
func (s *Server) evictLocked(now time.Time) {
	for id, c := range s.clients {
		if now.Sub(c.lastSeen) > s.idle {
			s.logger.Debug("closing idle session", zap.Time("last_seen", c.lastSeen))
			s.dropLocked(id)
		}
	}
	for len(s.clients) >= s.maxSessions {
		var oldest string
		var seen time.Time
		for id, c := range s.clients {
			if oldest == "" || c.lastSeen.Before(seen) {
				oldest, seen = id, c.lastSeen
			}
		}
		s.dropLocked(oldest)
	}
}

// Sessions reports how many browser sessions are open.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(started)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// client returns the caller's session, creating one and setting the cookie
// when the request carries none or an unknown id.
func (s *Server) client(w http.ResponseWriter, r *http.Request) (*client, error) {
	if cookie, err := r.Cookie(CookieName); err == nil {
		s.mu.Lock()
		c, ok := s.clients[cookie.Value]
		if ok {
			c.lastSeen = s.now()
		}
		s.mu.Unlock()
		if ok {
			return c, nil
		}
	}

	c := &client{toasts: toast.NewQueue(), saver: session.NewMemorySaver()}
	sess, err := s.app.NewSession(
		session.WithNotifier(toast.Multi{c.toasts, toast.NewLog(s.logger)}),
		session.WithSaver(c.saver),
	)
	if err != nil {
		return nil, err
	}
	c.sess = sess
	go func() {
		if err := sess.Run(s.ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Warn("session stopped", zap.Error(err))
		}
	}()

	id := uuid.NewString()
	now := s.now()
	c.lastSeen = now
	s.mu.Lock()
	s.evictLocked(now)
	s.clients[id] = c
	s.mu.Unlock()
	if m := s.app.Metrics(); m != nil {
		m.SessionOpened()
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c, nil
}

func (s *Server) pageHandler(w http.ResponseWriter, r *http.Request) {
	c, err := s.client(w, r)
	if err != nil {
		s.fail(w, err)
		return
	}
	ctx := r.Context()
	root, err := c.sess.Render(ctx)
	if err != nil {
		s.fail(w, err)
		return
	}
	snap, err := c.sess.Snapshot(ctx)
	if err != nil {
		s.fail(w, err)
		return
	}

	opts := render.RenderOptions{
		Title:  "Pagos",
		Action: PathEvents,
		Toasts: c.toasts.Drain(),
	}
	if factory, err := s.app.Factory(snap.Factory); err == nil {
		if themed, ok := factory.(interface{ Palette() presentation.Palette }); ok {
			opts.Palette = themed.Palette()
		}
	}
	if _, ok := c.saver.Get(invoice.FileName); ok {
		opts.DownloadURL = PathDownload
	}

	body, err := s.renderer.Render(ctx, root, opts)
	if err != nil {
		s.fail(w, err)
		return
	}
	if snap.Pending != "" {
		// reload until the outstanding backend call settles
		w.Header().Set("Refresh", "1")
	}
	w.Header().Set("Content-Type", s.renderer.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(body)
}

func (s *Server) eventsHandler(w http.ResponseWriter, r *http.Request) {
	c, err := s.client(w, r)
	if err != nil {
		s.fail(w, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}

	changes := make(map[string]string)
	for name, values := range r.PostForm {
		id, ok := render.ParseChangeFieldName(name)
		if !ok || len(values) == 0 {
			continue
		}
		changes[id] = values[0]
	}
	activate := r.PostForm.Get(render.FieldActivate)

	if _, err := c.sess.Submit(r.Context(), changes, activate); err != nil {
		if !errors.Is(err, session.ErrUnknownElement) {
			s.fail(w, err)
			return
		}
		// stale page, e.g. after a restart; redraw
		s.logger.Debug("stale event", zap.String("activate", activate))
	}
	http.Redirect(w, r, PathPage, http.StatusSeeOther)
}

func (s *Server) themeHandler(w http.ResponseWriter, r *http.Request) {
	c, err := s.client(w, r)
	if err != nil {
		s.fail(w, err)
		return
	}
	factory, err := s.app.Factory(r.FormValue("variant"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := c.sess.SetFactory(r.Context(), factory); err != nil {
		s.fail(w, err)
		return
	}
	http.Redirect(w, r, PathPage, http.StatusSeeOther)
}

func (s *Server) downloadHandler(w http.ResponseWriter, r *http.Request) {
	c, err := s.client(w, r)
	if err != nil {
		s.fail(w, err)
		return
	}
	data, ok := c.saver.Get(invoice.FileName)
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+invoice.FileName+`"`)
	_, _ = w.Write(data)
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	s.logger.Error("request failed", zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
