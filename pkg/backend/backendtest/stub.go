// Package backendtest runs an in-process payment backend for tests and local
// development.
package backendtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/goliatone/go-payform/pkg/backend/contract"
	"github.com/goliatone/go-payform/pkg/form"
	"github.com/goliatone/go-payform/pkg/invoice"
	"github.com/goliatone/go-payform/pkg/pricing"
)

// Call is one request received by the stub.
type Call struct {
	Endpoint string
	Query    url.Values
	Body     map[string]any
}

// Option customises a Stub.
type Option func(*Stub)

// WithPricing sets the table used to compute totals.
func WithPricing(table *pricing.Table) Option {
	return func(s *Stub) {
		if table != nil {
			s.table = table
		}
	}
}

// WithClock fixes the time printed on reports.
func WithClock(now func() time.Time) Option {
	return func(s *Stub) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger logs every request through logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Stub) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Stub implements the three backend endpoints. Pay returns principal plus
// tax, notifications are accepted, and reports are rendered locally.
type Stub struct {
	router chi.Router
	table  *pricing.Table
	now    func() time.Time
	logger *zap.Logger

	mu     sync.Mutex
	calls  []Call
	status map[string]int
	holds  map[string]chan struct{}
}

// New builds a stub handler.
func New(options ...Option) *Stub {
	s := &Stub{
		table:  pricing.DefaultTable(),
		now:    time.Now,
		logger: zap.NewNop(),
		status: make(map[string]int),
		holds:  make(map[string]chan struct{}),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Route("/payment", func(r chi.Router) {
		r.Post("/pay", s.handle(contract.OpPay, s.pay))
		r.Post("/notification", s.handle(contract.OpNotification, s.notification))
		r.Post("/reporte-pago", s.handle(contract.OpReport, s.report))
	})
	s.router = r
	return s
}

// NewServer starts the stub on a loopback listener.
func NewServer(options ...Option) (*Stub, *httptest.Server) {
	s := New(options...)
	return s, httptest.NewServer(s)
}

func (s *Stub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// FailWith makes endpoint answer with status until reset with status 0.
func (s *Stub) FailWith(endpoint string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.status, endpoint)
		return
	}
	s.status[endpoint] = status
}

// Hold blocks requests to endpoint until the returned release func is
// called.
func (s *Stub) Hold(endpoint string) (release func()) {
	gate := make(chan struct{})
	s.mu.Lock()
	s.holds[endpoint] = gate
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			if s.holds[endpoint] == gate {
				delete(s.holds, endpoint)
			}
			s.mu.Unlock()
			close(gate)
		})
	}
}

// Calls returns the recorded requests.
func (s *Stub) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallsTo returns the recorded requests for endpoint.
func (s *Stub) CallsTo(endpoint string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Endpoint == endpoint {
			out = append(out, c)
		}
	}
	return out
}

func (s *Stub) handle(endpoint string, next func(http.ResponseWriter, *http.Request, Call)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		call := Call{Endpoint: endpoint, Query: r.URL.Query()}
		if r.Header.Get("Content-Type") == "application/json" {
			r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
			if err := json.NewDecoder(r.Body).Decode(&call.Body); err != nil {
				http.Error(w, "invalid json body", http.StatusBadRequest)
				return
			}
		}

		s.mu.Lock()
		s.calls = append(s.calls, call)
		status := s.status[endpoint]
		gate := s.holds[endpoint]
		s.mu.Unlock()

		s.logger.Info("stub backend request", zap.String("endpoint", endpoint))

		if gate != nil {
			select {
			case <-gate:
			case <-r.Context().Done():
				return
			}
		}
		if status != 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}
		next(w, r, call)
	}
}

func (s *Stub) pay(w http.ResponseWriter, _ *http.Request, call Call) {
	amount, err := decimal.NewFromString(call.Query.Get("amount"))
	if err != nil {
		http.Error(w, "amount must be numeric", http.StatusBadRequest)
		return
	}
	total := amount.Add(s.table.ComputeTax(call.Query.Get("paymentType"), amount))
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte(total.String()))
}

func (s *Stub) notification(w http.ResponseWriter, _ *http.Request, call Call) {
	if _, ok := call.Body["type"].(string); !ok {
		http.Error(w, "type is required", http.StatusBadRequest)
		return
	}
	// both schedule spellings are accepted, anything else is refused
	if raw, ok := call.Body["scheduleTime"].(string); ok {
		if _, err := form.NormalizeScheduleTime(raw); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "sent"})
}

func (s *Stub) report(w http.ResponseWriter, _ *http.Request, call Call) {
	cfg := invoice.ReportConfig{
		Title:                 stringField(call.Body, "title"),
		FooterMessage:         stringField(call.Body, "footerMessage"),
		Theme:                 stringField(call.Body, "theme"),
		Format:                stringField(call.Body, "format"),
		IncludeLogo:           boolField(call.Body, "includeLogo"),
		IncludePaymentDetails: boolField(call.Body, "includePaymentDetails"),
		IncludeUserInfo:       boolField(call.Body, "includeUserInfo"),
		IncludeTimestamp:      boolField(call.Body, "includeTimestamp") || boolField(call.Body, "includeDate"),
	}
	inv := invoice.Invoice{
		Method:       stringField(call.Body, "paymentType"),
		Principal:    decimalField(call.Body, "paymentAmount"),
		Tax:          decimalField(call.Body, "paymentTax"),
		TotalCharged: decimalField(call.Body, "paymentTotal"),
	}

	data, err := invoice.RenderPDF(inv, cfg, s.now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+invoice.FileName+`"`)
	_, _ = w.Write(data)
}

func stringField(body map[string]any, key string) string {
	s, _ := body[key].(string)
	return s
}

func boolField(body map[string]any, key string) bool {
	b, _ := body[key].(bool)
	return b
}

func decimalField(body map[string]any, key string) decimal.Decimal {
	if f, ok := body[key].(float64); ok {
		return decimal.NewFromFloat(f)
	}
	return decimal.Zero
}
