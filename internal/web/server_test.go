package web_test

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-payform"
	"github.com/goliatone/go-payform/internal/config"
	"github.com/goliatone/go-payform/internal/metrics"
	"github.com/goliatone/go-payform/internal/web"
	"github.com/goliatone/go-payform/pkg/backend/backendtest"
)

const errorToast = `class="payform-toast payform-toast--error"`

var (
	selectName = regexp.MustCompile(`<select class="payform-input" name="(change:e\d+)"`)
	inputName  = regexp.MustCompile(`<input type="text" class="payform-input" name="(change:e\d+)"`)
)

var activateValue = regexp.MustCompile(`name="activate" value="(e\d+)"`)

func buttonID(t *testing.T, page, text string) string {
	t.Helper()
	for _, chunk := range strings.Split(page, "<button")[1:] {
		end := strings.Index(chunk, "</button>")
		if end < 0 || !strings.Contains(chunk[:end], "<span>"+text+"</span>") {
			continue
		}
		if m := activateValue.FindStringSubmatch(chunk); m != nil {
			return m[1]
		}
	}
	t.Fatalf("button %q not found in page:\n%s", text, page)
	return ""
}

type fixture struct {
	server *web.Server
	http   *httptest.Server
	client *http.Client
	stub   *backendtest.Stub
}

func newFixture(t *testing.T, opts ...web.Option) *fixture {
	t.Helper()
	stub, backendSrv := backendtest.NewServer()
	t.Cleanup(backendSrv.Close)

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Backend.BaseURL = backendSrv.URL
	cfg.Download.Dir = t.TempDir()

	collector, err := metrics.New()
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	app, err := payform.New(cfg, payform.WithMetrics(collector))
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	srv, err := web.NewServer(context.Background(), app, append([]web.Option{web.WithRequestTimeout(5 * time.Second)}, opts...)...)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	t.Cleanup(srv.Close)

	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)

	jar, _ := cookiejar.New(nil)
	return &fixture{
		server: srv,
		http:   ts,
		client: &http.Client{Jar: jar, Timeout: 5 * time.Second},
		stub:   stub,
	}
}

func (f *fixture) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := f.client.Get(f.http.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func (f *fixture) post(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := f.client.PostForm(f.http.URL+path, form)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST %s: status %d: %s", path, resp.StatusCode, body)
	}
	return resp, string(body)
}

// settle follows the page refreshes until no backend call is outstanding. It
// returns the final page and every page seen on the way, since toasts are
// shown once.
func (f *fixture) settle(t *testing.T, resp *http.Response, page string) (string, string) {
	t.Helper()
	seen := page
	deadline := time.Now().Add(3 * time.Second)
	for resp.Header.Get("Refresh") != "" {
		if time.Now().After(deadline) {
			t.Fatalf("page still pending:\n%s", page)
		}
		time.Sleep(20 * time.Millisecond)
		resp, page = f.get(t, web.PathPage)
		seen += page
	}
	return page, seen
}

func (f *fixture) pay(t *testing.T, method, amount string) (string, string) {
	t.Helper()
	_, page := f.get(t, web.PathPage)
	sel := selectName.FindStringSubmatch(page)
	in := inputName.FindStringSubmatch(page)
	if sel == nil || in == nil {
		t.Fatalf("entry fields not found:\n%s", page)
	}
	resp, body := f.post(t, web.PathEvents, url.Values{
		sel[1]:     {method},
		in[1]:      {amount},
		"activate": {buttonID(t, page, "Pagar")},
	})
	return f.settle(t, resp, body)
}

func TestServer_PayShowsInvoice(t *testing.T) {
	f := newFixture(t)

	page, _ := f.pay(t, "CREDIT_CARD", "1000")
	if !strings.Contains(page, "Factura de Pago") {
		t.Fatalf("expected invoice page, got:\n%s", page)
	}
	if !strings.Contains(page, "$1030.00 USD") {
		t.Fatalf("expected total in page:\n%s", page)
	}
	if got := len(f.stub.CallsTo("pay")); got != 1 {
		t.Fatalf("pay calls = %d, want 1", got)
	}
	if f.server.Sessions() != 1 {
		t.Fatalf("sessions = %d, want 1", f.server.Sessions())
	}
}

func TestServer_PayFailureShowsToastOnce(t *testing.T) {
	f := newFixture(t)
	f.stub.FailWith("pay", http.StatusInternalServerError)

	page, seen := f.pay(t, "PAYPAL", "50")
	if strings.Count(seen, errorToast) != 1 {
		t.Fatalf("expected one error toast:\n%s", seen)
	}
	if !strings.Contains(page, "Realizar Pago") {
		t.Fatalf("expected entry screen:\n%s", page)
	}
	_, again := f.get(t, web.PathPage)
	if strings.Contains(again, errorToast) {
		t.Fatalf("toast shown twice")
	}
}

func TestServer_DownloadSummary(t *testing.T) {
	f := newFixture(t)

	if resp, _ := f.get(t, web.PathDownload); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("download before save: status %d", resp.StatusCode)
	}

	page, _ := f.pay(t, "CREDIT_CARD", "200")
	trigger := regexp.MustCompile(`class="payform-download" name="activate" value="(e\d+)"`).FindStringSubmatch(page)
	if trigger == nil {
		t.Fatalf("download trigger missing:\n%s", page)
	}
	resp, body := f.post(t, web.PathEvents, url.Values{"activate": {trigger[1]}})
	page, _ = f.settle(t, resp, body)
	if !strings.Contains(page, `href="`+web.PathDownload+`"`) {
		t.Fatalf("expected download link:\n%s", page)
	}
	resp, body = f.get(t, web.PathDownload)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("download status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content type %q", ct)
	}
	if !strings.HasPrefix(body, "%PDF") {
		t.Fatalf("body is not a pdf: %.20q", body)
	}
}

func TestServer_ThemeSwitch(t *testing.T) {
	f := newFixture(t)

	_, page := f.get(t, web.PathPage)
	if !strings.Contains(page, "payform--light") {
		t.Fatalf("expected light variant:\n%s", page)
	}
	_, page = f.post(t, web.PathTheme, url.Values{"variant": {"dark"}})
	if !strings.Contains(page, "payform--dark") {
		t.Fatalf("expected dark variant:\n%s", page)
	}

	resp, err := f.client.PostForm(f.http.URL+web.PathTheme, url.Values{"variant": {"neon"}})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown variant status %d", resp.StatusCode)
	}
}

func TestServer_StaleEventRedraws(t *testing.T) {
	f := newFixture(t)
	f.get(t, web.PathPage)

	_, page := f.post(t, web.PathEvents, url.Values{"activate": {"e999"}})
	if !strings.Contains(page, "Realizar Pago") {
		t.Fatalf("expected redraw:\n%s", page)
	}
}

func TestServer_SeparateCookiesSeparateSessions(t *testing.T) {
	f := newFixture(t)
	f.get(t, web.PathPage)

	other := &http.Client{Timeout: 5 * time.Second}
	resp, err := other.Get(f.http.URL + web.PathPage)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()

	if f.server.Sessions() != 2 {
		t.Fatalf("sessions = %d, want 2", f.server.Sessions())
	}
	f.server.Close()
	if f.server.Sessions() != 0 {
		t.Fatalf("sessions after close = %d", f.server.Sessions())
	}
}

func TestServer_HealthAndMetrics(t *testing.T) {
	f := newFixture(t)

	if resp, _ := f.get(t, web.PathHealth); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("health status %d", resp.StatusCode)
	}
	f.get(t, web.PathPage)
	_, body := f.get(t, web.PathMetrics)
	if !strings.Contains(body, "payform_web_sessions_active 1") {
		t.Fatalf("expected open session gauge:\n%s", body)
	}
}

func cookieless(t *testing.T, f *fixture) {
	t.Helper()
	resp, err := (&http.Client{Timeout: 5 * time.Second}).Get(f.http.URL + web.PathPage)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
}

func TestServer_MaxSessionsEvictsLeastRecent(t *testing.T) {
	f := newFixture(t, web.WithMaxSessions(2))

	f.get(t, web.PathPage)
	for i := 0; i < 5; i++ {
		cookieless(t, f)
	}
	if got := f.server.Sessions(); got != 2 {
		t.Fatalf("sessions = %d, want 2", got)
	}
}

func TestServer_IdleSessionsAreClosed(t *testing.T) {
	var mu sync.Mutex
	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	advance := func(d time.Duration) {
		mu.Lock()
		now = now.Add(d)
		mu.Unlock()
	}
	f := newFixture(t, web.WithIdleTimeout(time.Minute), web.WithClock(clock))

	f.get(t, web.PathPage)
	advance(30 * time.Second)
	f.get(t, web.PathPage) // keeps the cookie session fresh
	advance(45 * time.Second)
	cookieless(t, f)
	if got := f.server.Sessions(); got != 2 {
		t.Fatalf("active session was evicted: sessions = %d", got)
	}

	advance(2 * time.Minute)
	cookieless(t, f)
	if got := f.server.Sessions(); got != 1 {
		t.Fatalf("idle sessions kept: sessions = %d, want 1", got)
	}
}
