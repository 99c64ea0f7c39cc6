package backend_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/goliatone/go-payform/pkg/backend"
	"github.com/goliatone/go-payform/pkg/backend/backendtest"
	"github.com/goliatone/go-payform/pkg/backend/contract"
	"github.com/goliatone/go-payform/pkg/invoice"
)

type observed struct {
	endpoint string
	code     int
}

type recordingObserver struct {
	calls []observed
}

func (r *recordingObserver) ObserveRequest(endpoint string, code int, _ time.Duration) {
	r.calls = append(r.calls, observed{endpoint, code})
}

func newClient(t *testing.T, opts ...backendtest.Option) (*backend.Client, *backendtest.Stub, *recordingObserver) {
	t.Helper()
	stub, srv := backendtest.NewServer(opts...)
	t.Cleanup(srv.Close)

	obs := &recordingObserver{}
	client, err := backend.New(srv.URL, backend.WithObserver(obs))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client, stub, obs
}

func TestPay(t *testing.T) {
	client, stub, obs := newClient(t)

	total, err := client.Pay(context.Background(), backend.PaymentRequest{
		PaymentType:      "CREDIT_CARD",
		Amount:           "1200",
		NotificationType: "Seleccionar",
	})
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if !total.Equal(decimal.NewFromInt(1246)) {
		t.Fatalf("unexpected total %s", total)
	}

	calls := stub.CallsTo(contract.OpPay)
	if len(calls) != 1 {
		t.Fatalf("expected one pay call, got %d", len(calls))
	}
	if got := calls[0].Query.Get("notificationType"); got != "Seleccionar" {
		t.Fatalf("unexpected notificationType %q", got)
	}
	if diff := cmp.Diff([]observed{{contract.OpPay, 200}}, obs.calls, cmp.AllowUnexported(observed{})); diff != "" {
		t.Fatalf("observer mismatch (-want +got):\n%s", diff)
	}
}

func TestPay_InvalidAmountNeverSent(t *testing.T) {
	client, stub, _ := newClient(t)

	_, err := client.Pay(context.Background(), backend.PaymentRequest{PaymentType: "PAYPAL", Amount: "diez", NotificationType: "Seleccionar"})
	if !errors.Is(err, backend.ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
	if len(stub.Calls()) != 0 {
		t.Fatalf("invalid request reached the backend")
	}
}

func TestPay_StatusError(t *testing.T) {
	client, stub, obs := newClient(t)
	stub.FailWith(contract.OpPay, http.StatusBadGateway)

	_, err := client.Pay(context.Background(), backend.PaymentRequest{PaymentType: "PAYPAL", Amount: "10", NotificationType: "Seleccionar"})
	var statusErr *backend.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502 status error, got %v", err)
	}
	if obs.calls[0].code != http.StatusBadGateway {
		t.Fatalf("observer did not see the status: %+v", obs.calls)
	}
}

func TestNotify_MergesFields(t *testing.T) {
	client, stub, _ := newClient(t)

	err := client.Notify(context.Background(), backend.NotificationRequest{
		PaymentType: "DEBIT_CARD",
		Amount:      "501",
		Type:        "EMAIL",
		Fields: map[string]any{
			"to": "ops@example.com",
			"cc": []string{"a@x.com", "b@y.com"},
		},
	})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}

	want := map[string]any{
		"paymentType": "DEBIT_CARD",
		"amount":      "501",
		"type":        "EMAIL",
		"to":          "ops@example.com",
		"cc":          []any{"a@x.com", "b@y.com"},
	}
	if diff := cmp.Diff(want, stub.CallsTo(contract.OpNotification)[0].Body); diff != "" {
		t.Fatalf("body mismatch (-want +got):\n%s", diff)
	}
}

func TestNotify_ContractViolation(t *testing.T) {
	client, stub, _ := newClient(t)

	err := client.Notify(context.Background(), backend.NotificationRequest{
		PaymentType: "DEBIT_CARD",
		Amount:      "501",
		Type:        "SMS",
		Fields:      map[string]any{"deliveryReportRequired": "true"},
	})
	if !errors.Is(err, backend.ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
	if len(stub.Calls()) != 0 {
		t.Fatalf("invalid request reached the backend")
	}
}

func TestNotify_ScheduleTime(t *testing.T) {
	client, _, _ := newClient(t)
	send := func(schedule string) error {
		return client.Notify(context.Background(), backend.NotificationRequest{
			PaymentType: "PAYPAL",
			Amount:      "10",
			Type:        "SMS",
			Fields:      map[string]any{"phoneNumber": "+5491100000000", "scheduleTime": schedule},
		})
	}

	for _, ok := range []string{"2025-03-01T09:30", "2025-03-01 09:30", ""} {
		if err := send(ok); err != nil {
			t.Fatalf("schedule %q: %v", ok, err)
		}
	}
	var statusErr *backend.StatusError
	if err := send("mañana"); !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for an unparseable schedule, got %v", err)
	}
}

func TestReport(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	client, stub, _ := newClient(t, backendtest.WithClock(func() time.Time { return fixed }))

	cfg := invoice.DefaultReportConfig()
	cfg.Theme = invoice.ThemeDark
	data, err := client.Report(context.Background(), backend.ReportRequest{
		Config:        cfg,
		PaymentType:   "CREDIT_CARD",
		PaymentAmount: decimal.NewFromInt(1200),
		PaymentTotal:  decimal.NewFromInt(1246),
		PaymentTax:    decimal.NewFromInt(46),
	})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("expected pdf payload")
	}

	body := stub.CallsTo(contract.OpReport)[0].Body
	if body["includeDate"] != true || body["includeTimestamp"] != true {
		t.Fatalf("expected both timestamp flags, got %v / %v", body["includeDate"], body["includeTimestamp"])
	}
	if body["paymentTax"] != float64(46) || body["theme"] != "DARK" {
		t.Fatalf("unexpected report body: %v", body)
	}
}

func TestCancelledContext(t *testing.T) {
	client, stub, _ := newClient(t)
	release := stub.Hold(contract.OpNotification)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- client.Notify(ctx, backend.NotificationRequest{PaymentType: "PAYPAL", Amount: "1", Type: "PUSH"})
	}()

	deadline := time.Now().Add(2 * time.Second)
	for len(stub.Calls()) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("request did not return after cancel")
	}
}

func TestRequestTimeout(t *testing.T) {
	stub, srv := backendtest.NewServer()
	t.Cleanup(srv.Close)
	release := stub.Hold(contract.OpPay)
	defer release()

	client, err := backend.New(srv.URL, backend.WithRequestTimeout(20*time.Millisecond))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.Pay(context.Background(), backend.PaymentRequest{PaymentType: "PAYPAL", Amount: "1", NotificationType: "Seleccionar"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestNew_RejectsRelativeURL(t *testing.T) {
	if _, err := backend.New("localhost:8080"); err == nil {
		t.Fatalf("expected error for relative base url")
	}
}
