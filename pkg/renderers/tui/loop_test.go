package tui_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/goliatone/go-payform/pkg/backend"
	"github.com/goliatone/go-payform/pkg/presentation"
	"github.com/goliatone/go-payform/pkg/presentation/light"
	"github.com/goliatone/go-payform/pkg/render"
	"github.com/goliatone/go-payform/pkg/renderers/tui"
	"github.com/goliatone/go-payform/pkg/session"
	"github.com/goliatone/go-payform/pkg/toast"
)

// stubDriver answers prompts from a script. Select entries pick the first
// option starting with the scripted text.
type stubDriver struct {
	selects      []string
	inputs       []string
	infoMessages []string
	selectPos    int
	inputPos     int
}

func (s *stubDriver) Input(_ context.Context, _ tui.InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ tui.ConfirmConfig) (bool, error) {
	return false, errors.New("no confirm scripted")
}

func (s *stubDriver) Select(_ context.Context, cfg tui.SelectConfig) (int, error) {
	if s.selectPos >= len(s.selects) {
		return -1, tui.ErrAborted
	}
	want := s.selects[s.selectPos]
	s.selectPos++
	for i, opt := range cfg.Options {
		if strings.HasPrefix(opt, want) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("option %q not offered in %q", want, cfg.Options)
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

type instantBackend struct{}

func (instantBackend) Pay(context.Context, backend.PaymentRequest) (decimal.Decimal, error) {
	return decimal.RequireFromString("20.2"), nil
}

func (instantBackend) Notify(context.Context, backend.NotificationRequest) error { return nil }

func (instantBackend) Report(context.Context, backend.ReportRequest) ([]byte, error) {
	return nil, errors.New("unused")
}

func startSession(t *testing.T, opts ...session.Option) (*session.Session, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	s := session.New(light.New(), instantBackend{}, opts...)
	go func() { _ = s.Run(ctx) }()
	t.Cleanup(func() {
		s.Close()
		<-s.Done()
		cancel()
	})
	return s, ctx
}

func TestLoop_PaysThroughPrompts(t *testing.T) {
	toasts := toast.NewQueue()
	s, ctx := startSession(t, session.WithNotifier(toasts))

	driver := &stubDriver{
		selects: []string{
			"Método de Pago", "PayPal",
			"Monto", "> Pagar",
			tui.MenuRefresh,
			tui.MenuQuit,
		},
		inputs: []string{"20"},
	}
	loop := tui.NewLoop(
		tui.WithPromptDriver(driver),
		tui.WithToasts(toasts),
		tui.WithPending(func(ctx context.Context) bool {
			snap, err := s.Snapshot(ctx)
			return err == nil && snap.Pending != ""
		}, time.Second),
	)

	if err := loop.Run(ctx, s); err != nil {
		t.Fatalf("run: %v", err)
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Screen != session.ScreenSummary {
		t.Fatalf("expected summary, got %s", snap.Screen)
	}
	last := driver.infoMessages[len(driver.infoMessages)-1]
	if !strings.Contains(last, "FACTURA DE PAGO") || !strings.Contains(last, "*Total a Pagar: $20.20 USD*") {
		t.Fatalf("summary not drawn:\n%s", last)
	}
}

// heldBackend blocks Pay until the call's context is cancelled.
type heldBackend struct {
	instantBackend
	cancelled chan struct{}
}

func (b heldBackend) Pay(ctx context.Context, _ backend.PaymentRequest) (decimal.Decimal, error) {
	<-ctx.Done()
	close(b.cancelled)
	return decimal.Zero, ctx.Err()
}

func TestLoop_CancelOfferedWhilePaying(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	be := heldBackend{cancelled: make(chan struct{})}
	s := session.New(light.New(), be)
	go func() { _ = s.Run(ctx) }()
	defer s.Close()

	driver := &stubDriver{
		selects: []string{
			"Método de Pago", "PayPal",
			"Monto", "> Pagar",
			"> Cancelar",
			tui.MenuQuit,
		},
		inputs: []string{"20"},
	}
	loop := tui.NewLoop(
		tui.WithPromptDriver(driver),
		tui.WithPending(func(ctx context.Context) bool {
			snap, err := s.Snapshot(ctx)
			return err == nil && snap.Pending != ""
		}, 0),
	)

	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx, s) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("menu was not offered while the payment was outstanding")
	}

	select {
	case <-be.cancelled:
	case <-time.After(time.Second):
		t.Fatal("payment call was not cancelled")
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Screen != session.ScreenEntry || snap.Pending != "" {
		t.Fatalf("expected idle entry screen, got %s pending=%q", snap.Screen, snap.Pending)
	}
}

func TestLoop_DisabledButtonsAreNotOffered(t *testing.T) {
	s, ctx := startSession(t)
	driver := &stubDriver{selects: []string{"> Pagar"}}

	err := tui.NewLoop(tui.WithPromptDriver(driver)).Run(ctx, s)
	if err == nil || !strings.Contains(err.Error(), `"> Pagar" not offered`) {
		t.Fatalf("expected disabled Pagar to be missing from the menu, got %v", err)
	}
}

func TestLoop_AbortReturnsErrAborted(t *testing.T) {
	s, ctx := startSession(t)
	err := tui.NewLoop(tui.WithPromptDriver(&stubDriver{})).Run(ctx, s)
	if !errors.Is(err, tui.ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestRenderer_Text(t *testing.T) {
	f := light.New()
	root := f.Container(
		f.Label("Factura de Pago", &presentation.LabelStyle{Role: presentation.LabelTitle}),
		f.LabeledLine("Total a Pagar:", "$46.00 USD", &presentation.LineStyle{Emphasized: true}),
		f.Container(
			f.Button(presentation.Text("Enviar notificación"), nil, true),
			f.Button(presentation.Text("Generar reporte PDF"), nil, false),
		),
	)
	out, err := tui.Renderer{}.Render(context.Background(), root, render.RenderOptions{
		Toasts: []toast.Toast{toast.Error(toast.MsgSelectChannelFirst)},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := strings.Join([]string{
		"[error] " + toast.MsgSelectChannelFirst,
		"FACTURA DE PAGO",
		"*Total a Pagar: $46.00 USD*",
		"  ( Enviar notificación )",
		"  [ Generar reporte PDF ]",
		"",
	}, "\n")
	if string(out) != want {
		t.Fatalf("text mismatch\nwant:\n%s\ngot:\n%s", want, out)
	}
}
