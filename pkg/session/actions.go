package session

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/goliatone/go-payform/pkg/backend"
	"github.com/goliatone/go-payform/pkg/form"
	"github.com/goliatone/go-payform/pkg/invoice"
	"github.com/goliatone/go-payform/pkg/model"
	"github.com/goliatone/go-payform/pkg/pricing"
	"github.com/goliatone/go-payform/pkg/toast"
)

// Names of outstanding calls reported in Snapshot.Pending.
const (
	CallPay          = "pay"
	CallNotification = "notification"
	CallReport       = "report"
)

func (s *Session) setMethod(method string) {
	s.entry.Method = method
}

func (s *Session) setAmount(amount string) {
	s.entry.Amount = amount
}

func (s *Session) pay() {
	if !s.entry.Valid() {
		return
	}
	entry := s.entry
	req := backend.PaymentRequest{
		PaymentType:      entry.Method,
		Amount:           strings.TrimSpace(entry.Amount),
		NotificationType: string(s.channel),
	}

	s.startCall(CallPay, func(ctx context.Context) func() {
		total, err := s.backend.Pay(ctx, req)
		return func() {
			if err != nil {
				s.logger.Warn("payment failed", zap.String("method", req.PaymentType), zap.Error(err))
				s.toasts.Notify(toast.Error(toast.MsgPaymentFailed))
				return
			}
			principal, perr := pricing.ParseAmount(req.Amount)
			if perr != nil {
				principal = decimal.Zero
			}
			inv := invoice.Compute(s.table, req.PaymentType, principal, total)
			s.invoice = &inv
			s.screen = ScreenSummary
		}
	})
}

func (s *Session) cancelPay() {
	if s.isPending(CallPay) {
		s.cancelPending()
	}
}

func (s *Session) setChannel(raw string) {
	s.channel = model.ParseChannel(raw)
}

func (s *Session) openNotification() {
	if !s.channel.Selected() {
		s.toasts.Notify(toast.Error(toast.MsgSelectChannelFirst))
		return
	}
	s.formState = form.NewState(s.channel)
	s.screen = ScreenNotification
}

func (s *Session) changeField(key, raw string) {
	next, err := s.engine.ApplyChange(s.formState, key, raw)
	if err != nil {
		s.logger.Warn("ignoring change", zap.String("field", key), zap.Error(err))
		return
	}
	s.formState = next
}

func (s *Session) cancelNotification() {
	if s.isPending(CallNotification) {
		s.cancelPending()
	}
	s.formState = form.NewState(s.channel)
	s.screen = ScreenSummary
}

func (s *Session) submitNotification() {
	if s.invoice == nil {
		return
	}
	req := backend.NotificationRequest{
		PaymentType: s.entry.Method,
		Amount:      strings.TrimSpace(s.entry.Amount),
		Type:        s.channel,
		Fields:      s.engine.Submit(s.formState),
	}

	s.startCall(CallNotification, func(ctx context.Context) func() {
		err := s.backend.Notify(ctx, req)
		return func() {
			if err != nil {
				s.logger.Warn("notification failed", zap.String("channel", string(req.Type)), zap.Error(err))
				s.toasts.Notify(toast.Error(toast.MsgNotificationFailed))
				return
			}
			s.channel = model.ChannelUnset
			s.formState = form.NewState(model.ChannelUnset)
			s.screen = ScreenSummary
			s.toasts.Notify(toast.Success(toast.MsgNotificationSent))
		}
	})
}

func (s *Session) newPayment() {
	s.resetFlow()
}

func (s *Session) openReport() {
	if s.invoice == nil {
		return
	}
	s.screen = ScreenReport
}

func (s *Session) closeReport() {
	if s.isPending(CallReport) {
		s.cancelPending()
	}
	s.screen = ScreenSummary
}

func (s *Session) setReportBool(target *bool, raw string) {
	switch raw {
	case "true":
		*target = true
	case "false":
		*target = false
	}
}

func (s *Session) generateReport() {
	if s.invoice == nil {
		return
	}
	// the config goes out as edited; rejecting it is up to the backend
	inv := *s.invoice
	req := backend.ReportRequest{
		Config:        s.report,
		PaymentType:   inv.Method,
		PaymentAmount: inv.Principal,
		PaymentTotal:  inv.TotalCharged,
		PaymentTax:    inv.Tax,
	}

	s.startCall(CallReport, func(ctx context.Context) func() {
		data, err := s.backend.Report(ctx, req)
		if err == nil {
			err = s.saver.Save(ctx, invoice.FileName, data)
		}
		return func() {
			if err != nil {
				s.logger.Warn("report failed", zap.Error(err))
				s.toasts.Notify(toast.Error(toast.MsgReportFailed))
				return
			}
			s.screen = ScreenSummary
			s.toasts.Notify(toast.Success(toast.MsgReportDownloaded))
		}
	})
}

// downloadSummary renders the summary locally; no backend call is made.
func (s *Session) downloadSummary() {
	if s.invoice == nil {
		return
	}
	data, err := invoice.Summary(*s.invoice, s.now())
	if err == nil {
		err = s.saver.Save(s.ctx, invoice.FileName, data)
	}
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.logger.Warn("local invoice failed", zap.Error(err))
		}
		s.toasts.Notify(toast.Error(toast.MsgReportFailed))
		return
	}
	s.toasts.Notify(toast.Success(toast.MsgReportDownloaded))
}
