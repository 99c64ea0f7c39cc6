package backend

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/goliatone/go-payform/pkg/invoice"
	"github.com/goliatone/go-payform/pkg/model"
)

// PaymentRequest charges a payment. Amount is the text the operator typed.
type PaymentRequest struct {
	PaymentType      string
	Amount           string
	NotificationType string
}

func (r PaymentRequest) query() map[string]string {
	return map[string]string{
		"paymentType":      r.PaymentType,
		"amount":           r.Amount,
		"notificationType": r.NotificationType,
	}
}

// NotificationRequest sends a notification. Fields holds the submitted form
// payload and is merged into the top-level JSON object.
type NotificationRequest struct {
	PaymentType string
	Amount      string
	Type        model.Channel
	Fields      map[string]any
}

func (r NotificationRequest) body() map[string]any {
	out := make(map[string]any, len(r.Fields)+3)
	out["paymentType"] = r.PaymentType
	out["amount"] = r.Amount
	out["type"] = string(r.Type)
	for k, v := range r.Fields {
		out[k] = v
	}
	return out
}

// ReportRequest asks the backend to render a report.
type ReportRequest struct {
	Config        invoice.ReportConfig
	PaymentType   string
	PaymentAmount decimal.Decimal
	PaymentTotal  decimal.Decimal
	PaymentTax    decimal.Decimal
}

// body sends includeTimestamp under both of the names the backend has used.
func (r ReportRequest) body() map[string]any {
	return map[string]any{
		"title":                 r.Config.Title,
		"footerMessage":         r.Config.FooterMessage,
		"theme":                 r.Config.Theme,
		"format":                r.Config.Format,
		"includeLogo":           r.Config.IncludeLogo,
		"includePaymentDetails": r.Config.IncludePaymentDetails,
		"includeUserInfo":       r.Config.IncludeUserInfo,
		"includeTimestamp":      r.Config.IncludeTimestamp,
		"includeDate":           r.Config.IncludeTimestamp,
		"paymentType":           r.PaymentType,
		"paymentAmount":         json.Number(r.PaymentAmount.String()),
		"paymentTotal":          json.Number(r.PaymentTotal.String()),
		"paymentTax":            json.Number(r.PaymentTax.String()),
	}
}
