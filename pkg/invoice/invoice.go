// Package invoice holds the payment summary shown after a successful payment
// and renders it, or a configured report of it, as PDF.
package invoice

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/goliatone/go-payform/pkg/pricing"
)

// FileName is the name downloaded invoices are saved under.
const FileName = "factura_pago.pdf"

// Invoice summarises one payment. TotalCharged is the amount the backend
// reported and is never reconciled with Principal+Tax.
type Invoice struct {
	Method       string
	Principal    decimal.Decimal
	Tax          decimal.Decimal
	TotalCharged decimal.Decimal
	Operator     string
}

// Compute builds an invoice, deriving Tax from table. A nil table uses the
// built-in rates.
func Compute(table *pricing.Table, method string, principal, totalCharged decimal.Decimal) Invoice {
	if table == nil {
		table = pricing.DefaultTable()
	}
	return Invoice{
		Method:       method,
		Principal:    principal,
		Tax:          table.ComputeTax(method, principal),
		TotalCharged: totalCharged,
	}
}

// Line is one label/value row of the summary.
type Line struct {
	Label      string
	Value      string
	Emphasized bool
}

// Lines returns the summary rows in display order.
func (i Invoice) Lines() []Line {
	return []Line{
		{Label: "Método de Pago:", Value: i.Method},
		{Label: "Monto Inicial:", Value: pricing.FormatAmount(i.Principal)},
		{Label: "Impuesto:", Value: pricing.FormatAmount(i.Tax)},
		{Label: "Total a Pagar:", Value: pricing.FormatAmount(i.TotalCharged), Emphasized: true},
	}
}

// Report themes and page formats.
const (
	ThemeLight = "LIGHT"
	ThemeDark  = "DARK"

	FormatA4     = "A4"
	FormatLetter = "LETTER"
	FormatLegal  = "LEGAL"
)

// ReportConfig selects what a generated report contains and how it looks.
type ReportConfig struct {
	Title                 string `json:"title" validate:"required,max=120"`
	FooterMessage         string `json:"footerMessage" validate:"max=500"`
	Theme                 string `json:"theme" validate:"oneof=LIGHT DARK"`
	Format                string `json:"format" validate:"oneof=A4 LETTER LEGAL"`
	IncludeLogo           bool   `json:"includeLogo"`
	IncludePaymentDetails bool   `json:"includePaymentDetails"`
	IncludeUserInfo       bool   `json:"includeUserInfo"`
	IncludeTimestamp      bool   `json:"includeTimestamp"`
}

// DefaultReportConfig returns the values the report overlay opens with.
func DefaultReportConfig() ReportConfig {
	return ReportConfig{
		Title:                 "Factura de Pago",
		FooterMessage:         "Gracias por confiar en nosotros.",
		Theme:                 ThemeLight,
		Format:                FormatA4,
		IncludeLogo:           true,
		IncludePaymentDetails: true,
		IncludeUserInfo:       false,
		IncludeTimestamp:      true,
	}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks the struct tags of c.
func (c ReportConfig) Validate() error {
	if err := structValidator().Struct(c); err != nil {
		return fmt.Errorf("invoice: report config: %w", err)
	}
	return nil
}
