package session

import (
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-payform/pkg/model"
	"github.com/goliatone/go-payform/pkg/pricing"
)

// MethodUnset is the placeholder of the payment method choice.
const MethodUnset = "Seleccione un Método"

// PaymentEntry is what the operator types on the first screen.
type PaymentEntry struct {
	Method string `validate:"required,ne=Seleccione un Método"`
	Amount string `validate:"required"`
}

// NewPaymentEntry returns the initial, empty entry.
func NewPaymentEntry() PaymentEntry {
	return PaymentEntry{Method: MethodUnset}
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

// Valid reports whether a method is chosen and the amount is not blank. The
// amount is not checked for being numeric; the backend contract does that.
func (e PaymentEntry) Valid() bool {
	e.Amount = strings.TrimSpace(e.Amount)
	return structValidator().Struct(e) == nil
}

// MethodOptions lists the payment method choices, placeholder first.
func MethodOptions() []model.Option {
	return []model.Option{
		{Label: MethodUnset, Value: MethodUnset},
		{Label: "Tarjeta de Crédito", Value: pricing.MethodCreditCard},
		{Label: "Tarjeta de Débito", Value: pricing.MethodDebitCard},
		{Label: "PayPal", Value: pricing.MethodPayPal},
	}
}
