package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ComputeTax returns principal*rate/100 plus the surcharge when principal is
// strictly above the rule threshold. Unknown methods are taxed at zero. The
// result is not rounded.
func (t *Table) ComputeTax(method string, principal decimal.Decimal) decimal.Decimal {
	rule, ok := t.Rule(method)
	if !ok {
		return decimal.Zero
	}
	tax := principal.Mul(rule.TaxRatePercent).Div(hundred)
	if rule.Threshold != nil && principal.GreaterThan(*rule.Threshold) {
		tax = tax.Add(rule.Surcharge)
	}
	return tax
}

// ComputeTax applies the built-in table.
func ComputeTax(method string, principal decimal.Decimal) decimal.Decimal {
	return DefaultTable().ComputeTax(method, principal)
}

// FormatAmount renders d as "$X.XX USD", rounding half away from zero.
func FormatAmount(d decimal.Decimal) string {
	return "$" + d.StringFixed(2) + " USD"
}

// ParseAmount parses the amount typed by the operator.
func ParseAmount(raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, fmt.Errorf("pricing: amount is required")
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("pricing: parse amount %q: %w", raw, err)
	}
	return d, nil
}
