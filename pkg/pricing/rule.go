package pricing

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Payment methods of the built-in table.
const (
	MethodCreditCard = "CREDIT_CARD"
	MethodDebitCard  = "DEBIT_CARD"
	MethodPayPal     = "PAYPAL"
)

// Rule describes the tax applied to one payment method. When Threshold is
// set, Surcharge is added for principals strictly above it.
type Rule struct {
	Method         string
	TaxRatePercent decimal.Decimal
	Threshold      *decimal.Decimal
	Surcharge      decimal.Decimal
}

// Table maps payment methods to rules.
type Table struct {
	mu    sync.RWMutex
	rules map[string]Rule
}

// NewTable builds a table from rules. Later rules for the same method win.
func NewTable(rules ...Rule) *Table {
	t := &Table{rules: make(map[string]Rule, len(rules))}
	for _, r := range rules {
		t.rules[r.Method] = r
	}
	return t
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// DefaultTable returns the built-in rates.
func DefaultTable() *Table {
	defaultOnce.Do(func() {
		defaultTable = NewTable(
			Rule{Method: MethodCreditCard, TaxRatePercent: decimal.NewFromInt(3), Threshold: threshold(1000), Surcharge: decimal.NewFromInt(10)},
			Rule{Method: MethodDebitCard, TaxRatePercent: decimal.NewFromInt(1), Threshold: threshold(500), Surcharge: decimal.NewFromInt(5)},
			Rule{Method: MethodPayPal, TaxRatePercent: decimal.NewFromInt(2), Threshold: threshold(750), Surcharge: decimal.NewFromInt(7)},
		)
	})
	return defaultTable
}

func threshold(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// Rule returns the rule for method.
func (t *Table) Rule(method string) (Rule, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.rules[method]
	return r, ok
}

// Methods lists the methods with a rule, sorted.
func (t *Table) Methods() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, 0, len(t.rules))
	for m := range t.rules {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

type tableFile struct {
	Methods map[string]ruleFile `yaml:"methods"`
}

type ruleFile struct {
	TaxRatePercent string  `yaml:"tax_rate_percent"`
	Threshold      *string `yaml:"surcharge_threshold"`
	Surcharge      string  `yaml:"surcharge_amount"`
}

// LoadTable reads a YAML rate table:
//
//	methods:
//	  CREDIT_CARD:
//	    tax_rate_percent: "3"
//	    surcharge_threshold: "1000"
//	    surcharge_amount: "10"
func LoadTable(r io.Reader) (*Table, error) {
	var doc tableFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("pricing: decode table: %w", err)
	}
	if len(doc.Methods) == 0 {
		return nil, fmt.Errorf("pricing: table declares no methods")
	}

	rules := make([]Rule, 0, len(doc.Methods))
	for method, rf := range doc.Methods {
		method = strings.TrimSpace(method)
		if method == "" {
			return nil, fmt.Errorf("pricing: table has an empty method")
		}
		rule := Rule{Method: method}

		var err error
		if rule.TaxRatePercent, err = parseField(rf.TaxRatePercent); err != nil {
			return nil, fmt.Errorf("pricing: %s tax_rate_percent: %w", method, err)
		}
		if rule.Surcharge, err = parseField(rf.Surcharge); err != nil {
			return nil, fmt.Errorf("pricing: %s surcharge_amount: %w", method, err)
		}
		if rf.Threshold != nil {
			th, err := decimal.NewFromString(strings.TrimSpace(*rf.Threshold))
			if err != nil {
				return nil, fmt.Errorf("pricing: %s surcharge_threshold: %w", method, err)
			}
			rule.Threshold = &th
		}
		rules = append(rules, rule)
	}
	return NewTable(rules...), nil
}

func parseField(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}
