package pricing

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

func TestComputeTax_DefaultTable(t *testing.T) {
	cases := []struct {
		method    string
		principal int64
		want      string
	}{
		{MethodCreditCard, 1200, "46"},
		{MethodCreditCard, 1000, "30"},
		{MethodDebitCard, 501, "10.01"},
		{MethodDebitCard, 500, "5"},
		{MethodPayPal, 751, "22.02"},
		{MethodPayPal, 750, "15"},
		{"UNKNOWN_METHOD", 500, "0"},
	}
	for _, tc := range cases {
		got := ComputeTax(tc.method, decimal.NewFromInt(tc.principal))
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("%s %d: want %s, got %s", tc.method, tc.principal, tc.want, got)
		}
	}
}

func TestComputeTax_ZeroPrincipal(t *testing.T) {
	if got := ComputeTax(MethodCreditCard, decimal.Zero); !got.IsZero() {
		t.Fatalf("expected zero tax, got %s", got)
	}
}

func TestFormatAmount(t *testing.T) {
	cases := map[string]string{
		"46":     "$46.00 USD",
		"10.01":  "$10.01 USD",
		"0":      "$0.00 USD",
		"12.345": "$12.35 USD",
		"1234.5": "$1234.50 USD",
	}
	for in, want := range cases {
		if got := FormatAmount(decimal.RequireFromString(in)); got != want {
			t.Fatalf("format %s: want %q, got %q", in, want, got)
		}
	}
}

func TestParseAmount(t *testing.T) {
	d, err := ParseAmount(" 501 ")
	if err != nil || !d.Equal(decimal.NewFromInt(501)) {
		t.Fatalf("parse: %s, %v", d, err)
	}
	if _, err := ParseAmount(""); err == nil {
		t.Fatalf("expected error for blank amount")
	}
	if _, err := ParseAmount("abc"); err == nil {
		t.Fatalf("expected error for non-numeric amount")
	}
}

func TestLoadTable(t *testing.T) {
	table, err := LoadTable(strings.NewReader(`
methods:
  CREDIT_CARD:
    tax_rate_percent: "4"
    surcharge_threshold: "100"
    surcharge_amount: "1.5"
  CRYPTO:
    tax_rate_percent: "0.5"
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"CREDIT_CARD", "CRYPTO"}, table.Methods()); diff != "" {
		t.Fatalf("methods mismatch (-want +got):\n%s", diff)
	}
	if got := table.ComputeTax(MethodCreditCard, decimal.NewFromInt(200)); !got.Equal(decimal.RequireFromString("9.5")) {
		t.Fatalf("credit card: %s", got)
	}
	if got := table.ComputeTax("CRYPTO", decimal.NewFromInt(1000)); !got.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("crypto: %s", got)
	}
	if got := table.ComputeTax(MethodDebitCard, decimal.NewFromInt(1000)); !got.IsZero() {
		t.Fatalf("methods absent from a loaded table should be untaxed, got %s", got)
	}
}

func TestLoadTable_Errors(t *testing.T) {
	for name, doc := range map[string]string{
		"empty":     "methods: {}\n",
		"bad rate":  "methods:\n  X:\n    tax_rate_percent: abc\n",
		"bad limit": "methods:\n  X:\n    surcharge_threshold: abc\n",
	} {
		if _, err := LoadTable(strings.NewReader(doc)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
