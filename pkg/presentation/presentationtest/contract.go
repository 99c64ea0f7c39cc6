package presentationtest

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-payform/pkg/presentation"
)

// RunContract checks the behaviour every Factory must share regardless of
// styling.
func RunContract(t *testing.T, factory presentation.Factory) {
	t.Helper()

	if factory.Name() == "" {
		t.Fatalf("factory name must not be empty")
	}

	t.Run("button invokes supplied callback", func(t *testing.T) {
		hits := 0
		el := factory.Button(presentation.Content{Text: "Pagar", Icon: "credit-card"}, func() { hits++ }, false)
		if el == nil {
			t.Fatalf("Button returned nil")
		}
		if el.Kind != presentation.KindButton || el.Text != "Pagar" || el.Icon != "credit-card" {
			t.Fatalf("unexpected button: %+v", el)
		}
		if !el.Activate() || hits != 1 {
			t.Fatalf("expected one activation, got %d", hits)
		}
	})

	t.Run("disabled button never fires", func(t *testing.T) {
		hits := 0
		el := factory.Button(presentation.Text("Enviar"), func() { hits++ }, true)
		if !el.Disabled {
			t.Fatalf("expected disabled flag")
		}
		if el.Activate() || hits != 0 {
			t.Fatalf("disabled button fired %d times", hits)
		}
	})

	t.Run("nil callbacks are tolerated", func(t *testing.T) {
		if factory.Button(presentation.Text("x"), nil, false).Activate() {
			t.Fatalf("nil activation reported as run")
		}
		if factory.TextField("", "", nil).Change("v") {
			t.Fatalf("nil change reported as run")
		}
	})

	t.Run("text field forwards raw values", func(t *testing.T) {
		var got []string
		el := factory.TextField("Monto", "12", func(v string) { got = append(got, v) })
		if el.Placeholder != "Monto" || el.Value != "12" {
			t.Fatalf("unexpected text field: %+v", el)
		}
		el.Change(" a,b ")
		el.Change(" a,b ")
		if diff := cmp.Diff([]string{" a,b ", " a,b "}, got); diff != "" {
			t.Fatalf("change values mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("choice options preserved verbatim", func(t *testing.T) {
		options := []presentation.Option{
			{Label: "Seleccionar", Value: "Seleccionar"},
			{Label: "Sí", Value: "true"},
			{Label: " spaced ", Value: " spaced "},
		}
		var got string
		el := factory.ChoiceField(options, "true", func(v string) { got = v })
		if diff := cmp.Diff(options, el.Options); diff != "" {
			t.Fatalf("options mismatch (-want +got):\n%s", diff)
		}
		selected, ok := el.Selected()
		if !ok || selected.Label != "Sí" {
			t.Fatalf("expected Sí selected, got %+v (%v)", selected, ok)
		}
		el.Change("false")
		if got != "false" {
			t.Fatalf("expected change to forward false, got %q", got)
		}
		options[0].Label = "mutated"
		if el.Options[0].Label != "Seleccionar" {
			t.Fatalf("element shares the caller's options slice")
		}
	})

	t.Run("labels and lines keep text", func(t *testing.T) {
		line := factory.LabeledLine("Total a Pagar:", "$46.00 USD", &presentation.LineStyle{Emphasized: true})
		if line.Text != "Total a Pagar:" || line.Value != "$46.00 USD" || !line.Emphasized {
			t.Fatalf("unexpected line: %+v", line)
		}
		plain := factory.LabeledLine("Impuesto:", "$0.00 USD", nil)
		if plain.Emphasized {
			t.Fatalf("nil style must not emphasise")
		}
		label := factory.Label("Factura de Pago", &presentation.LabelStyle{Role: presentation.LabelTitle})
		if label.Text != "Factura de Pago" || label.Role != presentation.LabelTitle {
			t.Fatalf("unexpected label: %+v", label)
		}
		if factory.Label("x", nil) == nil {
			t.Fatalf("Label with nil style returned nil")
		}
	})

	t.Run("container keeps children in order", func(t *testing.T) {
		a := factory.Label("a", nil)
		b := factory.Label("b", nil)
		c := factory.Container(a, nil, b)
		if len(c.Children) != 2 || c.Children[0] != a || c.Children[1] != b {
			t.Fatalf("unexpected children: %+v", c.Children)
		}
		if factory.Container() == nil {
			t.Fatalf("empty container returned nil")
		}
	})

	t.Run("download trigger fires", func(t *testing.T) {
		hits := 0
		el := factory.DownloadTrigger(func() { hits++ })
		if el.Kind != presentation.KindDownloadTrigger || !el.Activate() || hits != 1 {
			t.Fatalf("download trigger did not fire: %+v", el)
		}
	})

	t.Run("fresh elements per call", func(t *testing.T) {
		if factory.Label("x", nil) == factory.Label("x", nil) {
			t.Fatalf("factory reused an element")
		}
	})
}
