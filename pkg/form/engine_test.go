package form

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-payform/pkg/model"
	"github.com/goliatone/go-payform/pkg/presentation"
	"github.com/goliatone/go-payform/pkg/presentation/dark"
	"github.com/goliatone/go-payform/pkg/presentation/light"
	"github.com/goliatone/go-payform/pkg/presentation/presentationtest"
	"github.com/goliatone/go-payform/pkg/schema"
)

func TestApplyChange_ListRoundTrip(t *testing.T) {
	e := NewEngine()
	state, err := e.ApplyChange(NewState(model.ChannelEmail), "cc", "a@x.com,b@y.com")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	v, _ := state.Get("cc")
	items, ok := v.List()
	if !ok {
		t.Fatalf("expected list value, got %v", v.Kind())
	}
	if diff := cmp.Diff([]string{"a@x.com", "b@y.com"}, items); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
	if got := e.DisplayValue(state, schema.For(model.ChannelEmail)[3]); got != "a@x.com,b@y.com" {
		t.Fatalf("display value: %q", got)
	}
}

// checkListRoundTrip stores items joined with "," and expects the same items
// back, and the joined text as the display value.
func checkListRoundTrip(t *testing.T, e *Engine, items []string) {
	t.Helper()
	descriptor := schema.For(model.ChannelEmail)[3]
	joined := strings.Join(items, ",")

	state, err := e.ApplyChange(NewState(model.ChannelEmail), descriptor.Key, joined)
	if err != nil {
		t.Fatalf("apply %q: %v", joined, err)
	}
	v, _ := state.Get(descriptor.Key)
	got, ok := v.List()
	if !ok {
		t.Fatalf("expected list value for %q, got %v", joined, v.Kind())
	}
	if diff := cmp.Diff(items, got); diff != "" {
		t.Fatalf("list mismatch for %q (-want +got):\n%s", joined, diff)
	}
	if display := e.DisplayValue(state, descriptor); display != joined {
		t.Fatalf("display value = %q, want %q", display, joined)
	}
}

func TestApplyChange_ListRoundTripTable(t *testing.T) {
	e := NewEngine()
	cases := map[string][]string{
		"single":          {"a@x.com"},
		"single empty":    {""},
		"empty items":     {"", "", ""},
		"empty in middle": {"a", "", "b"},
		"trailing empty":  {"a", ""},
		"spaces kept":     {" a ", "b "},
		"unicode":         {"Sí", "año", "✓"},
		"many":            {"1", "2", "3", "4", "5", "6", "7", "8"},
	}
	for name, items := range cases {
		t.Run(name, func(t *testing.T) {
			checkListRoundTrip(t, e, items)
		})
	}
}

func FuzzListRoundTrip(f *testing.F) {
	for _, seed := range []string{"", "a", "a\nb", "\n\n", " x \ny", "Sí\nNo"} {
		f.Add(seed)
	}
	e := NewEngine()
	f.Fuzz(func(t *testing.T, raw string) {
		// items are comma free; newlines separate them in the input
		items := strings.Split(strings.ReplaceAll(raw, ",", ""), "\n")
		checkListRoundTrip(t, e, items)
	})
}

func TestApplyChange_ListKeepsRawSegments(t *testing.T) {
	e := NewEngine()
	state, err := e.ApplyChange(NewState(model.ChannelWhatsApp), "interactiveButtons", " Sí, No ,")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	v, _ := state.Get("interactiveButtons")
	items, _ := v.List()
	if diff := cmp.Diff([]string{" Sí", " No ", ""}, items); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyChange_BooleanRoundTrip(t *testing.T) {
	e := NewEngine()
	descriptor := schema.For(model.ChannelSMS)[3]

	state, err := e.ApplyChange(NewState(model.ChannelSMS), "deliveryReportRequired", "true")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	v, _ := state.Get("deliveryReportRequired")
	if b, ok := v.Bool(); !ok || !b {
		t.Fatalf("expected true, got %v", v)
	}
	if got := e.DisplayValue(state, descriptor); got != "true" {
		t.Fatalf("display value: %q", got)
	}

	state, _ = e.ApplyChange(state, "deliveryReportRequired", "false")
	if got := e.DisplayValue(state, descriptor); got != "false" {
		t.Fatalf("display value: %q", got)
	}

	state, _ = e.ApplyChange(state, "deliveryReportRequired", Placeholder)
	if _, ok := state.Get("deliveryReportRequired"); ok {
		t.Fatalf("placeholder selection should clear the value")
	}
}

func TestApplyChange_ScalarsVerbatim(t *testing.T) {
	e := NewEngine()
	state := NewState(model.ChannelSMS)
	state, _ = e.ApplyChange(state, "scheduleTime", "2025-03-01T09:30")
	state, _ = e.ApplyChange(state, "message", "  hola ")

	if v, _ := state.Get("scheduleTime"); v.String() != "2025-03-01T09:30" {
		t.Fatalf("schedule time changed: %q", v.String())
	}
	if v, _ := state.Get("message"); v.String() != "  hola " {
		t.Fatalf("message changed: %q", v.String())
	}
}

func TestApplyChange_UnknownKey(t *testing.T) {
	e := NewEngine()
	state := NewState(model.ChannelPush)
	next, err := e.ApplyChange(state, "to", "x")
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if next.Len() != 0 {
		t.Fatalf("state changed on error")
	}
}

func TestApplyChange_DoesNotMutateInput(t *testing.T) {
	e := NewEngine()
	first, _ := e.ApplyChange(NewState(model.ChannelSMS), "message", "one")
	second, _ := e.ApplyChange(first, "message", "two")

	if v, _ := first.Get("message"); v.String() != "one" {
		t.Fatalf("input state mutated: %q", v.String())
	}
	if v, _ := second.Get("message"); v.String() != "two" {
		t.Fatalf("unexpected value: %q", v.String())
	}
}

func TestSubmit_OnlyBoundChannelKeys(t *testing.T) {
	e := NewEngine()
	state := NewState(model.ChannelSMS)
	for key, raw := range map[string]string{
		"phoneNumber":            "+34600000000",
		"message":                "hola",
		"deliveryReportRequired": "true",
	} {
		var err error
		if state, err = e.ApplyChange(state, key, raw); err != nil {
			t.Fatalf("apply %s: %v", key, err)
		}
	}
	if _, err := e.ApplyChange(state, "subject", "smuggled"); err == nil {
		t.Fatalf("expected foreign key to be rejected")
	}

	want := Payload{"phoneNumber": "+34600000000", "message": "hola", "deliveryReportRequired": true}
	if diff := cmp.Diff(want, e.Submit(state)); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmit_ListsAsSlices(t *testing.T) {
	e := NewEngine()
	state, _ := e.ApplyChange(NewState(model.ChannelEmail), "attachments", "https://a,https://b")
	want := Payload{"attachments": []string{"https://a", "https://b"}}
	if diff := cmp.Diff(want, e.Submit(state)); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_UnknownChannelFallback(t *testing.T) {
	e := NewEngine()
	rec := presentationtest.NewRecorder(light.New())

	if got := len(e.SchemaFor("FAX")); got != 0 {
		t.Fatalf("expected zero descriptors, got %d", got)
	}
	elements := e.Render(rec, "FAX", NewState("FAX"), nil)
	if len(elements) != 1 || elements[0].Text != UnrecognizedChannelLabel {
		t.Fatalf("unexpected fallback: %+v", elements)
	}
	if diff := cmp.Diff([]string{"Label"}, rec.Ops()); diff != "" {
		t.Fatalf("ops mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_LabelThenControl(t *testing.T) {
	e := NewEngine()
	rec := presentationtest.NewRecorder(nil)
	state, _ := e.ApplyChange(NewState(model.ChannelSMS), "deliveryReportRequired", "false")

	elements := e.Render(rec, model.ChannelSMS, state, nil)
	want := []string{
		"Label", "TextField",
		"Label", "TextField",
		"Label", "TextField",
		"Label", "ChoiceField",
		"Label", "TextField",
	}
	if diff := cmp.Diff(want, rec.Ops()); diff != "" {
		t.Fatalf("ops mismatch (-want +got):\n%s", diff)
	}

	choice := elements[7]
	if diff := cmp.Diff([]string{Placeholder, "true", "false"}, optionValues(choice.Options)); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if selected, _ := choice.Selected(); selected.Label != "No" {
		t.Fatalf("expected No selected, got %+v", selected)
	}
	if elements[9].Placeholder != "AAAA-MM-DDTHH:mm" {
		t.Fatalf("unexpected schedule placeholder %q", elements[9].Placeholder)
	}
}

func TestRender_ChangeCarriesKey(t *testing.T) {
	e := NewEngine()
	var gotKey, gotRaw string
	elements := e.Render(light.New(), model.ChannelPush, NewState(model.ChannelPush), func(key, raw string) {
		gotKey, gotRaw = key, raw
	})

	elements[11].Change("urgente")
	if gotKey != "priority" || gotRaw != "urgente" {
		t.Fatalf("unexpected change: %q=%q", gotKey, gotRaw)
	}
}

func TestRender_FactorySwapLeavesStateUnchanged(t *testing.T) {
	e := NewEngine()
	state, _ := e.ApplyChange(NewState(model.ChannelEmail), "to", "ops@example.com")
	state, _ = e.ApplyChange(state, "cc", "a,b")
	snapshot := state

	lightEls := e.Render(light.New(), model.ChannelEmail, state, nil)
	darkEls := e.Render(dark.New(), model.ChannelEmail, state, nil)

	if !state.Equal(snapshot) {
		t.Fatalf("rendering changed state")
	}
	if len(lightEls) != len(darkEls) {
		t.Fatalf("variants rendered different element counts")
	}
	for i := range lightEls {
		if lightEls[i].Value != darkEls[i].Value || lightEls[i].Text != darkEls[i].Text {
			t.Fatalf("element %d differs between variants", i)
		}
	}
}

func TestEngine_WithSource(t *testing.T) {
	custom := schema.SourceFunc(func(model.Channel) []model.FieldDescriptor {
		return []model.FieldDescriptor{{Key: "chatId", Kind: model.FieldKindText, Label: "Chat"}}
	})
	e := NewEngine(WithSource(custom))
	state, err := e.ApplyChange(NewState("TELEGRAM"), "chatId", "42")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if diff := cmp.Diff(Payload{"chatId": "42"}, e.Submit(state)); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeScheduleTime(t *testing.T) {
	cases := map[string]string{
		"":                 "",
		"2025-03-01 09:30": "2025-03-01T09:30",
		"2025-03-01T09:30": "2025-03-01T09:30",
	}
	for in, want := range cases {
		got, err := NormalizeScheduleTime(in)
		if err != nil {
			t.Fatalf("normalize %q: %v", in, err)
		}
		if got != want {
			t.Fatalf("normalize %q: want %q, got %q", in, want, got)
		}
	}
	if _, err := NormalizeScheduleTime("tomorrow"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func optionValues(options []presentation.Option) []string {
	out := make([]string, 0, len(options))
	for _, o := range options {
		out = append(out, o.Value)
	}
	return out
}
