package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-payform/pkg/render"
)

func TestMergeAndSortHiddenFields(t *testing.T) {
	base := map[string]string{
		" existing ": "keep",
		"":           "ignored",
	}

	merged := render.MergeHiddenFields(base,
		render.CSRFToken("_csrf", "token123"),
		render.SessionField("abc123"),
		render.Hidden("revision", 4),
		render.Hidden("  ", "skip"),
	)

	wantMerged := map[string]string{
		"existing": "keep",
		"_csrf":    "token123",
		"session":  "abc123",
		"revision": "4",
	}
	if diff := cmp.Diff(wantMerged, merged); diff != "" {
		t.Fatalf("merged hidden fields mismatch (-want +got):\n%s", diff)
	}

	sorted := render.SortedHiddenFields([]render.HiddenField{
		render.SessionField("old"),
		render.CSRFToken("_csrf", "token123"),
		render.SessionField("abc123"),
	})
	wantSorted := []render.HiddenField{
		{Name: "_csrf", Value: "token123"},
		{Name: "session", Value: "abc123"},
	}
	if diff := cmp.Diff(wantSorted, sorted); diff != "" {
		t.Fatalf("sorted hidden fields mismatch (-want +got):\n%s", diff)
	}
}

func TestChangeFieldName(t *testing.T) {
	name := render.ChangeFieldName("e7")
	if name != "change:e7" {
		t.Fatalf("unexpected name %q", name)
	}
	id, ok := render.ParseChangeFieldName(name)
	if !ok || id != "e7" {
		t.Fatalf("round trip failed: %q %v", id, ok)
	}
	if _, ok := render.ParseChangeFieldName("activate"); ok {
		t.Fatalf("activate is not a change field")
	}
	if _, ok := render.ParseChangeFieldName("change:"); ok {
		t.Fatalf("empty id accepted")
	}
}
