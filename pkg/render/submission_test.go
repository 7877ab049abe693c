package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-appform/pkg/render"
)

func TestMergeHiddenFields(t *testing.T) {
	base := []render.HiddenField{
		{Name: " existing ", Value: "keep"},
		{Name: "", Value: "ignored"},
		render.RecordID("old"),
	}

	merged := render.MergeHiddenFields(base,
		render.CSRFToken("_csrf", "token123"),
		render.RecordID("rec-42"),
		render.Hidden("  ", "skip"),
	)

	want := []render.HiddenField{
		{Name: "_csrf", Value: "token123"},
		{Name: "existing", Value: "keep"},
		{Name: "id", Value: "rec-42"},
	}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged hidden fields mismatch (-want +got):\n%s", diff)
	}
}

func TestSortedHiddenFieldsDropsEmptyNames(t *testing.T) {
	if got := render.SortedHiddenFields(map[string]string{" ": "x"}); got != nil {
		t.Fatalf("expected nil, got %#v", got)
	}
	got := render.SortedHiddenFields(map[string]string{"b": "2", "a": "1"})
	want := []render.HiddenField{{Name: "a", Value: "1"}, {Name: "b", Value: "2"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("sorted mismatch (-want +got):\n%s", diff)
	}
}
