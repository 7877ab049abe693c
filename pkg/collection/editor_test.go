package collection_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"

	"github.com/goliatone/go-appform/pkg/collection"
	"github.com/goliatone/go-appform/pkg/model"
	"github.com/goliatone/go-appform/pkg/registry"
	"github.com/goliatone/go-appform/pkg/validation"
)

func pharmacies(t testing.TB) model.CollectionSchema {
	t.Helper()
	schema, ok := registry.Business().Collection(registry.Pharmacies)
	if !ok {
		t.Fatalf("pharmacies collection missing")
	}
	return schema
}

func professionals(t testing.TB) model.CollectionSchema {
	t.Helper()
	schema, ok := registry.Business().Collection(registry.Professionals)
	if !ok {
		t.Fatalf("professionals collection missing")
	}
	return schema
}

func TestAddRejectsShortODSCode(t *testing.T) {
	editor := collection.NewEditor(pharmacies(t))

	status, err := editor.SetDraft("ods", "A1")
	if err != nil {
		t.Fatalf("set draft: %v", err)
	}
	if status != validation.StatusInvalid {
		t.Fatalf("status = %s, want invalid", status)
	}
	if editor.CanAdd() {
		t.Fatalf("CanAdd should be false for an invalid draft")
	}

	_, err = editor.Add()
	if !errors.Is(err, validation.InvalidField("pharmacies.draft.ods", validation.ReasonFormatMismatch)) {
		t.Fatalf("expected format mismatch, got %v", err)
	}
	if editor.Len() != 0 {
		t.Fatalf("list length changed to %d", editor.Len())
	}
	if diff := cmp.Diff([]string{"A1"}, editor.Draft()); diff != "" {
		t.Fatalf("draft mismatch (-want +got):\n%s", diff)
	}
}

func TestAddAppendsAndClearsDraft(t *testing.T) {
	editor := collection.NewEditor(professionals(t), collection.WithEntries([][]string{{"7654321", "Al Smith"}}))

	mustSetDraft(t, editor, "gphc", "1234567")
	mustSetDraft(t, editor, "name", "Jo Bloggs")

	result, err := editor.Add()
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if result.Index != 1 || result.Focus != "professionals.draft.gphc" {
		t.Fatalf("unexpected add result %#v", result)
	}

	want := [][]string{{"7654321", "Al Smith"}, {"1234567", "Jo Bloggs"}}
	if diff := cmp.Diff(want, editor.Entries()); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"", ""}, editor.Draft()); diff != "" {
		t.Fatalf("draft not cleared (-want +got):\n%s", diff)
	}
}

func TestAddReportsMissingBeforeFormat(t *testing.T) {
	editor := collection.NewEditor(professionals(t))
	mustSetDraft(t, editor, "gphc", "12")

	_, err := editor.Add()
	if !errors.Is(err, validation.InvalidField("professionals.draft.name", validation.ReasonMissing)) {
		t.Fatalf("expected missing name first, got %v", err)
	}
}

func TestAddRejectsBlankDraft(t *testing.T) {
	editor := collection.NewEditor(model.CollectionSchema{
		Key:        "notes",
		Components: []model.FieldSchema{{Key: "text", Label: "Text", Optional: true}},
	})
	if editor.CanAdd() {
		t.Fatalf("blank drafts cannot be added")
	}
}

func TestRemove(t *testing.T) {
	editor := collection.NewEditor(pharmacies(t), collection.WithEntries([][]string{{"AB123"}, {"bad"}, {"XY99"}}))
	editor.SetDraft("ods", "CD456")

	if !editor.Remove(1) {
		t.Fatalf("expected remove to succeed")
	}
	if diff := cmp.Diff([][]string{{"AB123"}, {"XY99"}}, editor.Entries()); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
	if editor.Remove(5) || editor.Remove(-1) {
		t.Fatalf("out-of-range removes must report false")
	}
	if editor.Len() != 2 {
		t.Fatalf("out-of-range removes changed the list")
	}
	if diff := cmp.Diff([]string{"CD456"}, editor.Draft()); diff != "" {
		t.Fatalf("remove touched the draft (-want +got):\n%s", diff)
	}
}

func TestPolicies(t *testing.T) {
	t.Run("trim whitespace", func(t *testing.T) {
		plain := collection.NewEditor(pharmacies(t))
		mustSetDraft(t, plain, "ods", " AB123 ")
		if plain.CanAdd() {
			t.Fatalf("untrimmed value should not match")
		}

		trimmed := collection.NewEditor(pharmacies(t), collection.WithPolicy(collection.Policy{TrimWhitespace: true}))
		mustSetDraft(t, trimmed, "ods", " AB123 ")
		if _, err := trimmed.Add(); err != nil {
			t.Fatalf("add: %v", err)
		}
		if diff := cmp.Diff([][]string{{"AB123"}}, trimmed.Entries()); diff != "" {
			t.Fatalf("entries mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("duplicates", func(t *testing.T) {
		allowing := collection.NewEditor(pharmacies(t), collection.WithEntries([][]string{{"AB123"}}))
		mustSetDraft(t, allowing, "ods", "AB123")
		if _, err := allowing.Add(); err != nil {
			t.Fatalf("duplicates are accepted by default: %v", err)
		}

		rejecting := collection.NewEditor(pharmacies(t),
			collection.WithPolicy(collection.Policy{RejectDuplicates: true}),
			collection.WithEntries([][]string{{"AB123"}}))
		mustSetDraft(t, rejecting, "ods", "ab123")
		_, err := rejecting.Add()
		if !errors.Is(err, validation.InvalidField("pharmacies.draft.ods", validation.ReasonDuplicate)) {
			t.Fatalf("expected duplicate failure, got %v", err)
		}
		if rejecting.Len() != 1 {
			t.Fatalf("duplicate was added")
		}
	})

	t.Run("auto advance", func(t *testing.T) {
		editor := collection.NewEditor(professionals(t), collection.WithPolicy(collection.Policy{AutoAdvance: true}))
		mustSetDraft(t, editor, "gphc", "123")
		if got := editor.NextFocus("gphc"); got != "professionals.draft.gphc" {
			t.Fatalf("invalid component should keep focus, got %q", got)
		}
		mustSetDraft(t, editor, "gphc", "1234567")
		if got := editor.NextFocus("gphc"); got != "professionals.draft.name" {
			t.Fatalf("valid component should advance, got %q", got)
		}

		manual := collection.NewEditor(professionals(t))
		mustSetDraft(t, manual, "gphc", "1234567")
		if got := manual.NextFocus("gphc"); got != "professionals.draft.gphc" {
			t.Fatalf("focus should stay without AutoAdvance, got %q", got)
		}
	})
}

func TestSetEntryValue(t *testing.T) {
	editor := collection.NewEditor(professionals(t), collection.WithEntries([][]string{{"1234567", "Jo Bloggs"}}))

	status, err := editor.SetEntryValue(0, "gphc", "12")
	if err != nil || status != validation.StatusInvalid {
		t.Fatalf("SetEntryValue = %s, %v", status, err)
	}
	if key, reason := editor.Problem(); key != "professionals.0.gphc" || reason != validation.ReasonFormatMismatch {
		t.Fatalf("Problem = %q %q", key, reason)
	}
	if _, err := editor.SetEntryValue(3, "gphc", "1"); !errors.Is(err, collection.ErrEntryOutOfRange) {
		t.Fatalf("expected ErrEntryOutOfRange, got %v", err)
	}
	if _, err := editor.SetEntryValue(0, "nope", "1"); !errors.Is(err, collection.ErrUnknownComponent) {
		t.Fatalf("expected ErrUnknownComponent, got %v", err)
	}
}

func TestAddNeverMutatesOnFailure(t *testing.T) {
	schema := professionals(t)
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.IntRange(0, 3).Draw(t, "seed")
		entries := make([][]string, seed)
		for idx := range entries {
			entries[idx] = []string{"1234567", "Jo Bloggs"}
		}
		editor := collection.NewEditor(schema, collection.WithEntries(entries))

		gphc := rapid.SampledFrom([]string{"", "12", "1234567", "abcdefg", "12345678"}).Draw(t, "gphc")
		name := rapid.SampledFrom([]string{"", "Jo Bloggs", "9lives", " "}).Draw(t, "name")
		editor.SetDraft("gphc", gphc)
		editor.SetDraft("name", name)

		before := editor.Entries()
		result, err := editor.Add()
		if err != nil {
			if diff := cmp.Diff(before, editor.Entries()); diff != "" {
				t.Fatalf("failed add mutated entries (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff([]string{gphc, name}, editor.Draft()); diff != "" {
				t.Fatalf("failed add changed the draft (-want +got):\n%s", diff)
			}
			return
		}

		if result.Index != seed || editor.Len() != seed+1 {
			t.Fatalf("entry not appended at the end: %#v len=%d", result, editor.Len())
		}
		if diff := cmp.Diff([]string{gphc, name}, editor.Entries()[seed]); diff != "" {
			t.Fatalf("added entry differs from draft (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"", ""}, editor.Draft()); diff != "" {
			t.Fatalf("draft not reset (-want +got):\n%s", diff)
		}
	})
}

func TestRemoveAlwaysShrinksByOne(t *testing.T) {
	schema := pharmacies(t)
	rapid.Check(t, func(t *rapid.T) {
		values := rapid.SliceOfN(rapid.SampledFrom([]string{"AB123", "", "zz", "XYZ999"}), 1, 8).Draw(t, "values")
		entries := make([][]string, len(values))
		for idx, value := range values {
			entries[idx] = []string{value}
		}
		editor := collection.NewEditor(schema, collection.WithEntries(entries))
		index := rapid.IntRange(0, len(values)-1).Draw(t, "index")

		if !editor.Remove(index) {
			t.Fatalf("remove(%d) failed", index)
		}
		if editor.Len() != len(values)-1 {
			t.Fatalf("len = %d, want %d", editor.Len(), len(values)-1)
		}
	})
}

func TestEditorView(t *testing.T) {
	editor := collection.NewEditor(pharmacies(t), collection.WithEntries([][]string{{"AB123"}}))
	mustSetDraft(t, editor, "ods", "CD45")

	view := editor.View()
	if view.Key != "pharmacies" || view.AddLabel != "Add pharmacy" || !view.Mandatory {
		t.Fatalf("unexpected header %#v", view)
	}
	if !view.CanAdd || view.Draft[0].Value != "CD45" || view.Entries[0].Components[0].ID != "pharmacies.0.ods" {
		t.Fatalf("unexpected view %#v", view)
	}
}

func mustSetDraft(t testing.TB, editor *collection.Editor, component, value string) {
	t.Helper()
	if _, err := editor.SetDraft(component, value); err != nil {
		t.Fatalf("set draft %s: %v", component, err)
	}
}
