package model_test

import (
	"testing"

	"github.com/goliatone/go-appform/pkg/model"
)

func TestDefaultLabeler(t *testing.T) {
	cases := map[string]string{
		"invoiceEmail":   "Invoice Email",
		"limited_company": "Limited Company",
		"gphc":           "Gphc",
		"address2":       "Address 2",
		"":               "",
	}
	for input, want := range cases {
		if got := model.DefaultLabeler(input); got != want {
			t.Fatalf("DefaultLabeler(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestEffectivePattern(t *testing.T) {
	email := model.FieldSchema{Key: "email", Kind: model.KindEmail}
	if got := email.EffectivePattern(); got != model.EmailPattern {
		t.Fatalf("expected native email pattern, got %q", got)
	}

	custom := model.FieldSchema{Key: "email", Kind: model.KindEmail, Pattern: `.+@example\.com`}
	if got := custom.EffectivePattern(); got != custom.Pattern {
		t.Fatalf("explicit pattern should win, got %q", got)
	}

	text := model.FieldSchema{Key: "name", Kind: model.KindText}
	if got := text.EffectivePattern(); got != "" {
		t.Fatalf("text fields have no implied pattern, got %q", got)
	}
}

func TestQualifiedKeyRoundTrip(t *testing.T) {
	key := model.QualifiedKey("contact", "telephone")
	if key != "contact.telephone" {
		t.Fatalf("unexpected qualified key %q", key)
	}
	section, field := model.SplitQualifiedKey(key)
	if section != "contact" || field != "telephone" {
		t.Fatalf("split mismatch: %q %q", section, field)
	}
	if section, field := model.SplitQualifiedKey("plain"); section != "" || field != "plain" {
		t.Fatalf("unqualified split mismatch: %q %q", section, field)
	}
}

func TestCollectionSchemaHelpers(t *testing.T) {
	collection := model.CollectionSchema{
		Key:       "professionals",
		Label:     "Professionals",
		Mandatory: true,
		Components: []model.FieldSchema{
			{Key: "gphc", Label: "GPhC number"},
			{Key: "name", Label: "Name"},
		},
	}

	if idx := collection.ComponentIndex("name"); idx != 1 {
		t.Fatalf("expected component index 1, got %d", idx)
	}
	if idx := collection.ComponentIndex("missing"); idx != -1 {
		t.Fatalf("expected -1 for missing component, got %d", idx)
	}
	if _, ok := collection.Component("gphc"); !ok {
		t.Fatalf("expected gphc component")
	}
}

func TestEntryAndDraftKeys(t *testing.T) {
	if got := model.EntryKey("pharmacies", 2, "ods"); got != "pharmacies.2.ods" {
		t.Fatalf("EntryKey = %q", got)
	}
	if got := model.DraftKey("professionals", "gphc"); got != "professionals.draft.gphc" {
		t.Fatalf("DraftKey = %q", got)
	}
}
