package prior_test

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-appform/pkg/prior"
)

func TestFileSourceLoadsJSONAndYAML(t *testing.T) {
	source := prior.NewFileSource("testdata")

	first, err := source.Load(context.Background(), "rec-1")
	if err != nil {
		t.Fatalf("load rec-1: %v", err)
	}
	if first.Category != "limitedCompany" || len(first.Collections["pharmacies"]) != 2 {
		t.Fatalf("unexpected rec-1 values %#v", first)
	}

	second, err := source.Load(context.Background(), "rec-2")
	if err != nil {
		t.Fatalf("load rec-2: %v", err)
	}
	want := prior.Values{
		ID:       "rec-2",
		Category: "soleTrader",
		Fields: map[string]string{
			"business.name":     "Jo's Chemist",
			"contact.telephone": "07123456789",
		},
		Collections: map[string][]map[string]string{
			"professionals": {{"gphc": "1234567", "name": "Jo Bloggs"}},
		},
	}
	if diff := cmp.Diff(want, second); diff != "" {
		t.Fatalf("rec-2 mismatch (-want +got):\n%s", diff)
	}
}

func TestFileSourceErrors(t *testing.T) {
	source := prior.FileSource{FS: fstest.MapFS{
		"bad.json": {Data: []byte("{")},
	}}

	if _, err := source.Load(context.Background(), "missing"); !errors.Is(err, prior.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := source.Load(context.Background(), "../etc/passwd"); err == nil {
		t.Fatalf("expected invalid id error")
	}
	if _, err := source.Load(context.Background(), "bad"); err == nil {
		t.Fatalf("expected parse error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := source.Load(ctx, "bad"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestValuesEmpty(t *testing.T) {
	if !(prior.Values{}).Empty() {
		t.Fatalf("zero values should be empty")
	}
	if (prior.Values{ID: "x"}).Empty() {
		t.Fatalf("values with an id are not empty")
	}
}
