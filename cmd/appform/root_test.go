package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-appform/internal/config"
	"github.com/goliatone/go-appform/pkg/render"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestCategoriesCommand(t *testing.T) {
	out, err := run(t, "categories")
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	for _, fragment := range []string{"KEY", "limitedCompany", "Sole Trader", "partnership"} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %q in output:\n%s", fragment, out)
		}
	}
}

func TestRenderCommandWithJSONRenderer(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "appform.yaml", "render:\n  renderer: json\n")

	out, err := run(t, "--config", cfgPath, "render", "--category", "soleTrader")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var view render.FormView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode view: %v\n%s", err, out)
	}
	if view.Section == nil || view.Section.Label != "Sole Trader" {
		t.Fatalf("expected sole trader section, got %#v", view.Section)
	}
}

func TestRenderCommandWritesHTML(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "form.html")

	if _, err := run(t, "render", "--output", output); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "<form") {
		t.Fatalf("expected HTML form, got:\n%s", data)
	}
}

func TestRenderCommandAcceptFlow(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "rec-7.yaml", "category: soleTrader\nfields:\n  business.name: Jo's Chemist\n")
	cfgPath := writeFile(t, dir, "appform.yaml", "render:\n  renderer: json\n")

	out, err := run(t, "--config", cfgPath, "--prior-dir", dir, "render", "--prior", "rec-7")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var view render.FormView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.SubmitLabel != "Accept" {
		t.Fatalf("expected accept label, got %q", view.SubmitLabel)
	}

	if _, err := run(t, "render", "--prior", "rec-7"); err == nil {
		t.Fatalf("expected error without a prior directory")
	}
}

func TestContractCommand(t *testing.T) {
	out, err := run(t, "contract", "--format", "yaml")
	if err != nil {
		t.Fatalf("contract: %v", err)
	}
	for _, fragment := range []string{"openapi: 3.0.3", "business-application", "business-accept"} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %q in contract:\n%s", fragment, out)
		}
	}

	if _, err := run(t, "contract", "--format", "toml"); err == nil {
		t.Fatalf("expected unknown format error")
	}
}

func TestCustomDefinitions(t *testing.T) {
	dir := t.TempDir()
	definition := writeFile(t, dir, "clinic.yaml", `name: clinic
title: Clinic registration
categoryLabel: Clinic type
categorySection: clinic
categories:
  - key: gp
    label: GP surgery
    fields:
      - key: name
        label: Name
contact:
  key: contact
  fields:
    - key: email
      label: Email
      kind: email
`)

	out, err := run(t, "--definitions", definition, "categories")
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if !strings.Contains(out, "GP surgery") {
		t.Fatalf("expected custom category, got:\n%s", out)
	}
}

func TestInvalidConfigFails(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "appform.yaml", "log_level: loud\nrender:\n  renderer: preact\n")

	_, err := run(t, "--config", cfgPath, "categories")
	if err == nil {
		t.Fatalf("expected config validation error")
	}
	if !strings.Contains(err.Error(), "loud") || !strings.Contains(err.Error(), "preact") {
		t.Fatalf("unexpected error %v", err)
	}

	if _, err := run(t, "--config", filepath.Join(dir, "missing.yaml"), "categories"); err == nil {
		t.Fatalf("expected error for a missing explicit config file")
	}
}

func TestPreviewHandlerFromConfig(t *testing.T) {
	a := &app{
		v:      viper.New(),
		cfg:    config.Defaults(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	a.cfg.Render.Theme = config.ThemeConfig{Name: "acme", Tokens: map[string]string{"brand": "#123456"}}

	handler, err := a.previewHandler(&cobra.Command{})
	if err != nil {
		t.Fatalf("preview handler: %v", err)
	}
	server := httptest.NewServer(handler.Router())
	t.Cleanup(server.Close)

	res, err := http.Get(server.URL + "/")
	if err != nil {
		t.Fatalf("get form: %v", err)
	}
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.StatusCode)
	}
	if !strings.Contains(string(body), "--brand: #123456;") {
		t.Fatalf("expected theme variables in HTML:\n%s", body)
	}
}
