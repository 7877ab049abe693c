package registry

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-appform/pkg/model"
)

// LoadFS reads a JSON or YAML definition file from fsys and builds a registry.
func LoadFS(fsys fs.FS, path string) (*Registry, error) {
	if fsys == nil {
		return nil, fmt.Errorf("registry: load %s: filesystem is nil", path)
	}
	if !isDefinitionFile(path) {
		return nil, fmt.Errorf("registry: load %s: unsupported extension", path)
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("registry: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes a definition document (JSON first, YAML as fallback), fills
// in derived labels and kinds, and builds a registry from it.
func Parse(data []byte, source string) (*Registry, error) {
	def, err := parseDefinition(data, source)
	if err != nil {
		return nil, err
	}
	return New(normaliseDefinition(def))
}

func parseDefinition(data []byte, source string) (Definition, error) {
	var def Definition
	if len(strings.TrimSpace(string(data))) == 0 {
		return Definition{}, fmt.Errorf("registry: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &def); err == nil {
		return def, nil
	}

	def = Definition{}
	if err := yaml.Unmarshal(data, &def); err == nil {
		return def, nil
	}

	return Definition{}, fmt.Errorf("registry: parse %s: invalid JSON or YAML", source)
}

func normaliseDefinition(def Definition) Definition {
	def.Name = strings.TrimSpace(def.Name)
	for idx := range def.Categories {
		category := &def.Categories[idx]
		category.Key = strings.TrimSpace(category.Key)
		if category.Label == "" {
			category.Label = model.DefaultLabeler(category.Key)
		}
		normaliseFields(category.Fields)
	}
	normaliseFields(def.Contact.Fields)
	for idx := range def.Collections {
		collection := &def.Collections[idx]
		collection.Key = strings.TrimSpace(collection.Key)
		if collection.Label == "" {
			collection.Label = model.DefaultLabeler(collection.Key)
		}
		normaliseFields(collection.Components)
	}
	return def
}

func normaliseFields(fields []model.FieldSchema) {
	for idx := range fields {
		field := &fields[idx]
		field.Key = strings.TrimSpace(field.Key)
		if field.Label == "" {
			field.Label = model.DefaultLabeler(field.Key)
		}
		if field.Kind == "" {
			field.Kind = model.KindText
		}
	}
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
