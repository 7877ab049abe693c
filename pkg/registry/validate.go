package registry

import (
	"strings"

	"github.com/goliatone/go-appform/pkg/model"
	"github.com/goliatone/go-appform/pkg/validation"
)

// Validate checks a definition for duplicate keys, missing labels, invalid
// kinds and patterns that do not compile once anchored.
func Validate(def Definition) validation.SchemaValidationResult {
	result := validation.SchemaValidationResult{Valid: true}

	if strings.TrimSpace(def.Name) == "" {
		result.Add("/name", "definition name is required")
	}
	if strings.Contains(def.CategorySection, ".") {
		result.Add("/categorySection", "section key %q must not contain '.'", def.CategorySection)
	}
	if def.CategorySection == def.Contact.Key {
		result.Add("/contact/key", "contact section key %q collides with the category section", def.Contact.Key)
	}
	if len(def.Categories) == 0 {
		result.Add("/categories", "at least one category is required")
	}

	seen := make(map[string]struct{}, len(def.Categories))
	for _, category := range def.Categories {
		path := "/categories/" + pointerEscape(category.Key)
		if strings.TrimSpace(category.Key) == "" {
			result.Add("/categories", "category key is required")
			continue
		}
		if _, dup := seen[category.Key]; dup {
			result.Add(path, "duplicate category %q", category.Key)
		}
		seen[category.Key] = struct{}{}
		if strings.TrimSpace(category.Label) == "" {
			result.Add(path+"/label", "category %q has no label", category.Key)
		}
		checkFields(&result, path+"/fields", category.Fields, false)
	}

	if strings.Contains(def.Contact.Key, ".") {
		result.Add("/contact/key", "section key %q must not contain '.'", def.Contact.Key)
	}
	checkFields(&result, "/contact/fields", def.Contact.Fields, false)

	collections := make(map[string]struct{}, len(def.Collections))
	for _, collection := range def.Collections {
		path := "/collections/" + pointerEscape(collection.Key)
		if strings.TrimSpace(collection.Key) == "" {
			result.Add("/collections", "collection key is required")
			continue
		}
		if _, dup := collections[collection.Key]; dup {
			result.Add(path, "duplicate collection %q", collection.Key)
		}
		collections[collection.Key] = struct{}{}
		if strings.TrimSpace(collection.Label) == "" {
			result.Add(path+"/label", "collection %q has no label", collection.Key)
		}
		if len(collection.Components) == 0 {
			result.Add(path+"/components", "collection %q declares no components", collection.Key)
		}
		checkFields(&result, path+"/components", collection.Components, true)
	}

	return result
}

func checkFields(result *validation.SchemaValidationResult, base string, fields []model.FieldSchema, components bool) {
	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			result.Add(base, "field key is required")
			continue
		}
		path := base + "/" + pointerEscape(key)
		if strings.Contains(key, ".") {
			result.Add(path+"/key", "field key %q must not contain '.'", key)
		}
		if _, dup := seen[key]; dup {
			result.Add(path, "duplicate field %q", key)
		}
		seen[key] = struct{}{}
		if strings.TrimSpace(field.Label) == "" {
			result.Add(path+"/label", "field %q has no label", key)
		}
		if field.Kind != "" && !field.Kind.Valid() {
			result.Add(path+"/kind", "field %q has unknown kind %q", key, field.Kind)
		}
		if field.Kind == model.KindStructured {
			if components {
				result.Add(path+"/kind", "component %q cannot nest a structured value", key)
			} else {
				result.Add(path+"/kind", "field %q is structured; declare it as a collection", key)
			}
		}
		if field.Pattern != "" {
			if _, err := validation.Compile(field.Pattern); err != nil {
				result.Add(path+"/pattern", "pattern %q does not compile: %v", field.Pattern, err)
			}
		}
	}
}

func pointerEscape(segment string) string {
	segment = strings.ReplaceAll(segment, "~", "~0")
	return strings.ReplaceAll(segment, "/", "~1")
}
