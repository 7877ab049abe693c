// Package prior loads the values of a previously submitted application so a
// form can be pre-populated for the accept flow.
package prior

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when a source holds no record for an id.
var ErrNotFound = errors.New("prior: record not found")

// Values are the stored values of an earlier application. Field keys are
// qualified ("business.name"); collection entries map component keys to values.
type Values struct {
	ID          string                         `json:"id" yaml:"id"`
	Category    string                         `json:"category" yaml:"category"`
	Fields      map[string]string              `json:"fields" yaml:"fields"`
	Collections map[string][]map[string]string `json:"collections" yaml:"collections"`
}

// Empty reports whether v carries nothing to pre-populate.
func (v Values) Empty() bool {
	return v.ID == "" && v.Category == "" && len(v.Fields) == 0 && len(v.Collections) == 0
}

// Source loads prior values by record id.
type Source interface {
	Load(ctx context.Context, id string) (Values, error)
}

// Parse decodes a JSON or YAML document into Values.
func Parse(data []byte, source string) (Values, error) {
	var values Values
	if len(strings.TrimSpace(string(data))) == 0 {
		return Values{}, fmt.Errorf("prior: %s is empty", source)
	}
	if err := json.Unmarshal(data, &values); err == nil {
		return values, nil
	}
	values = Values{}
	if err := yaml.Unmarshal(data, &values); err == nil {
		return values, nil
	}
	return Values{}, fmt.Errorf("prior: parse %s: invalid JSON or YAML", source)
}

// FileSource reads "<id>.json", "<id>.yaml" or "<id>.yml" from a filesystem.
type FileSource struct {
	FS fs.FS
}

// NewFileSource creates a FileSource rooted at dir.
func NewFileSource(dir string) FileSource {
	return FileSource{FS: os.DirFS(dir)}
}

// Load returns the values stored for id. The record id defaults to id when
// the document omits it.
func (s FileSource) Load(ctx context.Context, id string) (Values, error) {
	if err := ctx.Err(); err != nil {
		return Values{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return Values{}, fmt.Errorf("prior: invalid record id %q", id)
	}
	if s.FS == nil {
		return Values{}, fmt.Errorf("prior: filesystem is nil")
	}

	for _, ext := range []string{".json", ".yaml", ".yml"} {
		name := path.Clean(id + ext)
		data, err := fs.ReadFile(s.FS, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Values{}, fmt.Errorf("prior: read %s: %w", name, err)
		}
		values, err := Parse(data, name)
		if err != nil {
			return Values{}, err
		}
		if values.ID == "" {
			values.ID = id
		}
		return values, nil
	}
	return Values{}, fmt.Errorf("%w: %q", ErrNotFound, id)
}
