package preview

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-appform/pkg/model"
	"github.com/goliatone/go-appform/pkg/prior"
	"github.com/goliatone/go-appform/pkg/registry"
	"github.com/goliatone/go-appform/pkg/render"
)

type draftValue struct {
	collection string
	component  string
	value      string
}

type postedForm struct {
	values    prior.Values
	drafts    []draftValue
	selected  string
	requestID uuid.UUID
}

// switched reports whether the user picked a different category from the
// one the posted fields were rendered for.
func (p postedForm) switched() bool {
	return p.selected != "" && p.selected != p.values.Category
}

// decodeForm maps posted control names back onto form state. Field and
// entry values are restored as-is, so invalid entries survive the round
// trip. Names the registry does not know are dropped. Values are restored
// under the category the page was rendered with; the category the user
// picked is kept apart in selected.
func decodeForm(reg *registry.Registry, posted url.Values) postedForm {
	selected := strings.TrimSpace(posted.Get(render.CategoryFieldName))
	shown := selected
	if posted.Has(ShownCategoryField) {
		shown = strings.TrimSpace(posted.Get(ShownCategoryField))
	}
	out := postedForm{
		values: prior.Values{
			ID:          strings.TrimSpace(posted.Get(render.RecordIDField)),
			Category:    shown,
			Fields:      make(map[string]string),
			Collections: make(map[string][]map[string]string),
		},
		selected: selected,
	}
	if id, err := uuid.Parse(strings.TrimSpace(posted.Get(RequestIDField))); err == nil {
		out.requestID = id
	}

	entries := make(map[string]map[int]map[string]string)
	for _, name := range sortedNames(posted) {
		value := posted.Get(name)
		parts := strings.Split(name, ".")
		switch len(parts) {
		case 2:
			out.values.Fields[name] = value
		case 3:
			schema, ok := reg.Collection(parts[0])
			if !ok {
				continue
			}
			if _, ok := schema.Component(parts[2]); !ok {
				continue
			}
			if parts[1] == model.DraftSegment {
				out.drafts = append(out.drafts, draftValue{collection: parts[0], component: parts[2], value: value})
				continue
			}
			index, err := strconv.Atoi(parts[1])
			if err != nil || index < 0 {
				continue
			}
			if entries[parts[0]] == nil {
				entries[parts[0]] = make(map[int]map[string]string)
			}
			if entries[parts[0]][index] == nil {
				entries[parts[0]][index] = make(map[string]string)
			}
			entries[parts[0]][index][parts[2]] = value
		}
	}

	for key, rows := range entries {
		indices := make([]int, 0, len(rows))
		for index := range rows {
			indices = append(indices, index)
		}
		sort.Ints(indices)
		for _, index := range indices {
			out.values.Collections[key] = append(out.values.Collections[key], rows[index])
		}
	}
	return out
}

func sortedNames(values url.Values) []string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
