package catalog

import (
	"iter"
	"strings"

	"github.com/slok/appstore/internal/model"
)

// Apply returns the items of the catalog that match the criteria. An item matches when
// the search term is a case insensitive substring of its name, and its category and kind
// are in the criteria sets. Empty search term or sets don't constrain anything.
//
// The returned sequence is lazy and can be iterated multiple times, it keeps the
// catalog order and doesn't mutate the catalog.
func Apply(items model.Catalog, criteria model.FilterCriteria) iter.Seq[model.Item] {
	search := strings.ToLower(criteria.SearchTerm)

	return func(yield func(model.Item) bool) {
		for _, it := range items {
			if !matches(it, search, criteria) {
				continue
			}
			if !yield(it) {
				return
			}
		}
	}
}

func matches(it model.Item, lowerSearch string, criteria model.FilterCriteria) bool {
	if lowerSearch != "" && !strings.Contains(strings.ToLower(it.Name), lowerSearch) {
		return false
	}

	if len(criteria.Categories) > 0 {
		if _, ok := criteria.Categories[it.Category]; !ok {
			return false
		}
	}

	if len(criteria.Kinds) > 0 {
		if _, ok := criteria.Kinds[it.Kind]; !ok {
			return false
		}
	}

	return true
}

// Filter owns a catalog and the criteria used to get its visible subset.
// It's not safe for concurrent use, the owner is responsible of that.
type Filter struct {
	catalog  model.Catalog
	criteria model.FilterCriteria
}

// NewFilter returns a new filter without catalog and with empty criteria.
func NewFilter() *Filter {
	return &Filter{}
}

// Load replaces the filtered catalog, the criteria are kept.
func (f *Filter) Load(c model.Catalog) { f.catalog = c }

// Catalog returns the complete catalog.
func (f *Filter) Catalog() model.Catalog { return f.catalog }

// SetCriteria replaces the current criteria.
func (f *Filter) SetCriteria(c model.FilterCriteria) { f.criteria = c }

// Criteria returns the current criteria.
func (f *Filter) Criteria() model.FilterCriteria { return f.criteria }

// Clear resets the criteria to the default ones.
func (f *Filter) Clear() { f.criteria = model.FilterCriteria{} }

// View returns the visible subset of the catalog.
func (f *Filter) View() iter.Seq[model.Item] {
	return Apply(f.catalog, f.criteria)
}

// Lookup searches an item by name in the visible subset.
func (f *Filter) Lookup(name string) (model.Item, bool) {
	for it := range f.View() {
		if it.Name == name {
			return it, true
		}
	}
	return model.Item{}, false
}

// Kinds returns the distinct kinds of the catalog in order of appearance.
func (f *Filter) Kinds() []string {
	seen := map[string]struct{}{}
	kinds := []string{}
	for _, it := range f.catalog {
		if _, ok := seen[it.Kind]; ok {
			continue
		}
		seen[it.Kind] = struct{}{}
		kinds = append(kinds, it.Kind)
	}
	return kinds
}
