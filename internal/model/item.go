package model

import (
	"fmt"
	"strings"
)

// Category is the fixed set of catalog categories an item can be tagged with.
type Category string

const (
	CategoryWebDevelopment            Category = "1-Web-Development"
	CategoryDataScience               Category = "2-Data-Science"
	CategoryMachineLearning           Category = "3-Machine-Learning"
	CategoryComputerVision            Category = "4-Computer-Vision"
	CategoryNaturalLanguageProcessing Category = "5-Natural-Language-Processing"
	CategoryGenerativeAI              Category = "6-Generative-AI"
)

// Categories returns all the categories in display order.
func Categories() []Category {
	return []Category{
		CategoryWebDevelopment,
		CategoryDataScience,
		CategoryMachineLearning,
		CategoryComputerVision,
		CategoryNaturalLanguageProcessing,
		CategoryGenerativeAI,
	}
}

// Valid returns true if the category is one of the known categories.
func (c Category) Valid() bool {
	for _, cat := range Categories() {
		if c == cat {
			return true
		}
	}
	return false
}

// ParseCategory parses a category by its full name ("2-Data-Science"),
// its number ("2") or its name without number ("data-science"), case insensitive.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	for _, cat := range Categories() {
		full := strings.ToLower(string(cat))
		num, name, _ := strings.Cut(full, "-")
		if s == full || s == num || s == name {
			return cat, nil
		}
	}
	return "", fmt.Errorf("unknown category %q: %w", s, ErrNotValid)
}

// Item is a single app of the catalog.
type Item struct {
	Name     string
	Category Category
	// Kind is the free-form app type tag (streamlit, gradio, jupyter...).
	Kind string
	// Path is the app folder, used to build run instructions and install dependencies.
	Path string
	// MainFile is the file the app was detected from.
	MainFile        string
	SizeBytes       int64
	HasRequirements bool
	HasReadme       bool
}

// Catalog is an ordered set of items with unique names.
type Catalog []Item

// NewCatalog returns a catalog from items, it will fail if the names are not unique.
func NewCatalog(items []Item) (Catalog, error) {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it.Name == "" {
			return nil, fmt.Errorf("item name is required: %w", ErrNotValid)
		}
		if _, ok := seen[it.Name]; ok {
			return nil, fmt.Errorf("duplicated item %q: %w", it.Name, ErrNotValid)
		}
		seen[it.Name] = struct{}{}
	}

	c := make(Catalog, len(items))
	copy(c, items)
	return c, nil
}

// Summary returns the number of items per category.
func (c Catalog) Summary() CategorySummary {
	counts := make(map[Category]int, len(Categories()))
	for _, it := range c {
		counts[it.Category]++
	}

	s := CategorySummary{Total: len(c)}
	for _, cat := range Categories() {
		s.Counts = append(s.Counts, CategoryCount{Category: cat, Items: counts[cat]})
	}
	return s
}

// CategoryCount is the number of items of a category.
type CategoryCount struct {
	Category Category
	Items    int
}

// CategorySummary is the per category item count of a catalog.
type CategorySummary struct {
	Total  int
	Counts []CategoryCount
}

// FilterCriteria selects the visible subset of a catalog. The zero value doesn't filter anything.
type FilterCriteria struct {
	SearchTerm string
	Categories map[Category]struct{}
	Kinds      map[string]struct{}
}

// NewFilterCriteria is a helper to create criteria from slices.
func NewFilterCriteria(search string, categories []Category, kinds []string) FilterCriteria {
	f := FilterCriteria{SearchTerm: search}
	if len(categories) > 0 {
		f.Categories = make(map[Category]struct{}, len(categories))
		for _, c := range categories {
			f.Categories[c] = struct{}{}
		}
	}
	if len(kinds) > 0 {
		f.Kinds = make(map[string]struct{}, len(kinds))
		for _, k := range kinds {
			f.Kinds[k] = struct{}{}
		}
	}
	return f
}

// IsEmpty returns true when the criteria don't constrain anything.
func (f FilterCriteria) IsEmpty() bool {
	return f.SearchTerm == "" && len(f.Categories) == 0 && len(f.Kinds) == 0
}
