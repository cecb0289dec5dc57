package catalog

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/slok/appstore/internal/model"
)

// KindUnknown is the kind of the apps that don't match any indicator.
const KindUnknown = "unknown"

// KindIndicator tags an app with a kind when any of the indicators is a substring
// of the app file name, or equal to its extension.
type KindIndicator struct {
	Kind       string
	Indicators []string
}

// CategoryRule tags an app with a category when any of the keywords is a substring
// of the app name.
type CategoryRule struct {
	Category model.Category
	Keywords []string
}

// Rules are the classification rules, evaluated in order, first match wins.
type Rules struct {
	Kinds      []KindIndicator
	Categories []CategoryRule
	// KindDefaults is used when no category rule matched.
	KindDefaults map[string]model.Category
	// Fallback is used when nothing else matched.
	Fallback model.Category
}

// Validate checks the rules reference known categories.
func (r Rules) Validate() error {
	for _, cr := range r.Categories {
		if !cr.Category.Valid() {
			return fmt.Errorf("category rule with unknown category %q: %w", cr.Category, model.ErrNotValid)
		}
	}
	for kind, cat := range r.KindDefaults {
		if !cat.Valid() {
			return fmt.Errorf("kind %q default with unknown category %q: %w", kind, cat, model.ErrNotValid)
		}
	}
	if !r.Fallback.Valid() {
		return fmt.Errorf("unknown fallback category %q: %w", r.Fallback, model.ErrNotValid)
	}
	return nil
}

// DefaultRules returns the builtin classification rules.
func DefaultRules() Rules {
	return Rules{
		Kinds: []KindIndicator{
			{Kind: "streamlit", Indicators: []string{"streamlit", "app.py", "streamlit_app.py"}},
			{Kind: "gradio", Indicators: []string{"gradio", "app.py", "gradio_app.py"}},
			{Kind: "flask", Indicators: []string{"flask", "app.py", "main.py", "wsgi.py"}},
			{Kind: "fastapi", Indicators: []string{"fastapi", "main.py", "app.py"}},
			{Kind: "jupyter", Indicators: []string{".ipynb"}},
			{Kind: "panel", Indicators: []string{"panel", "app.py", "panel_app.py"}},
			{Kind: "dash", Indicators: []string{"dash", "app.py", "index.py"}},
			{Kind: "plotly", Indicators: []string{"plotly", "app.py"}},
			{Kind: "python", Indicators: []string{"main.py", "run.py", "app.py"}},
		},
		Categories: []CategoryRule{
			{Category: model.CategoryWebDevelopment, Keywords: []string{"web", "site", "html", "css", "js", "javascript", "react", "vue", "angular", "flask", "fastapi", "django"}},
			{Category: model.CategoryDataScience, Keywords: []string{"data", "analytics", "visualization", "pandas", "numpy", "matplotlib", "seaborn", "plotly", "tableau"}},
			{Category: model.CategoryMachineLearning, Keywords: []string{"ml", "machine", "learning", "train", "model", "tensorflow", "pytorch", "sklearn", "xgboost", "lightgbm"}},
			{Category: model.CategoryComputerVision, Keywords: []string{"cv", "vision", "image", "video", "object", "detection", "segmentation", "yolo", "mask", "rcnn"}},
			{Category: model.CategoryNaturalLanguageProcessing, Keywords: []string{"nlp", "text", "language", "sentence", "word", "token", "bert", "gpt", "transformer", "spacy"}},
			{Category: model.CategoryGenerativeAI, Keywords: []string{"genai", "generative", "ai", "llm", "diffusion", "stable", "midjourney", "dalle", "chatgpt"}},
		},
		KindDefaults: map[string]model.Category{
			"streamlit": model.CategoryWebDevelopment,
			"gradio":    model.CategoryWebDevelopment,
			"flask":     model.CategoryWebDevelopment,
			"fastapi":   model.CategoryWebDevelopment,
			"jupyter":   model.CategoryDataScience,
			"panel":     model.CategoryDataScience,
			"dash":      model.CategoryDataScience,
			"plotly":    model.CategoryDataScience,
			"python":    model.CategoryMachineLearning,
		},
		Fallback: model.CategoryMachineLearning,
	}
}

// Classifier tags apps with a kind and a category.
type Classifier struct {
	rules Rules
}

// NewClassifier returns a classifier for the rules.
func NewClassifier(rules Rules) (*Classifier, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}
	return &Classifier{rules: rules}, nil
}

// DetectKind returns the app kind based on the app file name.
func (c *Classifier) DetectKind(filePath string) string {
	fileName := strings.ToLower(filepath.Base(filePath))
	ext := filepath.Ext(fileName)

	for _, k := range c.rules.Kinds {
		for _, ind := range k.Indicators {
			if strings.Contains(fileName, ind) || ind == ext {
				return k.Kind
			}
		}
	}

	return KindUnknown
}

// Categorize returns the category of an app based on its name, using the kind
// as a hint when the name doesn't have any known keyword.
func (c *Classifier) Categorize(name, kind string) model.Category {
	name = strings.ToLower(name)

	for _, r := range c.rules.Categories {
		for _, kw := range r.Keywords {
			if strings.Contains(name, kw) {
				return r.Category
			}
		}
	}

	if cat, ok := c.rules.KindDefaults[kind]; ok {
		return cat
	}

	return c.rules.Fallback
}
