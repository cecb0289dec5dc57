package io

import (
	"context"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/slok/appstore/internal/catalog"
	"github.com/slok/appstore/internal/model"
)

// RulesYAMLRepository loads classification rules from YAML files.
type RulesYAMLRepository struct {
	fs fs.FS
}

// NewRulesYAMLRepository creates a new YAML rules repository.
func NewRulesYAMLRepository(filesystem fs.FS) *RulesYAMLRepository {
	return &RulesYAMLRepository{fs: filesystem}
}

// GetRules loads the classification rules from a YAML file and returns validated rules.
// Sections missing in the file use the builtin rules.
func (r *RulesYAMLRepository) GetRules(ctx context.Context, path string) (catalog.Rules, error) {
	data, err := fs.ReadFile(r.fs, path)
	if err != nil {
		return catalog.Rules{}, fmt.Errorf("reading rules file: %w", err)
	}

	if ctx.Err() != nil {
		return catalog.Rules{}, ctx.Err()
	}

	var cfg RulesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return catalog.Rules{}, fmt.Errorf("parsing YAML: %w", err)
	}

	rules, err := cfg.toModel()
	if err != nil {
		return catalog.Rules{}, fmt.Errorf("invalid rules: %w", err)
	}

	if err := rules.Validate(); err != nil {
		return catalog.Rules{}, fmt.Errorf("invalid rules: %w", err)
	}

	return rules, nil
}

// RulesConfig represents the YAML structure of the classification rules.
type RulesConfig struct {
	Kinds        []KindConfig      `yaml:"kinds"`
	Categories   []CategoryConfig  `yaml:"categories"`
	KindDefaults map[string]string `yaml:"kind_defaults"`
	Fallback     string            `yaml:"fallback"`
}

// KindConfig represents the YAML structure of an app kind detection rule.
type KindConfig struct {
	Kind       string   `yaml:"kind"`
	Indicators []string `yaml:"indicators"`
}

// CategoryConfig represents the YAML structure of a category keyword rule.
type CategoryConfig struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

func (c RulesConfig) toModel() (catalog.Rules, error) {
	rules := catalog.DefaultRules()

	if c.Kinds != nil {
		rules.Kinds = make([]catalog.KindIndicator, 0, len(c.Kinds))
		for i, k := range c.Kinds {
			if k.Kind == "" {
				return catalog.Rules{}, fmt.Errorf("kind rule %d: kind is required: %w", i, model.ErrNotValid)
			}
			if len(k.Indicators) == 0 {
				return catalog.Rules{}, fmt.Errorf("kind rule %q: at least one indicator is required: %w", k.Kind, model.ErrNotValid)
			}
			rules.Kinds = append(rules.Kinds, catalog.KindIndicator{Kind: k.Kind, Indicators: k.Indicators})
		}
	}

	if c.Categories != nil {
		rules.Categories = make([]catalog.CategoryRule, 0, len(c.Categories))
		for _, cr := range c.Categories {
			cat, err := model.ParseCategory(cr.Category)
			if err != nil {
				return catalog.Rules{}, err
			}
			rules.Categories = append(rules.Categories, catalog.CategoryRule{Category: cat, Keywords: cr.Keywords})
		}
	}

	if c.KindDefaults != nil {
		rules.KindDefaults = make(map[string]model.Category, len(c.KindDefaults))
		for kind, catName := range c.KindDefaults {
			cat, err := model.ParseCategory(catName)
			if err != nil {
				return catalog.Rules{}, fmt.Errorf("kind %q default: %w", kind, err)
			}
			rules.KindDefaults[kind] = cat
		}
	}

	if c.Fallback != "" {
		cat, err := model.ParseCategory(c.Fallback)
		if err != nil {
			return catalog.Rules{}, fmt.Errorf("fallback: %w", err)
		}
		rules.Fallback = cat
	}

	return rules, nil
}
