// Package source loads the declarative per-site crawl configurations.
// One JSON document per source describes seed URL templates, list and
// detail selectors, the optional href filter and per-city slug overrides.
// A config is immutable after loading and shared by every crawl stage.
package source

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/spf13/viper"
)

// ListSelectors locate candidate detail links and the pagination control
// on a list page.
type ListSelectors struct {
	ItemLink string `mapstructure:"itemLink"`
	Next     string `mapstructure:"next"`
}

// DetailSelectors locate the raw text fragments on a detail page.
// Zero values fall back to the generic selectors the extractor uses when a
// site config leaves them out (h1, li, img).
type DetailSelectors struct {
	Title             string   `mapstructure:"title"`
	PriceText         string   `mapstructure:"priceText"`
	SizeText          string   `mapstructure:"sizeText"`
	Images            string   `mapstructure:"images"`
	FurnishedKeywords []string `mapstructure:"furnishedKeywords"`
}

// Config is the full declarative description of one source.
type Config struct {
	SourceName        string            `mapstructure:"sourceName"`
	StartURLTemplates []string          `mapstructure:"startUrlTemplates"`
	StartURLTemplate  string            `mapstructure:"startUrlTemplate"`
	List              ListSelectors     `mapstructure:"list"`
	Detail            DetailSelectors   `mapstructure:"detail"`
	HrefPattern       string            `mapstructure:"hrefPattern"`
	SlugOverrides     map[string]string `mapstructure:"slugOverrides"`

	hrefRe *regexp.Regexp
}

// ConfigError marks a malformed or missing source document. It is fatal to
// that source's run only; other sources continue.
type ConfigError struct {
	Source string
	Err    error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("source config %q: %v", e.Source, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Load reads and validates the JSON document for one source from dir.
func Load(dir, name string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(filepath.Join(dir, name+".json"))
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		return nil, &ConfigError{Source: name, Err: fmt.Errorf("read: %w", err)}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigError{Source: name, Err: fmt.Errorf("unmarshal: %w", err)}
	}
	if cfg.SourceName == "" {
		cfg.SourceName = name
	}
	if err := cfg.compile(); err != nil {
		return nil, &ConfigError{Source: name, Err: err}
	}
	return &cfg, nil
}

func (c *Config) compile() error {
	if len(c.StartURLTemplates) == 0 && c.StartURLTemplate != "" {
		c.StartURLTemplates = []string{c.StartURLTemplate}
	}
	if len(c.StartURLTemplates) == 0 {
		return fmt.Errorf("no start URL templates")
	}
	if c.List.ItemLink == "" {
		return fmt.Errorf("list.itemLink selector missing")
	}
	if c.HrefPattern != "" {
		re, err := regexp.Compile(c.HrefPattern)
		if err != nil {
			return fmt.Errorf("compile hrefPattern: %w", err)
		}
		c.hrefRe = re
	}
	return nil
}

// HrefRegexp returns the compiled href filter, or nil when the source
// relies on the default path-marker heuristic.
func (c *Config) HrefRegexp() *regexp.Regexp { return c.hrefRe }

// SlugFor resolves the URL slug for a city. The second return is false
// when an empty-string override says the city must be skipped entirely
// for this source.
func (c *Config) SlugFor(city string) (string, bool) {
	if c.SlugOverrides != nil {
		if override, ok := c.SlugOverrides[city]; ok {
			if override == "" {
				return "", false
			}
			return override, true
		}
	}
	return CityToSlug(city), true
}
