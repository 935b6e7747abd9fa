// Package config handles agelens configuration from YAML files.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/infrajoy/agelens/crawl"
	"github.com/infrajoy/agelens/remedy"
)

// Config is the top-level agelens configuration.
type Config struct {
	Listen  string       `yaml:"listen"`
	DataDir string       `yaml:"data_dir"`
	Fetch   FetchConfig  `yaml:"fetch"`
	Crawl   CrawlConfig  `yaml:"crawl"`
	Remedy  RemedyConfig `yaml:"remedy"`
}

// FetchConfig controls the HTTP fetcher.
type FetchConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	MaxBytes  int64         `yaml:"max_bytes"`
	UserAgent string        `yaml:"user_agent"`
}

// CrawlConfig controls the same-domain crawler.
type CrawlConfig struct {
	MaxPages int `yaml:"max_pages"`
}

// RemedyConfig overrides remediation defaults. Pointer fields distinguish
// "not set" from an explicit false/zero in the YAML.
type RemedyConfig struct {
	TextScale      *float64 `yaml:"text_scale"`
	UnderlineLinks *bool    `yaml:"underline_links"`
	MinTargets     *bool    `yaml:"min_targets"`
	FocusOutline   *bool    `yaml:"focus_outline"`
	ReducedMotion  *bool    `yaml:"reduced_motion"`
	FontStack      string   `yaml:"font_stack"`
}

// LoadFile reads a YAML configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	// Fetch fields stay zero when unset; crawl.NewFetcher resolves them.
	if c.Crawl.MaxPages <= 0 {
		c.Crawl.MaxPages = crawl.DefaultPageLimit
	}
}

// FetchConfig converts the file section into the fetcher's configuration.
func (c *Config) FetchConfig() crawl.FetchConfig {
	return crawl.FetchConfig{
		Timeout:   c.Fetch.Timeout,
		MaxBytes:  c.Fetch.MaxBytes,
		UserAgent: c.Fetch.UserAgent,
	}
}

// RemedyConfig resolves the overrides against remediation defaults.
func (c *Config) RemedyConfig() remedy.Config {
	cfg := remedy.DefaultConfig()
	if c.Remedy.TextScale != nil {
		cfg.TextScale = *c.Remedy.TextScale
	}
	if c.Remedy.UnderlineLinks != nil {
		cfg.UnderlineLinks = *c.Remedy.UnderlineLinks
	}
	if c.Remedy.MinTargets != nil {
		cfg.MinTargets = *c.Remedy.MinTargets
	}
	if c.Remedy.FocusOutline != nil {
		cfg.FocusOutline = *c.Remedy.FocusOutline
	}
	if c.Remedy.ReducedMotion != nil {
		cfg.ReducedMotion = *c.Remedy.ReducedMotion
	}
	if c.Remedy.FontStack != "" {
		cfg.FontStack = c.Remedy.FontStack
	}
	return cfg
}
