package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agelens.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFile_FullConfig(t *testing.T) {
	// WHAT: All sections parse from YAML.
	path := writeConfig(t, `
listen: ":9090"
data_dir: /var/lib/agelens
fetch:
  timeout: 30s
  max_bytes: 1048576
  user_agent: custom-agent/1.0
crawl:
  max_pages: 8
remedy:
  text_scale: 1.4
  underline_links: false
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Listen != ":9090" || cfg.DataDir != "/var/lib/agelens" {
		t.Errorf("top-level = %+v", cfg)
	}
	if cfg.Fetch.Timeout != 30*time.Second || cfg.Fetch.MaxBytes != 1048576 {
		t.Errorf("fetch = %+v", cfg.Fetch)
	}
	if cfg.Crawl.MaxPages != 8 {
		t.Errorf("crawl = %+v", cfg.Crawl)
	}
}

func TestLoadFile_Defaults(t *testing.T) {
	// WHAT: An empty file still yields a usable config.
	cfg, err := LoadFile(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Listen != ":8080" || cfg.DataDir != "data" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.Crawl.MaxPages <= 0 {
		t.Errorf("crawl pages default = %d", cfg.Crawl.MaxPages)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	// WHAT: A nonexistent path is an error, not a silent default.
	if _, err := LoadFile("/nonexistent/agelens.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRemedyConfig_TriState(t *testing.T) {
	// WHAT: An explicit false override wins over the default true, and an
	// unset field keeps the default.
	// WHY: Pointer fields distinguish "absent" from "false" in YAML.
	cfg, err := LoadFile(writeConfig(t, `
remedy:
  underline_links: false
  text_scale: 1.4
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	rc := cfg.RemedyConfig()
	if rc.UnderlineLinks {
		t.Error("explicit false ignored")
	}
	if !rc.MinTargets || !rc.FocusOutline || !rc.ReducedMotion {
		t.Errorf("unset toggles lost defaults: %+v", rc)
	}
	if rc.TextScale != 1.4 {
		t.Errorf("text scale = %v", rc.TextScale)
	}
}

func TestFetchConfigConversion(t *testing.T) {
	// WHAT: The fetch section converts into the crawler's config verbatim.
	cfg, err := LoadFile(writeConfig(t, `
fetch:
  timeout: 5s
  user_agent: ua-test
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	fc := cfg.FetchConfig()
	if fc.Timeout != 5*time.Second || fc.UserAgent != "ua-test" {
		t.Errorf("fetch config = %+v", fc)
	}
}
