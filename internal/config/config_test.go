package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"POKEDEX_CONFIG",
		"POKEDEX_API_BASE_URL",
		"POKEDEX_HTTP_TIMEOUT",
		"POKEDEX_LIST_LIMIT",
		"POKEDEX_FALLBACK_LIMIT",
		"POKEDEX_GALLERY_LIMIT",
		"POKEDEX_FETCH_CONCURRENCY",
		"POKEDEX_SESSION_DIR",
		"POKEDEX_LOG_PATH",
		"POKEDEX_LOG_LEVEL",
		"POKEDEX_INLINE_IMAGE_PREVIEW",
	} {
		t.Setenv(name, "")
	}
}

func TestLoadFromEnv_UsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv returned error: %v", err)
	}

	if cfg.APIBaseURL != defaultAPIBaseURL {
		t.Fatalf("unexpected API base URL: %s", cfg.APIBaseURL)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.HTTPTimeout)
	}
	if cfg.ListLimit != 2000 || cfg.FallbackLimit != 300 || cfg.GalleryLimit != 120 {
		t.Fatalf("unexpected limits: %+v", cfg)
	}
	if cfg.FetchConcurrency != 8 {
		t.Fatalf("unexpected concurrency: %d", cfg.FetchConcurrency)
	}
	if !cfg.InlineImagePreview {
		t.Fatal("expected inline image preview on by default")
	}
}

func TestLoadFromEnv_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("POKEDEX_API_BASE_URL", "http://localhost:8080/api/v2")
	t.Setenv("POKEDEX_HTTP_TIMEOUT", "3s")
	t.Setenv("POKEDEX_FETCH_CONCURRENCY", "4")
	t.Setenv("POKEDEX_INLINE_IMAGE_PREVIEW", "0")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv returned error: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:8080/api/v2" {
		t.Fatalf("unexpected API base URL: %s", cfg.APIBaseURL)
	}
	if cfg.HTTPTimeout != 3*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.HTTPTimeout)
	}
	if cfg.FetchConcurrency != 4 {
		t.Fatalf("unexpected concurrency: %d", cfg.FetchConcurrency)
	}
	if cfg.InlineImagePreview {
		t.Fatal("expected inline image preview disabled")
	}
}

func TestLoadFromEnv_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "pokedex.yaml")
	content := "api_base_url: http://file.example/api/v2\nhttp_timeout: 5s\ngallery_limit: 40\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("POKEDEX_CONFIG", path)
	t.Setenv("POKEDEX_GALLERY_LIMIT", "60")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv returned error: %v", err)
	}
	if cfg.APIBaseURL != "http://file.example/api/v2" {
		t.Fatalf("expected file base URL, got %s", cfg.APIBaseURL)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Fatalf("expected file timeout, got %s", cfg.HTTPTimeout)
	}
	if cfg.GalleryLimit != 60 {
		t.Fatalf("expected env to override file gallery limit, got %d", cfg.GalleryLimit)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected file log level, got %s", cfg.LogLevel)
	}
}

func TestLoadFromEnv_BadInteger(t *testing.T) {
	clearEnv(t)
	t.Setenv("POKEDEX_LIST_LIMIT", "lots")

	if _, err := LoadFromEnv(); err == nil {
		t.Fatal("expected error for non-integer limit")
	}
}

func TestLoadFromEnv_MissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("POKEDEX_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := LoadFromEnv(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidate_APIBaseURLTrailingSlash(t *testing.T) {
	cfg := Default()
	cfg.APIBaseURL = "https://pokeapi.co/api/v2/"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestValidate_Bounds(t *testing.T) {
	cases := []func(*Config){
		func(c *Config) { c.HTTPTimeout = 0 },
		func(c *Config) { c.ListLimit = 0 },
		func(c *Config) { c.FetchConcurrency = 0 },
		func(c *Config) { c.FetchConcurrency = 64 },
		func(c *Config) { c.LogLevel = "loud" },
	}
	for i, mutate := range cases {
		cfg := Default()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("case %d: expected validation error for %+v", i, cfg)
		}
	}
}
