package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultAPIBaseURL    = "https://pokeapi.co/api/v2"
	defaultHTTPTimeout   = 15 * time.Second
	defaultListLimit     = 2000
	defaultFallbackLimit = 300
	defaultGalleryLimit  = 120
	defaultConcurrency   = 8
	defaultLogLevel      = "info"
)

// Config holds runtime settings for the CLI app.
type Config struct {
	APIBaseURL         string        `yaml:"api_base_url"`
	HTTPTimeout        time.Duration `yaml:"http_timeout"`
	ListLimit          int           `yaml:"list_limit"`
	FallbackLimit      int           `yaml:"fallback_limit"`
	GalleryLimit       int           `yaml:"gallery_limit"`
	FetchConcurrency   int           `yaml:"fetch_concurrency"`
	SessionDir         string        `yaml:"session_dir"`
	LogPath            string        `yaml:"log_path"`
	LogLevel           string        `yaml:"log_level"`
	InlineImagePreview bool          `yaml:"inline_image_preview"`
}

func Default() Config {
	return Config{
		APIBaseURL:         defaultAPIBaseURL,
		HTTPTimeout:        defaultHTTPTimeout,
		ListLimit:          defaultListLimit,
		FallbackLimit:      defaultFallbackLimit,
		GalleryLimit:       defaultGalleryLimit,
		FetchConcurrency:   defaultConcurrency,
		LogLevel:           defaultLogLevel,
		InlineImagePreview: true,
	}
}

// LoadFromEnv starts from defaults, applies the YAML file named by
// POKEDEX_CONFIG when set, then environment overrides, then validates.
func LoadFromEnv() (Config, error) {
	cfg := Default()

	if path := os.Getenv("POKEDEX_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("POKEDEX_API_BASE_URL"); v != "" {
		c.APIBaseURL = v
	}
	if v := os.Getenv("POKEDEX_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("POKEDEX_HTTP_TIMEOUT: %w", err)
		}
		c.HTTPTimeout = d
	}
	for name, dst := range map[string]*int{
		"POKEDEX_LIST_LIMIT":        &c.ListLimit,
		"POKEDEX_FALLBACK_LIMIT":    &c.FallbackLimit,
		"POKEDEX_GALLERY_LIMIT":     &c.GalleryLimit,
		"POKEDEX_FETCH_CONCURRENCY": &c.FetchConcurrency,
	} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %s", name, v)
		}
		*dst = n
	}
	if v := os.Getenv("POKEDEX_SESSION_DIR"); v != "" {
		c.SessionDir = v
	}
	if v := os.Getenv("POKEDEX_LOG_PATH"); v != "" {
		c.LogPath = v
	}
	if v := os.Getenv("POKEDEX_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("POKEDEX_INLINE_IMAGE_PREVIEW")); v != "" {
		c.InlineImagePreview = v != "0" && !strings.EqualFold(v, "false")
	}
	return nil
}

func (c Config) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("APIBaseURL is required")
	}
	if c.APIBaseURL[len(c.APIBaseURL)-1] == '/' {
		return fmt.Errorf("APIBaseURL must not end with '/': %s", c.APIBaseURL)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTPTimeout must be positive: %s", c.HTTPTimeout)
	}
	if c.ListLimit < 1 || c.FallbackLimit < 1 || c.GalleryLimit < 1 {
		return fmt.Errorf("list limits must be positive: list=%d fallback=%d gallery=%d", c.ListLimit, c.FallbackLimit, c.GalleryLimit)
	}
	if c.FetchConcurrency < 1 || c.FetchConcurrency > 32 {
		return fmt.Errorf("FetchConcurrency must be between 1 and 32: %d", c.FetchConcurrency)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LogLevel must be debug, info, warn or error: %s", c.LogLevel)
	}
	return nil
}
