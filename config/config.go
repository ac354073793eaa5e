package config

import (
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed sources.toml
var sourcesTOML []byte

// Output locations are fixed: the program takes no flags and is run from the
// repository root by the scheduler that publishes the result.
const (
	OutputFile = "index.html"
	ArchiveDir = "archives"
)

// DefaultModel is the Gemini model used to generate article analyses.
const DefaultModel = "gemini-2.5-flash"

// Feed is a single named feed endpoint. A feed belongs to exactly one
// category.
type Feed struct {
	Name string `toml:"name"`
	URL  string `toml:"url"`
}

// Category groups an ordered list of feed endpoints under one retention
// quota. Name doubles as the display label.
type Category struct {
	Name  string `toml:"name"`
	Quota int    `toml:"quota"`
	Feeds []Feed `toml:"feeds"`
}

// Config is the immutable configuration for one run: the feed registry
// compiled into the binary plus the Gemini credential from the environment.
type Config struct {
	Categories []Category `toml:"categories"`
	APIKey     string     `toml:"-"`
}

// Load parses the embedded feed registry and resolves the Gemini credential.
// A missing credential or an invalid registry is a fatal configuration
// error, reported before any network activity starts.
func Load() (*Config, error) {
	cfg, err := parseRegistry(sourcesTOML)
	if err != nil {
		return nil, err
	}

	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		return nil, errors.New("GEMINI_API_KEY environment variable not set")
	}
	cfg.APIKey = key

	return cfg, nil
}

func parseRegistry(data []byte) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing feed registry: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if len(cfg.Categories) == 0 {
		return errors.New("feed registry has no categories")
	}

	seen := make(map[string]bool, len(cfg.Categories))
	for i, category := range cfg.Categories {
		if category.Name == "" {
			return fmt.Errorf("category %d: name is required", i)
		}
		if seen[category.Name] {
			return fmt.Errorf("category %q: duplicate name", category.Name)
		}
		seen[category.Name] = true

		if category.Quota <= 0 {
			return fmt.Errorf("category %q: quota must be positive, got %d", category.Name, category.Quota)
		}
		if len(category.Feeds) == 0 {
			return fmt.Errorf("category %q: at least one feed is required", category.Name)
		}

		for _, feed := range category.Feeds {
			if feed.Name == "" {
				return fmt.Errorf("category %q: feed name is required", category.Name)
			}
			u, err := url.Parse(feed.URL)
			if err != nil {
				return fmt.Errorf("feed %q: invalid url: %w", feed.Name, err)
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return fmt.Errorf("feed %q: url scheme must be http or https, got %q", feed.Name, u.Scheme)
			}
		}
	}

	return nil
}
