// Package config holds the build configuration. A Config is loaded once at
// startup from defaults, an optional skrivsite.yaml file and SKRIVSITE_*
// environment variables, and is then passed by value to the builder.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Target selects where the built site will be served from.
type Target string

const (
	Local      Target = "local"
	Staging    Target = "staging"
	Production Target = "production"
)

var targets = []Target{Local, Staging, Production}

// Deployment is the base path and site URL used for one target.
type Deployment struct {
	BasePath string `mapstructure:"base_path"`
	SiteURL  string `mapstructure:"site_url"`
}

// Section is a dated collection of posts with its own list page and feed.
type Section struct {
	Name      string `mapstructure:"name"`
	Title     string `mapstructure:"title"`
	FeedTitle string `mapstructure:"feed_title"`
	// FeedPath is relative to the output directory.
	FeedPath string `mapstructure:"feed_path"`
}

type Config struct {
	Target       Target                `mapstructure:"target"`
	ContentDir   string                `mapstructure:"content_dir"`
	LayoutDir    string                `mapstructure:"layout_dir"`
	StaticDir    string                `mapstructure:"static_dir"`
	OutputDir    string                `mapstructure:"output_dir"`
	ParamsFile   string                `mapstructure:"params_file"`
	Markdown     string                `mapstructure:"markdown"`
	MissingKeys  string                `mapstructure:"missing_keys"`
	SummaryWords int                   `mapstructure:"summary_words"`
	Author       string                `mapstructure:"author"`
	Subtitle     string                `mapstructure:"subtitle"`
	Deployments  map[string]Deployment `mapstructure:"deployments"`
	Sections     []Section             `mapstructure:"sections"`
}

// Deployment returns the deployment settings of the configured target.
func (c Config) Deployment() Deployment {
	return c.Deployments[string(c.Target)]
}

// Validate checks values that cannot be fixed up by defaults.
func (c Config) Validate() error {
	if !slices.Contains(targets, c.Target) {
		return fmt.Errorf("%w: unknown target %q (want local, staging or production)", ErrInvalidConfig, c.Target)
	}
	if _, ok := c.Deployments[string(c.Target)]; !ok {
		return fmt.Errorf("%w: no deployment for target %q", ErrInvalidConfig, c.Target)
	}
	switch strings.ToLower(c.Markdown) {
	case "", "gomarkdown", "goldmark", "none":
	default:
		return fmt.Errorf("%w: unknown markdown engine %q", ErrInvalidConfig, c.Markdown)
	}
	switch strings.ToLower(c.MissingKeys) {
	case "", "passthrough", "empty", "error":
	default:
		return fmt.Errorf("%w: unknown missing key policy %q", ErrInvalidConfig, c.MissingKeys)
	}
	if c.SummaryWords <= 0 {
		return fmt.Errorf("%w: summary_words must be positive, got %d", ErrInvalidConfig, c.SummaryWords)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("%w: output_dir is empty", ErrInvalidConfig)
	}
	for i, s := range c.Sections {
		if s.Name == "" {
			return fmt.Errorf("%w: section %d has no name", ErrInvalidConfig, i)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("target", string(Production))
	v.SetDefault("content_dir", "content")
	v.SetDefault("layout_dir", "layout")
	v.SetDefault("static_dir", "static")
	v.SetDefault("output_dir", "_site")
	v.SetDefault("params_file", "params.json")
	v.SetDefault("markdown", "gomarkdown")
	v.SetDefault("missing_keys", "passthrough")
	v.SetDefault("summary_words", 25)
	v.SetDefault("author", "Admin")
	v.SetDefault("subtitle", "Lorem Ipsum")

	v.SetDefault("deployments.local.base_path", "")
	v.SetDefault("deployments.local.site_url", "http://localhost:8000")
	v.SetDefault("deployments.staging.base_path", "")
	v.SetDefault("deployments.staging.site_url", "https://staging.example.pages.dev")
	v.SetDefault("deployments.production.base_path", "/~site")
	v.SetDefault("deployments.production.site_url", "https://www.example.com")

	v.SetDefault("sections", []map[string]any{
		{"name": "blog", "title": "Notes", "feed_title": "Blog", "feed_path": "blog/rss.xml"},
		{"name": "journal", "title": "Journal", "feed_title": "Journal", "feed_path": "news/rss.xml"},
	})
}

// NewViper prepares a viper instance with defaults, the config file and
// the environment. cfgFile may be empty to look for ./skrivsite.yaml.
func NewViper(cfgFile string) (*viper.Viper, error) {
	loadEnvFiles()

	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("skrivsite")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("SKRIVSITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return v, nil
}

// FromViper decodes and validates the configuration held by v.
func FromViper(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	c.Target = Target(strings.ToLower(string(c.Target)))

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Load reads the configuration from cfgFile (or ./skrivsite.yaml) and the
// environment.
func Load(cfgFile string) (Config, error) {
	v, err := NewViper(cfgFile)
	if err != nil {
		return Config{}, err
	}
	return FromViper(v)
}

// loadEnvFiles exports variables from .env files in the working directory.
// Variables already set in the process win.
func loadEnvFiles() {
	for _, name := range []string{".env", ".env.local"} {
		if _, err := os.Stat(name); err == nil {
			_ = godotenv.Load(name)
		}
	}
}
