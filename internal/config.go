package internal

import (
	"fmt"
	"log/slog"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/folio/internal/aggregate"
	"github.com/starford/folio/internal/content"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/render"
)

var pageNameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Content sources.
const (
	SourceFS   = "fs"
	SourceHTTP = "http"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Content ContentConfig     `yaml:"content"`
	Site    SiteConfig        `yaml:"site"`
	Pages   []PageConfig      `yaml:"pages"`
	SQLite  SQLiteConfig      `yaml:"sqlite"`
	Index   IndexConfig       `yaml:"index"`
	Auth    AuthConfig        `yaml:"auth"`
	Metrics MetricsConfig     `yaml:"metrics"`
	Build   BuildConfig       `yaml:"build"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Content.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Build.Validate(); err != nil {
		return err
	}
	if len(c.Pages) == 0 {
		return fmt.Errorf("pages: at least one page is required")
	}
	seen := make(map[string]struct{}, len(c.Pages))
	for i := range c.Pages {
		if err := c.Pages[i].Validate(); err != nil {
			return fmt.Errorf("pages[%d]: %w", i, err)
		}
		if _, dup := seen[c.Pages[i].Name]; dup {
			return fmt.Errorf("pages[%d]: duplicate page name %q", i, c.Pages[i].Name)
		}
		seen[c.Pages[i].Name] = struct{}{}
	}
	return c.Auth.Validate()
}

// Page returns the page configuration with the given name.
func (c *Config) Page(name string) (PageConfig, bool) {
	for _, p := range c.Pages {
		if p.Name == name {
			return p, true
		}
	}
	return PageConfig{}, false
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// ContentConfig describes where manifests and documents are read from.
//
// Source selects the transport:
//   - "fs" (default): Root is a local directory holding <category>/index.json.
//   - "http": BaseURL is fetched with plain GET requests.
type ContentConfig struct {
	Source   string        `yaml:"source"`
	Root     string        `yaml:"root"`
	BaseURL  string        `yaml:"base_url"`
	Manifest string        `yaml:"manifest"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Validate validates the content configuration.
func (c *ContentConfig) Validate() error {
	if c.Source == "" {
		c.Source = SourceFS
	}
	if c.Manifest == "" {
		c.Manifest = content.DefaultManifest
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Source, validation.Required, validation.In(SourceFS, SourceHTTP)),
		validation.Field(&c.Root, validation.When(c.Source == SourceFS, validation.Required)),
		validation.Field(&c.BaseURL, validation.When(c.Source == SourceHTTP, validation.Required)),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
	)
}

// SiteConfig holds presentation options.
type SiteConfig struct {
	DateFormat  string `yaml:"date_format"`
	Placeholder string `yaml:"placeholder"`
	Untitled    string `yaml:"untitled"`
	Markdown    bool   `yaml:"markdown"`
	Sanitize    bool   `yaml:"sanitize"`
}

// PageConfig declares one page and its aggregation policy.
type PageConfig struct {
	Name         string `yaml:"name"`
	Slot         string `yaml:"slot"`
	Category     string `yaml:"category"`
	Limit        int    `yaml:"limit"`
	FeaturedOnly bool   `yaml:"featured_only"`
}

// Validate validates the page configuration.
func (c *PageConfig) Validate() error {
	categories := make([]any, len(models.Categories))
	for i, cat := range models.Categories {
		categories[i] = string(cat)
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Name, validation.Required, validation.Match(pageNameRe)),
		validation.Field(&c.Category, validation.Required, validation.In(categories...)),
		validation.Field(&c.Limit, validation.Min(0)),
	)
}

// Policy converts the page into an aggregation policy.
func (c PageConfig) Policy() aggregate.Policy {
	return aggregate.Policy{
		Name:         c.Name,
		Category:     models.Category(c.Category),
		Limit:        c.Limit,
		FeaturedOnly: c.FeaturedOnly,
	}
}

// SQLiteConfig holds the search index database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// IndexConfig controls search index refreshes for remote content.
type IndexConfig struct {
	Refresh time.Duration `yaml:"refresh"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// BuildConfig holds static build options.
type BuildConfig struct {
	Output string `yaml:"output"`
}

// Validate validates the build configuration.
func (c *BuildConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Output, validation.Required),
	)
}

// AuthConfig holds authentication configuration for mutating endpoints.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// DefaultPages returns the stock page set of the site.
func DefaultPages() []PageConfig {
	return []PageConfig{
		{Name: "home", Slot: "recent-entries", Category: string(models.CategoryDiary), Limit: 3},
		{Name: "featured", Slot: "featured-entries", Category: string(models.CategoryPhotos), FeaturedOnly: true},
		{Name: "diary", Slot: "diary-entries", Category: string(models.CategoryDiary)},
		{Name: "photos", Slot: "photo-entries", Category: string(models.CategoryPhotos)},
		{Name: "music", Slot: "music-entries", Category: string(models.CategoryMusic)},
		{Name: "archive", Slot: "archive-entries", Category: string(models.CategoryArchive)},
	}
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Content: ContentConfig{
			Source:   SourceFS,
			Root:     "./content",
			Manifest: content.DefaultManifest,
			Timeout:  10 * time.Second,
		},
		Site: SiteConfig{
			DateFormat:  render.DefaultDateFormat,
			Placeholder: render.DefaultPlaceholder,
			Untitled:    render.DefaultUntitled,
			Markdown:    true,
			Sanitize:    true,
		},
		Pages: DefaultPages(),
		SQLite: SQLiteConfig{
			Path: "./folio.db",
		},
		Index: IndexConfig{
			Refresh: 15 * time.Minute,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Build: BuildConfig{
			Output: "./public",
		},
	}
}
