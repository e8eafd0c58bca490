// Package config provides configuration loading and validation for the portfolio server.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/jonathan/portfolio/internal/cache"
)

// Blog providers.
const (
	BlogProviderBackend  = "backend"
	BlogProviderHashnode = "hashnode"
)

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config is the full server configuration. It can be loaded from a YAML or JSON file;
// every field is optional and missing values fall back to Default().
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	API     APIConfig     `yaml:"api"`
	Profile ProfileConfig `yaml:"profile"`
	Blog    BlogConfig    `yaml:"blog"`
	GitHub  GitHubConfig  `yaml:"github"`
	Cache   CacheConfig   `yaml:"cache"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	SessionTTL     time.Duration `yaml:"session_ttl"`
	RenderWait     time.Duration `yaml:"render_wait"` // how long a page waits for an in-flight profile fetch
	ContactLimit   int           `yaml:"contact_limit"`  // submissions per window per client IP
	ContactWindow  time.Duration `yaml:"contact_window"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	SecureCookies  bool          `yaml:"secure_cookies"`
}

// APIConfig points at the profile/contact/blog backend.
type APIConfig struct {
	BaseURL    string        `yaml:"base_url"`
	ContactURL string        `yaml:"contact_url"` // defaults to {base_url}/api/contact
	Timeout    time.Duration `yaml:"timeout"`
}

// ProfileConfig controls the profile retry policy.
type ProfileConfig struct {
	RetryInterval    time.Duration `yaml:"retry_interval"`
	RetryMultiplier  float64       `yaml:"retry_multiplier"`
	RetryMaxInterval time.Duration `yaml:"retry_max_interval"`
}

// BlogConfig selects where posts come from.
type BlogConfig struct {
	Provider         string `yaml:"provider"`
	HashnodeHost     string `yaml:"hashnode_host"`
	HashnodeEndpoint string `yaml:"hashnode_endpoint"`
	PageSize         int    `yaml:"page_size"`
}

// GitHubConfig configures the projects view.
type GitHubConfig struct {
	User              string   `yaml:"user"`
	Token             string   `yaml:"token"`
	Repos             []string `yaml:"repos"` // owner/name, used when pinned items are unavailable
	BaseURL           string   `yaml:"base_url"`
	RequestsPerSecond float64  `yaml:"requests_per_second"`
}

// CacheConfig configures the upstream response cache.
type CacheConfig struct {
	Backend string            `yaml:"backend"`
	TTL     time.Duration     `yaml:"ttl"`
	Redis   cache.RedisConfig `yaml:"redis"`
}

// ExportConfig configures CV export.
type ExportConfig struct {
	DisableBrowser bool          `yaml:"disable_browser"` // serve the HTML page instead of a PDF
	Timeout        time.Duration `yaml:"timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Default returns the configuration used when nothing else is provided.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:          ":8080",
			ReadTimeout:   15 * time.Second,
			WriteTimeout:  60 * time.Second,
			SessionTTL:    30 * time.Minute,
			RenderWait:    3 * time.Second,
			ContactLimit:  5,
			ContactWindow: time.Minute,
		},
		API: APIConfig{
			BaseURL: "http://localhost:3000",
			Timeout: 15 * time.Second,
		},
		Profile: ProfileConfig{
			RetryInterval:   5 * time.Second,
			RetryMultiplier: 1,
		},
		Blog: BlogConfig{
			Provider:         BlogProviderBackend,
			HashnodeEndpoint: "https://gql.hashnode.com",
			PageSize:         10,
		},
		GitHub: GitHubConfig{
			RequestsPerSecond: 5,
		},
		Cache: CacheConfig{
			Backend: CacheMemory,
			TTL:     10 * time.Minute,
		},
		Export: ExportConfig{
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from a YAML or JSON file. ${VAR} references are
// expanded from the environment before parsing.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	// JSON is a subset of YAML, so one decoder serves both formats.
	var cfg Config
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", filepath.Base(path), err)
	}

	return &cfg, nil
}

// Load builds the effective configuration: the optional file at path, then defaults
// for anything unset, then environment overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	merged := cfg.MergeWithDefaults(Default())
	merged.ApplyEnv(os.LookupEnv)
	return &merged, nil
}

// ApplyEnv overrides fields from environment variables. lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok && v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			}
		}
	}

	str("PORTFOLIO_ADDR", &c.Server.Addr)
	if port, ok := lookup("PORT"); ok && port != "" {
		if _, err := strconv.Atoi(port); err == nil {
			c.Server.Addr = ":" + port
		}
	}
	dur("PORTFOLIO_SESSION_TTL", &c.Server.SessionTTL)
	if v, ok := lookup("PORTFOLIO_CONTACT_LIMIT"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.Server.ContactLimit = n
		}
	}
	if v, ok := lookup("PORTFOLIO_ALLOWED_ORIGINS"); ok && v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}
	if v, ok := lookup("PORTFOLIO_SECURE_COOKIES"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Server.SecureCookies = b
		}
	}

	str("PORTFOLIO_API_URL", &c.API.BaseURL)
	str("PORTFOLIO_CONTACT_URL", &c.API.ContactURL)
	dur("PORTFOLIO_API_TIMEOUT", &c.API.Timeout)

	dur("PORTFOLIO_RETRY_INTERVAL", &c.Profile.RetryInterval)
	dur("PORTFOLIO_RETRY_MAX_INTERVAL", &c.Profile.RetryMaxInterval)
	if v, ok := lookup("PORTFOLIO_RETRY_MULTIPLIER"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Profile.RetryMultiplier = f
		}
	}

	str("PORTFOLIO_BLOG_PROVIDER", &c.Blog.Provider)
	str("HASHNODE_HOST", &c.Blog.HashnodeHost)

	str("GITHUB_USER", &c.GitHub.User)
	str("GITHUB_TOKEN", &c.GitHub.Token)
	if v, ok := lookup("GITHUB_REPOS"); ok && v != "" {
		c.GitHub.Repos = splitList(v)
	}

	str("PORTFOLIO_CACHE", &c.Cache.Backend)
	dur("PORTFOLIO_CACHE_TTL", &c.Cache.TTL)
	if v, ok := lookup("REDIS_URL"); ok && v != "" {
		c.Cache.Redis.URL = v
		if _, set := lookup("PORTFOLIO_CACHE"); !set {
			c.Cache.Backend = CacheRedis
		}
	}

	if v, ok := lookup("PORTFOLIO_EXPORT_BROWSER"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Export.DisableBrowser = !b
		}
	}

	str("LOG_LEVEL", &c.Logging.Level)
	str("LOG_FORMAT", &c.Logging.Format)
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("config error: 'server.addr' is required")
	}
	if err := validateURL("api.base_url", c.API.BaseURL, true); err != nil {
		return err
	}
	if err := validateURL("api.contact_url", c.API.ContactURL, false); err != nil {
		return err
	}
	if c.Server.ContactLimit < 0 {
		return fmt.Errorf("config error: 'server.contact_limit' must be non-negative")
	}
	if c.Profile.RetryInterval < 0 || c.Profile.RetryMaxInterval < 0 {
		return fmt.Errorf("config error: retry intervals must be non-negative")
	}
	if c.Profile.RetryMultiplier < 0 {
		return fmt.Errorf("config error: 'profile.retry_multiplier' must be non-negative")
	}

	switch c.Blog.Provider {
	case BlogProviderBackend:
	case BlogProviderHashnode:
		if c.Blog.HashnodeHost == "" {
			return fmt.Errorf("config error: 'blog.hashnode_host' is required for the hashnode provider")
		}
	default:
		return fmt.Errorf("config error: unknown blog provider %q", c.Blog.Provider)
	}

	for _, repo := range c.GitHub.Repos {
		owner, name, ok := strings.Cut(repo, "/")
		if !ok || owner == "" || name == "" {
			return fmt.Errorf("config error: github repo %q must be owner/name", repo)
		}
	}

	switch c.Cache.Backend {
	case CacheNone, CacheMemory:
	case CacheRedis:
		if c.Cache.Redis.URL == "" {
			return fmt.Errorf("config error: 'cache.redis.url' is required for the redis backend")
		}
	default:
		return fmt.Errorf("config error: unknown cache backend %q", c.Cache.Backend)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("config error: unknown log format %q", c.Logging.Format)
	}

	return nil
}

// ContactEndpoint returns the contact URL, derived from the API base when unset.
func (c *Config) ContactEndpoint() string {
	if c.API.ContactURL != "" {
		return c.API.ContactURL
	}
	return strings.TrimRight(c.API.BaseURL, "/") + "/api/contact"
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	mergeString(&result.Server.Addr, defaults.Server.Addr)
	mergeDuration(&result.Server.ReadTimeout, defaults.Server.ReadTimeout)
	mergeDuration(&result.Server.WriteTimeout, defaults.Server.WriteTimeout)
	mergeDuration(&result.Server.SessionTTL, defaults.Server.SessionTTL)
	mergeDuration(&result.Server.RenderWait, defaults.Server.RenderWait)
	if result.Server.ContactLimit == 0 {
		result.Server.ContactLimit = defaults.Server.ContactLimit
	}
	mergeDuration(&result.Server.ContactWindow, defaults.Server.ContactWindow)
	if len(result.Server.AllowedOrigins) == 0 {
		result.Server.AllowedOrigins = defaults.Server.AllowedOrigins
	}

	mergeString(&result.API.BaseURL, defaults.API.BaseURL)
	mergeString(&result.API.ContactURL, defaults.API.ContactURL)
	mergeDuration(&result.API.Timeout, defaults.API.Timeout)

	mergeDuration(&result.Profile.RetryInterval, defaults.Profile.RetryInterval)
	mergeDuration(&result.Profile.RetryMaxInterval, defaults.Profile.RetryMaxInterval)
	if result.Profile.RetryMultiplier == 0 {
		result.Profile.RetryMultiplier = defaults.Profile.RetryMultiplier
	}

	mergeString(&result.Blog.Provider, defaults.Blog.Provider)
	mergeString(&result.Blog.HashnodeHost, defaults.Blog.HashnodeHost)
	mergeString(&result.Blog.HashnodeEndpoint, defaults.Blog.HashnodeEndpoint)
	if result.Blog.PageSize == 0 {
		result.Blog.PageSize = defaults.Blog.PageSize
	}

	mergeString(&result.GitHub.User, defaults.GitHub.User)
	mergeString(&result.GitHub.Token, defaults.GitHub.Token)
	mergeString(&result.GitHub.BaseURL, defaults.GitHub.BaseURL)
	if len(result.GitHub.Repos) == 0 {
		result.GitHub.Repos = defaults.GitHub.Repos
	}
	if result.GitHub.RequestsPerSecond == 0 {
		result.GitHub.RequestsPerSecond = defaults.GitHub.RequestsPerSecond
	}

	mergeString(&result.Cache.Backend, defaults.Cache.Backend)
	mergeDuration(&result.Cache.TTL, defaults.Cache.TTL)
	mergeString(&result.Cache.Redis.URL, defaults.Cache.Redis.URL)
	mergeString(&result.Cache.Redis.KeyPrefix, defaults.Cache.Redis.KeyPrefix)

	mergeDuration(&result.Export.Timeout, defaults.Export.Timeout)

	mergeString(&result.Logging.Level, defaults.Logging.Level)
	mergeString(&result.Logging.Format, defaults.Logging.Format)

	return result
}

func mergeString(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

func mergeDuration(dst *time.Duration, def time.Duration) {
	if *dst == 0 {
		*dst = def
	}
}

func validateURL(field, raw string, required bool) error {
	if raw == "" {
		if required {
			return fmt.Errorf("config error: '%s' is required", field)
		}
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config error: '%s' is not a valid URL: %q", field, raw)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
