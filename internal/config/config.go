package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the practicelink API configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Auth       AuthConfig       `yaml:"auth"`
	Database   DatabaseConfig   `yaml:"database"`
	Cache      CacheConfig      `yaml:"cache"`
	Search     SearchConfig     `yaml:"search"`
	LLM        LLMConfig        `yaml:"llm"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int      `yaml:"port"`
	ReadTimeoutSec  int      `yaml:"read_timeout_sec"`
	WriteTimeoutSec int      `yaml:"write_timeout_sec"`
	ShutdownSec     int      `yaml:"shutdown_timeout_sec"`
	CORSOrigins     []string `yaml:"cors_origins"`
}

// DatabaseConfig holds PostgreSQL settings for the post store.
type DatabaseConfig struct {
	DSN              string `yaml:"dsn"`
	MaxConns         int32  `yaml:"max_conns"`
	MinConns         int32  `yaml:"min_conns"`
	Migrate          bool   `yaml:"migrate"`
	ReadinessTimeout int    `yaml:"readiness_timeout_sec"`
}

// CacheConfig holds the search-result cache settings. Disabled when Addrs is empty.
type CacheConfig struct {
	Driver   string   `yaml:"driver"` // redis (default)
	Addrs    []string `yaml:"addrs"`
	Password string   `yaml:"password"`
	TTLSec   int      `yaml:"ttl_sec"`
}

// Enabled reports whether a cache backend is configured.
func (c CacheConfig) Enabled() bool { return len(c.Addrs) > 0 }

// SearchConfig holds the web search provider settings. An empty APIKey disables search.
type SearchConfig struct {
	APIKey          string  `yaml:"api_key"`
	BaseURL         string  `yaml:"base_url"`
	Depth           string  `yaml:"depth"` // basic, advanced
	TimeoutSec      int     `yaml:"timeout_sec"`
	RatePerSec      float64 `yaml:"rate_per_sec"`
	Burst           int     `yaml:"burst"`
	ResultsPerQuery int     `yaml:"results_per_query"`
}

// LLMConfig holds the generative backend settings. An empty APIKey disables it.
type LLMConfig struct {
	APIKey          string `yaml:"api_key"`
	BaseURL         string `yaml:"base_url"`
	Model           string `yaml:"model"`
	TimeoutSec      int    `yaml:"timeout_sec"`
	FormatMaxTokens int    `yaml:"format_max_tokens"`
}

// EnrichmentConfig holds the link enrichment settings.
type EnrichmentConfig struct {
	AllowedDomains    string `yaml:"allowed_domains"` // comma-separated host suffixes
	MaxLinks          int    `yaml:"max_links"`
	MaxBundles        int    `yaml:"max_bundles"`
	Fanout            int    `yaml:"fanout"`
	ProbeTimeoutSec   int    `yaml:"probe_timeout_sec"`
	PublishTimeoutSec int    `yaml:"publish_timeout_sec"`
}

// MaxLinksLimit is the highest accepted enrichment.max_links.
const MaxLinksLimit = 6

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 90
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.MaxConns <= 0 {
		c.Database.MaxConns = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "redis"
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 6 * 60 * 60
	}
	if c.Search.BaseURL == "" {
		c.Search.BaseURL = "https://api.tavily.com"
	}
	if c.Search.Depth == "" {
		c.Search.Depth = "basic"
	}
	if c.Search.TimeoutSec <= 0 {
		c.Search.TimeoutSec = 8
	}
	if c.Search.RatePerSec <= 0 {
		c.Search.RatePerSec = 5
	}
	if c.Search.Burst <= 0 {
		c.Search.Burst = 5
	}
	if c.Search.ResultsPerQuery <= 0 {
		c.Search.ResultsPerQuery = 6
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gemini-1.5-flash"
	}
	if c.LLM.TimeoutSec <= 0 {
		c.LLM.TimeoutSec = 20
	}
	if c.LLM.FormatMaxTokens <= 0 {
		c.LLM.FormatMaxTokens = 800
	}
	if strings.TrimSpace(c.Enrichment.AllowedDomains) == "" {
		c.Enrichment.AllowedDomains = "leetcode.com,geeksforgeeks.org"
	}
	if c.Enrichment.MaxLinks <= 0 {
		c.Enrichment.MaxLinks = 3
	}
	if c.Enrichment.MaxBundles <= 0 {
		c.Enrichment.MaxBundles = 8
	}
	if c.Enrichment.Fanout <= 0 {
		c.Enrichment.Fanout = 3
	}
	if c.Enrichment.ProbeTimeoutSec <= 0 {
		c.Enrichment.ProbeTimeoutSec = 5
	}
	if c.Enrichment.PublishTimeoutSec <= 0 {
		c.Enrichment.PublishTimeoutSec = 60
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns must be between 0 and max_conns (%d), got %d",
			c.Database.MaxConns, c.Database.MinConns)
	}
	if c.Cache.Driver != "redis" {
		return fmt.Errorf("cache.driver must be \"redis\", got %q", c.Cache.Driver)
	}
	switch c.Search.Depth {
	case "basic", "advanced":
	default:
		return fmt.Errorf("search.depth must be \"basic\" or \"advanced\", got %q", c.Search.Depth)
	}
	if c.Search.ResultsPerQuery > 10 {
		return fmt.Errorf("search.results_per_query must be at most 10, got %d", c.Search.ResultsPerQuery)
	}
	if c.Enrichment.MaxLinks > MaxLinksLimit {
		return fmt.Errorf("enrichment.max_links must be between 1 and %d, got %d",
			MaxLinksLimit, c.Enrichment.MaxLinks)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
