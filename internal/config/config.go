package config

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EmbeddedFS can be set to use embedded configuration files
// This should be set from the configs package if embedding is desired
var EmbeddedFS embed.FS

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Git        GitConfig        `mapstructure:"git"`
	Functions  FunctionsConfig  `mapstructure:"functions"`
	Operations OperationsConfig `mapstructure:"operations"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"` // debug, release, test
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// GitConfig holds the command-driver configuration for the embedded
// version-control tool (C4).
type GitConfig struct {
	// ExecutablePath is the path to the version-control executable
	// invoked by the command driver.
	ExecutablePath string `mapstructure:"executable_path"`
	// WorkingDirectoryRoot is the root under which individual repository
	// working directories live.
	WorkingDirectoryRoot string `mapstructure:"working_directory_root"`
	// LocaleOverride, when set, replaces the invariant "C" locale forced
	// onto the driver's child process. Leave empty in production; this
	// exists for tests that need to exercise non-invariant-locale
	// failure modes deliberately.
	LocaleOverride string `mapstructure:"locale_override"`
}

// FunctionsConfig holds the function metadata manager's on-disk roots
// and public URL base (C5).
type FunctionsConfig struct {
	SiteRoot      string `mapstructure:"site_root"`
	FunctionsRoot string `mapstructure:"functions_root"`
	DataRoot      string `mapstructure:"data_root"`
	LogRoot       string `mapstructure:"log_root"`
	AppBaseURL    string `mapstructure:"app_base_url"`
}

// OperationsConfig holds the operations endpoint's connection settings
// consumed by the resty-backed client (C6).
type OperationsConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"` // debug, info, warn, error
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"` // json, console

	// OTELEnabled, when true, tees every log entry to the OTEL collector
	// at OTELEndpoint in addition to the local console/file core.
	OTELEnabled  bool   `mapstructure:"otel_enabled"`
	OTELEndpoint string `mapstructure:"otel_endpoint"`
}

// Load reads configuration from file and environment variables
// It supports loading from:
// 1. Explicit file path (if provided and exists on filesystem)
// 2. Embedded filesystem (if EmbeddedFS is set)
// 3. Common filesystem locations
// 4. Environment variables (always applied as overrides)
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Set config type
	v.SetConfigType("yaml")

	// Read from environment variables
	v.SetEnvPrefix("SCMCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Try to load config file
	configLoaded := false

	// 1. Try explicit config path on filesystem first
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			if err := v.ReadInConfig(); err != nil {
				// viper's mapstructure-backed YAML reader rejects a few
				// documents (anchors/merge keys in older gopkg.in/yaml.v2)
				// that yaml.v3 parses fine; fall back to decoding the file
				// directly before giving up.
				raw, yamlErr := loadYAMLFallback(configPath)
				if yamlErr != nil {
					return nil, fmt.Errorf("failed to read config file: %w", err)
				}
				if mergeErr := v.MergeConfigMap(raw); mergeErr != nil {
					return nil, fmt.Errorf("failed to read config file: %w", err)
				}
			}
			configLoaded = true
		}
	}

	// 2. Try embedded filesystem if config not loaded and EmbeddedFS is set
	if !configLoaded {
		embeddedConfig, err := tryLoadEmbeddedConfig(configPath)
		if err == nil && embeddedConfig != nil {
			if err := v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
				return nil, fmt.Errorf("failed to read embedded config: %w", err)
			}
			configLoaded = true
		}
	}

	// 3. Try common filesystem locations if still not loaded
	if !configLoaded {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/scmcore")

		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			// Config file not found; rely on defaults and env vars
		}
	}

	// Override with environment variables for sensitive data
	overrideFromEnv(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadWithEmbedded loads configuration with an embedded filesystem
// This is a convenience function for use with embedded configs
func LoadWithEmbedded(configPath string, embeddedFS embed.FS) (*Config, error) {
	EmbeddedFS = embeddedFS
	return Load(configPath)
}

// tryLoadEmbeddedConfig attempts to load config from the embedded filesystem
func tryLoadEmbeddedConfig(configPath string) ([]byte, error) {
	// Check if EmbeddedFS has any files
	entries, err := fs.ReadDir(EmbeddedFS, ".")
	if err != nil || len(entries) == 0 {
		return nil, fmt.Errorf("no embedded config available")
	}

	// Try the specific config path first (strip directory prefix if present)
	if configPath != "" {
		// Try various path formats
		pathsToTry := []string{
			configPath,
			strings.TrimPrefix(configPath, "configs/"),
			strings.TrimPrefix(configPath, "./configs/"),
			strings.TrimPrefix(configPath, "./"),
		}

		for _, path := range pathsToTry {
			if data, err := fs.ReadFile(EmbeddedFS, path); err == nil {
				return data, nil
			}
		}
	}

	// Try default config names
	defaultNames := []string{"config.yaml", "config.yml"}
	for _, name := range defaultNames {
		if data, err := fs.ReadFile(EmbeddedFS, name); err == nil {
			return data, nil
		}
	}

	return nil, fmt.Errorf("config file not found in embedded filesystem")
}

// loadYAMLFallback decodes path with yaml.v3 directly, returning a
// viper-mergeable map. Used only when viper's own YAML reader rejects a
// file it should have accepted.
func loadYAMLFallback(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Git driver defaults
	v.SetDefault("git.executable_path", "git")
	v.SetDefault("git.working_directory_root", "./data/repos")
	v.SetDefault("git.locale_override", "")

	// Functions defaults
	v.SetDefault("functions.site_root", "./site")
	v.SetDefault("functions.functions_root", "./site/functions")
	v.SetDefault("functions.data_root", "./site/data")
	v.SetDefault("functions.log_root", "./site/logs")
	v.SetDefault("functions.app_base_url", "http://localhost:8080")

	// Operations client defaults
	v.SetDefault("operations.base_url", "http://localhost:8081")
	v.SetDefault("operations.timeout", "10s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.output_path", "stdout")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.otel_enabled", false)
	v.SetDefault("logging.otel_endpoint", "localhost:4317")
}

// overrideFromEnv handles special environment variable overrides
func overrideFromEnv(v *viper.Viper) {
	if apiKey := os.Getenv("SCMCORE_OPERATIONS_API_KEY"); apiKey != "" {
		v.Set("operations.api_key", apiKey)
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Git.ExecutablePath == "" {
		return fmt.Errorf("git executable path is required")
	}
	if c.Git.WorkingDirectoryRoot == "" {
		return fmt.Errorf("git working directory root is required")
	}

	if c.Functions.SiteRoot == "" {
		return fmt.Errorf("functions site root is required")
	}
	if c.Functions.FunctionsRoot == "" {
		return fmt.Errorf("functions root is required")
	}

	if c.Operations.BaseURL == "" {
		return fmt.Errorf("operations base URL is required")
	}

	return nil
}

// ServerAddress returns the HTTP server address
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Mode == "debug" || c.Server.Mode == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Mode == "release" || c.Server.Mode == "production"
}
