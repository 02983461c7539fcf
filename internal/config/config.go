// Package config provides configuration management for gitscope.
//
// Values are layered: built-in defaults, the YAML config file, then
// GITSCOPE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Default configuration locations.
const (
	DefaultConfigDir  = ".config/gitscope"
	DefaultConfigFile = "config.yaml"
	DefaultLogFile    = "~/.local/state/gitscope/gitscope.log"

	// EnvConfigPath overrides the config file location
	EnvConfigPath = "GITSCOPE_CONFIG"
)

// Deployment environments.
const (
	EnvDevelopment = "development"
	EnvSelfHosted  = "self-hosted"
	EnvProduction  = "production"
	EnvShared      = "shared"
)

// ErrInvalidKey is returned for keys that are not part of Config.
var ErrInvalidKey = errors.New("invalid configuration key")

// validKeys is built once from Config struct reflection.
var validKeys = buildValidKeys()

// validate is the shared validator instance.
var validate = validator.New()

// Config represents the full gitscope configuration.
type Config struct {
	Environment string        `mapstructure:"environment" validate:"required,oneof=development self-hosted production shared"`
	Local       LocalConfig   `mapstructure:"local"`
	Server      ServerConfig  `mapstructure:"server"`
	GitHub      GitHubConfig  `mapstructure:"github"`
	History     HistoryConfig `mapstructure:"history"`
	Agent       AgentConfig   `mapstructure:"agent"`
	Log         LogConfig     `mapstructure:"log"`
}

// LocalConfig controls access to local checkouts.
type LocalConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr" validate:"required,hostname_port"`
}

// GitHubConfig holds hosted repository settings.
type GitHubConfig struct {
	Token   string `mapstructure:"token"`
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
	MaxScan int    `mapstructure:"max_scan" validate:"gte=1"`
}

// HistoryConfig holds history paging defaults.
type HistoryConfig struct {
	MaxCount int `mapstructure:"max_count" validate:"gte=1"`
}

// AgentConfig caps the payloads returned by agent tools.
type AgentConfig struct {
	MaxCommits     int `mapstructure:"max_commits" validate:"gte=1"`
	DefaultCommits int `mapstructure:"default_commits" validate:"gte=1,ltefield=MaxCommits"`
	MaxDiffChars   int `mapstructure:"max_diff_chars" validate:"gte=1"`
	MaxTags        int `mapstructure:"max_tags" validate:"gte=1"`
	MaxFiles       int `mapstructure:"max_files" validate:"gte=1"`
}

// LogConfig holds log file and rotation settings.
type LogConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	MaxSize    int    `mapstructure:"max_size" validate:"gte=1"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAge     int    `mapstructure:"max_age" validate:"gte=0"`
}

// Validate checks the configuration for errors using struct tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Default returns the built-in configuration without reading any file or environment.
func Default() *Config {
	return &Config{
		Environment: EnvDevelopment,
		Local:       LocalConfig{Enabled: true},
		Server:      ServerConfig{Addr: "127.0.0.1:3030"},
		GitHub:      GitHubConfig{MaxScan: 1000},
		History:     HistoryConfig{MaxCount: 50},
		Agent: AgentConfig{
			MaxCommits:     50,
			DefaultCommits: 20,
			MaxDiffChars:   8000,
			MaxTags:        50,
			MaxFiles:       100,
		},
		Log: LogConfig{
			File:       DefaultLogFile,
			Level:      "info",
			MaxSize:    1,
			MaxBackups: 2,
			MaxAge:     30,
		},
	}
}

// Loader provides configuration loading and saving.
type Loader struct {
	v       *viper.Viper
	path    string
	homeDir string
}

// NewLoader creates a loader for path. An empty path uses $GITSCOPE_CONFIG,
// then ~/.config/gitscope/config.yaml.
func NewLoader(path string) (*Loader, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("get home directory: %w", err)
	}

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		path = filepath.Join(home, DefaultConfigDir, DefaultConfigFile)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("GITSCOPE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	//nolint:errcheck // BindEnv only fails with zero arguments
	v.BindEnv("github.token", "GITSCOPE_GITHUB_TOKEN", "GITHUB_TOKEN")

	l := &Loader{
		v:       v,
		path:    path,
		homeDir: home,
	}
	l.setDefaults()
	return l, nil
}

// setDefaults mirrors Default() into viper so every key is bound.
func (l *Loader) setDefaults() {
	d := Default()
	l.v.SetDefault("environment", d.Environment)
	l.v.SetDefault("local.enabled", d.Local.Enabled)
	l.v.SetDefault("server.addr", d.Server.Addr)
	l.v.SetDefault("github.token", "")
	l.v.SetDefault("github.base_url", "")
	l.v.SetDefault("github.max_scan", d.GitHub.MaxScan)
	l.v.SetDefault("history.max_count", d.History.MaxCount)
	l.v.SetDefault("agent.max_commits", d.Agent.MaxCommits)
	l.v.SetDefault("agent.default_commits", d.Agent.DefaultCommits)
	l.v.SetDefault("agent.max_diff_chars", d.Agent.MaxDiffChars)
	l.v.SetDefault("agent.max_tags", d.Agent.MaxTags)
	l.v.SetDefault("agent.max_files", d.Agent.MaxFiles)
	l.v.SetDefault("log.file", d.Log.File)
	l.v.SetDefault("log.level", d.Log.Level)
	l.v.SetDefault("log.max_size", d.Log.MaxSize)
	l.v.SetDefault("log.max_backups", d.Log.MaxBackups)
	l.v.SetDefault("log.max_age", d.Log.MaxAge)
}

// Load reads the configuration file, creating defaults if it doesn't exist.
func (l *Loader) Load() (*Config, error) {
	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		if err := l.createDefault(); err != nil {
			return nil, fmt.Errorf("create default config: %w", err)
		}
	}

	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Log.File = l.expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Path returns the configuration file path.
func (l *Loader) Path() string {
	return l.path
}

// Get returns a configuration value by dot-notation key.
func (l *Loader) Get(key string) (any, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	return l.v.Get(key), nil
}

// Set sets a configuration value by dot-notation key and writes the file.
// The resulting configuration must still validate.
func (l *Loader) Set(key, value string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	previous := l.v.Get(key)
	l.v.Set(key, value)

	var cfg Config
	err := l.v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
	})
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		l.v.Set(key, previous)
		return fmt.Errorf("set %s: %w", key, err)
	}
	return l.v.WriteConfig()
}

// createDefault writes the default configuration file using Viper.
func (l *Loader) createDefault() error {
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return l.v.SafeWriteConfigAs(l.path)
}

// expandPath replaces ~ with the home directory.
func (l *Loader) expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(l.homeDir, path[2:])
	}
	if path == "~" {
		return l.homeDir
	}
	return path
}

// ValidateKey checks if a key is a valid leaf configuration key.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	if validKeys[key] {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidKey, key)
}

// Keys returns every valid leaf key.
func Keys() []string {
	keys := make([]string, 0, len(validKeys))
	for k := range validKeys {
		keys = append(keys, k)
	}
	return keys
}

// buildValidKeys builds the set of leaf keys from Config using reflection.
func buildValidKeys() map[string]bool {
	keys := make(map[string]bool)
	addKeysFromType(reflect.TypeOf(Config{}), "", keys)
	return keys
}

func addKeysFromType(t reflect.Type, prefix string, keys map[string]bool) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}
		if field.Type.Kind() == reflect.Struct {
			addKeysFromType(field.Type, key, keys)
			continue
		}
		keys[key] = true
	}
}
