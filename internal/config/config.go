// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for Luna.
//
// Configuration is resolved in this order, later sources winning:
//   - Built-in defaults
//   - ~/.luna/config.toml (or the file given with --config)
//   - .env files (./.env, then ~/.luna/.env)
//   - LUNA_* environment variables
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/julianacholder/womens-health-chatbot/internal/storage"
	"github.com/julianacholder/womens-health-chatbot/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete Luna configuration.
type Config struct {
	Backend BackendConfig `toml:"backend" json:"backend"`
	Auth    AuthConfig    `toml:"auth" json:"auth"`
	Storage StorageConfig `toml:"storage" json:"storage"`
	UI      UIConfig      `toml:"ui" json:"ui"`
	Log     LogConfig     `toml:"log" json:"log"`
	Server  ServerConfig  `toml:"server" json:"server"`
}

// BackendConfig points at the chat backend.
type BackendConfig struct {
	// URL is the backend base URL; /chat and /health are appended.
	URL string `toml:"url" json:"url"`
	// TimeoutSecs bounds a chat request. 0 waits indefinitely.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// HealthIntervalSecs is the minimum gap between health probes.
	HealthIntervalSecs int `toml:"health_interval_secs" json:"health_interval_secs"`
}

// AuthConfig selects the auth provider.
type AuthConfig struct {
	// Provider is "local" or "remote".
	Provider string `toml:"provider" json:"provider"`
	// URL is the remote provider base URL.
	URL string `toml:"url" json:"url"`
	// Secret signs local session tokens. Empty generates one on first use.
	Secret string `toml:"secret" json:"secret"`
}

// StorageConfig selects where conversations are kept.
type StorageConfig struct {
	// Driver is one of file, sqlite, bolt, memory.
	Driver string `toml:"driver" json:"driver"`
	// Path is the directory (file) or database file (sqlite, bolt).
	// Empty uses the driver default under ~/.luna.
	Path string `toml:"path" json:"path"`
}

// UIConfig contains terminal UI settings.
type UIConfig struct {
	Theme          string `toml:"theme" json:"theme"`
	RecentLimit    int    `toml:"recent_limit" json:"recent_limit"`
	Markdown       bool   `toml:"markdown" json:"markdown"`
	ShowTimestamps bool   `toml:"show_timestamps" json:"show_timestamps"`
}

// LogConfig controls where log output goes.
type LogConfig struct {
	// File is the log file. Empty uses ~/.luna/luna.log.
	File  string `toml:"file" json:"file"`
	Debug bool   `toml:"debug" json:"debug"`
}

// ServerConfig configures the development backend.
type ServerConfig struct {
	Addr string `toml:"addr" json:"addr"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Themes lists the accepted ui.theme values.
var Themes = []string{"luna", "dark", "light"}

// Default returns a new Config with default values.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:                "http://localhost:8000",
			TimeoutSecs:        0,
			HealthIntervalSecs: 30,
		},
		Auth: AuthConfig{
			Provider: "local",
			URL:      "http://localhost:3000",
		},
		Storage: StorageConfig{
			Driver: storage.DriverFile,
		},
		UI: UIConfig{
			Theme:          "luna",
			RecentLimit:    8,
			Markdown:       true,
			ShowTimestamps: false,
		},
		Server: ServerConfig{
			Addr: ":8000",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the Luna configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".luna"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// LogPath returns the log file, resolving the default.
func (c *Config) LogPath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	dir, err := ConfigDir()
	if err != nil {
		return "luna.log"
	}
	return filepath.Join(dir, "luna.log")
}

// HistoryPath returns the REPL history file.
func (c *Config) HistoryPath() string {
	dir, err := ConfigDir()
	if err != nil {
		return ".luna_history"
	}
	return filepath.Join(dir, "history")
}

// BackendTimeout returns the chat request timeout. Zero means no timeout.
func (c *Config) BackendTimeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSecs) * time.Second
}

// HealthInterval returns the minimum gap between health probes.
func (c *Config) HealthInterval() time.Duration {
	return time.Duration(c.Backend.HealthIntervalSecs) * time.Second
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads ~/.luna/config.toml if present, then applies .env files and
// environment overrides. A missing file is not an error.
func Load() (*Config, error) {
	path, err := ConfigPathTOML()
	if err != nil {
		return finish(Default())
	}
	if _, statErr := os.Stat(path); statErr != nil {
		return finish(Default())
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific TOML or JSON file.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finish(cfg)
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

func finish(cfg *Config) (*Config, error) {
	loadDotEnv()
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// loadDotEnv loads .env files into the process environment. Variables
// already set are not overwritten, so the real environment wins.
func loadDotEnv() {
	files := []string{".env"}
	if dir, err := ConfigDir(); err == nil {
		files = append(files, filepath.Join(dir, ".env"))
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not load %s: %v\n", f, err)
		}
	}
}

// SetDefaults fills zero values left by a partial config file.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Backend.URL == "" {
		c.Backend.URL = defaults.Backend.URL
	}
	if c.Auth.Provider == "" {
		c.Auth.Provider = defaults.Auth.Provider
	}
	if c.Auth.URL == "" {
		c.Auth.URL = defaults.Auth.URL
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = defaults.Storage.Driver
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.UI.RecentLimit == 0 {
		c.UI.RecentLimit = defaults.UI.RecentLimit
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration to path with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# Luna configuration file\n")
	buf.WriteString("# Generated by luna - edit with care\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if msg := checkHTTPURL(c.Backend.URL); msg != "" {
		errs = append(errs, ValidationError{Field: "backend.url", Message: msg})
	}
	if c.Backend.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{Field: "backend.timeout_secs", Message: "must not be negative"})
	}
	if c.Backend.HealthIntervalSecs < 0 {
		errs = append(errs, ValidationError{Field: "backend.health_interval_secs", Message: "must not be negative"})
	}

	switch strings.ToLower(c.Auth.Provider) {
	case "local":
	case "remote":
		if msg := checkHTTPURL(c.Auth.URL); msg != "" {
			errs = append(errs, ValidationError{Field: "auth.url", Message: msg})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "auth.provider",
			Message: fmt.Sprintf("invalid provider '%s', must be one of: local, remote", c.Auth.Provider),
		})
	}

	if !contains(storage.Drivers, strings.ToLower(c.Storage.Driver)) {
		errs = append(errs, ValidationError{
			Field:   "storage.driver",
			Message: fmt.Sprintf("invalid driver '%s', must be one of: %s", c.Storage.Driver, strings.Join(storage.Drivers, ", ")),
		})
	}

	if !contains(Themes, strings.ToLower(c.UI.Theme)) {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: %s", c.UI.Theme, strings.Join(Themes, ", ")),
		})
	}
	if c.UI.RecentLimit < 1 || c.UI.RecentLimit > 50 {
		errs = append(errs, ValidationError{Field: "ui.recent_limit", Message: "must be between 1 and 50"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func checkHTTPURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Sprintf("invalid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Sprintf("scheme must be http or https, got '%s'", u.Scheme)
	}
	if u.Host == "" {
		return "missing host"
	}
	return ""
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - LUNA_BACKEND_URL: overrides backend.url
//   - LUNA_BACKEND_TIMEOUT: overrides backend.timeout_secs
//   - LUNA_AUTH_PROVIDER, LUNA_AUTH_URL, LUNA_AUTH_SECRET
//   - LUNA_STORAGE_DRIVER, LUNA_STORAGE_PATH
//   - LUNA_THEME: overrides ui.theme
//   - LUNA_LOG_FILE: overrides log.file
//   - LUNA_DEBUG: set to "1" or "true" to enable debug logging
//   - LUNA_SERVER_ADDR: overrides server.addr
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("LUNA_BACKEND_URL"); v != "" {
		c.Backend.URL = v
	}
	if v := os.Getenv("LUNA_BACKEND_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.Backend.TimeoutSecs = secs
		}
	}
	if v := os.Getenv("LUNA_AUTH_PROVIDER"); v != "" {
		c.Auth.Provider = v
	}
	if v := os.Getenv("LUNA_AUTH_URL"); v != "" {
		c.Auth.URL = v
	}
	if v := os.Getenv("LUNA_AUTH_SECRET"); v != "" {
		c.Auth.Secret = v
	}
	if v := os.Getenv("LUNA_STORAGE_DRIVER"); v != "" {
		c.Storage.Driver = v
	}
	if v := os.Getenv("LUNA_STORAGE_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("LUNA_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("LUNA_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv("LUNA_DEBUG"); v != "" {
		c.Log.Debug = v == "1" || strings.ToLower(v) == "true"
	}
	if v := os.Getenv("LUNA_SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "ui.theme").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "ui.theme").
// String values are converted to the field type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Bool:
			lower := strings.ToLower(strVal)
			field.SetBool(strVal == "1" || lower == "true" || lower == "yes")
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"backend.url",
		"backend.timeout_secs",
		"backend.health_interval_secs",
		"auth.provider",
		"auth.url",
		"auth.secret",
		"storage.driver",
		"storage.path",
		"ui.theme",
		"ui.recent_limit",
		"ui.markdown",
		"ui.show_timestamps",
		"log.file",
		"log.debug",
		"server.addr",
	}
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns the config as indented JSON with the auth secret redacted.
func (c *Config) String() string {
	safe := c.Clone()
	if safe.Auth.Secret != "" {
		safe.Auth.Secret = "[REDACTED]"
	}
	data, _ := json.MarshalIndent(safe, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfigMu.Lock()
		if globalConfig == nil {
			globalConfig = cfg
		}
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	SetGlobal(cfg)
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
