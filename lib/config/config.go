// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	ConfigEnv     = "SKILLBRIDGE_CONFIG"
	APIBaseURLEnv = "SKILLBRIDGE_API_BASE_URL"
)

// DefaultAPIBaseURL is the backend used when nothing else is configured.
const DefaultAPIBaseURL = "http://localhost:4000"

// Environment represents the deployment environment.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Session storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendSealed = "sealed"
)

var sessionBackends = []string{BackendFile, BackendSQLite, BackendSealed}

// Config is the client configuration.
type Config struct {
	// Environment selects which override section applies.
	Environment Environment `yaml:"environment"`

	API     APIConfig     `yaml:"api"`
	Session SessionConfig `yaml:"session"`
	Log     LogConfig     `yaml:"log"`

	Development *Overrides `yaml:"development,omitempty"`
	Staging     *Overrides `yaml:"staging,omitempty"`
	Production  *Overrides `yaml:"production,omitempty"`
}

// APIConfig configures the marketplace backend.
type APIConfig struct {
	// BaseURL is the API root, e.g. https://api.skillbridge.example.
	BaseURL string `yaml:"base_url"`

	// LegacyUserHeader sends the session record in the x-current-user
	// header. Default: true.
	LegacyUserHeader bool `yaml:"legacy_user_header"`
}

// SessionConfig configures where the signed-in identity is persisted.
type SessionConfig struct {
	// Backend is one of "file", "sqlite" or "sealed". Default: file.
	Backend string `yaml:"backend"`

	// Path overrides the store location. Empty means the backend's
	// default under the user config directory.
	Path string `yaml:"path"`

	// IdentityFile is the age identity for the sealed backend. Empty
	// means identity.txt next to the store.
	IdentityFile string `yaml:"identity_file"`
}

// LogConfig configures diagnostic logging.
type LogConfig struct {
	// Level is debug, info, warn or error. Default: warn.
	Level string `yaml:"level"`
}

// Overrides holds per-environment replacements. Only non-empty fields
// are applied.
type Overrides struct {
	API     *APIOverrides  `yaml:"api,omitempty"`
	Session *SessionConfig `yaml:"session,omitempty"`
	Log     *LogConfig     `yaml:"log,omitempty"`
}

// APIOverrides mirrors APIConfig with an optional bool so an override
// section can leave the header setting alone.
type APIOverrides struct {
	BaseURL          string `yaml:"base_url"`
	LegacyUserHeader *bool  `yaml:"legacy_user_header"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Environment: Development,
		API: APIConfig{
			BaseURL:          DefaultAPIBaseURL,
			LegacyUserHeader: true,
		},
		Session: SessionConfig{
			Backend: BackendFile,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Load resolves the configuration. path is the --config flag value;
// when empty, SKILLBRIDGE_CONFIG is consulted, and when that is empty
// too the defaults are used. A path that was named but cannot be read
// is an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(ConfigEnv)
	}

	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, fmt.Errorf("config: loading %s: %w", path, err)
		}
		cfg.applyEnvironmentOverrides()
	}
	cfg.expandVariables()

	if baseURL := os.Getenv(APIBaseURLEnv); baseURL != "" {
		cfg.API.BaseURL = baseURL
	}

	return cfg, nil
}

// LoadFile loads configuration from path without consulting the
// environment for the file location.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config: path is required")
	}
	return Load(path)
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) applyEnvironmentOverrides() {
	var overrides *Overrides
	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
	}
	if overrides == nil {
		return
	}

	if overrides.API != nil {
		if overrides.API.BaseURL != "" {
			c.API.BaseURL = overrides.API.BaseURL
		}
		if overrides.API.LegacyUserHeader != nil {
			c.API.LegacyUserHeader = *overrides.API.LegacyUserHeader
		}
	}
	if overrides.Session != nil {
		if overrides.Session.Backend != "" {
			c.Session.Backend = overrides.Session.Backend
		}
		if overrides.Session.Path != "" {
			c.Session.Path = overrides.Session.Path
		}
		if overrides.Session.IdentityFile != "" {
			c.Session.IdentityFile = overrides.Session.IdentityFile
		}
	}
	if overrides.Log != nil && overrides.Log.Level != "" {
		c.Log.Level = overrides.Log.Level
	}
}

func (c *Config) expandVariables() {
	c.Session.Path = expandVars(c.Session.Path)
	c.Session.IdentityFile = expandVars(c.Session.IdentityFile)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} from the environment.
func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

// SlogLevel parses Log.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelWarn, fmt.Errorf("log.level %q: %w", c.Log.Level, err)
	}
	return level, nil
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("api.base_url is required"))
	} else if parsed, err := url.Parse(c.API.BaseURL); err != nil {
		errs = append(errs, fmt.Errorf("api.base_url: %w", err))
	} else if parsed.Scheme != "http" && parsed.Scheme != "https" {
		errs = append(errs, fmt.Errorf("api.base_url must be http or https, got %q", c.API.BaseURL))
	}

	if !slices.Contains(sessionBackends, c.Session.Backend) {
		errs = append(errs, fmt.Errorf("session.backend must be one of: %v", sessionBackends))
	}

	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
