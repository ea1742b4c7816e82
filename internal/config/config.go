package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/strrl/docuflow/internal/i18n"
)

// Document sources
const (
	SourceAPI   = "api"
	SourceLocal = "local"
)

// Config is the application configuration
type Config struct {
	UserID   string       `yaml:"user_id"`
	Language string       `yaml:"language"`
	Source   string       `yaml:"source"`
	API      APIConfig    `yaml:"api"`
	Local    LocalConfig  `yaml:"local"`
	Cache    CacheConfig  `yaml:"cache"`
	Log      LogConfig    `yaml:"log"`
	Server   ServerConfig `yaml:"server"`
}

// APIConfig holds document API settings
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

// LocalConfig holds settings for the local JSONL store
type LocalConfig struct {
	DataDir string `yaml:"data_dir"`
}

// CacheConfig controls the in-memory summary cache of the viewer.
// With QualifyLanguage off, an entry fetched in one language is shown
// after a language switch until that document is refetched.
type CacheConfig struct {
	QualifyLanguage bool `yaml:"qualify_language"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ServerConfig holds settings for `docuflow serve`
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func expandEnvVars(s string) string {
	return envVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

// Default returns a configuration with every default applied and no user
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

func setDefaults(cfg *Config) {
	if cfg.Language == "" {
		cfg.Language = string(i18n.English)
	}
	if cfg.Source == "" {
		cfg.Source = SourceAPI
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "http://localhost:8787/api"
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = 15 * time.Second
	}
	if cfg.Local.DataDir == "" {
		cfg.Local.DataDir = "./data"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.File == "" {
		cfg.Log.File = "docuflow.log"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8787"
	}
}

// Validate checks the settings every command needs. The user id is checked
// separately by commands that act on behalf of a user.
func (c *Config) Validate() error {
	if _, err := i18n.Parse(c.Language); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch c.Source {
	case SourceAPI:
		if c.API.BaseURL == "" {
			return fmt.Errorf("config: api.base_url is required for the api source")
		}
	case SourceLocal:
		if c.Local.DataDir == "" {
			return fmt.Errorf("config: local.data_dir is required for the local source")
		}
	default:
		return fmt.Errorf("config: unsupported source %q (supported: api, local)", c.Source)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("config: api.timeout must not be negative")
	}
	return nil
}

// RequireUser reports an error when no user id is configured
func (c *Config) RequireUser() error {
	if strings.TrimSpace(c.UserID) == "" {
		return fmt.Errorf("config: user_id is required (set it in the config file, DOCUFLOW_USER or --user)")
	}
	return nil
}

// Load reads an optional .env file and an optional YAML config file,
// expands environment variables and applies defaults. An empty path
// skips the file and yields defaults plus environment overrides.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
		}

		expanded := expandEnvVars(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	setDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DOCUFLOW_USER"); v != "" && cfg.UserID == "" {
		cfg.UserID = v
	}
	if v := os.Getenv("DOCUFLOW_API_URL"); v != "" && cfg.API.BaseURL == "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("DOCUFLOW_API_TOKEN"); v != "" && cfg.API.Token == "" {
		cfg.API.Token = v
	}
}
