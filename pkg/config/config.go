// Package config loads mailpilot settings from defaults, an optional YAML
// file, a .env file and the process environment, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by ApplyEnv.
const (
	EnvEmail         = "EMAIL"
	EnvPassword      = "PASSWORD"
	EnvGoogleAPIKey  = "GOOGLE_API_KEY"
	EnvOpenAIAPIKey  = "OPENAI_API_KEY"
	EnvOpenAIBaseURL = "OPENAI_BASE_URL"
	EnvLLMProvider   = "MAILPILOT_LLM_PROVIDER"
	EnvLLMModel      = "MAILPILOT_LLM_MODEL"
)

// WebmailGmail is the default webmail provider.
const WebmailGmail = "gmail"

// LLM provider names.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config is the complete mailpilot configuration.
type Config struct {
	Webmail     WebmailConfig `yaml:"webmail" json:"webmail"`
	Credentials Credentials   `yaml:"credentials" json:"credentials"`
	LLM         LLMConfig     `yaml:"llm" json:"llm"`
	Browser     BrowserConfig `yaml:"browser" json:"browser"`
	Logging     LoggingConfig `yaml:"logging" json:"logging"`
}

// WebmailConfig selects the webmail provider to drive.
type WebmailConfig struct {
	Provider string `yaml:"provider" json:"provider"`
}

// Credentials are used for automated login. Both must be set.
type Credentials struct {
	Email    string `yaml:"email" json:"email"`
	Password string `yaml:"password" json:"-"`
}

// Configured reports whether automated login can be attempted.
func (c Credentials) Configured() bool {
	return c.Email != "" && c.Password != ""
}

// LLMConfig configures subject generation. An empty APIKey disables it.
type LLMConfig struct {
	Provider string `yaml:"provider" json:"provider"`
	APIKey   string `yaml:"api_key" json:"-"`
	Model    string `yaml:"model" json:"model"`
	BaseURL  string `yaml:"base_url" json:"base_url"`
}

// BrowserConfig configures the browser session.
type BrowserConfig struct {
	// ProfileDir holds the persistent browser profile reused across runs.
	ProfileDir string `yaml:"profile_dir" json:"profile_dir"`

	// ExecutablePath takes precedence over browser discovery when set.
	ExecutablePath string `yaml:"executable_path" json:"executable_path"`

	UserAgent string `yaml:"user_agent" json:"user_agent"`
}

// LoggingConfig defines logging configuration
type LoggingConfig struct {
	// Verbosity controls console output: quiet or normal
	Verbosity string `yaml:"verbosity" json:"verbosity"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() *Config {
	return &Config{
		Webmail: WebmailConfig{Provider: WebmailGmail},
		Browser: BrowserConfig{ProfileDir: "./gmail_session"},
		Logging: LoggingConfig{Verbosity: "normal"},
	}
}

// DefaultPath returns ~/.mailpilot/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".mailpilot", "config.yaml"), nil
}

// Load builds the configuration. An explicit path must exist; when path is
// empty the default path is used if present. Environment values read
// through getenv override file values.
func Load(path string, getenv func(string) string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		defaultPath, err := DefaultPath()
		if err == nil {
			path = defaultPath
		}
	}

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	if getenv == nil {
		getenv = os.Getenv
	}
	cfg.ApplyEnv(getenv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays environment values. The environment is only read.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvEmail); v != "" {
		c.Credentials.Email = v
	}
	if v := getenv(EnvPassword); v != "" {
		c.Credentials.Password = v
	}
	if v := getenv(EnvLLMProvider); v != "" {
		c.LLM.Provider = v
	}
	if v := getenv(EnvLLMModel); v != "" {
		c.LLM.Model = v
	}

	googleKey, openaiKey := getenv(EnvGoogleAPIKey), getenv(EnvOpenAIAPIKey)
	if c.LLM.Provider == "" {
		switch {
		case c.LLM.APIKey != "" || googleKey != "":
			c.LLM.Provider = ProviderGemini
		case openaiKey != "":
			c.LLM.Provider = ProviderOpenAI
		default:
			c.LLM.Provider = ProviderGemini
		}
	}

	switch c.LLM.Provider {
	case ProviderGemini:
		if googleKey != "" {
			c.LLM.APIKey = googleKey
		}
	case ProviderOpenAI:
		if openaiKey != "" {
			c.LLM.APIKey = openaiKey
		}
		if v := getenv(EnvOpenAIBaseURL); v != "" && c.LLM.BaseURL == "" {
			c.LLM.BaseURL = v
		}
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Webmail.Provider == "" {
		return fmt.Errorf("webmail provider is required")
	}

	switch c.LLM.Provider {
	case "", ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("invalid llm provider: %s (must be '%s' or '%s')", c.LLM.Provider, ProviderGemini, ProviderOpenAI)
	}

	if c.Browser.ProfileDir == "" {
		return fmt.Errorf("browser profile_dir is required")
	}

	if c.Logging.Verbosity == "" {
		c.Logging.Verbosity = "normal"
	}
	if c.Logging.Verbosity != "quiet" && c.Logging.Verbosity != "normal" {
		return fmt.Errorf("invalid logging verbosity: %s (must be 'quiet' or 'normal')", c.Logging.Verbosity)
	}

	return nil
}

// LoadDotEnv loads variables from the given .env files (default ".env")
// without overriding values already in the environment. Missing files are
// ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}
