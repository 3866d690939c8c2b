// Package config loads application configuration from a file, environment
// variables, and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// AppConfig holds all application configuration. It is instantiated by
// NewConfig() and passed to components that need it.
type AppConfig struct {
	Server   ServerConfig   `mapstructure:"server"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Projects ProjectsConfig `mapstructure:"projects"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig describes how to launch the external Simple Task MCP
// server process.
type ServerConfig struct {
	Command string        `mapstructure:"command"` // interpreter, e.g. "node"
	Path    string        `mapstructure:"path"`    // server directory
	Entry   string        `mapstructure:"entry"`   // entry script inside Path
	Timeout time.Duration `mapstructure:"timeout"` // per-call deadline
}

// LLMConfig holds the completion API settings for the agent.
type LLMConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// ProjectsConfig locates the project registry file.
type ProjectsConfig struct {
	File string `mapstructure:"file"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// NewConfig creates an AppConfig by reading from a file, environment
// variables, and applying defaults.
func NewConfig(configPath string) (*AppConfig, error) {
	cfg := defaultConfig()

	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.taskmaster")
		v.AddConfigPath("/etc/taskmaster/")
	}

	v.SetEnvPrefix("TASKMASTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv alone is not enough for Unmarshal: viper cannot
	// enumerate env-only keys, so each schema key is bound explicitly to
	// its TASKMASTER_* variable.
	for _, key := range []string{
		"server.command",
		"server.path",
		"server.entry",
		"server.timeout",
		"llm.api_key",
		"llm.base_url",
		"llm.model",
		"llm.temperature",
		"llm.max_tokens",
		"llm.timeout",
		"projects.file",
		"log.level",
	} {
		_ = v.BindEnv(key)
	}

	// Legacy variable names from earlier releases.
	_ = v.BindEnv("server.path", "MCP_SERVER_PATH")
	_ = v.BindEnv("llm.api_key", "OPENAI_API_KEY")

	// Reading the config file is optional.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.expandPaths()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// defaultConfig returns an AppConfig with default values. This is more
// type-safe than using viper.SetDefault().
func defaultConfig() AppConfig {
	return AppConfig{
		Server: ServerConfig{
			Command: "node",
			Entry:   "index.js",
			Timeout: 30 * time.Second,
		},
		LLM: LLMConfig{
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-4o",
			Temperature: 0.2,
			Timeout:     60 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// EntryPath returns the absolute path of the server entry script.
func (c *AppConfig) EntryPath() string {
	return filepath.Join(c.Server.Path, c.Server.Entry)
}

// ProjectsFile returns the configured project registry path, defaulting
// to projects.json next to the server directory.
func (c *AppConfig) ProjectsFile() string {
	if c.Projects.File != "" {
		return c.Projects.File
	}
	if c.Server.Path == "" {
		return ""
	}
	return filepath.Join(filepath.Dir(c.Server.Path), "projects.json")
}

func (c *AppConfig) expandPaths() {
	c.Server.Path = expandPath(c.Server.Path)
	c.Projects.File = expandPath(c.Projects.File)
}

// expandPath expands ~ to the home directory and environment variables.
func expandPath(path string) string {
	if path == "" {
		return path
	}
	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(homeDir, path[1:])
		}
	}
	return os.ExpandEnv(path)
}

// validate checks if the configuration is valid.
func (c *AppConfig) validate() error {
	if c.Server.Command == "" {
		return errors.New("server.command is required")
	}
	if c.Server.Entry == "" {
		return errors.New("server.entry is required")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.LLM.Model == "" {
		return errors.New("llm.model is required")
	}

	validLogLevels := map[string]bool{
		"trace": true, "debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	return nil
}
