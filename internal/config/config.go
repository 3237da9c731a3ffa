// Package config handles configuration loading and management for Attest.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for Attest.
type Config struct {
	Anthropic  AnthropicConfig  `mapstructure:"anthropic"`
	Validation ValidationConfig `mapstructure:"validation"`
	Scoring    ScoringConfig    `mapstructure:"scoring"`
	TUI        TUIConfig        `mapstructure:"tui"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
	// UseAWSBedrock routes API calls through AWS Bedrock instead of the
	// Anthropic API directly.
	UseAWSBedrock bool   `mapstructure:"use_aws_bedrock"`
	AWSRegion     string `mapstructure:"aws_region"`
	AWSProfile    string `mapstructure:"aws_profile"`
}

// ValidationConfig holds the tunable heuristics of the validation engine.
type ValidationConfig struct {
	// StaleAfter is how old a source document may be before components
	// citing it are flagged stale.
	StaleAfter time.Duration `mapstructure:"stale_after"`
	// DriftWindow flags components edited this much later than their
	// cited source document.
	DriftWindow time.Duration `mapstructure:"drift_window"`
	// ExcerptMatchThreshold is the fraction of significant excerpt words
	// that must appear in the source for a fuzzy match.
	ExcerptMatchThreshold float64 `mapstructure:"excerpt_match_threshold"`
	// MaxDocumentChars caps how much document content assessment prompts embed.
	MaxDocumentChars int `mapstructure:"max_document_chars"`
	// MaxTokens bounds assessor response size.
	MaxTokens int `mapstructure:"max_tokens"`
	// Temperature is the assessor sampling temperature.
	Temperature float64 `mapstructure:"temperature"`
}

// ScoringConfig holds score weighting overrides.
type ScoringConfig struct {
	// TypeWeights maps component types to their weight in the
	// type-weighted diagram score. Unlisted types weigh 1.0.
	TypeWeights map[string]float64 `mapstructure:"type_weights"`
}

// TUIConfig holds TUI display settings.
type TUIConfig struct {
	RefreshRate time.Duration `mapstructure:"refresh_rate"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY)
// 2. Project config (.attest.yaml in current directory or parent)
// 3. User config (~/.config/attest/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	// Project config takes precedence over the user config.
	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("anthropic.aws_region", "AWS_REGION")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references
	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("anthropic.api_key", cfg.Anthropic.APIKey)
	v.Set("anthropic.model", cfg.Anthropic.Model)
	v.Set("anthropic.use_aws_bedrock", cfg.Anthropic.UseAWSBedrock)
	v.Set("anthropic.aws_region", cfg.Anthropic.AWSRegion)
	v.Set("anthropic.aws_profile", cfg.Anthropic.AWSProfile)
	v.Set("validation.stale_after", cfg.Validation.StaleAfter.String())
	v.Set("validation.drift_window", cfg.Validation.DriftWindow.String())
	v.Set("validation.excerpt_match_threshold", cfg.Validation.ExcerptMatchThreshold)
	v.Set("validation.max_document_chars", cfg.Validation.MaxDocumentChars)
	v.Set("validation.max_tokens", cfg.Validation.MaxTokens)
	v.Set("validation.temperature", cfg.Validation.Temperature)
	v.Set("scoring.type_weights", cfg.Scoring.TypeWeights)
	v.Set("tui.refresh_rate", cfg.TUI.RefreshRate.String())

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "")
	v.SetDefault("anthropic.use_aws_bedrock", false)
	v.SetDefault("anthropic.aws_region", "")
	v.SetDefault("anthropic.aws_profile", "")

	v.SetDefault("validation.stale_after", "168h")
	v.SetDefault("validation.drift_window", "24h")
	v.SetDefault("validation.excerpt_match_threshold", 0.8)
	v.SetDefault("validation.max_document_chars", 3000)
	v.SetDefault("validation.max_tokens", 1024)
	v.SetDefault("validation.temperature", 0.2)

	v.SetDefault("scoring.type_weights", map[string]float64{})

	v.SetDefault("tui.refresh_rate", "250ms")
}

// getUserConfigDir returns the XDG config directory for Attest.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "attest")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "attest")
	}
	return filepath.Join(home, ".config", "attest")
}

// findProjectConfig searches for .attest.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".attest.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// expandEnv expands ${VAR} references in a string.
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Validation: ValidationConfig{
			StaleAfter:            7 * 24 * time.Hour,
			DriftWindow:           24 * time.Hour,
			ExcerptMatchThreshold: 0.8,
			MaxDocumentChars:      3000,
			MaxTokens:             1024,
			Temperature:           0.2,
		},
		Scoring: ScoringConfig{
			TypeWeights: map[string]float64{},
		},
		TUI: TUIConfig{
			RefreshRate: 250 * time.Millisecond,
		},
	}
}
