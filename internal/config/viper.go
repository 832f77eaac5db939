// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"nvv/ebh-import/internal/models"
)

// EnvPrefix prefixes every environment variable read by the configuration.
const EnvPrefix = "EBH"

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// CSVConfig holds CSV input/output settings.
type CSVConfig struct {
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

// RulesConfig points at the rule tables. An empty File means built-in tables.
type RulesConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

// NamingConfig controls party display names.
type NamingConfig struct {
	MaxLength        int    `mapstructure:"max_length" yaml:"max_length"`
	ReferenceReserve int    `mapstructure:"reference_reserve" yaml:"reference_reserve"`
	ReferencePrefix  string `mapstructure:"reference_prefix" yaml:"reference_prefix"`
}

// RegistryConfig controls the party registry.
type RegistryConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	DSN     string `mapstructure:"dsn" yaml:"dsn"`
}

// AIConfig controls the optional name suggester.
type AIConfig struct {
	Enabled        bool   `mapstructure:"enabled" yaml:"enabled"`
	Model          string `mapstructure:"model" yaml:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	APIKey         string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
}

// ProcessingConfig controls batch concurrency.
type ProcessingConfig struct {
	Workers              int `mapstructure:"workers" yaml:"workers"`
	ConcurrencyThreshold int `mapstructure:"concurrency_threshold" yaml:"concurrency_threshold"`
}

// Config represents the complete application configuration
type Config struct {
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
	CSV        CSVConfig        `mapstructure:"csv" yaml:"csv"`
	Rules      RulesConfig      `mapstructure:"rules" yaml:"rules"`
	Naming     NamingConfig     `mapstructure:"naming" yaml:"naming"`
	Registry   RegistryConfig   `mapstructure:"registry" yaml:"registry"`
	AI         AIConfig         `mapstructure:"ai" yaml:"ai"`
	Processing ProcessingConfig `mapstructure:"processing" yaml:"processing"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return InitializeConfigFromFile("")
}

// InitializeConfigFromFile loads configuration like InitializeConfig but reads
// configFile instead of searching the standard locations when it is set. An
// explicit file that cannot be read is an error.
func InitializeConfigFromFile(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.ebh-import")
		v.AddConfigPath(".ebh-import")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless given explicitly)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	// 5. API key is read from the unprefixed variable
	if err := v.BindEnv("ai.api_key", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind GEMINI_API_KEY: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("rules.file", "")

	v.SetDefault("naming.max_length", models.DefaultMaxNameLength)
	v.SetDefault("naming.reference_reserve", models.DefaultReferenceReserve)
	v.SetDefault("naming.reference_prefix", models.DefaultReferencePrefix)

	v.SetDefault("registry.enabled", false)
	v.SetDefault("registry.dsn", "ebh-import.db")

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.timeout_seconds", 30)

	v.SetDefault("processing.workers", 0)
	v.SetDefault("processing.concurrency_threshold", 100)
}

// Default returns the configuration built from defaults only.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	_ = v.Unmarshal(&config)
	return &config
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if config.Naming.MaxLength < 20 || config.Naming.MaxLength > 1000 {
		return fmt.Errorf("naming.max_length must be between 20 and 1000, got: %d", config.Naming.MaxLength)
	}
	if config.Naming.ReferenceReserve < 0 || config.Naming.ReferenceReserve >= config.Naming.MaxLength {
		return fmt.Errorf("naming.reference_reserve must be between 0 and max_length, got: %d", config.Naming.ReferenceReserve)
	}

	if config.Registry.Enabled && config.Registry.DSN == "" {
		return fmt.Errorf("registry.dsn required when registry is enabled")
	}

	if config.AI.Enabled {
		if config.AI.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY required when AI is enabled")
		}
		if config.AI.TimeoutSeconds < 1 || config.AI.TimeoutSeconds > 300 {
			return fmt.Errorf("ai.timeout_seconds must be between 1 and 300, got: %d", config.AI.TimeoutSeconds)
		}
	}

	if config.Processing.Workers < 0 {
		return fmt.Errorf("processing.workers must not be negative, got: %d", config.Processing.Workers)
	}
	if config.Processing.ConcurrencyThreshold < 1 {
		return fmt.Errorf("processing.concurrency_threshold must be at least 1, got: %d", config.Processing.ConcurrencyThreshold)
	}

	return nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
