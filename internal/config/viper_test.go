package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nvv/ebh-import/internal/logging"
	"nvv/ebh-import/internal/models"
)

func TestInitializeConfig_Defaults(t *testing.T) {
	clearTestEnvVars(t)
	chdir(t, t.TempDir())

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, ",", config.CSV.Delimiter)
	assert.Equal(t, "", config.Rules.File)
	assert.Equal(t, models.DefaultMaxNameLength, config.Naming.MaxLength)
	assert.Equal(t, models.DefaultReferenceReserve, config.Naming.ReferenceReserve)
	assert.Equal(t, "EBH", config.Naming.ReferencePrefix)
	assert.False(t, config.Registry.Enabled)
	assert.Equal(t, "ebh-import.db", config.Registry.DSN)
	assert.False(t, config.AI.Enabled)
	assert.Equal(t, "gemini-2.0-flash", config.AI.Model)
	assert.Equal(t, 30, config.AI.TimeoutSeconds)
	assert.Equal(t, 0, config.Processing.Workers)
	assert.Equal(t, 100, config.Processing.ConcurrencyThreshold)

	assert.Equal(t, config, Default())
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	clearTestEnvVars(t)
	chdir(t, t.TempDir())

	testEnvVars := map[string]string{
		"EBH_LOG_LEVEL":                        "debug",
		"EBH_LOG_FORMAT":                       "json",
		"EBH_CSV_DELIMITER":                    ";",
		"EBH_RULES_FILE":                       "custom-rules.yaml",
		"EBH_NAMING_MAX_LENGTH":                "100",
		"EBH_REGISTRY_ENABLED":                 "true",
		"EBH_REGISTRY_DSN":                     "/tmp/parties.db",
		"EBH_AI_ENABLED":                       "true",
		"EBH_AI_MODEL":                         "gemini-1.5-pro",
		"EBH_PROCESSING_WORKERS":               "4",
		"EBH_PROCESSING_CONCURRENCY_THRESHOLD": "10",
		"GEMINI_API_KEY":                       "test-api-key",
	}
	for key, value := range testEnvVars {
		t.Setenv(key, value)
	}

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, ";", config.CSV.Delimiter)
	assert.Equal(t, "custom-rules.yaml", config.Rules.File)
	assert.Equal(t, 100, config.Naming.MaxLength)
	assert.True(t, config.Registry.Enabled)
	assert.Equal(t, "/tmp/parties.db", config.Registry.DSN)
	assert.True(t, config.AI.Enabled)
	assert.Equal(t, "gemini-1.5-pro", config.AI.Model)
	assert.Equal(t, "test-api-key", config.AI.APIKey)
	assert.Equal(t, 4, config.Processing.Workers)
	assert.Equal(t, 10, config.Processing.ConcurrencyThreshold)
}

func TestInitializeConfig_ConfigFile(t *testing.T) {
	clearTestEnvVars(t)
	tempDir := t.TempDir()

	configContent := `
log:
  level: "warn"
  format: "json"
csv:
  delimiter: "|"
naming:
  max_length: 120
  reference_prefix: "MUT"
registry:
  enabled: true
  dsn: "parties.db"
`
	err := os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0644)
	require.NoError(t, err)
	chdir(t, tempDir)

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, "|", config.CSV.Delimiter)
	assert.Equal(t, 120, config.Naming.MaxLength)
	assert.Equal(t, models.DefaultReferenceReserve, config.Naming.ReferenceReserve)
	assert.Equal(t, "MUT", config.Naming.ReferencePrefix)
	assert.True(t, config.Registry.Enabled)
	assert.Equal(t, "parties.db", config.Registry.DSN)
}

func TestInitializeConfig_HierarchicalPrecedence(t *testing.T) {
	clearTestEnvVars(t)
	tempDir := t.TempDir()

	configContent := `
log:
  level: "warn"
csv:
  delimiter: "|"
processing:
  workers: 2
`
	err := os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0644)
	require.NoError(t, err)

	t.Setenv("EBH_LOG_LEVEL", "error")
	t.Setenv("EBH_PROCESSING_WORKERS", "8")
	chdir(t, tempDir)

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "error", config.Log.Level)
	assert.Equal(t, "|", config.CSV.Delimiter)
	assert.Equal(t, 8, config.Processing.Workers)
}

func TestInitializeConfigFromFile(t *testing.T) {
	clearTestEnvVars(t)
	chdir(t, t.TempDir())

	file := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(file, []byte("rules:\n  file: my-rules.yaml\n"), 0644))

	config, err := InitializeConfigFromFile(file)
	require.NoError(t, err)
	assert.Equal(t, "my-rules.yaml", config.Rules.File)

	_, err = InitializeConfigFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestInitializeConfig_InvalidFileValue(t *testing.T) {
	clearTestEnvVars(t)
	tempDir := t.TempDir()
	err := os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte("log:\n  level: loud\n"), 0644)
	require.NoError(t, err)
	chdir(t, tempDir)

	_, err = InitializeConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestValidateConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name         string
		modifyConfig func(*Config)
		expectError  string
	}{
		{
			name:         "invalid log level",
			modifyConfig: func(c *Config) { c.Log.Level = "invalid" },
			expectError:  "invalid log level",
		},
		{
			name:         "invalid log format",
			modifyConfig: func(c *Config) { c.Log.Format = "invalid" },
			expectError:  "invalid log format",
		},
		{
			name:         "invalid CSV delimiter",
			modifyConfig: func(c *Config) { c.CSV.Delimiter = "abc" },
			expectError:  "CSV delimiter must be a single character",
		},
		{
			name:         "name length too small",
			modifyConfig: func(c *Config) { c.Naming.MaxLength = 5 },
			expectError:  "naming.max_length must be between 20 and 1000",
		},
		{
			name:         "reserve not below max length",
			modifyConfig: func(c *Config) { c.Naming.ReferenceReserve = 140 },
			expectError:  "naming.reference_reserve",
		},
		{
			name: "registry enabled without dsn",
			modifyConfig: func(c *Config) {
				c.Registry.Enabled = true
				c.Registry.DSN = ""
			},
			expectError: "registry.dsn required",
		},
		{
			name: "AI enabled without API key",
			modifyConfig: func(c *Config) {
				c.AI.Enabled = true
				c.AI.APIKey = ""
			},
			expectError: "GEMINI_API_KEY required when AI is enabled",
		},
		{
			name: "invalid timeout seconds",
			modifyConfig: func(c *Config) {
				c.AI.Enabled = true
				c.AI.APIKey = "test-key"
				c.AI.TimeoutSeconds = 0
			},
			expectError: "ai.timeout_seconds must be between 1 and 300",
		},
		{
			name:         "negative workers",
			modifyConfig: func(c *Config) { c.Processing.Workers = -1 },
			expectError:  "processing.workers must not be negative",
		},
		{
			name:         "zero threshold",
			modifyConfig: func(c *Config) { c.Processing.ConcurrencyThreshold = 0 },
			expectError:  "processing.concurrency_threshold must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			require.NoError(t, validateConfig(config))

			tt.modifyConfig(config)
			err := validateConfig(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	config := Default()
	logger := ConfigureLoggingFromConfig(config)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)

	config.Log.Level = "debug"
	config.Log.Format = "json"
	logger = ConfigureLoggingFromConfig(config)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("EBH_TEST_DOTENV=loaded\n"), 0600))
	t.Setenv("EBH_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("EBH_TEST_DOTENV"))

	logger := logging.NewMockLogger()
	loaded := loadEnvFile(logger, filepath.Join(dir, "missing.env"), envFile)

	assert.Equal(t, envFile, loaded)
	assert.Equal(t, "loaded", GetEnv("EBH_TEST_DOTENV", "fallback"))
	assert.True(t, logger.HasEntry("DEBUG", "Loaded environment variables"))

	assert.Equal(t, "", loadEnvFile(logger, filepath.Join(dir, "none.env")))
	assert.True(t, logger.HasEntry("DEBUG", "No .env file found, using environment variables"))
}

func TestGetEnv(t *testing.T) {
	t.Setenv("EBH_TEST_VALUE", "x")
	assert.Equal(t, "x", GetEnv("EBH_TEST_VALUE", "y"))
	assert.Equal(t, "y", GetEnv("EBH_TEST_UNSET_VALUE_12345", "y"))
}

// clearTestEnvVars unsets configuration variables for the duration of the test.
func clearTestEnvVars(t *testing.T) {
	t.Helper()
	envVars := []string{
		"EBH_LOG_LEVEL",
		"EBH_LOG_FORMAT",
		"EBH_CSV_DELIMITER",
		"EBH_RULES_FILE",
		"EBH_NAMING_MAX_LENGTH",
		"EBH_NAMING_REFERENCE_RESERVE",
		"EBH_NAMING_REFERENCE_PREFIX",
		"EBH_REGISTRY_ENABLED",
		"EBH_REGISTRY_DSN",
		"EBH_AI_ENABLED",
		"EBH_AI_MODEL",
		"EBH_AI_TIMEOUT_SECONDS",
		"EBH_PROCESSING_WORKERS",
		"EBH_PROCESSING_CONCURRENCY_THRESHOLD",
		"GEMINI_API_KEY",
	}
	for _, envVar := range envVars {
		t.Setenv(envVar, "")
		require.NoError(t, os.Unsetenv(envVar))
	}
	t.Setenv("HOME", t.TempDir())
}
