package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"

	"nvv/ebh-import/internal/logging"
)

var envOnce sync.Once

// LoadEnv loads environment variables from a .env file in the current or
// parent directory, if one exists. Variables already set are not overridden.
// It returns the file that was loaded, or "" when none was found.
func LoadEnv(logger logging.Logger) string {
	logger = logging.OrNop(logger)
	var loaded string
	envOnce.Do(func() {
		loaded = loadEnvFile(logger, ".env", filepath.Join("..", ".env"))
	})
	return loaded
}

func loadEnvFile(logger logging.Logger, candidates ...string) string {
	for _, envFile := range candidates {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			logger.WithError(err).Warn("Error loading .env file",
				logging.Field{Key: logging.FieldFile, Value: envFile})
			return ""
		}
		logger.Debug("Loaded environment variables",
			logging.Field{Key: logging.FieldFile, Value: envFile})
		return envFile
	}
	logger.Debug("No .env file found, using environment variables")
	return ""
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}
