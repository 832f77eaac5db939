// Package root contains the root command for the application
package root

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"nvv/ebh-import/internal/config"
	"nvv/ebh-import/internal/container"
	"nvv/ebh-import/internal/logging"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input      string
	Output     string
	ConfigFile string
}

var (
	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:          "ebh-import",
		SilenceUsage: true,
		Short:        "A CLI tool to classify e-Boekhouden mutation exports.",
		Long: `ebh-import classifies bookkeeping mutations exported from e-Boekhouden.
It assigns an item category to every line, extracts the counterparty name
from free-text descriptions and tracks provisional parties in a registry.`,
		Run: func(cmd *cobra.Command, args []string) {
			logger := GetLogger()
			logger.Info("Welcome to ebh-import!")
			logger.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initContainer()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			closeContainer()
		},
	}

	// SharedFlags holds the persistent flags of the root command
	SharedFlags = CommonFlags{}

	appConfig    *config.Config
	appContainer *container.Container
	appLogger    logging.Logger

	initOnce sync.Once
)

// Init initializes the root command and all flags. It is safe to call more
// than once.
func Init() {
	initOnce.Do(func() {
		Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file or directory")
		Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file or directory")
		Cmd.PersistentFlags().StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default $HOME/.ebh-import/config.yaml)")
	})
}

func initContainer() error {
	cfg, err := config.InitializeConfigFromFile(SharedFlags.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))
	c, err := container.NewContainerWithLogger(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	appConfig = cfg
	appLogger = logger
	appContainer = c
	return nil
}

func closeContainer() {
	if appContainer == nil {
		return
	}
	if err := appContainer.Close(); err != nil {
		GetLogger().WithError(err).Warn("Failed to release resources")
	}
	appContainer = nil
}

// SetContainer replaces the application container. It is used by tests and
// by embedding programs that build their own container.
func SetContainer(c *container.Container) {
	appContainer = c
	if c == nil {
		appConfig = nil
		appLogger = nil
		return
	}
	appConfig = c.GetConfig()
	appLogger = c.GetLogger()
}

// GetContainer returns the application container, or nil before the root
// command has run its pre-run hook.
func GetContainer() *container.Container {
	return appContainer
}

// GetConfig returns the loaded configuration, or the defaults before it
// has been loaded.
func GetConfig() *config.Config {
	if appConfig == nil {
		return config.Default()
	}
	return appConfig
}

// GetLogger returns the application logger.
func GetLogger() logging.Logger {
	if appLogger == nil {
		return logging.Default()
	}
	return appLogger
}
