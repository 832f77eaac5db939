// Package container provides dependency injection for the ebh-import application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"gorm.io/gorm"

	"nvv/ebh-import/internal/categorizer"
	"nvv/ebh-import/internal/config"
	"nvv/ebh-import/internal/importer"
	"nvv/ebh-import/internal/logging"
	"nvv/ebh-import/internal/party"
	"nvv/ebh-import/internal/registry"
	"nvv/ebh-import/internal/rules"
	"nvv/ebh-import/internal/store"
	"nvv/ebh-import/internal/suggester"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation. Optional components (registry,
// suggester) are nil when disabled in the configuration.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	store       *store.RuleStore
	rules       *rules.Compiled
	categorizer *categorizer.Categorizer
	extractor   *party.Extractor
	namer       *party.Namer
	types       *party.TypeResolver

	db        *gorm.DB
	registry  *registry.Repository
	suggester suggester.NameSuggester
}

// NewContainer creates and wires all application dependencies with a
// logger built from the configuration.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format))
}

// NewContainerWithLogger is NewContainer with an explicit logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	logger = logging.OrNop(logger)

	ruleStore := store.NewRuleStore(cfg.Rules.File, logger)
	compiled, err := ruleStore.LoadCompiled()
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}

	extractor := party.NewExtractor(compiled, logger)
	c := &Container{
		logger:      logger,
		config:      cfg,
		store:       ruleStore,
		rules:       compiled,
		categorizer: categorizer.NewCategorizer(compiled, logger),
		extractor:   extractor,
		namer: party.NewNamer(party.NamingConfig{
			MaxLength:        cfg.Naming.MaxLength,
			ReferenceReserve: cfg.Naming.ReferenceReserve,
			ReferencePrefix:  cfg.Naming.ReferencePrefix,
		}, extractor),
		types: party.NewTypeResolver(compiled),
	}

	if cfg.Registry.Enabled {
		db, err := registry.NewDB(cfg.Registry.DSN, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open party registry: %w", err)
		}
		c.db = db
		c.registry = registry.NewRepository(db, cfg.Naming.MaxLength)
		logger.Info("Party registry enabled", logging.Field{Key: "dsn", Value: cfg.Registry.DSN})
	}

	if cfg.AI.Enabled && cfg.AI.APIKey != "" {
		s, err := suggester.NewGeminiSuggester(context.Background(), suggester.Options{
			APIKey:  cfg.AI.APIKey,
			Model:   cfg.AI.Model,
			Timeout: time.Duration(cfg.AI.TimeoutSeconds) * time.Second,
		}, logger)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("failed to create name suggester: %w", err)
		}
		c.suggester = s
		logger.Info("AI name suggestion enabled", logging.Field{Key: "model", Value: cfg.AI.Model})
	} else {
		logger.Debug("AI name suggestion disabled")
	}

	logger.Debug("Container initialized successfully",
		logging.Field{Key: "registry_enabled", Value: c.registry != nil},
		logging.Field{Key: "ai_enabled", Value: c.suggester != nil})

	return c, nil
}

// NewProcessor returns an importer wired with the container's components.
// onProgress may be nil.
func (c *Container) NewProcessor(onProgress func(done int)) (*importer.Processor, error) {
	deps := importer.Dependencies{
		Categorizer: c.categorizer,
		Extractor:   c.extractor,
		Namer:       c.namer,
		Types:       c.types,
		Logger:      c.logger,
	}
	if c.registry != nil {
		deps.Registry = c.registry
	}
	if c.suggester != nil {
		deps.Suggester = c.suggester
	}
	return importer.NewProcessor(deps, importer.Options{
		Workers:              c.config.Processing.Workers,
		ConcurrencyThreshold: c.config.Processing.ConcurrencyThreshold,
		OnProgress:           onProgress,
	})
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// CSVDelimiter returns the configured CSV delimiter, defaulting to a comma.
func (c *Container) CSVDelimiter() rune {
	if r := []rune(c.config.CSV.Delimiter); len(r) > 0 {
		return r[0]
	}
	return ','
}

// GetStore returns the rule store.
func (c *Container) GetStore() *store.RuleStore {
	return c.store
}

// GetRules returns the compiled rule tables.
func (c *Container) GetRules() *rules.Compiled {
	return c.rules
}

// GetCategorizer returns the container's categorizer instance.
func (c *Container) GetCategorizer() *categorizer.Categorizer {
	return c.categorizer
}

// GetExtractor returns the party name extractor.
func (c *Container) GetExtractor() *party.Extractor {
	return c.extractor
}

// GetNamer returns the party namer.
func (c *Container) GetNamer() *party.Namer {
	return c.namer
}

// GetTypeResolver returns the party type resolver.
func (c *Container) GetTypeResolver() *party.TypeResolver {
	return c.types
}

// GetRegistry returns the party registry, or nil when it is disabled.
func (c *Container) GetRegistry() *registry.Repository {
	return c.registry
}

// GetSuggester returns the name suggester, or nil when AI is disabled.
func (c *Container) GetSuggester() suggester.NameSuggester {
	return c.suggester
}

// Close releases the registry database and the suggester client.
func (c *Container) Close() error {
	var errs []error
	if closer, ok := c.suggester.(io.Closer); ok {
		errs = append(errs, closer.Close())
	}
	if c.db != nil {
		errs = append(errs, registry.Close(c.db))
	}
	return errors.Join(errs...)
}
