// Package importer classifies mutation exports: every line item gets a
// category and every mutation gets a counterparty name and type.
package importer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"nvv/ebh-import/internal/categorizer"
	"nvv/ebh-import/internal/logging"
	"nvv/ebh-import/internal/models"
	"nvv/ebh-import/internal/party"
	"nvv/ebh-import/internal/registry"
	"nvv/ebh-import/internal/suggester"
)

// PartyRegistry stores the parties resolved during an import.
type PartyRegistry interface {
	FindByRelationCode(ctx context.Context, partyType models.PartyType, relationCode string) (*models.PartyRecord, error)
	GetOrCreate(ctx context.Context, partyType models.PartyType, relationCode, name string, source models.PartySource) (*models.PartyRecord, bool, error)
}

// lockedRegistry serializes registry access from the worker pool.
type lockedRegistry struct {
	mu   sync.Mutex
	next PartyRegistry
}

func (r *lockedRegistry) FindByRelationCode(ctx context.Context, partyType models.PartyType, relationCode string) (*models.PartyRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.next.FindByRelationCode(ctx, partyType, relationCode)
}

func (r *lockedRegistry) GetOrCreate(ctx context.Context, partyType models.PartyType, relationCode, name string, source models.PartySource) (*models.PartyRecord, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.next.GetOrCreate(ctx, partyType, relationCode, name, source)
}

// Dependencies are the collaborators of a Processor. Registry and Suggester
// are optional.
type Dependencies struct {
	Categorizer *categorizer.Categorizer
	Extractor   *party.Extractor
	Namer       *party.Namer
	Types       *party.TypeResolver
	Registry    PartyRegistry
	Suggester   suggester.NameSuggester
	Logger      logging.Logger
}

// Options tune batch processing.
type Options struct {
	Workers              int
	ConcurrencyThreshold int
	// OnProgress is called with the number of processed mutations. It is
	// never called concurrently.
	OnProgress func(done int)
}

// Result is the outcome of ProcessAll.
type Result struct {
	RunID     string
	Mutations []models.ClassifiedMutation
	Stats     *models.ImportStats
}

// Processor classifies mutations.
type Processor struct {
	deps    Dependencies
	opts    Options
	logger  logging.Logger
	nowFunc func() time.Time
}

// NewProcessor creates a Processor. Categorizer, Extractor, Namer and Types
// are required.
func NewProcessor(deps Dependencies, opts Options) (*Processor, error) {
	if deps.Categorizer == nil || deps.Extractor == nil || deps.Namer == nil || deps.Types == nil {
		return nil, errors.New("importer: categorizer, extractor, namer and type resolver are required")
	}
	if deps.Registry != nil {
		deps.Registry = &lockedRegistry{next: deps.Registry}
	}
	return &Processor{
		deps:    deps,
		opts:    opts,
		logger:  logging.OrNop(deps.Logger),
		nowFunc: time.Now,
	}, nil
}

// Process classifies one mutation: each line item gets a category, and the
// counterparty is resolved from the relation code, the description, or a
// model suggestion, in that order. A relation code that resolves to nothing
// gets a provisional name. Process only fails when ctx is done.
func (p *Processor) Process(ctx context.Context, m models.Mutation) models.ClassifiedMutation {
	result := models.ClassifiedMutation{Mutation: m}
	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	result.Lines = make([]models.ClassifiedLine, 0, len(m.Lines))
	for _, item := range m.Lines {
		result.Lines = append(result.Lines, p.deps.Categorizer.Classify(item))
	}

	result.PartyType = p.deps.Types.ForMutation(m)
	logger := p.logger.WithFields(
		logging.Field{Key: logging.FieldMutationNr, Value: m.Number},
		logging.Field{Key: logging.FieldPartyType, Value: string(result.PartyType)})

	res := p.resolveParty(ctx, m, result.PartyType, logger)
	result.PartyName = res.name
	result.PartySource = res.source
	result.Provisional = res.provisional

	if res.name == "" {
		logger.Debug("No counterparty found")
	} else {
		logger.Debug("Resolved counterparty",
			logging.Field{Key: logging.FieldParty, Value: res.name},
			logging.Field{Key: logging.FieldPartySource, Value: string(res.source)})
	}
	return result
}

type resolution struct {
	name        string
	source      models.PartySource
	provisional bool
}

func (p *Processor) resolveParty(ctx context.Context, m models.Mutation, pt models.PartyType, logger logging.Logger) resolution {
	code := m.RelationCode

	if code != "" && p.deps.Registry != nil {
		rec, err := p.deps.Registry.FindByRelationCode(ctx, pt, code)
		switch {
		case err == nil:
			return resolution{name: rec.Name, source: models.PartySourceRegistry, provisional: rec.Provisional}
		case !errors.Is(err, registry.ErrPartyNotFound):
			logger.WithError(err).Warn("Party registry lookup failed",
				logging.Field{Key: logging.FieldRelationCode, Value: code})
		}
	}

	res := p.nameFromMutation(ctx, m, pt, logger)
	if res.name == "" {
		if code == "" {
			return res
		}
		res = resolution{
			name:        p.deps.Namer.ProvisionalName(pt, code),
			source:      models.PartySourceProvisional,
			provisional: true,
		}
	}

	return p.register(ctx, pt, code, res, logger)
}

// nameFromMutation looks for a name in the relation details, then the
// description, then asks the suggester.
func (p *Processor) nameFromMutation(ctx context.Context, m models.Mutation, pt models.PartyType, logger logging.Logger) resolution {
	if name := m.Relation.DisplayName(); name != "" {
		return resolution{name: p.deps.Namer.Decorate(name, 0), source: models.PartySourceRelation}
	}

	if name, ok := p.deps.Extractor.Name(m.Description); ok {
		return resolution{name: p.deps.Namer.Decorate(name, 0), source: models.PartySourceExtracted}
	}

	if p.deps.Suggester == nil || m.Description == "" {
		return resolution{}
	}
	suggestion, err := p.deps.Suggester.Suggest(ctx, m.Description, pt)
	if err != nil {
		if !errors.Is(err, suggester.ErrNoSuggestion) {
			logger.WithError(err).Warn("Name suggestion failed")
		}
		return resolution{}
	}
	name, ok := p.deps.Extractor.Accept(suggestion)
	if !ok {
		logger.Debug("Rejected suggested name", logging.Field{Key: logging.FieldParty, Value: suggestion})
		return resolution{}
	}
	return resolution{name: p.deps.Namer.Decorate(name, 0), source: models.PartySourceSuggested}
}

// register records res in the registry. An existing entry wins over res.
// Registry failures are logged and res is returned unchanged.
func (p *Processor) register(ctx context.Context, pt models.PartyType, code string, res resolution, logger logging.Logger) resolution {
	if p.deps.Registry == nil {
		return res
	}
	rec, created, err := p.deps.Registry.GetOrCreate(ctx, pt, code, res.name, res.source)
	if err != nil {
		logger.WithError(err).Warn("Failed to register party",
			logging.Field{Key: logging.FieldParty, Value: res.name})
		return res
	}
	if created {
		logger.Info("Registered party",
			logging.Field{Key: logging.FieldParty, Value: rec.Name},
			logging.Field{Key: logging.FieldPartySource, Value: string(rec.Source)})
		return res
	}
	return resolution{name: rec.Name, source: models.PartySourceRegistry, provisional: rec.Provisional}
}

// ProcessAll classifies mutations, using a worker pool for large batches.
// Results keep the input order. On cancellation the partial result is
// returned with the context error.
func (p *Processor) ProcessAll(ctx context.Context, mutations []models.Mutation) (*Result, error) {
	runID := uuid.NewString()
	start := p.nowFunc()
	logger := p.logger.WithField(logging.FieldRunID, runID)
	logger.Info("Processing mutations", logging.Field{Key: logging.FieldCount, Value: len(mutations)})

	cp := newConcurrentProcessor(logger, p.opts.Workers, p.opts.ConcurrencyThreshold, p.opts.OnProgress)
	classified, err := cp.process(ctx, mutations, p.Process)

	stats := models.NewImportStats(runID)
	for _, cm := range classified {
		stats.Record(cm)
	}
	stats.LogSummary(logger)
	logger.Debug("Processing finished",
		logging.Field{Key: logging.FieldDuration, Value: p.nowFunc().Sub(start).Milliseconds()})

	return &Result{RunID: runID, Mutations: classified, Stats: stats}, err
}
