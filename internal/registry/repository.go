package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"nvv/ebh-import/internal/models"
)

// ErrPartyNotFound is returned when no registered party matches a lookup.
var ErrPartyNotFound = errors.New("party not found")

// Repository stores counterparties in the registry database.
type Repository struct {
	db            *gorm.DB
	maxNameLength int
}

// NewRepository wraps an opened registry database. Names longer than
// maxNameLength characters are refused; zero or less means the default
// party name length.
func NewRepository(db *gorm.DB, maxNameLength int) *Repository {
	if maxNameLength <= 0 {
		maxNameLength = models.DefaultMaxNameLength
	}
	return &Repository{db: db, maxNameLength: maxNameLength}
}

// GetOrCreate returns the registered party for (partyType, relationCode), or
// for (partyType, name) when relationCode is empty, creating it with source
// when it does not exist yet. The boolean reports whether a row was created.
func (r *Repository) GetOrCreate(ctx context.Context, partyType models.PartyType, relationCode, name string, source models.PartySource) (*models.PartyRecord, bool, error) {
	relationCode = strings.TrimSpace(relationCode)
	name = strings.TrimSpace(name)
	if relationCode == "" && name == "" {
		return nil, false, fmt.Errorf("register party: relation code or name required")
	}
	if utf8.RuneCountInString(name) > r.maxNameLength {
		return nil, false, fmt.Errorf("register party: name longer than %d characters", r.maxNameLength)
	}

	var party models.PartyRecord
	db := r.db.WithContext(ctx)
	query := db.Where("party_type = ? AND relation_code = ?", partyType, relationCode)
	if relationCode == "" {
		query = query.Where("name = ?", name)
	}
	err := query.First(&party).Error
	switch {
	case err == nil:
		return &party, false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if name == "" {
			return nil, false, fmt.Errorf("register party %s: name required", relationCode)
		}
		party = models.PartyRecord{
			ID:           uuid.NewString(),
			PartyType:    partyType,
			RelationCode: relationCode,
			Name:         name,
			Source:       source,
			Provisional:  source == models.PartySourceProvisional,
		}
		if err := db.Create(&party).Error; err != nil {
			return nil, false, fmt.Errorf("create party: %w", err)
		}
		return &party, true, nil
	default:
		return nil, false, fmt.Errorf("find party: %w", err)
	}
}

// FindByRelationCode looks up the party registered for a relation code.
func (r *Repository) FindByRelationCode(ctx context.Context, partyType models.PartyType, relationCode string) (*models.PartyRecord, error) {
	var party models.PartyRecord
	err := r.db.WithContext(ctx).
		Where("party_type = ? AND relation_code = ?", partyType, strings.TrimSpace(relationCode)).
		First(&party).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPartyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find party: %w", err)
	}
	return &party, nil
}

// GetByID returns a party by its registry ID.
func (r *Repository) GetByID(ctx context.Context, id string) (*models.PartyRecord, error) {
	var party models.PartyRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&party).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPartyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find party: %w", err)
	}
	return &party, nil
}

// ListProvisional returns provisional parties, oldest first. A limit of zero
// or less returns all of them.
func (r *Repository) ListProvisional(ctx context.Context, limit int) ([]models.PartyRecord, error) {
	var parties []models.PartyRecord
	query := r.db.WithContext(ctx).
		Where("provisional = ?", true).
		Order("created_at ASC").Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&parties).Error; err != nil {
		return nil, fmt.Errorf("list provisional parties: %w", err)
	}
	return parties, nil
}

// Enrich replaces the name of a party and clears its provisional flag.
func (r *Repository) Enrich(ctx context.Context, id, name string) (*models.PartyRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("enrich party %s: name required", id)
	}
	if utf8.RuneCountInString(name) > r.maxNameLength {
		return nil, fmt.Errorf("enrich party %s: name longer than %d characters", id, r.maxNameLength)
	}

	party, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":        name,
		"provisional": false,
	}
	if err := r.db.WithContext(ctx).Model(party).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update party: %w", err)
	}
	party.Name = name
	party.Provisional = false
	return party, nil
}

// Count returns the number of registered parties.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.PartyRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count parties: %w", err)
	}
	return n, nil
}
