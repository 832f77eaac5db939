package party

import (
	"fmt"
	"strings"

	"nvv/ebh-import/internal/models"
	"nvv/ebh-import/internal/textutils"
)

// NamingConfig bounds the display names of imported parties.
type NamingConfig struct {
	MaxLength        int
	ReferenceReserve int
	ReferencePrefix  string
}

// DefaultNamingConfig returns the limits of the target ledger.
func DefaultNamingConfig() NamingConfig {
	return NamingConfig{
		MaxLength:        models.DefaultMaxNameLength,
		ReferenceReserve: models.DefaultReferenceReserve,
		ReferencePrefix:  models.DefaultReferencePrefix,
	}
}

var genericPartyWords = map[models.PartyType][]string{
	models.PartyCustomer: {"customer", "klant", "debtor", "debiteur"},
	models.PartySupplier: {"supplier", "leverancier", "creditor", "crediteur"},
}

// Namer builds display names for parties.
type Namer struct {
	cfg       NamingConfig
	extractor *Extractor
}

// NewNamer creates a Namer. Zero limits in cfg fall back to the defaults.
func NewNamer(cfg NamingConfig, extractor *Extractor) *Namer {
	def := DefaultNamingConfig()
	if cfg.MaxLength <= 0 {
		cfg.MaxLength = def.MaxLength
	}
	if cfg.ReferenceReserve < 0 || cfg.ReferenceReserve >= cfg.MaxLength {
		cfg.ReferenceReserve = def.ReferenceReserve
	}
	if cfg.ReferencePrefix == "" {
		cfg.ReferencePrefix = def.ReferencePrefix
	}
	return &Namer{cfg: cfg, extractor: extractor}
}

// MeaningfulName returns the best display name for a party. Relation
// details win, then a name extracted from the description, then the
// description itself unless it is generic, then "<Type> <code>". The result
// carries the mutation reference when mutationNr is positive.
func (n *Namer) MeaningfulName(pt models.PartyType, code, description string, rel models.Relation, mutationNr int) string {
	if name := rel.DisplayName(); name != "" {
		return n.Decorate(name, mutationNr)
	}

	description = strings.TrimSpace(description)
	if description != "" && description != code {
		if n.extractor != nil {
			if name, ok := n.extractor.Name(description); ok {
				return n.Decorate(name, mutationNr)
			}
		}
		if !containsGenericWord(pt, description) {
			return n.Decorate(description, mutationNr)
		}
	}

	return n.Decorate(fmt.Sprintf("%s %s", pt, code), mutationNr)
}

// Decorate fits name within the configured length. With a positive
// mutationNr, room is reserved for a " (EBH-<nr>)" suffix, which is
// appended.
func (n *Namer) Decorate(name string, mutationNr int) string {
	name = strings.TrimSpace(name)
	if mutationNr <= 0 {
		return textutils.Truncate(name, n.cfg.MaxLength)
	}
	name = textutils.Truncate(name, n.cfg.MaxLength-n.cfg.ReferenceReserve)
	return fmt.Sprintf("%s (%s-%d)", name, n.cfg.ReferencePrefix, mutationNr)
}

// ProvisionalName is the placeholder name of a party known only by its
// relation ID.
func (n *Namer) ProvisionalName(pt models.PartyType, relationID string) string {
	return textutils.Truncate(ProvisionalName(pt, relationID), n.cfg.MaxLength)
}

// ProvisionalName is the placeholder name of a party known only by its
// relation ID.
func ProvisionalName(pt models.PartyType, relationID string) string {
	if pt == models.PartySupplier {
		return fmt.Sprintf("Supplier %s (eBoekhouden)", relationID)
	}
	return fmt.Sprintf("E-Boekhouden Customer %s", relationID)
}

// IsProvisionalName reports whether name was produced by ProvisionalName.
func IsProvisionalName(name string) bool {
	return strings.HasPrefix(name, "E-Boekhouden Customer ") ||
		(strings.HasPrefix(name, "Supplier ") && strings.HasSuffix(name, " (eBoekhouden)"))
}

func containsGenericWord(pt models.PartyType, s string) bool {
	lower := strings.ToLower(s)
	for _, w := range genericPartyWords[pt] {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
