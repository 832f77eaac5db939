package models

import (
	"strings"
	"time"
)

// PartyType is the kind of counterparty.
type PartyType string

const (
	PartyCustomer PartyType = "Customer"
	PartySupplier PartyType = "Supplier"
)

// ParsePartyType accepts "customer"/"klant" and "supplier"/"leverancier".
func ParsePartyType(s string) (PartyType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "customer", "klant", "debiteur":
		return PartyCustomer, true
	case "supplier", "leverancier", "crediteur":
		return PartySupplier, true
	}
	return "", false
}

// PartySource records how a counterparty name was obtained.
type PartySource string

const (
	PartySourceNone        PartySource = ""
	PartySourceRelation    PartySource = "relation"
	PartySourceRegistry    PartySource = "registry"
	PartySourceExtracted   PartySource = "extracted"
	PartySourceSuggested   PartySource = "suggested"
	PartySourceProvisional PartySource = "provisional"
)

// PartyRecord is a counterparty persisted in the party registry.
type PartyRecord struct {
	ID           string      `gorm:"primaryKey;size:36"`
	PartyType    PartyType   `gorm:"size:16;index:idx_party_lookup"`
	RelationCode string      `gorm:"size:64;index:idx_party_lookup"`
	Name         string      `gorm:"size:1000;not null"`
	Source       PartySource `gorm:"size:16"`
	Provisional  bool        `gorm:"index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName pins the registry table name.
func (PartyRecord) TableName() string {
	return "parties"
}
