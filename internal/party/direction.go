package party

import (
	"nvv/ebh-import/internal/models"
	"nvv/ebh-import/internal/rules"
)

// TypeResolver decides whether a counterparty is a customer or a supplier.
type TypeResolver struct {
	rules *rules.Compiled
}

func NewTypeResolver(compiled *rules.Compiled) *TypeResolver {
	return &TypeResolver{rules: compiled}
}

// Determine maps money received to Customer and money paid to Supplier.
// Without a direction the description decides: only expense keywords mean
// Supplier, anything else, including no keywords or both kinds, means
// Customer.
func (r *TypeResolver) Determine(direction models.Direction, description string) models.PartyType {
	switch direction {
	case models.DirectionReceived:
		return models.PartyCustomer
	case models.DirectionPaid:
		return models.PartySupplier
	}

	income, expense := r.rules.DirectionHints(description)
	if expense && !income {
		return models.PartySupplier
	}
	return models.PartyCustomer
}

// ForMutation determines the party type of a mutation.
func (r *TypeResolver) ForMutation(m models.Mutation) models.PartyType {
	return r.Determine(m.Type.Direction(), m.Description)
}
