package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutationTypeDirection(t *testing.T) {
	tests := []struct {
		typ      MutationType
		expected Direction
	}{
		{MutationOpeningBalance, DirectionUnknown},
		{MutationInvoiceReceived, DirectionPaid},
		{MutationInvoiceSent, DirectionReceived},
		{MutationInvoicePaymentReceived, DirectionReceived},
		{MutationInvoicePaymentSent, DirectionPaid},
		{MutationMoneyReceived, DirectionReceived},
		{MutationMoneyPaid, DirectionPaid},
		{MutationMemorial, DirectionUnknown},
		{MutationType(42), DirectionUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.typ.Direction())
		})
	}
}

func TestParseMutationType(t *testing.T) {
	tests := []struct {
		input    string
		expected MutationType
		wantErr  bool
	}{
		{"5", MutationMoneyReceived, false},
		{" 0 ", MutationOpeningBalance, false},
		{"GeldUitgegeven", MutationMoneyPaid, false},
		{"factuurverstuurd", MutationInvoiceSent, false},
		{"9", 0, true},
		{"Storno", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMutationType(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMutationTypeString(t *testing.T) {
	assert.Equal(t, "Memoriaal", MutationMemorial.String())
	assert.Equal(t, "MutationType(12)", MutationType(12).String())
	assert.Equal(t, "PAID", DirectionPaid.String())
}

func TestMutationReference(t *testing.T) {
	assert.Equal(t, "EBH-1234", Mutation{Number: 1234}.Reference("EBH"))
	assert.Empty(t, Mutation{}.Reference("EBH"))
}

func TestKnownCategories(t *testing.T) {
	cats := KnownCategories()
	assert.Contains(t, cats, CategoryServices)
	assert.True(t, IsKnownCategory("Office Supplies"))
	assert.False(t, IsKnownCategory("office supplies"))

	cats[0] = "mutated"
	assert.Equal(t, CategoryServices, KnownCategories()[0])
}

func TestParsePriceClass(t *testing.T) {
	pc, ok := ParsePriceClass(" Equipment ")
	assert.True(t, ok)
	assert.Equal(t, PriceClassEquipment, pc)

	_, ok = ParsePriceClass("luxury")
	assert.False(t, ok)
}

func TestRelationDisplayName(t *testing.T) {
	assert.Equal(t, "ACME BV", Relation{Company: " ACME BV ", Contact: "J. Jansen"}.DisplayName())
	assert.Equal(t, "J. Jansen", Relation{Company: "  ", Contact: "J. Jansen", Name: "x"}.DisplayName())
	assert.Equal(t, "Piet", Relation{Name: "Piet"}.DisplayName())
	assert.Empty(t, Relation{}.DisplayName())
}
