package party

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFromSEPA(t *testing.T) {
	tests := []struct {
		name        string
		description string
		expected    string
		ok          bool
	}{
		{
			name:        "bank layout with ER EF marker",
			description: "NL10ABNA0432630856 ABNANL2A Filmtheater de Uitkijk ER EF 20250605224311TRIONL2UXXXE000040836 Factuurnummer 250304",
			expected:    "Filmtheater de Uitkijk",
			ok:          true,
		},
		{
			name:        "via payment provider",
			description: "NL12INGB0001234567 INGBNL2A Tupak via ICEPAY 12-05-2024 Bestelling 991",
			expected:    "Tupak via ICEPAY",
			ok:          true,
		},
		{
			name:        "end to end reference",
			description: "NL91RABO0123456789 RABONL2U Stichting Dierenhulp EREF 12345-AB",
			expected:    "Stichting Dierenhulp",
			ok:          true,
		},
		{
			name:        "long name split on separator",
			description: "NL91RABO0123456789 RABONL2U Vereniging Vrienden van het Vegetarisme - afdeling Noord / contributie",
			expected:    "Vereniging Vrienden van het Vegetarisme",
			ok:          true,
		},
		{
			name:        "not a SEPA description",
			description: "Betaling van Stichting Veganisme",
			ok:          false,
		},
		{
			name:        "only references",
			description: "NL91RABO0123456789 RABONL2U 20240101123456",
			ok:          false,
		},
		{
			name:        "empty",
			description: "",
			ok:          false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractFromSEPA(tt.description)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestLooksLikeSEPA(t *testing.T) {
	assert.True(t, LooksLikeSEPA("  NL91RABO0123456789 RABONL2U X"))
	assert.False(t, LooksLikeSEPA("NL91RABO0123456789"))
	assert.False(t, LooksLikeSEPA("Contributie 2024"))
}
