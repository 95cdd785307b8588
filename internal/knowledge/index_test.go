package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextDocumentID(t *testing.T) {
	tests := []struct {
		category string
		count    uint64
		want     string
	}{
		{"shipping", 0, "shipping_001"},
		{"shipping", 2, "shipping_003"},
		{"returns", 9, "returns_010"},
		{"payment", 99, "payment_100"},
		{"support", 999, "support_1000"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NextDocumentID(tt.category, tt.count))
	}
}

func TestPointIDIsDeterministic(t *testing.T) {
	assert.Equal(t, pointID("shipping_001"), pointID("shipping_001"))
	assert.NotEqual(t, pointID("shipping_001"), pointID("shipping_002"))
}

func TestSeedSnippetsAreWellFormed(t *testing.T) {
	seen := make(map[string]bool)
	for _, s := range seedSnippets {
		assert.NotEmpty(t, s.ID)
		assert.NotEmpty(t, s.Content)
		assert.NotEmpty(t, s.Category)
		assert.False(t, seen[s.ID], "duplicate seed snippet id %s", s.ID)
		seen[s.ID] = true
	}
	assert.Len(t, seedSnippets, 10)
}
