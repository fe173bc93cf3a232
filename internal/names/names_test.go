package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Key
	}{
		{"plain", "Lightning Bolt", "lightning bolt"},
		{"trailing space lowercase", "lightning bolt ", "lightning bolt"},
		{"interior whitespace", "  Lightning \t Bolt ", "lightning bolt"},
		{"punctuation", "Jace, the Mind Sculptor", "jace the mind sculptor"},
		{"apostrophe and hyphen", "Lim-Dul's Vault", "lim duls vault"},
		{"diacritics", "Lim-Dûl's Vault", "lim duls vault"},
		{"ligature", "Ætherize", "aetherize"},
		{"empty", "", ""},
		{"only punctuation", "...", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	for _, raw := range []string{"Lightning Bolt", "Lim-Dûl's Vault", "Ætherize"} {
		once := Normalize(raw)
		assert.Equal(t, once, Normalize(string(once)))
	}
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("lightning bolt", "lightning bolt"))
	assert.Equal(t, 0.0, Similarity("", "lightning bolt"))

	// One-character deletion on a long name stays above the merge threshold.
	sim := Similarity("jace the mind sculptor", "jace the mindsculptor")
	assert.GreaterOrEqual(t, sim, 0.9)

	// Unrelated names score low.
	assert.Less(t, Similarity("lightning bolt", "counterspell"), 0.5)
}

func TestSimilaritySymmetric(t *testing.T) {
	a, b := Key("monastery swiftspear"), Key("monastery swiftspur")
	assert.InDelta(t, Similarity(a, b), Similarity(b, a), 1e-12)
}
