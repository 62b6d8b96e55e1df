package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripParticles(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{"매너스골프의 수입 현황은", "매너스골프 수입 현황"},
		{"매장에서는 어떻게", "매장 어떻게"},
		{"가격표를 교체", "가격표 교체"},
		// Two-rune words are left alone even when they end in a particle.
		{"것을 보다", "것을 보다"},
		// Stripping must leave at least two runes behind.
		{"나는", "나는"},
		{"", ""},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.out, StripParticles(tc.in), "input: %q", tc.in)
	}
}
