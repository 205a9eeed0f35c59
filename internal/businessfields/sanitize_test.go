package businessfields

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "ACME s.r.o.", "ACME s.r.o."},
		{"trims and collapses whitespace", "  ACME   s.r.o. \t", "ACME s.r.o."},
		{"strips tags", "<b>ACME</b> Ltd", "ACME Ltd"},
		{"strips script tags keeping text", "A<script>x</script>B", "AxB"},
		{"control characters become spaces", "12\x0034\n56", "12 34 56"},
		{"empty", "", ""},
		{"only markup", "<div></div>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeText(tt.input))
		})
	}
}
