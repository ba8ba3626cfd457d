package fetcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseISODuration(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{"hours minutes seconds", "PT1H2M3S", 3723},
		{"minutes seconds", "PT4M13S", 253},
		{"seconds only", "PT45S", 45},
		{"minutes only", "PT10M", 600},
		{"hours only", "PT2H", 7200},
		{"days", "P1DT2H", 93600},
		{"zero", "PT0S", 0},
		{"live stream placeholder", "P0D", 0},
		{"empty", "", 0},
		{"malformed", "1:02:03", 0},
		{"garbage suffix", "PT1H2M3SX", 0},
		{"missing designator", "PT", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseISODuration(tt.input))
		})
	}
}
