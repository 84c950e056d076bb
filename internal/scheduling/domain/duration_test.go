package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"hours and minutes", "1h30m", 90},
		{"minutes only", "45m", 45},
		{"hours only", "2h", 120},
		{"large minute count", "90m", 90},
		{"uppercase", "1H30M", 90},
		{"internal whitespace", "1h 30m", 90},
		{"empty falls back", "", 60},
		{"garbage falls back", "soon", 60},
		{"zero falls back", "0m", 60},
		{"negative falls back", "-15m", 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDuration(tt.input, 60))
		})
	}
}

func TestParseDuration_FallbackIsCallerChosen(t *testing.T) {
	assert.Equal(t, 30, ParseDuration("", 30))
	assert.Equal(t, 120, ParseDuration("nonsense", 120))
}
