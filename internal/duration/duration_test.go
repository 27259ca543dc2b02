package duration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseValidUnits(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		input string
		want  time.Duration
	}{
		{"30s", 30 * Second},
		{"30sec", 30 * Second},
		{"45seconds", 45 * Second},
		{"5m", 5 * Minute},
		{"5min", 5 * Minute},
		{"90minutes", 90 * Minute},
		{"1h", Hour},
		{"2hr", 2 * Hour},
		{"3hours", 3 * Hour},
		{"7d", 7 * Day},
		{"7days", 7 * Day},
		{"2w", 2 * Week},
		{"1week", Week},
		{"1mo", Month},
		{"2months", 2 * Month},
		{"1y", Year},
		{"1yr", Year},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := Parse(tt.input, now)
			assert.True(t, ok)
			assert.Equal(t, now.Add(tt.want), got)
		})
	}
}

func TestParseIgnoresSpacesAndCase(t *testing.T) {
	now := time.Now()

	got, ok := Parse("7 d", now)
	assert.True(t, ok)
	assert.Equal(t, now.Add(7*Day), got)

	got, ok = Parse("3 Days", now)
	assert.True(t, ok)
	assert.Equal(t, now.Add(3*Day), got)
}

func TestParseInvalid(t *testing.T) {
	now := time.Now()

	for _, input := range []string{
		"",
		"d",        // no amount
		"7",        // no unit
		"7fort",    // unknown unit
		"0d",       // zero amount
		"spam 7d",  // amount and suffix interleaved with garbage
		"sevendays",
	} {
		t.Run(input, func(t *testing.T) {
			_, ok := Parse(input, now)
			assert.False(t, ok)
		})
	}
}

func TestMonthAndYearApproximations(t *testing.T) {
	now := time.Now()

	got, _ := Parse("1mo", now)
	assert.Equal(t, now.Add(31*Day), got)

	got, _ = Parse("1y", now)
	assert.Equal(t, now.Add(365*Day), got)
}
