package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	cases := map[string]int{
		"00:00": 0,
		"08:05": 8*60 + 5,
		"23:59": 23*60 + 59,
	}
	for raw, want := range cases {
		got, err := ParseClock(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
}

func TestParseClockRejectsLooseInput(t *testing.T) {
	for _, raw := range []string{
		"",
		"9:05",
		"09:5",
		"10:00pm",
		"10:00 ",
		" 10:00",
		"24:00",
		"10:60",
		"1000",
		"ab:cd",
		"-1:00",
	} {
		_, err := ParseClock(raw)
		assert.Error(t, err, "%q must not parse", raw)
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00", FormatClock(0))
	assert.Equal(t, "09:05", FormatClock(9*60+5))
	// Out-of-day values are clamped to the edges.
	assert.Equal(t, "00:00", FormatClock(-30))
	assert.Equal(t, "23:59", FormatClock(MinutesPerDay+10))
}

func TestIntervalOverlapsHalfOpen(t *testing.T) {
	a := Interval{Start: 540, End: 600}

	assert.True(t, a.Overlaps(Interval{Start: 570, End: 630}))
	assert.True(t, a.Overlaps(Interval{Start: 500, End: 700}))
	// Touching endpoints do not overlap.
	assert.False(t, a.Overlaps(Interval{Start: 600, End: 660}))
	assert.False(t, a.Overlaps(Interval{Start: 480, End: 540}))
}
