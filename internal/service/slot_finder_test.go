package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyflow/studyplan-api/internal/models"
)

func clock(t *testing.T, raw string) int {
	t.Helper()
	m, err := models.ParseClock(raw)
	require.NoError(t, err)
	return m
}

func TestFindSlotEveningPreference(t *testing.T) {
	finder := NewSlotFinder(15)
	day := models.Interval{Start: clock(t, "08:00"), End: clock(t, "22:00")}

	slot, ok := finder.FindSlot(nil, 60, models.TimeEvening, "", day)
	require.True(t, ok)
	assert.Equal(t, clock(t, "17:00"), slot.Start)
	assert.Equal(t, clock(t, "18:00"), slot.End)
}

func TestFindSlotSkipsBusyWindows(t *testing.T) {
	finder := NewSlotFinder(15)
	day := models.Interval{Start: clock(t, "08:00"), End: clock(t, "22:00")}
	busy := []models.Interval{
		{Start: clock(t, "17:00"), End: clock(t, "18:30")},
	}

	slot, ok := finder.FindSlot(busy, 60, models.TimeEvening, "", day)
	require.True(t, ok)
	assert.Equal(t, clock(t, "18:30"), slot.Start)
}

func TestFindSlotExactStartWins(t *testing.T) {
	finder := NewSlotFinder(15)
	day := models.Interval{Start: clock(t, "08:00"), End: clock(t, "22:00")}

	slot, ok := finder.FindSlot(nil, 45, models.TimeMorning, "13:10", day)
	require.True(t, ok)
	assert.Equal(t, clock(t, "13:10"), slot.Start)
	assert.Equal(t, clock(t, "13:55"), slot.End)
}

func TestFindSlotExactStartBlockedFallsBackToBucket(t *testing.T) {
	finder := NewSlotFinder(15)
	day := models.Interval{Start: clock(t, "08:00"), End: clock(t, "22:00")}
	busy := []models.Interval{
		{Start: clock(t, "13:00"), End: clock(t, "14:00")},
	}

	slot, ok := finder.FindSlot(busy, 45, models.TimeMorning, "13:10", day)
	require.True(t, ok)
	assert.Equal(t, clock(t, "08:00"), slot.Start)
}

func TestFindSlotFullBucketSpillsIntoDay(t *testing.T) {
	finder := NewSlotFinder(15)
	day := models.Interval{Start: clock(t, "08:00"), End: clock(t, "22:00")}
	busy := []models.Interval{
		{Start: clock(t, "17:00"), End: clock(t, "21:00")},
	}

	slot, ok := finder.FindSlot(busy, 120, models.TimeEvening, "", day)
	require.True(t, ok)
	assert.Equal(t, clock(t, "08:00"), slot.Start)
}

func TestFindSlotFullDay(t *testing.T) {
	finder := NewSlotFinder(15)
	day := models.Interval{Start: clock(t, "08:00"), End: clock(t, "10:00")}
	busy := []models.Interval{
		{Start: clock(t, "08:00"), End: clock(t, "10:00")},
	}

	_, ok := finder.FindSlot(busy, 30, models.TimeAnytime, "", day)
	assert.False(t, ok)
}

func TestIntervalOverlapsIsHalfOpen(t *testing.T) {
	a := models.Interval{Start: 540, End: 600}
	b := models.Interval{Start: 600, End: 660}
	assert.False(t, a.Overlaps(b))
	assert.False(t, b.Overlaps(a))

	c := models.Interval{Start: 599, End: 660}
	assert.True(t, a.Overlaps(c))
}
