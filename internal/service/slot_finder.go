package service

import (
	"sort"
	"time"

	"github.com/studyflow/studyplan-api/internal/models"
)

// Bucket boundaries in minutes from midnight.
const (
	morningStart   = 6 * 60
	afternoonStart = 12 * 60
	eveningStart   = 17 * 60
	nightStart     = 21 * 60
	nightEnd       = 23*60 + 59
)

// SlotFinder scans a day for free intervals on a fixed step grid.
type SlotFinder struct {
	StepMinutes int
}

// NewSlotFinder builds a finder with the given scan step.
func NewSlotFinder(step int) SlotFinder {
	if step <= 0 {
		step = 15
	}
	return SlotFinder{StepMinutes: step}
}

func bucketWindow(pref models.TimeOfDay, day models.Interval) models.Interval {
	var w models.Interval
	switch pref {
	case models.TimeMorning:
		w = models.Interval{Start: morningStart, End: afternoonStart}
	case models.TimeAfternoon:
		w = models.Interval{Start: afternoonStart, End: eveningStart}
	case models.TimeEvening:
		w = models.Interval{Start: eveningStart, End: nightStart}
	case models.TimeNight:
		w = models.Interval{Start: nightStart, End: nightEnd}
	default:
		return day
	}
	if w.Start < day.Start {
		w.Start = day.Start
	}
	if w.End > day.End {
		w.End = day.End
	}
	return w
}

func isFree(candidate models.Interval, busy []models.Interval) bool {
	for _, b := range busy {
		if candidate.Overlaps(b) {
			return false
		}
	}
	return true
}

func (f SlotFinder) scan(window models.Interval, duration int, busy []models.Interval) (models.Interval, bool) {
	for start := window.Start; start+duration <= window.End; start += f.StepMinutes {
		candidate := models.Interval{Start: start, End: start + duration}
		if isFree(candidate, busy) {
			return candidate, true
		}
	}
	return models.Interval{}, false
}

// FindSlot returns a free interval of the requested duration. An exact start
// time wins when its window is free; otherwise the preferred bucket is
// scanned, then the rest of the day. ok is false when nothing fits.
func (f SlotFinder) FindSlot(busy []models.Interval, duration int, pref models.TimeOfDay, exactStart string, day models.Interval) (models.Interval, bool) {
	if duration <= 0 || day.End <= day.Start {
		return models.Interval{}, false
	}

	if exactStart != "" {
		if start, err := models.ParseClock(exactStart); err == nil {
			candidate := models.Interval{Start: start, End: start + duration}
			if candidate.End <= models.MinutesPerDay && isFree(candidate, busy) {
				return candidate, true
			}
		}
	}

	window := bucketWindow(pref, day)
	if slot, ok := f.scan(window, duration, busy); ok {
		return slot, true
	}
	if window != day {
		if slot, ok := f.scan(day, duration, busy); ok {
			return slot, true
		}
	}
	return models.Interval{}, false
}

// resolveOverlaps walks items in start order and re-slots any item that
// collides with an earlier one or with a blocked window. An item that no
// longer fits anywhere in the day is dropped.
func (f SlotFinder) resolveOverlaps(items []models.ScheduleItem, blocked []models.Interval, day models.Interval) []models.ScheduleItem {
	sortItems(items)
	busy := append([]models.Interval(nil), blocked...)
	out := make([]models.ScheduleItem, 0, len(items))
	for _, item := range items {
		iv, err := item.Interval()
		if err != nil {
			continue
		}
		if !isFree(iv, busy) {
			slot, ok := f.FindSlot(busy, iv.Duration(), models.TimeAnytime, "", day)
			if !ok {
				continue
			}
			item.StartTime = models.FormatClock(slot.Start)
			item.EndTime = models.FormatClock(slot.End)
			iv = slot
		}
		busy = append(busy, iv)
		out = append(out, item)
	}
	return out
}

// busyIntervals collects the occupied windows of existing items, skipping
// any with malformed times.
func busyIntervals(items []models.ScheduleItem) []models.Interval {
	busy := make([]models.Interval, 0, len(items))
	for _, item := range items {
		iv, err := item.Interval()
		if err != nil || iv.End <= iv.Start {
			continue
		}
		busy = append(busy, iv)
	}
	return busy
}

// constraintIntervals collects the blackout windows in force on a date.
func constraintIntervals(constraints []models.Constraint, date time.Time) []models.Interval {
	busy := make([]models.Interval, 0, len(constraints))
	for _, c := range constraints {
		if !ConstraintAppliesOn(c, date) {
			continue
		}
		iv, err := c.Window()
		if err != nil || iv.End <= iv.Start {
			continue
		}
		busy = append(busy, iv)
	}
	return busy
}

// sortItems orders schedule items by start time, then end time, keeping the
// original order for full ties.
func sortItems(items []models.ScheduleItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].StartTime != items[j].StartTime {
			return items[i].StartTime < items[j].StartTime
		}
		return items[i].EndTime < items[j].EndTime
	})
}
