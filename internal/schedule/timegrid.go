// Package schedule contains the pure scheduling core: wall-clock/minute
// conversion, the visible time grid, lane assignment for overlapping
// events and performer conflict detection.  Nothing in this package
// touches the database or the network, which keeps every function
// deterministic and directly testable.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay is the size of one day's clock.  Each run day is a
// self-contained 24-hour timeline; intervals never wrap into the next day.
const MinutesPerDay = 24 * 60

// Default grid window used when a day has no events yet.
const (
	DefaultGridStart = 8 * 60  // 08:00
	DefaultGridEnd   = 22 * 60 // 22:00
)

// FormatError reports a malformed wall-clock string.  It is raised before
// any persistence call, so a bad time never reaches the database.
type FormatError struct {
	Input string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid time %q (want HH:MM or HH:MM:SS)", e.Input)
}

// TimeToMinutes parses an "HH:MM" or "HH:MM:SS" string into minutes since
// midnight (0–1439).  Seconds are accepted for database round-trips but
// ignored.  A *FormatError is returned for malformed or out-of-range input.
func TimeToMinutes(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, &FormatError{Input: s}
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, &FormatError{Input: s}
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, &FormatError{Input: s}
	}
	if len(parts) == 3 {
		sec, err := strconv.Atoi(parts[2])
		if err != nil || sec < 0 || sec > 59 {
			return 0, &FormatError{Input: s}
		}
	}
	return h*60 + m, nil
}

// MinutesToTime is the inverse of TimeToMinutes, canonicalized to
// "HH:MM:00".  Minutes are taken modulo one day, so 1450 renders as
// "00:10:00"; callers that must not wrap validate against MinutesPerDay
// before converting.
func MinutesToTime(minutes int) string {
	minutes %= MinutesPerDay
	if minutes < 0 {
		minutes += MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d:00", minutes/60, minutes%60)
}

// minutesLabel renders a slot label without the seconds suffix.
func minutesLabel(minutes int) string {
	minutes %= MinutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// GridRange is the visible window of the drop grid: the earliest and
// latest slot boundaries covering every event, plus the ordered labels of
// each slot in [MinStart, MaxEnd).
type GridRange struct {
	MinStart   int      // minutes, inclusive, aligned to a slot boundary
	MaxEnd     int      // minutes, exclusive, aligned to a slot boundary
	SlotLabels []string // "HH:MM" per slot
}

// ComputeGridRange derives the grid window from a set of boxes.  MinStart
// is the earliest start floored to a slot boundary, MaxEnd the latest end
// ceiled to one.  An empty set yields the fixed default window so a fresh
// day still renders a usable grid.
func ComputeGridRange(boxes []Box, slotMinutes int) GridRange {
	if slotMinutes < 1 {
		slotMinutes = 1
	}
	minStart, maxEnd := DefaultGridStart, DefaultGridEnd
	if len(boxes) > 0 {
		minStart, maxEnd = boxes[0].Start, boxes[0].End()
		for _, b := range boxes[1:] {
			if b.Start < minStart {
				minStart = b.Start
			}
			if b.End() > maxEnd {
				maxEnd = b.End()
			}
		}
	}
	minStart = (minStart / slotMinutes) * slotMinutes
	if rem := maxEnd % slotMinutes; rem != 0 {
		maxEnd += slotMinutes - rem
	}
	labels := make([]string, 0, (maxEnd-minStart)/slotMinutes)
	for m := minStart; m < maxEnd; m += slotMinutes {
		labels = append(labels, minutesLabel(m))
	}
	return GridRange{MinStart: minStart, MaxEnd: maxEnd, SlotLabels: labels}
}

// SlotStart returns the start minute of the given 0-based slot index, or a
// negative value when the index falls outside the grid.
func (g GridRange) SlotStart(slotIndex, slotMinutes int) int {
	start := g.MinStart + slotIndex*slotMinutes
	if slotIndex < 0 || start >= g.MaxEnd {
		return -1
	}
	return start
}
