package schedule

import "sort"

// Box is the minimal timed shape the layout algorithms work on.  Services
// map persisted events onto boxes so this package stays free of storage
// concerns.
type Box struct {
	ID       uint64
	Day      int
	Start    int // minutes since midnight
	Duration int // minutes
}

// End returns the exclusive end minute of the box's [Start, End) interval.
func (b Box) End() int { return b.Start + b.Duration }

// Overlaps reports whether two boxes on the same day share any minute.
// Touching intervals (End == other.Start) do not overlap.
func (b Box) Overlaps(o Box) bool {
	return b.Day == o.Day && b.Start < o.End() && o.Start < b.End()
}

// Placed is a box annotated with its assigned rendering lane.
type Placed struct {
	Box
	Lane int // 0-based
}

// AssignLanes partitions one day's boxes into parallel lanes so that no
// two overlapping boxes share a lane.  Boxes are sorted by start minute
// with the id as tie-breaker, then placed first-fit into the earliest
// lane whose last end is not after the box's start.  For intervals this
// greedy order is optimal: it never opens more lanes than the maximum
// number of simultaneously running boxes.
func AssignLanes(boxes []Box) []Placed {
	sorted := make([]Box, len(boxes))
	copy(sorted, boxes)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].ID < sorted[j].ID
	})

	placed := make([]Placed, 0, len(sorted))
	var laneEnds []int // end minute of the last box in each open lane
	for _, b := range sorted {
		lane := -1
		for i, end := range laneEnds {
			if end <= b.Start {
				lane = i
				break
			}
		}
		if lane == -1 {
			lane = len(laneEnds)
			laneEnds = append(laneEnds, 0)
		}
		laneEnds[lane] = b.End()
		placed = append(placed, Placed{Box: b, Lane: lane})
	}
	return placed
}

// MaxLanes returns the number of lanes used by a placement, i.e. the
// highest lane index plus one.  An empty placement uses zero lanes.
func MaxLanes(placed []Placed) int {
	max := 0
	for _, p := range placed {
		if p.Lane+1 > max {
			max = p.Lane + 1
		}
	}
	return max
}
