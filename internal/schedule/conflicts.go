package schedule

import "sort"

// Commitment is one timed obligation of a performer: an entrance event or
// a scene, already resolved to the performer identity that will actually
// be on stage.
type Commitment struct {
	ActorID   uint64
	Performer string // resolved identity, see ResolvePerformer
	Day       int
	Start     int // minutes since midnight
	End       int // exclusive
}

// ResolvePerformer picks the effective performer identity with the fixed
// precedence: event-level override, then the run's assignment for the
// actor, then the actor's global performer name.  Any of the three may be
// empty; the first non-empty one wins.
func ResolvePerformer(override, runAssignment, globalName string) string {
	if override != "" {
		return override
	}
	if runAssignment != "" {
		return runAssignment
	}
	return globalName
}

// DetectConflicts reports the actor ids whose resolved performer has at
// least two overlapping commitments on the same day.  Commitments with an
// empty resolved identity are skipped; two unnamed roles are not the
// same person.  Conflicts are advisory: the caller surfaces them as
// warnings and never blocks a save over them, because a deliberate
// double-booking (a quick walk-on) is a legitimate production choice.
func DetectConflicts(commitments []Commitment) []uint64 {
	byPerformer := make(map[string][]Commitment)
	for _, c := range commitments {
		if c.Performer == "" {
			continue
		}
		byPerformer[c.Performer] = append(byPerformer[c.Performer], c)
	}

	flagged := make(map[uint64]bool)
	for _, group := range byPerformer {
		sort.Slice(group, func(i, j int) bool {
			if group[i].Day != group[j].Day {
				return group[i].Day < group[j].Day
			}
			return group[i].Start < group[j].Start
		})
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				a, b := group[i], group[j]
				if b.Day != a.Day || b.Start >= a.End {
					break // sorted by (day, start): nothing later overlaps a
				}
				// b starts on a's day before a ends, so [a) and [b) overlap.
				// A zero actor id marks a one-off override role with no
				// registered actor to flag.
				if a.ActorID != 0 {
					flagged[a.ActorID] = true
				}
				if b.ActorID != 0 {
					flagged[b.ActorID] = true
				}
			}
		}
	}

	ids := make([]uint64, 0, len(flagged))
	for id := range flagged {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
