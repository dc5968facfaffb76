package schedule

import "time"

// CurrentEventID returns the id of the event running right now, given the
// calendar date of the run's day 1 and an injected "now".  When several
// events run in parallel the one with the earliest start (lowest id on
// ties) wins.  The second return value is false outside the run's days or
// when no event covers the current minute.
func CurrentEventID(boxes []Box, firstDay time.Time, now time.Time) (uint64, bool) {
	firstMidnight := time.Date(firstDay.Year(), firstDay.Month(), firstDay.Day(), 0, 0, 0, 0, firstDay.Location())
	nowLocal := now.In(firstDay.Location())
	day := int(nowLocal.Sub(firstMidnight).Hours()/24) + 1
	if nowLocal.Before(firstMidnight) || day < 1 {
		return 0, false
	}
	minute := nowLocal.Hour()*60 + nowLocal.Minute()

	var best Box
	found := false
	for _, b := range boxes {
		if b.Day != day || minute < b.Start || minute >= b.End() {
			continue
		}
		if !found || b.Start < best.Start || (b.Start == best.Start && b.ID < best.ID) {
			best = b
			found = true
		}
	}
	return best.ID, found
}
