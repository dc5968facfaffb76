package model

import "time"

// Run is one production of the staged event.  A run spans one or more
// consecutive days; the day count is implicit and equals the highest
// DayNumber observed across the run's events.
//
// Fields:
//  ID        – primary key identifier.
//  Title     – display name of the production.
//  FirstDay  – calendar date of day 1 (midnight, UTC).  Day N maps to
//              FirstDay + (N-1) days, which is how the live "current
//              event" highlight translates wall-clock time into a day
//              number.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Run struct {
	ID        uint64    // runs.id
	Title     string    // runs.title
	FirstDay  time.Time // runs.first_day
	CreatedAt time.Time // runs.created_at
	UpdatedAt time.Time // runs.updated_at
}
