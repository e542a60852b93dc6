package manifest

import "time"

// DayWindow returns the inclusive [start, end] boundary of the calendar day
// containing now in the given location: local midnight through
// 23:59:59.999 of the same day.
func DayWindow(now time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.Local
	}
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	// Next midnight minus 1ms rather than start+24h, so DST-shortened and
	// DST-lengthened days still end at 23:59:59.999 local.
	end := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, loc).Add(-time.Millisecond)
	return start, end
}

// DayKey returns the calendar day of now in loc as YYYY-MM-DD. It is stored
// alongside each record and carries the per-day uniqueness index.
func DayKey(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return now.In(loc).Format("2006-01-02")
}
