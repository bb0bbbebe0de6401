package services

import "time"

// Window is the ±N-day monitoring span around a release date. Titles
// outside it are skipped entirely for the run: no fetch, no snapshot,
// no report row.
type Window struct {
	Days int
}

// Contains reports whether today falls within
// [release−Days, release+Days], inclusive on both ends.
func (w Window) Contains(release, today time.Time) bool {
	release = Midnight(release)
	today = Midnight(today)
	lo := release.AddDate(0, 0, -w.Days)
	hi := release.AddDate(0, 0, w.Days)
	return !today.Before(lo) && !today.After(hi)
}

// Upcoming reports whether the title has not been released yet. The
// release day itself counts as released, not upcoming.
func Upcoming(release, today time.Time) bool {
	return Midnight(release).After(Midnight(today))
}

// DaysToRelease is release − today in whole days; positive while
// upcoming, zero on release day, negative after.
func DaysToRelease(release, today time.Time) int {
	d := Midnight(release).Sub(Midnight(today))
	return int(d / (24 * time.Hour))
}

// Midnight maps a time to its calendar date at UTC midnight. Release
// dates parse as UTC while "today" is usually local, so normalizing
// both sides to one zone keeps window checks pure day arithmetic.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
