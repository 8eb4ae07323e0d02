// Package calendar implements weekday-only date arithmetic used for deadline
// defaults. Holiday calendars are out of scope: a business day is any weekday.
package calendar

import "time"

// Shift moves date by n business days. Sign convention follows the deadline
// math it serves: positive n moves backward (a deadline n business days before
// a future anchor), negative n moves forward.
func Shift(date time.Time, n int) time.Time {
	if n == 0 {
		return date
	}
	step := -1
	remaining := n
	if n < 0 {
		step = 1
		remaining = -n
	}
	for remaining > 0 {
		date = date.AddDate(0, 0, step)
		if wd := date.Weekday(); wd != time.Saturday && wd != time.Sunday {
			remaining--
		}
	}
	return date
}

// ClampDraftDue resolves the draft deadline relative to the go-live anchor:
// seven business days before go-live, floored at two business days from now.
// The floor guarantees the influencer always gets at least two business days
// of notice even for near-term campaigns.
func ClampDraftDue(goLiveStart, now time.Time) time.Time {
	standard := Shift(goLiveStart, 7)
	floor := Shift(now, -2)
	if floor.After(standard) {
		return floor
	}
	return standard
}
