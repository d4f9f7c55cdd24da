package services

import "time"

// dateOnly truncates a timestamp to local midnight.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// currentWeek returns the Monday..Sunday bounds of the week containing now.
func currentWeek(now time.Time) (time.Time, time.Time) {
	today := dateOnly(now)
	// Monday-based offset (Sunday counts as day 6 of the previous week)
	offset := (int(today.Weekday()) + 6) % 7
	weekStart := today.AddDate(0, 0, -offset)
	weekEnd := weekStart.AddDate(0, 0, 6)
	return weekStart, weekEnd
}

// zeroTime means "unbounded" when passed as a range edge.
var zeroTime time.Time
