package meter

import "time"

// MonthEnd returns the last second (23:59:59 UTC) of the given month.
// Leap years fall out of time.Date normalization.
func MonthEnd(year int, month time.Month) time.Time {
	firstOfNext := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC)
	return firstOfNext.Add(-time.Second)
}

// MonthLabel returns the three-letter English abbreviation ("Jan".."Dec").
func MonthLabel(month time.Month) string {
	name := month.String()
	if len(name) < 3 {
		return name
	}
	return name[:3]
}
