package meter

import (
	"time"

	"github.com/dachrisch/energy.consumption-sub001/internal/domain"
)

// DefaultToleranceDays is how far a reading may sit from a month end and
// still count as that month's actual reading.
const DefaultToleranceDays = 3

const secondsPerDay = 24 * 60 * 60

// FindNearest returns the reading closest to target whose calendar-day
// distance from target is at most toleranceDays (inclusive). Days are
// counted on UTC dates, so a reading anywhere on Jan 28 is three days from
// Jan 31. When two readings are equally close the later one wins. It reports
// false for empty input or when nothing is in range.
func FindNearest(readings []domain.Reading, target time.Time, toleranceDays int) (domain.Reading, bool) {
	if toleranceDays < 0 {
		return domain.Reading{}, false
	}
	targetDay := dayNumber(target)

	var (
		best     domain.Reading
		bestDist time.Duration
		found    bool
	)
	for _, r := range readings {
		if d := dayNumber(r.Time) - targetDay; d < -int64(toleranceDays) || d > int64(toleranceDays) {
			continue
		}
		// Inside the window both times are a few days apart, so Sub cannot saturate.
		dist := absDuration(r.Time.Sub(target))
		if !found || dist < bestDist || (dist == bestDist && r.Time.After(best.Time)) {
			best, bestDist, found = r, dist, true
		}
	}
	return best, found
}

// dayNumber counts UTC calendar days since the Unix epoch.
func dayNumber(t time.Time) int64 {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
