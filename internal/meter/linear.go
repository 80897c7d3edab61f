package meter

import (
	"fmt"
	"time"

	"github.com/dachrisch/energy.consumption-sub001/internal/domain"
)

// Interpolate returns the value on the straight line between prev and next at
// target. Targets equal to an endpoint return that endpoint's amount exactly.
func Interpolate(prev, next domain.Reading, target time.Time) (float64, error) {
	v, _, err := interpolateWithRatio(prev, next, target)
	return v, err
}

func interpolateWithRatio(prev, next domain.Reading, target time.Time) (float64, float64, error) {
	if prev.Time.After(next.Time) {
		return 0, 0, fmt.Errorf("%w: %s > %s", ErrInvalidOrder,
			prev.Time.Format(time.RFC3339), next.Time.Format(time.RFC3339))
	}
	if prev.Time.Equal(next.Time) {
		return 0, 0, fmt.Errorf("%w: %s", ErrDegenerateInterval, prev.Time.Format(time.RFC3339))
	}

	switch {
	case target.Equal(prev.Time):
		return prev.Amount, 0, nil
	case target.Equal(next.Time):
		return next.Amount, 1, nil
	}

	ratio := secondsBetween(prev.Time, target) / secondsBetween(prev.Time, next.Time)
	return prev.Amount + ratio*(next.Amount-prev.Amount), ratio, nil
}

// Extrapolate projects the constant rate between a and b (a before b, both on
// the same side of target) to target, anchored at b.
func Extrapolate(a, b domain.Reading, target time.Time) float64 {
	if a.Time.Equal(b.Time) {
		return b.Amount
	}
	rate := (b.Amount - a.Amount) / secondsBetween(a.Time, b.Time)
	return b.Amount + rate*secondsBetween(b.Time, target)
}

// secondsBetween is to minus from in seconds. Unlike time.Time.Sub it does not
// saturate for spans longer than about 292 years.
func secondsBetween(from, to time.Time) float64 {
	return float64(to.Unix()-from.Unix()) + float64(to.Nanosecond()-from.Nanosecond())/1e9
}
