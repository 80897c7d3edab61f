package meter

import (
	"sort"
	"time"

	"github.com/dachrisch/energy.consumption-sub001/internal/domain"
)

// monthTarget is what every resolution strategy looks at for one month.
type monthTarget struct {
	month    time.Month
	end      time.Time
	readings []domain.Reading // sorted ascending, single commodity
	before   []domain.Reading // strictly before end
	after    []domain.Reading // strictly after end
}

// strategy resolves a month or reports false to hand over to the next one.
type strategy func(e *Engine, t monthTarget) (MonthlyDataPoint, bool)

// ladder is evaluated in order; the first strategy that yields a value wins.
var ladder = []strategy{
	exactMatch,
	interpolateBracket,
	extrapolateForward,
	extrapolateBackward,
}

// ReconstructYear returns the twelve end-of-month readings of year for the
// given commodity. Readings may come in any order and may contain other
// commodities; an empty commodity uses every reading. The input slice is not
// modified.
func (e *Engine) ReconstructYear(readings []domain.Reading, year int, commodity domain.CommodityType) []MonthlyDataPoint {
	series := prepare(readings, commodity)
	out := make([]MonthlyDataPoint, 0, 12)
	for m := time.January; m <= time.December; m++ {
		out = append(out, e.resolve(series, year, m))
	}
	observeQualities(commodity, out)
	return out
}

// ReconstructMonth resolves a single month with the same rules as
// ReconstructYear.
func (e *Engine) ReconstructMonth(readings []domain.Reading, year int, month time.Month, commodity domain.CommodityType) MonthlyDataPoint {
	return e.resolve(prepare(readings, commodity), year, month)
}

func (e *Engine) resolve(series []domain.Reading, year int, month time.Month) MonthlyDataPoint {
	end := MonthEnd(year, month)
	t := monthTarget{
		month:    month,
		end:      end,
		readings: series,
	}
	// series is sorted, so the partition is two contiguous ranges.
	lo := sort.Search(len(series), func(i int) bool { return !series[i].Time.Before(end) })
	hi := sort.Search(len(series), func(i int) bool { return series[i].Time.After(end) })
	t.before = series[:lo]
	t.after = series[hi:]

	for _, s := range ladder {
		if p, ok := s(e, t); ok {
			return p
		}
	}
	return MonthlyDataPoint{
		Month:      month,
		MonthLabel: MonthLabel(month),
		Quality:    QualityUnavailable,
		Details:    CalculationDetails{Method: MethodNone},
	}
}

func prepare(readings []domain.Reading, commodity domain.CommodityType) []domain.Reading {
	out := make([]domain.Reading, 0, len(readings))
	for _, r := range readings {
		if commodity == "" || r.Type == commodity {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out
}

func exactMatch(e *Engine, t monthTarget) (MonthlyDataPoint, bool) {
	r, ok := FindNearest(t.readings, t.end, e.toleranceDays)
	if !ok {
		return MonthlyDataPoint{}, false
	}
	return resolved(t.month, r.Amount, QualityActual, CalculationDetails{
		Method:  MethodExact,
		Sources: []SourceReading{source(r)},
	}), true
}

func interpolateBracket(e *Engine, t monthTarget) (MonthlyDataPoint, bool) {
	if len(t.before) == 0 || len(t.after) == 0 {
		return MonthlyDataPoint{}, false
	}
	prev, next := t.before[len(t.before)-1], t.after[0]
	v, ratio, err := interpolateWithRatio(prev, next, t.end)
	if err != nil {
		// before/after are strictly ordered around end, so this means the
		// partition is broken rather than the data.
		e.logger.Error("interpolation failed", "month", t.month.String(), "error", err)
		return MonthlyDataPoint{}, false
	}
	return resolved(t.month, v, QualityInterpolated, CalculationDetails{
		Method:  MethodInterpolation,
		Sources: []SourceReading{source(prev), source(next)},
		Ratio:   float64Ptr(ratio),
	}), true
}

func extrapolateForward(_ *Engine, t monthTarget) (MonthlyDataPoint, bool) {
	n := len(t.before)
	if n < 2 {
		return MonthlyDataPoint{}, false
	}
	a, b := t.before[n-2], t.before[n-1]
	return resolved(t.month, Extrapolate(a, b, t.end), QualityExtrapolated, CalculationDetails{
		Method:  MethodExtrapolationForward,
		Sources: []SourceReading{source(a), source(b)},
	}), true
}

func extrapolateBackward(_ *Engine, t monthTarget) (MonthlyDataPoint, bool) {
	if len(t.after) < 2 {
		return MonthlyDataPoint{}, false
	}
	a, b := t.after[0], t.after[1]
	return resolved(t.month, Extrapolate(a, b, t.end), QualityExtrapolated, CalculationDetails{
		Method:  MethodExtrapolationBackward,
		Sources: []SourceReading{source(a), source(b)},
	}), true
}

func resolved(month time.Month, v float64, q Quality, d CalculationDetails) MonthlyDataPoint {
	return MonthlyDataPoint{
		Month:        month,
		MonthLabel:   MonthLabel(month),
		MeterReading: float64Ptr(v),
		Quality:      q,
		Details:      d,
	}
}

func source(r domain.Reading) SourceReading {
	return SourceReading{Time: r.Time, Amount: r.Amount}
}
