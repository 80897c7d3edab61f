package meter

import (
	"fmt"
	"time"
)

// DeriveYear turns twelve monthly readings into month-over-month consumption.
//
// January is measured against previousDecember when given. Every other month
// uses the preceding monthly point whatever its quality. December falls back
// to nextJanuary only when November has no reading at all. Both context points
// may be nil.
func (e *Engine) DeriveYear(monthly []MonthlyDataPoint, previousDecember, nextJanuary *MonthlyDataPoint) ([]MonthlyConsumptionPoint, error) {
	if len(monthly) != 12 {
		return nil, fmt.Errorf("%w: want 12 monthly points, got %d", ErrInvalidInput, len(monthly))
	}
	for i, p := range monthly {
		if want := time.Month(i + 1); p.Month != want {
			return nil, fmt.Errorf("%w: point %d is %s, want %s", ErrInvalidInput, i, p.Month, want)
		}
	}

	out := make([]MonthlyConsumptionPoint, 0, 12)
	for i := range monthly {
		current := monthly[i]
		var previous *MonthlyDataPoint
		if i == 0 {
			previous = previousDecember
		} else {
			previous = &monthly[i-1]
		}

		pt := MonthlyConsumptionPoint{
			Month:      current.Month,
			MonthLabel: current.MonthLabel,
			Source: ConsumptionSource{
				Current:  current,
				Previous: clonePoint(previous),
			},
		}

		switch {
		case !current.HasReading():
		case previous != nil && previous.HasReading():
			e.fill(&pt, *current.MeterReading-*previous.MeterReading,
				current.Quality == QualityActual && previous.Quality == QualityActual)
		case current.Month == time.December && nextJanuary != nil && nextJanuary.HasReading():
			pt.Source.Next = clonePoint(nextJanuary)
			e.fill(&pt, *nextJanuary.MeterReading-*current.MeterReading,
				current.Quality == QualityActual && nextJanuary.Quality == QualityActual)
		}
		out = append(out, pt)
	}
	return out, nil
}

func (e *Engine) fill(pt *MonthlyConsumptionPoint, delta float64, actual bool) {
	if delta < 0 {
		negativeConsumptionTotal.Inc()
		e.logger.Warn("negative consumption, meter reading decreased",
			"month", pt.Month.String(), "delta", delta)
	}
	pt.Consumption = float64Ptr(delta)
	pt.IsActual = actual
	pt.IsDerived = !actual
}

func clonePoint(p *MonthlyDataPoint) *MonthlyDataPoint {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
