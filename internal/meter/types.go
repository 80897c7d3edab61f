package meter

import (
	"fmt"
	"time"
)

// Quality tells how a monthly meter reading was obtained. Exactly one value
// applies to every point.
type Quality uint8

const (
	QualityUnavailable Quality = iota
	QualityActual
	QualityInterpolated
	QualityExtrapolated
)

var qualityNames = [...]string{
	QualityUnavailable:  "unavailable",
	QualityActual:       "actual",
	QualityInterpolated: "interpolated",
	QualityExtrapolated: "extrapolated",
}

func (q Quality) String() string {
	if int(q) < len(qualityNames) {
		return qualityNames[q]
	}
	return fmt.Sprintf("Quality(%d)", uint8(q))
}

// ParseQuality is the inverse of Quality.String.
func ParseQuality(s string) (Quality, error) {
	for i, name := range qualityNames {
		if name == s {
			return Quality(i), nil
		}
	}
	return QualityUnavailable, fmt.Errorf("unknown quality %q", s)
}

func (q Quality) MarshalText() ([]byte, error) { return []byte(q.String()), nil }

func (q *Quality) UnmarshalText(b []byte) error {
	v, err := ParseQuality(string(b))
	if err != nil {
		return err
	}
	*q = v
	return nil
}

// Method names recorded in CalculationDetails.
const (
	MethodExact                 = "exact"
	MethodInterpolation         = "interpolation"
	MethodExtrapolationForward  = "extrapolation_forward"
	MethodExtrapolationBackward = "extrapolation_backward"
	MethodNone                  = "none"
)

// SourceReading is a copy of a reading that contributed to a monthly value.
type SourceReading struct {
	Time   time.Time
	Amount float64
}

// CalculationDetails records how a monthly value was produced. It is kept for
// auditing and display only.
type CalculationDetails struct {
	Method  string
	Sources []SourceReading
	Ratio   *float64 // interpolation only
}

// MonthlyDataPoint is the reconstructed end-of-month meter reading.
// MeterReading is nil iff Quality is QualityUnavailable.
type MonthlyDataPoint struct {
	Month        time.Month
	MonthLabel   string
	MeterReading *float64
	Quality      Quality
	Details      CalculationDetails
}

// HasReading reports whether the point carries a meter value.
func (p MonthlyDataPoint) HasReading() bool {
	return p.MeterReading != nil && p.Quality != QualityUnavailable
}

// ConsumptionSource holds the monthly points a consumption value was computed from.
//
// Next is set only for December when November had no reading. In that case
// Next is the point the value was measured against (consumption is
// Next - Current) and Previous still holds the unavailable November.
type ConsumptionSource struct {
	Current  MonthlyDataPoint
	Previous *MonthlyDataPoint
	Next     *MonthlyDataPoint
}

// MonthlyConsumptionPoint is the consumption of one month.
//
// Consumption is nil when one of the two readings is missing; in that case
// IsActual and IsDerived are both false. Otherwise IsDerived == !IsActual.
type MonthlyConsumptionPoint struct {
	Month       time.Month
	MonthLabel  string
	Consumption *float64
	IsActual    bool
	IsDerived   bool
	Source      ConsumptionSource
}

func float64Ptr(v float64) *float64 { return &v }
