package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	meterv1 "github.com/dachrisch/energy.consumption-sub001/internal/api/meterv1"
)

type sourceJSON struct {
	Time   string  `json:"time"` // RFC3339Nano
	Amount float64 `json:"amount"`
}

type dataPointJSON struct {
	Month        int32        `json:"month"`
	MonthLabel   string       `json:"monthLabel"`
	MeterReading *float64     `json:"meterReading"`
	Quality      string       `json:"quality"`
	Method       string       `json:"method"`
	Sources      []sourceJSON `json:"sources,omitempty"`
	Ratio        *float64     `json:"ratio,omitempty"`
}

type consumptionPointJSON struct {
	Month       int32          `json:"month"`
	MonthLabel  string         `json:"monthLabel"`
	Consumption *float64       `json:"consumption"`
	IsActual    bool           `json:"isActual"`
	IsDerived   bool           `json:"isDerived"`
	Current     dataPointJSON  `json:"current"`
	Previous    *dataPointJSON `json:"previous,omitempty"`
	Next        *dataPointJSON `json:"next,omitempty"`
}

type monthlyResponseJSON struct {
	Type   string          `json:"type"`
	Year   int32           `json:"year"`
	Points []dataPointJSON `json:"points"`
}

type consumptionResponseJSON struct {
	Type   string                 `json:"type"`
	Year   int32                  `json:"year"`
	Points []consumptionPointJSON `json:"points"`
	// Totals over months that have a value; the UI shows them next to the chart.
	TotalConsumption float64 `json:"totalConsumption"`
	ActualMonths     int     `json:"actualMonths"`
	DerivedMonths    int     `json:"derivedMonths"`
	MissingMonths    int     `json:"missingMonths"`
}

type batchResponseJSON struct {
	Results []consumptionResponseJSON `json:"results"`
}

type apiErrorJSON struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

func toMonthlyJSON(r *meterv1.MonthlyReadingsResponse) monthlyResponseJSON {
	out := monthlyResponseJSON{
		Type:   r.Commodity,
		Year:   r.Year,
		Points: make([]dataPointJSON, 0, len(r.Points)),
	}
	for _, p := range r.Points {
		out.Points = append(out.Points, toDataPointJSON(p))
	}
	return out
}

func toConsumptionJSON(r *meterv1.MonthlyConsumptionResponse) consumptionResponseJSON {
	points := r.GetPoints()
	out := consumptionResponseJSON{
		Type:   r.Commodity,
		Year:   r.Year,
		Points: make([]consumptionPointJSON, 0, len(points)),
	}
	for _, p := range points {
		out.Points = append(out.Points, consumptionPointJSON{
			Month:       p.Month,
			MonthLabel:  p.MonthLabel,
			Consumption: p.Consumption,
			IsActual:    p.IsActual,
			IsDerived:   p.IsDerived,
			Current:     toDataPointJSON(p.Current),
			Previous:    toDataPointJSONPtr(p.Previous),
			Next:        toDataPointJSONPtr(p.Next),
		})

		switch {
		case p.Consumption == nil:
			out.MissingMonths++
			continue
		case p.IsActual:
			out.ActualMonths++
		default:
			out.DerivedMonths++
		}
		out.TotalConsumption += *p.Consumption
	}
	return out
}

func toDataPointJSON(p meterv1.MonthlyDataPoint) dataPointJSON {
	out := dataPointJSON{
		Month:        p.Month,
		MonthLabel:   p.MonthLabel,
		MeterReading: p.MeterReading,
		Quality:      p.Quality,
		Method:       p.Method,
		Ratio:        p.Ratio,
	}
	for _, s := range p.Sources {
		var ts string
		if s.Time != nil {
			ts = formatTime(s.Time.AsTime())
		}
		out.Sources = append(out.Sources, sourceJSON{Time: ts, Amount: s.Amount})
	}
	return out
}

func toDataPointJSONPtr(p *meterv1.MonthlyDataPoint) *dataPointJSON {
	if p == nil {
		return nil
	}
	out := toDataPointJSON(*p)
	return &out
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
