// Package meterv1 defines the meter.v1 wire API: messages, the JSON codec
// they travel with, the service descriptor and a client.
package meterv1

import "google.golang.org/protobuf/types/known/timestamppb"

type YearRequest struct {
	Commodity string `json:"commodity"`
	Year      int32  `json:"year"`
}

func (r *YearRequest) GetCommodity() string {
	if r == nil {
		return ""
	}
	return r.Commodity
}

func (r *YearRequest) GetYear() int32 {
	if r == nil {
		return 0
	}
	return r.Year
}

type BatchRequest struct {
	Keys []*YearRequest `json:"keys"`
}

type SourceReading struct {
	Time   *timestamppb.Timestamp `json:"time"`
	Amount float64                `json:"amount"`
}

type MonthlyDataPoint struct {
	Month        int32           `json:"month"`
	MonthLabel   string          `json:"monthLabel"`
	MeterReading *float64        `json:"meterReading"`
	Quality      string          `json:"quality"`
	Method       string          `json:"method"`
	Sources      []SourceReading `json:"sources,omitempty"`
	Ratio        *float64        `json:"ratio,omitempty"`
}

type MonthlyConsumptionPoint struct {
	Month       int32             `json:"month"`
	MonthLabel  string            `json:"monthLabel"`
	Consumption *float64          `json:"consumption"`
	IsActual    bool              `json:"isActual"`
	IsDerived   bool              `json:"isDerived"`
	Current     MonthlyDataPoint  `json:"current"`
	Previous    *MonthlyDataPoint `json:"previous,omitempty"`
	Next        *MonthlyDataPoint `json:"next,omitempty"`
}

type MonthlyReadingsResponse struct {
	Commodity string             `json:"commodity"`
	Year      int32              `json:"year"`
	Points    []MonthlyDataPoint `json:"points"`
}

type MonthlyConsumptionResponse struct {
	Commodity        string                    `json:"commodity"`
	Year             int32                     `json:"year"`
	Points           []MonthlyConsumptionPoint `json:"points"`
	PreviousDecember *MonthlyDataPoint         `json:"previousDecember,omitempty"`
	NextJanuary      *MonthlyDataPoint         `json:"nextJanuary,omitempty"`
}

func (r *MonthlyConsumptionResponse) GetPoints() []MonthlyConsumptionPoint {
	if r == nil {
		return nil
	}
	return r.Points
}

type BatchResponse struct {
	Results []*MonthlyConsumptionResponse `json:"results"`
}
