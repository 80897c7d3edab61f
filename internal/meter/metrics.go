package meter

import (
	"github.com/dachrisch/energy.consumption-sub001/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	monthsReconstructedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meter_months_reconstructed_total",
			Help: "Monthly readings reconstructed, by commodity and quality.",
		},
		[]string{"commodity", "quality"},
	)
	negativeConsumptionTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "meter_negative_consumption_total",
			Help: "Months whose derived consumption was negative.",
		},
	)
)

func observeQualities(commodity domain.CommodityType, points []MonthlyDataPoint) {
	label := string(commodity)
	if label == "" {
		label = "any"
	}
	for _, p := range points {
		monthsReconstructedTotal.WithLabelValues(label, p.Quality.String()).Inc()
	}
}
