package httpserver

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	meterv1 "github.com/dachrisch/energy.consumption-sub001/internal/api/meterv1"
	"github.com/dachrisch/energy.consumption-sub001/internal/domain"
	"google.golang.org/grpc"
)

// ConsumptionClient is the small subset of the gRPC client we need, to keep tests simple.
type ConsumptionClient interface {
	GetMonthlyReadings(ctx context.Context, in *meterv1.YearRequest, opts ...grpc.CallOption) (*meterv1.MonthlyReadingsResponse, error)
	GetMonthlyConsumption(ctx context.Context, in *meterv1.YearRequest, opts ...grpc.CallOption) (*meterv1.MonthlyConsumptionResponse, error)
	GetConsumptionBatch(ctx context.Context, in *meterv1.BatchRequest, opts ...grpc.CallOption) (*meterv1.BatchResponse, error)
}

func parseYearRequest(commodity, year string) (*meterv1.YearRequest, error) {
	t, err := domain.ParseCommodityType(commodity)
	if err != nil {
		return nil, fmt.Errorf("invalid type")
	}
	y, err := strconv.Atoi(year)
	if err != nil || y < 1 {
		return nil, fmt.Errorf("invalid year")
	}
	return &meterv1.YearRequest{Commodity: string(t), Year: int32(y)}, nil
}

// parseBatchKeys parses "power:2023,gas:2024".
func parseBatchKeys(v string) (*meterv1.BatchRequest, error) {
	if strings.TrimSpace(v) == "" {
		return nil, fmt.Errorf("keys is required")
	}
	req := &meterv1.BatchRequest{}
	for _, part := range strings.Split(v, ",") {
		commodity, year, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("invalid key %q (want type:year)", part)
		}
		k, err := parseYearRequest(commodity, year)
		if err != nil {
			return nil, fmt.Errorf("invalid key %q: %v", part, err)
		}
		req.Keys = append(req.Keys, k)
	}
	return req, nil
}
