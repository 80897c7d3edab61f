package meterv1

import (
	"context"

	"google.golang.org/grpc"
)

// ConsumptionServiceClient is the client side of meter.v1.ConsumptionService.
type ConsumptionServiceClient interface {
	GetMonthlyReadings(ctx context.Context, in *YearRequest, opts ...grpc.CallOption) (*MonthlyReadingsResponse, error)
	GetMonthlyConsumption(ctx context.Context, in *YearRequest, opts ...grpc.CallOption) (*MonthlyConsumptionResponse, error)
	GetConsumptionBatch(ctx context.Context, in *BatchRequest, opts ...grpc.CallOption) (*BatchResponse, error)
}

type consumptionServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewConsumptionServiceClient wraps cc. Calls always use the JSON codec.
func NewConsumptionServiceClient(cc grpc.ClientConnInterface) ConsumptionServiceClient {
	return &consumptionServiceClient{cc: cc}
}

func (c *consumptionServiceClient) GetMonthlyReadings(ctx context.Context, in *YearRequest, opts ...grpc.CallOption) (*MonthlyReadingsResponse, error) {
	out := new(MonthlyReadingsResponse)
	if err := c.cc.Invoke(ctx, MethodGetMonthlyReadings, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *consumptionServiceClient) GetMonthlyConsumption(ctx context.Context, in *YearRequest, opts ...grpc.CallOption) (*MonthlyConsumptionResponse, error) {
	out := new(MonthlyConsumptionResponse)
	if err := c.cc.Invoke(ctx, MethodGetMonthlyConsumption, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *consumptionServiceClient) GetConsumptionBatch(ctx context.Context, in *BatchRequest, opts ...grpc.CallOption) (*BatchResponse, error) {
	out := new(BatchResponse)
	if err := c.cc.Invoke(ctx, MethodGetConsumptionBatch, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func withCodec(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}
