package meterv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "meter.v1.ConsumptionService"

const (
	MethodGetMonthlyReadings    = "/" + ServiceName + "/GetMonthlyReadings"
	MethodGetMonthlyConsumption = "/" + ServiceName + "/GetMonthlyConsumption"
	MethodGetConsumptionBatch   = "/" + ServiceName + "/GetConsumptionBatch"
)

// ConsumptionServiceServer is implemented by the gRPC transport.
type ConsumptionServiceServer interface {
	GetMonthlyReadings(context.Context, *YearRequest) (*MonthlyReadingsResponse, error)
	GetMonthlyConsumption(context.Context, *YearRequest) (*MonthlyConsumptionResponse, error)
	GetConsumptionBatch(context.Context, *BatchRequest) (*BatchResponse, error)
}

// UnimplementedConsumptionServiceServer can be embedded for forward compatibility.
type UnimplementedConsumptionServiceServer struct{}

func (UnimplementedConsumptionServiceServer) GetMonthlyReadings(context.Context, *YearRequest) (*MonthlyReadingsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetMonthlyReadings not implemented")
}

func (UnimplementedConsumptionServiceServer) GetMonthlyConsumption(context.Context, *YearRequest) (*MonthlyConsumptionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetMonthlyConsumption not implemented")
}

func (UnimplementedConsumptionServiceServer) GetConsumptionBatch(context.Context, *BatchRequest) (*BatchResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetConsumptionBatch not implemented")
}

func RegisterConsumptionServiceServer(s grpc.ServiceRegistrar, srv ConsumptionServiceServer) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ConsumptionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetMonthlyReadings",
			Handler: unaryHandler(MethodGetMonthlyReadings, func(srv ConsumptionServiceServer, ctx context.Context, in *YearRequest) (any, error) {
				return srv.GetMonthlyReadings(ctx, in)
			}),
		},
		{
			MethodName: "GetMonthlyConsumption",
			Handler: unaryHandler(MethodGetMonthlyConsumption, func(srv ConsumptionServiceServer, ctx context.Context, in *YearRequest) (any, error) {
				return srv.GetMonthlyConsumption(ctx, in)
			}),
		},
		{
			MethodName: "GetConsumptionBatch",
			Handler: unaryHandler(MethodGetConsumptionBatch, func(srv ConsumptionServiceServer, ctx context.Context, in *BatchRequest) (any, error) {
				return srv.GetConsumptionBatch(ctx, in)
			}),
		},
	},
	Streams: []grpc.StreamDesc{},
}

func unaryHandler[Req any](fullMethod string, call func(ConsumptionServiceServer, context.Context, *Req) (any, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		s := srv.(ConsumptionServiceServer)
		if interceptor == nil {
			return call(s, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(s, ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
