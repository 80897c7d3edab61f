package grpcserver

import (
	"context"
	"errors"
	"log/slog"

	meterv1 "github.com/dachrisch/energy.consumption-sub001/internal/api/meterv1"
	"github.com/dachrisch/energy.consumption-sub001/internal/domain"
	applog "github.com/dachrisch/energy.consumption-sub001/internal/log"
	"github.com/dachrisch/energy.consumption-sub001/internal/meter"
	"github.com/dachrisch/energy.consumption-sub001/internal/service"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"
)

type Server struct {
	meterv1.UnimplementedConsumptionServiceServer
	svc    *service.ConsumptionService
	logger *slog.Logger
}

func New(svc *service.ConsumptionService, logger *slog.Logger) *Server {
	return &Server{svc: svc, logger: applog.WithComponent(logger, applog.ComponentGRPC)}
}

func (s *Server) GetMonthlyReadings(ctx context.Context, req *meterv1.YearRequest) (*meterv1.MonthlyReadingsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	commodity, err := domain.ParseCommodityType(req.GetCommodity())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	points, err := s.svc.MonthlyReadings(ctx, commodity, int(req.GetYear()))
	if err != nil {
		return nil, s.toStatus(err)
	}
	return &meterv1.MonthlyReadingsResponse{
		Commodity: string(commodity),
		Year:      req.GetYear(),
		Points:    toProtoPoints(points),
	}, nil
}

func (s *Server) GetMonthlyConsumption(ctx context.Context, req *meterv1.YearRequest) (*meterv1.MonthlyConsumptionResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	commodity, err := domain.ParseCommodityType(req.GetCommodity())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	res, err := s.svc.MonthlyConsumption(ctx, commodity, int(req.GetYear()))
	if err != nil {
		return nil, s.toStatus(err)
	}
	return toProtoConsumption(res), nil
}

func (s *Server) GetConsumptionBatch(ctx context.Context, req *meterv1.BatchRequest) (*meterv1.BatchResponse, error) {
	if req == nil || len(req.Keys) == 0 {
		return nil, status.Error(codes.InvalidArgument, "at least one key is required")
	}
	keys := make([]service.YearKey, 0, len(req.Keys))
	for _, k := range req.Keys {
		commodity, err := domain.ParseCommodityType(k.GetCommodity())
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		keys = append(keys, service.YearKey{Commodity: commodity, Year: int(k.GetYear())})
	}

	results, err := s.svc.Batch(ctx, keys)
	if err != nil {
		return nil, s.toStatus(err)
	}
	out := make([]*meterv1.MonthlyConsumptionResponse, 0, len(results))
	for _, r := range results {
		out = append(out, toProtoConsumption(r))
	}
	return &meterv1.BatchResponse{Results: out}, nil
}

func (s *Server) toStatus(err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidYear),
		errors.Is(err, service.ErrUnknownCommodity),
		errors.Is(err, service.ErrInvalidBatch):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	}
	s.logger.Error("request failed", applog.FieldError, err)
	return status.Error(codes.Internal, "internal error")
}

func toProtoConsumption(r service.YearConsumption) *meterv1.MonthlyConsumptionResponse {
	points := make([]meterv1.MonthlyConsumptionPoint, 0, len(r.Consumption))
	for _, c := range r.Consumption {
		points = append(points, meterv1.MonthlyConsumptionPoint{
			Month:       int32(c.Month),
			MonthLabel:  c.MonthLabel,
			Consumption: c.Consumption,
			IsActual:    c.IsActual,
			IsDerived:   c.IsDerived,
			Current:     toProtoPoint(c.Source.Current),
			Previous:    toProtoPointPtr(c.Source.Previous),
			Next:        toProtoPointPtr(c.Source.Next),
		})
	}
	return &meterv1.MonthlyConsumptionResponse{
		Commodity:        string(r.Key.Commodity),
		Year:             int32(r.Key.Year),
		Points:           points,
		PreviousDecember: toProtoPointPtr(r.PreviousDecember),
		NextJanuary:      toProtoPointPtr(r.NextJanuary),
	}
}

func toProtoPoints(points []meter.MonthlyDataPoint) []meterv1.MonthlyDataPoint {
	out := make([]meterv1.MonthlyDataPoint, 0, len(points))
	for _, p := range points {
		out = append(out, toProtoPoint(p))
	}
	return out
}

func toProtoPointPtr(p *meter.MonthlyDataPoint) *meterv1.MonthlyDataPoint {
	if p == nil {
		return nil
	}
	out := toProtoPoint(*p)
	return &out
}

func toProtoPoint(p meter.MonthlyDataPoint) meterv1.MonthlyDataPoint {
	var sources []meterv1.SourceReading
	for _, src := range p.Details.Sources {
		sources = append(sources, meterv1.SourceReading{Time: timestamppb.New(src.Time), Amount: src.Amount})
	}
	return meterv1.MonthlyDataPoint{
		Month:        int32(p.Month),
		MonthLabel:   p.MonthLabel,
		MeterReading: p.MeterReading,
		Quality:      p.Quality.String(),
		Method:       p.Details.Method,
		Sources:      sources,
		Ratio:        p.Details.Ratio,
	}
}
