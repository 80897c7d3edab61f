package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dachrisch/energy.consumption-sub001/internal/domain"
	applog "github.com/dachrisch/energy.consumption-sub001/internal/log"
	"github.com/dachrisch/energy.consumption-sub001/internal/meter"
	"github.com/dachrisch/energy.consumption-sub001/internal/repo"
	"golang.org/x/sync/errgroup"
)

var ErrInvalidYear = errors.New("invalid year")
var ErrUnknownCommodity = errors.New("unknown commodity")
var ErrInvalidBatch = errors.New("invalid batch")

const (
	MinYear = 1900
	MaxYear = 9999

	// MaxBatchSize bounds how many (commodity, year) pairs one Batch call may ask for.
	MaxBatchSize = 64
)

// YearKey names one independent reconstruction.
type YearKey struct {
	Commodity domain.CommodityType
	Year      int
}

// YearConsumption is the full result for one commodity and year.
// PreviousDecember and NextJanuary are nil when no neighbouring-year data
// supports them.
type YearConsumption struct {
	Key              YearKey
	Monthly          []meter.MonthlyDataPoint
	Consumption      []meter.MonthlyConsumptionPoint
	PreviousDecember *meter.MonthlyDataPoint
	NextJanuary      *meter.MonthlyDataPoint
}

type ConsumptionService struct {
	repo   repo.ReadingRepository
	engine *meter.Engine
	logger *slog.Logger
}

func NewConsumptionService(r repo.ReadingRepository, engine *meter.Engine, logger *slog.Logger) *ConsumptionService {
	if engine == nil {
		engine = meter.NewEngine()
	}
	return &ConsumptionService{
		repo:   r,
		engine: engine,
		logger: applog.WithComponent(logger, applog.ComponentService),
	}
}

// MonthlyReadings reconstructs the twelve end-of-month readings of a year.
func (s *ConsumptionService) MonthlyReadings(ctx context.Context, commodity domain.CommodityType, year int) ([]meter.MonthlyDataPoint, error) {
	key := YearKey{Commodity: commodity, Year: year}
	if err := validateKey(key); err != nil {
		return nil, err
	}
	readings, err := s.readings(ctx, commodity)
	if err != nil {
		return nil, err
	}
	return s.engineFor(key).ReconstructYear(readings, year, commodity), nil
}

// MonthlyConsumption reconstructs a year plus the neighbouring December and
// January and derives month-over-month consumption.
func (s *ConsumptionService) MonthlyConsumption(ctx context.Context, commodity domain.CommodityType, year int) (YearConsumption, error) {
	key := YearKey{Commodity: commodity, Year: year}
	if err := validateKey(key); err != nil {
		return YearConsumption{}, err
	}
	readings, err := s.readings(ctx, commodity)
	if err != nil {
		return YearConsumption{}, err
	}
	return s.compute(key, readings)
}

// Batch runs independent (commodity, year) computations concurrently. The
// result order matches keys. Readings are fetched once per commodity.
func (s *ConsumptionService) Batch(ctx context.Context, keys []YearKey) ([]YearConsumption, error) {
	if len(keys) > MaxBatchSize {
		return nil, fmt.Errorf("%w: too many keys (max %d)", ErrInvalidBatch, MaxBatchSize)
	}
	for _, k := range keys {
		if err := validateKey(k); err != nil {
			return nil, err
		}
	}

	byCommodity := make(map[domain.CommodityType][]domain.Reading)
	for _, k := range keys {
		if _, ok := byCommodity[k.Commodity]; ok {
			continue
		}
		readings, err := s.readings(ctx, k.Commodity)
		if err != nil {
			return nil, err
		}
		byCommodity[k.Commodity] = readings
	}

	out := make([]YearConsumption, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	for i, k := range keys {
		i, k := i, k
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.compute(k, byCommodity[k.Commodity])
			if err != nil {
				return err
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ConsumptionService) compute(key YearKey, readings []domain.Reading) (YearConsumption, error) {
	engine := s.engineFor(key)

	monthly := engine.ReconstructYear(readings, key.Year, key.Commodity)
	prevDec := boundaryContext(engine.ReconstructMonth(readings, key.Year-1, time.December, key.Commodity), key.Year)
	nextJan := boundaryContext(engine.ReconstructMonth(readings, key.Year+1, time.January, key.Commodity), key.Year)

	consumption, err := engine.DeriveYear(monthly, prevDec, nextJan)
	if err != nil {
		return YearConsumption{}, fmt.Errorf("derive %s %d: %w", key.Commodity, key.Year, err)
	}
	s.logger.Debug("computed consumption",
		applog.FieldCommodity, string(key.Commodity),
		applog.FieldYear, key.Year,
		"readings", len(readings),
	)
	return YearConsumption{
		Key:              key,
		Monthly:          monthly,
		Consumption:      consumption,
		PreviousDecember: prevDec,
		NextJanuary:      nextJan,
	}, nil
}

// boundaryContext keeps a neighbouring-year point only when it rests on data:
// an actual reading, or a value computed from at least one reading outside
// year. A December extrapolated backwards from this year's own January and
// February does not count.
func boundaryContext(p meter.MonthlyDataPoint, year int) *meter.MonthlyDataPoint {
	if !p.HasReading() {
		return nil
	}
	if p.Quality == meter.QualityActual {
		return &p
	}
	for _, src := range p.Details.Sources {
		if src.Time.UTC().Year() != year {
			return &p
		}
	}
	return nil
}

func (s *ConsumptionService) engineFor(key YearKey) *meter.Engine {
	return s.engine.With(applog.FieldCommodity, string(key.Commodity), applog.FieldYear, key.Year)
}

// readings loads every reading of the commodity: reconstruction at the edges
// of a year needs neighbours from adjacent years.
func (s *ConsumptionService) readings(ctx context.Context, commodity domain.CommodityType) ([]domain.Reading, error) {
	readings, err := s.repo.List(ctx, commodity, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("list %s readings: %w", commodity, err)
	}
	return readings, nil
}

func validateKey(k YearKey) error {
	if t, err := domain.ParseCommodityType(string(k.Commodity)); err != nil || t != k.Commodity {
		return fmt.Errorf("%w: %q", ErrUnknownCommodity, k.Commodity)
	}
	if k.Year < MinYear || k.Year > MaxYear {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidYear, k.Year, MinYear, MaxYear)
	}
	return nil
}
