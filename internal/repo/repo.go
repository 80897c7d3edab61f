package repo

import (
	"context"
	"time"

	"github.com/dachrisch/energy.consumption-sub001/internal/domain"
)

// ReadingRepository provides access to cumulative meter readings.
type ReadingRepository interface {
	// List returns readings of one commodity in ascending time order,
	// optionally filtered by [start, end). An empty commodity returns all.
	// The returned slice must be treated as read-only by callers.
	List(ctx context.Context, commodity domain.CommodityType, startInclusive *time.Time, endExclusive *time.Time) ([]domain.Reading, error)
}
