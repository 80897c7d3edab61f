package csvrepo

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/dachrisch/energy.consumption-sub001/internal/domain"
	"github.com/dachrisch/energy.consumption-sub001/internal/repo"
)

var _ repo.ReadingRepository = (*Repo)(nil)

// Repo is an in-memory repository backed by a CSV file loaded at startup.
type Repo struct {
	readings []domain.Reading // sorted ascending by Time
}

func NewFromFile(path string) (*Repo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv %q: %w", path, err)
	}
	defer f.Close()

	readings, parseErr := ParseReadingsCSV(f)
	if len(readings) == 0 && parseErr != nil {
		return nil, fmt.Errorf("parse csv %q: %w", path, parseErr)
	}
	sortByTime(readings)

	// Parsing can be partially successful; surface warnings to the caller.
	if parseErr != nil {
		return &Repo{readings: readings}, fmt.Errorf("parse csv %q: %w", path, parseErr)
	}
	return &Repo{readings: readings}, nil
}

func New(readings []domain.Reading) *Repo {
	cp := append([]domain.Reading(nil), readings...)
	sortByTime(cp)
	return &Repo{readings: cp}
}

func (r *Repo) List(ctx context.Context, commodity domain.CommodityType, startInclusive *time.Time, endExclusive *time.Time) ([]domain.Reading, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	readings := r.readings
	if startInclusive != nil {
		start := *startInclusive
		i := sort.Search(len(readings), func(i int) bool { return !readings[i].Time.Before(start) })
		readings = readings[i:]
	}
	if endExclusive != nil {
		end := *endExclusive
		j := sort.Search(len(readings), func(i int) bool { return !readings[i].Time.Before(end) })
		readings = readings[:j]
	}

	out := make([]domain.Reading, 0, len(readings))
	for _, rd := range readings {
		if commodity == "" || rd.Type == commodity {
			out = append(out, rd)
		}
	}
	return out, nil
}

func sortByTime(readings []domain.Reading) {
	sort.SliceStable(readings, func(i, j int) bool { return readings[i].Time.Before(readings[j].Time) })
}
