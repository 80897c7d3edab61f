package csvrepo

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dachrisch/energy.consumption-sub001/internal/domain"
)

const (
	timeLayout = "2006-01-02 15:04:05"
	dateLayout = "2006-01-02"
)

// ParseReadingsCSV parses readings from the provided CSV reader.
//
// Expected header: time,amount[,type]
//
// Times are RFC3339, "2006-01-02 15:04:05" or "2006-01-02"; the latter two
// are interpreted as UTC. A missing or empty type column means power.
// Invalid rows are skipped and returned as a joined error (errors.Join).
func ParseReadingsCSV(r io.Reader) ([]domain.Reading, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) < 2 || headerName(header, 0) != "time" || headerName(header, 1) != "amount" ||
		(len(header) > 2 && headerName(header, 2) != "type") {
		return nil, fmt.Errorf("unexpected header %q (want %q)", strings.Join(header, ","), "time,amount,type")
	}

	var (
		readings []domain.Reading
		rowErrs  []error
		rowNum   = 1
	)

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			rowErrs = append(rowErrs, fmt.Errorf("row %d: read: %w", rowNum, err))
			continue
		}
		if len(row) < 2 {
			rowErrs = append(rowErrs, fmt.Errorf("row %d: expected at least 2 columns, got %d", rowNum, len(row)))
			continue
		}

		t, err := parseTime(strings.TrimSpace(row[0]))
		if err != nil {
			rowErrs = append(rowErrs, fmt.Errorf("row %d: parse time %q: %w", rowNum, row[0], err))
			continue
		}

		f, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			rowErrs = append(rowErrs, fmt.Errorf("row %d: parse amount %q: %w", rowNum, row[1], err))
			continue
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			rowErrs = append(rowErrs, fmt.Errorf("row %d: invalid amount %v", rowNum, f))
			continue
		}

		typ := domain.CommodityPower
		if len(row) > 2 && strings.TrimSpace(row[2]) != "" {
			typ, err = domain.ParseCommodityType(row[2])
			if err != nil {
				rowErrs = append(rowErrs, fmt.Errorf("row %d: %w", rowNum, err))
				continue
			}
		}

		readings = append(readings, domain.Reading{
			Time:   t,
			Amount: f,
			Type:   typ,
		})
	}

	if readings == nil {
		readings = []domain.Reading{}
	}
	return readings, errors.Join(rowErrs...)
}

func headerName(header []string, i int) string {
	return strings.ToLower(strings.TrimSpace(header[i]))
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.ParseInLocation(timeLayout, s, time.UTC); err == nil {
		return t, nil
	}
	return time.ParseInLocation(dateLayout, s, time.UTC)
}
