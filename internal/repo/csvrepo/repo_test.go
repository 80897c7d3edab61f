package csvrepo

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dachrisch/energy.consumption-sub001/internal/domain"
)

func mustUTC(t *testing.T, s string) time.Time {
	t.Helper()
	got, err := time.ParseInLocation(timeLayout, s, time.UTC)
	if err != nil {
		t.Fatalf("parse time %q: %v", s, err)
	}
	return got
}

func TestRepo_ListFiltersByTimeRange(t *testing.T) {
	t.Parallel()

	r := New([]domain.Reading{
		{Time: mustUTC(t, "2023-01-31 23:59:59"), Amount: 1, Type: domain.CommodityPower},
		{Time: mustUTC(t, "2023-02-28 23:59:59"), Amount: 2, Type: domain.CommodityPower},
		{Time: mustUTC(t, "2023-03-31 23:59:59"), Amount: 3, Type: domain.CommodityPower},
	})

	start := mustUTC(t, "2023-02-28 23:59:59")
	end := mustUTC(t, "2023-03-31 23:59:59")

	out, err := r.List(context.Background(), domain.CommodityPower, &start, &end)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got, want := len(out), 1; got != want {
		t.Fatalf("len(out)=%d want %d", got, want)
	}
	if got, want := out[0].Amount, 2.0; got != want {
		t.Fatalf("out[0].Amount=%v want %v", got, want)
	}
}

func TestRepo_ListFiltersByCommodityAndSorts(t *testing.T) {
	t.Parallel()

	r := New([]domain.Reading{
		{Time: mustUTC(t, "2023-03-31 23:59:59"), Amount: 3, Type: domain.CommodityGas},
		{Time: mustUTC(t, "2023-01-31 23:59:59"), Amount: 1, Type: domain.CommodityGas},
		{Time: mustUTC(t, "2023-02-28 23:59:59"), Amount: 2, Type: domain.CommodityPower},
	})

	out, err := r.List(context.Background(), domain.CommodityGas, nil, nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got, want := len(out), 2; got != want {
		t.Fatalf("len(out)=%d want %d", got, want)
	}
	if !out[0].Time.Before(out[1].Time) {
		t.Fatalf("expected ascending order, got %v then %v", out[0].Time, out[1].Time)
	}

	all, err := r.List(context.Background(), "", nil, nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got, want := len(all), 3; got != want {
		t.Fatalf("len(all)=%d want %d", got, want)
	}
}

func TestNewFromFile_PartialParse(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "readings.csv")
	data := "time,amount,type\n2023-01-31 23:59:59,10,power\nbroken,1,power\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	r, err := NewFromFile(path)
	if err == nil {
		t.Fatalf("expected parse warning, got nil")
	}
	if r == nil {
		t.Fatalf("expected usable repo despite bad row")
	}
	out, _ := r.List(context.Background(), domain.CommodityPower, nil, nil)
	if got, want := len(out), 1; got != want {
		t.Fatalf("len(out)=%d want %d", got, want)
	}
}
