package sqliterepo

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dachrisch/energy.consumption-sub001/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Repo {
	t.Helper()
	r, err := Open(context.Background(), filepath.Join(t.TempDir(), "db", "readings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestRepo_UpsertAndList(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := openTemp(t)

	jan := time.Date(2023, 1, 31, 23, 59, 59, 0, time.UTC)
	feb := time.Date(2023, 2, 28, 23, 59, 59, 0, time.UTC)
	require.NoError(t, r.Upsert(ctx,
		domain.Reading{Time: feb, Amount: 1100, Type: domain.CommodityPower},
		domain.Reading{Time: jan, Amount: 1000, Type: domain.CommodityPower},
		domain.Reading{Time: jan, Amount: 50, Type: domain.CommodityGas},
	))

	out, err := r.List(ctx, domain.CommodityPower, nil, nil)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.True(t, out[0].Time.Equal(jan))
	assert.Equal(t, 1000.0, out[0].Amount)
	assert.Equal(t, domain.CommodityPower, out[1].Type)

	all, err := r.List(ctx, "", nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRepo_UpsertReplacesSameTimestampAndType(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := openTemp(t)

	ts := time.Date(2023, 5, 31, 23, 59, 59, 0, time.UTC)
	require.NoError(t, r.Upsert(ctx, domain.Reading{Time: ts, Amount: 1, Type: domain.CommodityWater}))
	require.NoError(t, r.Upsert(ctx, domain.Reading{Time: ts, Amount: 2, Type: domain.CommodityWater}))

	out, err := r.List(ctx, domain.CommodityWater, nil, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 2.0, out[0].Amount)
}

func TestRepo_ListRange(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := openTemp(t)

	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, r.Upsert(ctx, domain.Reading{
			Time: base.AddDate(0, i, 0), Amount: float64(i), Type: domain.CommodityPower,
		}))
	}
	start, end := base.AddDate(0, 1, 0), base.AddDate(0, 3, 0)

	out, err := r.List(ctx, domain.CommodityPower, &start, &end)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 1.0, out[0].Amount)
	assert.Equal(t, 2.0, out[1].Amount)
}

func TestOpen_IsIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "readings.db")
	r1, err := Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, r1.Close())

	r2, err := Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, r2.Close())
}
