package meter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpolate_Midpoint(t *testing.T) {
	t.Parallel()

	prev := reading(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 1000)
	next := reading(time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC), 1100)

	got, err := Interpolate(prev, next, time.Date(2023, 1, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.InDelta(t, 1050.0, got, 1e-9)
}

func TestInterpolate_EndpointsAreExact(t *testing.T) {
	t.Parallel()

	prev := reading(time.Date(2023, 3, 3, 7, 0, 0, 0, time.UTC), 0.1)
	next := reading(time.Date(2023, 5, 17, 9, 30, 0, 0, time.UTC), 0.3)

	got, err := Interpolate(prev, next, prev.Time)
	require.NoError(t, err)
	assert.Equal(t, prev.Amount, got)

	got, err = Interpolate(prev, next, next.Time)
	require.NoError(t, err)
	assert.Equal(t, next.Amount, got)
}

func TestInterpolate_InvalidOrder(t *testing.T) {
	t.Parallel()

	a := reading(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 1000)
	b := reading(time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC), 1100)

	_, err := Interpolate(b, a, time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

func TestInterpolate_DegenerateInterval(t *testing.T) {
	t.Parallel()

	ts := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := Interpolate(reading(ts, 1), reading(ts, 2), ts)
	assert.ErrorIs(t, err, ErrDegenerateInterval)
}

func TestExtrapolate_ConstantRate(t *testing.T) {
	t.Parallel()

	a := reading(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 500)
	b := reading(a.Time.Add(30*day), 600)

	got := Extrapolate(a, b, b.Time.Add(29*day))
	assert.InDelta(t, 600+29*(100.0/30), got, 1e-6)
}

func TestExtrapolate_Backward(t *testing.T) {
	t.Parallel()

	a := reading(time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC), 1000)
	b := reading(a.Time.Add(10*day), 1050)

	got := Extrapolate(a, b, a.Time.Add(-10*day))
	assert.InDelta(t, 950.0, got, 1e-6)
}

func TestExtrapolate_NegativeRateIsNotClamped(t *testing.T) {
	t.Parallel()

	a := reading(time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC), 1000)
	b := reading(a.Time.Add(10*day), 900)

	got := Extrapolate(a, b, b.Time.Add(10*day))
	assert.InDelta(t, 800.0, got, 1e-6)
}

func TestExtrapolate_SameTimestampReturnsLater(t *testing.T) {
	t.Parallel()

	ts := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	got := Extrapolate(reading(ts, 10), reading(ts, 20), ts.Add(5*day))
	assert.Equal(t, 20.0, got)
}

func TestLinear_LongSpansDoNotSaturate(t *testing.T) {
	t.Parallel()

	a := reading(time.Date(203, 1, 1, 0, 0, 0, 0, time.UTC), 0)
	b := reading(time.Date(2203, 1, 1, 0, 0, 0, 0, time.UTC), 2000)
	mid := time.Date(1203, 1, 1, 0, 0, 0, 0, time.UTC)

	got, err := Interpolate(a, b, mid)
	require.NoError(t, err)
	assert.InDelta(t, 1000.0, got, 1.0)

	assert.InDelta(t, 4000.0, Extrapolate(a, b, time.Date(4203, 1, 1, 0, 0, 0, 0, time.UTC)), 1.0)
}
