package indicators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macdStreamBot/internal/domain"
	"macdStreamBot/internal/ports"
)

func seriesFrom(prices []float64) domain.PriceSeries {
	start := time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)
	series := make(domain.PriceSeries, len(prices))
	for i, p := range prices {
		series[i] = domain.PriceSample{
			Timestamp: start.Add(time.Duration(i) * time.Minute),
			Symbol:    "AAPL",
			Price:     p,
		}
	}
	return series
}

func constantSeries(n int, price float64) domain.PriceSeries {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = price
	}
	return seriesFrom(prices)
}

func increasingSeries(n int, start, step float64) domain.PriceSeries {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = start + float64(i)*step
	}
	return seriesFrom(prices)
}

func TestNewMACD(t *testing.T) {
	t.Run("zero periods fall back to defaults", func(t *testing.T) {
		m, err := NewMACD(0, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, DefaultSlowPeriod+DefaultSignalPeriod, m.MinDataPoints())
	})

	t.Run("fast period must be below slow", func(t *testing.T) {
		_, err := NewMACD(26, 12, 9)
		require.Error(t, err)
	})
}

func TestMACD_Compute_InsufficientData(t *testing.T) {
	m, err := NewMACD(12, 26, 9)
	require.NoError(t, err)

	// One short of the slow+signal minimum.
	_, err = m.Compute(constantSeries(m.MinDataPoints()-1, 100.0))
	require.ErrorIs(t, err, ports.ErrInsufficientData)
}

func TestMACD_Compute_ConstantSeriesConvergesToZero(t *testing.T) {
	m, err := NewMACD(12, 26, 9)
	require.NoError(t, err)

	res, err := m.Compute(constantSeries(40, 100.0))
	require.NoError(t, err)
	assert.InDelta(t, 0.0, res.MACDLine, 1e-9)
	assert.InDelta(t, 0.0, res.SignalLine, 1e-9)
	assert.InDelta(t, 0.0, res.Histogram, 1e-9)
}

func TestMACD_Compute_IncreasingSeriesIsPositive(t *testing.T) {
	m, err := NewMACD(12, 26, 9)
	require.NoError(t, err)

	res, err := m.Compute(increasingSeries(60, 100.0, 0.5))
	require.NoError(t, err)
	assert.Greater(t, res.MACDLine, 0.0)
	assert.Greater(t, res.Histogram, 0.0)
}

func TestMACD_Compute_Deterministic(t *testing.T) {
	m, err := NewMACD(12, 26, 9)
	require.NoError(t, err)

	prices := make([]float64, 80)
	base := 150.0
	for i := range prices {
		base += float64((i*11)%17) - 8.0
		prices[i] = base
	}
	series := seriesFrom(prices)

	first, err := m.Compute(series)
	require.NoError(t, err)
	second, err := m.Compute(series)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMACD_Compute_TimestampIsNewestSample(t *testing.T) {
	m, err := NewMACD(12, 26, 9)
	require.NoError(t, err)

	series := constantSeries(40, 100.0)
	res, err := m.Compute(series)
	require.NoError(t, err)
	assert.Equal(t, series[len(series)-1].Timestamp, res.Timestamp)
}
