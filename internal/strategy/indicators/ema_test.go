package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macdStreamBot/internal/ports"
)

func TestNewEMA(t *testing.T) {
	tests := []struct {
		name        string
		period      int
		expectError bool
	}{
		{name: "valid period", period: 12},
		{name: "period of one", period: 1},
		{name: "zero period", period: 0, expectError: true},
		{name: "negative period", period: -3, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ema, err := NewEMA(tt.period)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.period, ema.Period())
			assert.False(t, ema.Ready())
		})
	}
}

func TestEMA_Seed(t *testing.T) {
	t.Run("seeds from mean of first period values", func(t *testing.T) {
		ema, err := NewEMA(3)
		require.NoError(t, err)
		require.NoError(t, ema.Seed([]float64{100, 102, 104}))
		assert.True(t, ema.Ready())
		assert.InDelta(t, 102.0, ema.Value(), 1e-9)
	})

	t.Run("folds trailing values beyond the period", func(t *testing.T) {
		ema, err := NewEMA(3)
		require.NoError(t, err)
		require.NoError(t, ema.Seed([]float64{100, 102, 104, 106}))
		// seed = 102, then 106 folds in with k = 0.5
		assert.InDelta(t, 104.0, ema.Value(), 1e-9)
	})

	t.Run("rejects a window shorter than the period", func(t *testing.T) {
		ema, err := NewEMA(5)
		require.NoError(t, err)
		err = ema.Seed([]float64{100, 101})
		require.ErrorIs(t, err, ports.ErrInsufficientData)
		assert.False(t, ema.Ready())
	})
}

func TestEMA_Update(t *testing.T) {
	t.Run("fails before warm-up", func(t *testing.T) {
		ema, err := NewEMA(3)
		require.NoError(t, err)
		_, err = ema.Update(100.0)
		require.ErrorIs(t, err, ports.ErrNotWarmedUp)
	})

	t.Run("applies the smoothing formula", func(t *testing.T) {
		ema, err := NewEMA(3)
		require.NoError(t, err)
		require.NoError(t, ema.Seed([]float64{100, 100, 100}))

		v, err := ema.Update(110.0)
		require.NoError(t, err)
		// k = 2/(3+1) = 0.5 -> 110*0.5 + 100*0.5
		assert.InDelta(t, 105.0, v, 1e-9)
		assert.InDelta(t, 105.0, ema.Value(), 1e-9)
	})
}

// Incremental updates one sample at a time must agree with recomputing the
// EMA from scratch over the full window.
func TestEMA_IncrementalMatchesBatch(t *testing.T) {
	const period = 12

	// Deterministic but non-trivial series.
	prices := make([]float64, 120)
	base := 100.0
	for i := range prices {
		base += float64((i*7)%13) - 6.0
		prices[i] = base + float64(i%5)*0.25
	}

	batch, err := NewEMA(period)
	require.NoError(t, err)
	require.NoError(t, batch.Seed(prices))

	incremental, err := NewEMA(period)
	require.NoError(t, err)
	require.NoError(t, incremental.Seed(prices[:period]))
	for _, p := range prices[period:] {
		_, err := incremental.Update(p)
		require.NoError(t, err)
	}

	assert.InEpsilon(t, batch.Value(), incremental.Value(), 1e-9)
}
