package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macdStreamBot/internal/domain"
)

func floatPtr(v float64) *float64 { return &v }

func TestBuild_ValidMarketOrder(t *testing.T) {
	intent, err := Build("aapl", "buy", 10, nil)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", intent.Symbol)
	assert.Equal(t, domain.Buy, intent.Side)
	assert.Equal(t, int64(10), intent.Quantity)
	assert.True(t, intent.IsMarket())
}

func TestBuild_ValidLimitOrder(t *testing.T) {
	intent, err := Build("TSLA", "sell", 2, floatPtr(250.0))
	require.NoError(t, err)
	assert.Equal(t, domain.Sell, intent.Side)
	assert.False(t, intent.IsMarket())
	assert.Equal(t, 250.0, *intent.LimitPrice)
}

func TestBuild_SingleViolations(t *testing.T) {
	tests := []struct {
		name       string
		symbol     string
		side       string
		quantity   int64
		limitPrice *float64
		wantSubstr string
	}{
		{name: "empty symbol", symbol: "", side: "buy", quantity: 1, wantSubstr: "symbol must not be empty"},
		{name: "blank symbol", symbol: "   ", side: "buy", quantity: 1, wantSubstr: "symbol must not be empty"},
		{name: "unknown side", symbol: "AAPL", side: "hold", quantity: 1, wantSubstr: "side must be"},
		{name: "zero quantity", symbol: "AAPL", side: "buy", quantity: 0, wantSubstr: "quantity must be a positive integer"},
		{name: "negative quantity", symbol: "AAPL", side: "sell", quantity: -5, wantSubstr: "quantity must be a positive integer"},
		{name: "zero limit price", symbol: "AAPL", side: "buy", quantity: 1, limitPrice: floatPtr(0), wantSubstr: "limit price must be positive"},
		{name: "negative limit price", symbol: "AAPL", side: "buy", quantity: 1, limitPrice: floatPtr(-1.5), wantSubstr: "limit price must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.symbol, tt.side, tt.quantity, tt.limitPrice)
			require.Error(t, err)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Len(t, vErr.Violations, 1)
			assert.Contains(t, err.Error(), tt.wantSubstr)
		})
	}
}

func TestBuild_ReportsAllViolationsAtOnce(t *testing.T) {
	_, err := Build("", "buy", -1, nil)
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Len(t, vErr.Violations, 2)
	assert.Contains(t, err.Error(), "symbol must not be empty")
	assert.Contains(t, err.Error(), "quantity must be a positive integer")
}

func TestBuild_SideIsCaseInsensitive(t *testing.T) {
	intent, err := Build("AAPL", "BUY", 1, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.Buy, intent.Side)
}
