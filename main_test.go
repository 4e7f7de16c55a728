package main

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macdStreamBot/config"
	"macdStreamBot/internal/orders"
)

func newParsedCommand(t *testing.T, args ...string) (*cobra.Command, *cliFlags) {
	t.Helper()
	flags := &cliFlags{}
	cmd := newRootCommand(flags)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd, flags
}

func TestLimitPriceFlag_OmittedMeansMarketOrder(t *testing.T) {
	cmd, flags := newParsedCommand(t, "--action", "buy", "--qty", "1")
	assert.Nil(t, limitPriceFlag(cmd, flags))
}

func TestLimitPriceFlag_ValuePassedThrough(t *testing.T) {
	cmd, flags := newParsedCommand(t, "--action", "sell", "--qty", "2", "--price", "250.5")
	lp := limitPriceFlag(cmd, flags)
	require.NotNil(t, lp)
	assert.Equal(t, 250.5, *lp)
}

func TestLimitPriceFlag_NonPositivePriceReachesValidation(t *testing.T) {
	tests := []struct {
		name  string
		price string
	}{
		{name: "negative price", price: "-5"},
		{name: "zero price", price: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, flags := newParsedCommand(t, "--action", "buy", "--qty", "1", "--price", tt.price)

			// The bad price must survive flag handling as a limit price so
			// the builder can reject it, not degrade to a market order.
			lp := limitPriceFlag(cmd, flags)
			require.NotNil(t, lp)

			_, err := orders.Build(flags.symbol, "buy", flags.qty, lp)
			var vErr *orders.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Contains(t, err.Error(), "limit price must be positive")
		})
	}
}

func TestIntervalAndLookbackAcceptPlainIntegers(t *testing.T) {
	cmd, flags := newParsedCommand(t, "--interval", "90", "--lookback", "45")

	cfg := &config.Config{}
	applyFlagOverrides(cmd, flags, cfg)

	assert.Equal(t, 90*time.Second, cfg.Interval)
	assert.Equal(t, 45*time.Minute, cfg.Lookback)
}

func TestApplyFlagOverrides_UnchangedFlagsKeepConfig(t *testing.T) {
	cmd, flags := newParsedCommand(t, "--action", "stream")

	cfg := &config.Config{
		Symbol:   "TSLA",
		Interval: 30 * time.Second,
		Lookback: 2 * time.Hour,
	}
	applyFlagOverrides(cmd, flags, cfg)

	assert.Equal(t, "TSLA", cfg.Symbol)
	assert.Equal(t, 30*time.Second, cfg.Interval)
	assert.Equal(t, 2*time.Hour, cfg.Lookback)
}
