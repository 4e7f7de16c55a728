package indicators

import (
	"fmt"

	"macdStreamBot/internal/domain"
	"macdStreamBot/internal/ports"
)

// Default MACD periods, the conventional 12/26/9 configuration.
const (
	DefaultFastPeriod   = 12
	DefaultSlowPeriod   = 26
	DefaultSignalPeriod = 9
)

// MACD derives the MACD line, signal line and histogram from a price series.
// It recomputes the three EMAs over the full retained window on every call,
// which keeps each cycle stateless; the series the streaming loop hands in is
// bounded by the lookback window, so the O(window) cost is negligible.
type MACD struct {
	fastPeriod   int
	slowPeriod   int
	signalPeriod int
}

// NewMACD creates a MACD calculator. Zero or negative periods fall back to
// the defaults; fast must stay below slow.
func NewMACD(fast, slow, signal int) (*MACD, error) {
	if fast <= 0 {
		fast = DefaultFastPeriod
	}
	if slow <= 0 {
		slow = DefaultSlowPeriod
	}
	if signal <= 0 {
		signal = DefaultSignalPeriod
	}
	if fast >= slow {
		return nil, fmt.Errorf("MACD fast period (%d) must be less than slow period (%d)", fast, slow)
	}
	return &MACD{fastPeriod: fast, slowPeriod: slow, signalPeriod: signal}, nil
}

// MinDataPoints returns the minimum number of samples needed for one result:
// the slow EMA warm-up plus the signal EMA warm-up over the MACD line.
func (m *MACD) MinDataPoints() int {
	return m.slowPeriod + m.signalPeriod
}

// Compute produces one MACDResult from the series. Fewer than MinDataPoints
// samples fails with ErrInsufficientData rather than returning a partial
// result. Identical input always yields an identical result.
func (m *MACD) Compute(series domain.PriceSeries) (domain.MACDResult, error) {
	if len(series) < m.MinDataPoints() {
		return domain.MACDResult{}, fmt.Errorf("%w: have %d samples, need %d for MACD(%d,%d,%d)",
			ports.ErrInsufficientData, len(series), m.MinDataPoints(), m.fastPeriod, m.slowPeriod, m.signalPeriod)
	}

	prices := series.Values()

	fastEMA, err := NewEMA(m.fastPeriod)
	if err != nil {
		return domain.MACDResult{}, err
	}
	slowEMA, err := NewEMA(m.slowPeriod)
	if err != nil {
		return domain.MACDResult{}, err
	}
	signalEMA, err := NewEMA(m.signalPeriod)
	if err != nil {
		return domain.MACDResult{}, err
	}

	if err := fastEMA.Seed(prices[:m.slowPeriod]); err != nil {
		return domain.MACDResult{}, err
	}
	if err := slowEMA.Seed(prices[:m.slowPeriod]); err != nil {
		return domain.MACDResult{}, err
	}

	// The MACD line exists from the slow warm-up boundary onward.
	macdLine := make([]float64, 0, len(prices)-m.slowPeriod+1)
	macdLine = append(macdLine, fastEMA.Value()-slowEMA.Value())
	for _, p := range prices[m.slowPeriod:] {
		f, err := fastEMA.Update(p)
		if err != nil {
			return domain.MACDResult{}, err
		}
		s, err := slowEMA.Update(p)
		if err != nil {
			return domain.MACDResult{}, err
		}
		macdLine = append(macdLine, f-s)
	}

	if err := signalEMA.Seed(macdLine); err != nil {
		return domain.MACDResult{}, err
	}

	macd := macdLine[len(macdLine)-1]
	sig := signalEMA.Value()
	last, _ := series.Last()
	return domain.MACDResult{
		MACDLine:   macd,
		SignalLine: sig,
		Histogram:  macd - sig,
		Timestamp:  last.Timestamp,
	}, nil
}
