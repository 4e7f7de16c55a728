package domain

import "time"

// MACDResult holds one cycle's indicator values. Derived and immutable.
type MACDResult struct {
	MACDLine   float64   // fast EMA minus slow EMA of price
	SignalLine float64   // EMA of the MACD line
	Histogram  float64   // MACD line minus signal line
	Timestamp  time.Time // Time of the newest sample used
}

// Signal is the discrete classification of a MACDResult.
type Signal string

const (
	Bullish Signal = "BULLISH"
	Bearish Signal = "BEARISH"
	Neutral Signal = "NEUTRAL"
)
