package indicators

import (
	"fmt"

	"macdStreamBot/internal/ports"
)

// EMA maintains an exponential moving average over a streaming sequence.
// The state is seeded from the arithmetic mean of the first period samples
// (the standard initial-SMA convention), then each further sample folds in
// with weight 2/(period+1). Period and multiplier are fixed at construction;
// once warmed up the running value is never reset.
type EMA struct {
	period     int
	multiplier float64
	value      float64
	warmed     bool
}

// NewEMA creates an EMA with the given period.
func NewEMA(period int) (*EMA, error) {
	if period <= 0 {
		return nil, fmt.Errorf("EMA period must be positive, got %d", period)
	}
	return &EMA{
		period:     period,
		multiplier: 2.0 / float64(period+1),
	}, nil
}

// Seed initialises the average from a warm-up window. The first period
// values seed via their mean; any remaining values fold in one by one.
func (e *EMA) Seed(window []float64) error {
	if len(window) < e.period {
		return fmt.Errorf("%w: have %d samples, need %d for EMA seed", ports.ErrInsufficientData, len(window), e.period)
	}
	sum := 0.0
	for _, v := range window[:e.period] {
		sum += v
	}
	e.value = sum / float64(e.period)
	e.warmed = true
	for _, v := range window[e.period:] {
		if _, err := e.Update(v); err != nil {
			return err
		}
	}
	return nil
}

// Update folds one new sample into the running average and returns the new
// value. Calling Update before Seed is a programming error.
func (e *EMA) Update(sample float64) (float64, error) {
	if !e.warmed {
		return 0, fmt.Errorf("%w: EMA(%d) has no seed value", ports.ErrNotWarmedUp, e.period)
	}
	e.value = sample*e.multiplier + e.value*(1-e.multiplier)
	return e.value, nil
}

// Value returns the current average. Only meaningful once Ready.
func (e *EMA) Value() float64 { return e.value }

// Ready reports whether the warm-up window has been consumed.
func (e *EMA) Ready() bool { return e.warmed }

// Period returns the configured period.
func (e *EMA) Period() int { return e.period }
