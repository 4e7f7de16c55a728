package strategy

import "macdStreamBot/internal/domain"

// DefaultEpsilon is the histogram dead-band that keeps the classification
// from flickering on floating-point noise around zero.
const DefaultEpsilon = 1e-9

// Classifier maps a MACD result to a discrete trading signal. It is a pure
// function of the result; there is no hidden state.
type Classifier struct {
	epsilon float64
}

// NewClassifier creates a classifier with the given histogram epsilon.
// Non-positive values fall back to DefaultEpsilon.
func NewClassifier(epsilon float64) *Classifier {
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}
	return &Classifier{epsilon: epsilon}
}

// Classify derives the signal from the histogram sign: above the epsilon
// band is bullish momentum, below is bearish, inside the band is neutral.
func (c *Classifier) Classify(res domain.MACDResult) domain.Signal {
	switch {
	case res.Histogram > c.epsilon:
		return domain.Bullish
	case res.Histogram < -c.epsilon:
		return domain.Bearish
	default:
		return domain.Neutral
	}
}
