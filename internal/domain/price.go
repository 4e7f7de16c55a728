package domain

import "time"

// PriceSample is a single observed price for a symbol. Immutable once created.
type PriceSample struct {
	Timestamp time.Time // Time the sample was taken (bar close time)
	Symbol    string    // Trading symbol
	Price     float64   // Sampled price, positive
}

// PriceSeries is a chronologically ordered sequence of samples for one symbol.
// The data source is assumed to deliver it without duplicates or reordering.
type PriceSeries []PriceSample

// Values extracts the raw price sequence.
func (s PriceSeries) Values() []float64 {
	values := make([]float64, len(s))
	for i, sample := range s {
		values[i] = sample.Price
	}
	return values
}

// Last returns the most recent sample. ok is false when the series is empty.
func (s PriceSeries) Last() (PriceSample, bool) {
	if len(s) == 0 {
		return PriceSample{}, false
	}
	return s[len(s)-1], true
}
