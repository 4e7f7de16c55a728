package ports

import "context"

// AnalogOutput mirrors computed values to an analog output device.
// Implementations are selected once at startup: a real device when the
// hardware is present, a simulated variant otherwise. Writes are
// best-effort; callers log and swallow failures.
type AnalogOutput interface {
	// Write sets the given output channel to value. Failures are reported
	// wrapped in ErrHardwareWrite.
	Write(ctx context.Context, channel int, value float64) error
}
