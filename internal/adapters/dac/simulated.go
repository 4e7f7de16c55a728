package dac

import (
	"context"

	"macdStreamBot/internal/ports"
)

// SimulatedOutput is the no-hardware variant of ports.AnalogOutput. It logs
// what would have been written and always succeeds.
type SimulatedOutput struct {
	logger ports.Logger
}

// NewSimulated creates a simulated analog output.
func NewSimulated(logger ports.Logger) *SimulatedOutput {
	return &SimulatedOutput{logger: logger}
}

// Write logs the value at debug level.
func (o *SimulatedOutput) Write(ctx context.Context, channel int, value float64) error {
	o.logger.Debug(ctx, "Simulated analog write", map[string]interface{}{"channel": channel, "value": value})
	return nil
}
