package dac

import (
	"context"
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"macdStreamBot/internal/ports"
)

const (
	// MCP4725 register command: write DAC register only (no EEPROM).
	cmdWriteDAC = 0x40
	// 12-bit converter.
	maxCounts = 4095
)

// Per-channel I2C addresses. Channel 0 carries the signal line, channel 1
// the MACD line, matching the two converters wired at 0x60 and 0x61.
var channelAddrs = map[int]uint16{
	0: 0x60,
	1: 0x61,
}

// MCP4725Output drives MCP4725 DACs on the default I2C bus. It implements
// ports.AnalogOutput.
type MCP4725Output struct {
	bus    i2c.BusCloser
	devs   map[int]*i2c.Dev
	logger ports.Logger
}

// NewMCP4725 initialises the host drivers and opens the first available I2C
// bus. Fails when no bus is present, which callers use to fall back to the
// simulated output.
func NewMCP4725(logger ports.Logger) (*MCP4725Output, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for MCP4725 output")
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialise periph host drivers: %w", err)
	}
	bus, err := i2creg.Open("")
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus: %w", err)
	}

	devs := make(map[int]*i2c.Dev, len(channelAddrs))
	for channel, addr := range channelAddrs {
		devs[channel] = &i2c.Dev{Addr: addr, Bus: bus}
	}
	logger.Info(context.Background(), "MCP4725 analog output initialised", map[string]interface{}{"bus": bus.String(), "channels": len(devs)})

	return &MCP4725Output{bus: bus, devs: devs, logger: logger}, nil
}

// Write converts value to DAC counts and writes it to the channel's device.
// Values outside the converter's 12-bit range are rejected.
func (o *MCP4725Output) Write(ctx context.Context, channel int, value float64) error {
	dev, ok := o.devs[channel]
	if !ok {
		return fmt.Errorf("%w: unknown channel %d", ports.ErrHardwareWrite, channel)
	}

	counts := int(value)
	if counts < 0 || counts > maxCounts {
		return fmt.Errorf("%w: value %.2f outside DAC range [0, %d]", ports.ErrHardwareWrite, value, maxCounts)
	}

	upper := byte(counts >> 4)
	lower := byte(counts<<4) & 0xF0

	// The bus transaction has no context plumbing of its own, so it runs on
	// its own goroutine and the write deadline is enforced here. A wedged
	// transaction is abandoned to the bus.
	errCh := make(chan error, 1)
	go func() {
		errCh <- dev.Tx([]byte{cmdWriteDAC, upper, lower}, nil)
	}()
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("%w: channel %d: %v", ports.ErrHardwareWrite, channel, err)
		}
	case <-ctx.Done():
		return fmt.Errorf("%w: channel %d: %v", ports.ErrHardwareWrite, channel, ctx.Err())
	}
	o.logger.Debug(ctx, "Analog value written", map[string]interface{}{"channel": channel, "counts": counts})
	return nil
}

// Close releases the I2C bus.
func (o *MCP4725Output) Close() error {
	return o.bus.Close()
}
