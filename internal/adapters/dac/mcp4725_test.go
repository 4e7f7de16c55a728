package dac

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"

	"macdStreamBot/internal/adapters/logger"
	"macdStreamBot/internal/ports"
)

// stubBus records transactions. When block is set, Tx waits on it first,
// simulating a wedged bus.
type stubBus struct {
	mu     sync.Mutex
	writes [][]byte
	txErr  error
	block  chan struct{}
}

func (b *stubBus) String() string                    { return "stub" }
func (b *stubBus) SetSpeed(f physic.Frequency) error { return nil }
func (b *stubBus) Close() error                      { return nil }

func (b *stubBus) Tx(addr uint16, w, r []byte) error {
	if b.block != nil {
		<-b.block
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writes = append(b.writes, append([]byte(nil), w...))
	return b.txErr
}

func (b *stubBus) writeAt(i int) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writes[i]
}

func (b *stubBus) writeCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.writes)
}

func newTestOutput(bus *stubBus) *MCP4725Output {
	return &MCP4725Output{
		bus: bus,
		devs: map[int]*i2c.Dev{
			0: {Addr: 0x60, Bus: bus},
			1: {Addr: 0x61, Bus: bus},
		},
		logger: logger.NewStdLogger(logger.LevelError),
	}
}

func TestMCP4725Write_EncodesTwelveBitValue(t *testing.T) {
	bus := &stubBus{}
	out := newTestOutput(bus)

	require.NoError(t, out.Write(context.Background(), 0, 2048))
	require.NoError(t, out.Write(context.Background(), 1, 4095))
	require.NoError(t, out.Write(context.Background(), 0, 0))

	assert.Equal(t, []byte{cmdWriteDAC, 0x80, 0x00}, bus.writeAt(0))
	assert.Equal(t, []byte{cmdWriteDAC, 0xFF, 0xF0}, bus.writeAt(1))
	assert.Equal(t, []byte{cmdWriteDAC, 0x00, 0x00}, bus.writeAt(2))
}

func TestMCP4725Write_RejectsOutOfRangeValues(t *testing.T) {
	bus := &stubBus{}
	out := newTestOutput(bus)

	require.ErrorIs(t, out.Write(context.Background(), 0, float64(maxCounts+1)), ports.ErrHardwareWrite)
	require.ErrorIs(t, out.Write(context.Background(), 0, -1), ports.ErrHardwareWrite)
	assert.Zero(t, bus.writeCount())
}

func TestMCP4725Write_UnknownChannel(t *testing.T) {
	bus := &stubBus{}
	out := newTestOutput(bus)

	err := out.Write(context.Background(), 7, 100)
	require.ErrorIs(t, err, ports.ErrHardwareWrite)
	assert.Zero(t, bus.writeCount())
}

func TestMCP4725Write_BusFailureIsWrapped(t *testing.T) {
	bus := &stubBus{txErr: fmt.Errorf("i2c: device not responding")}
	out := newTestOutput(bus)

	err := out.Write(context.Background(), 0, 100)
	require.ErrorIs(t, err, ports.ErrHardwareWrite)
	assert.Contains(t, err.Error(), "device not responding")
}

func TestMCP4725Write_HonorsContextDeadline(t *testing.T) {
	block := make(chan struct{})
	bus := &stubBus{block: block}
	t.Cleanup(func() { close(block) })
	out := newTestOutput(bus)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := out.Write(ctx, 0, 1000)
	require.ErrorIs(t, err, ports.ErrHardwareWrite)
	assert.Contains(t, err.Error(), context.DeadlineExceeded.Error())
	assert.Less(t, time.Since(start), time.Second)
}
