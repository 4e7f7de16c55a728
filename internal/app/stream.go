package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"macdStreamBot/internal/domain"
	"macdStreamBot/internal/ports"
	"macdStreamBot/internal/strategy"
	"macdStreamBot/internal/strategy/indicators"
	"macdStreamBot/internal/utils"
)

// State of the streaming loop.
type State string

const (
	StateWaitingForData State = "WAITING_FOR_DATA"
	StateWarmedUp       State = "WARMED_UP"
	StateRunning        State = "RUNNING"
	StateStopped        State = "STOPPED"
)

// Analog output channel assignment, matching the converters at 0x60/0x61.
const (
	ChannelSignalLine = 0
	ChannelMACDLine   = 1
)

// hardwareWriteTimeout bounds each analog write so a wedged bus cannot stall
// the loop.
const hardwareWriteTimeout = time.Second

// StreamConfig configures a StreamService run.
type StreamConfig struct {
	Symbol   string
	Interval time.Duration
	Lookback time.Duration
	// MaxConsecutiveFailures is the number of consecutive transient fetch
	// failures tolerated before the loop stops. Zero means the default of 3.
	MaxConsecutiveFailures int

	Logger     ports.Logger
	Source     ports.MarketDataSource
	MACD       *indicators.MACD
	Classifier *strategy.Classifier
	Output     ports.AnalogOutput // optional; nil disables forwarding
	Out        io.Writer          // destination for the per-tick record
	TickLog    *utils.TickWriter  // optional CSV tick log
}

// StreamService runs the streaming loop: fetch, compute, classify, emit.
// Ticks run strictly sequentially; the interval timer is re-armed only after
// a tick completes, so a slow data source naturally applies backpressure.
type StreamService struct {
	cfg StreamConfig

	state               State
	consecutiveFailures int
}

// NewStreamService creates a streaming service instance.
func NewStreamService(cfg StreamConfig) (*StreamService, error) {
	if cfg.Logger == nil || cfg.Source == nil || cfg.MACD == nil || cfg.Classifier == nil || cfg.Out == nil {
		return nil, fmt.Errorf("missing required dependencies for StreamService")
	}
	if cfg.Symbol == "" {
		return nil, fmt.Errorf("symbol must not be empty")
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("interval must be positive")
	}
	if cfg.Lookback <= 0 {
		return nil, fmt.Errorf("lookback must be positive")
	}
	if cfg.MaxConsecutiveFailures <= 0 {
		cfg.MaxConsecutiveFailures = 3
	}
	return &StreamService{cfg: cfg, state: StateWaitingForData}, nil
}

// State returns the loop's current state.
func (s *StreamService) State() State { return s.state }

// Run executes the streaming loop until the context is cancelled (clean
// stop, returns nil) or the data source fails unrecoverably. Cancellation is
// honored at tick boundaries, never mid-computation.
func (s *StreamService) Run(ctx context.Context) error {
	s.cfg.Logger.Info(ctx, "Starting stream", map[string]interface{}{
		"symbol":   s.cfg.Symbol,
		"interval": s.cfg.Interval.String(),
		"lookback": s.cfg.Lookback.String(),
	})

	timer := time.NewTimer(s.cfg.Interval)
	defer timer.Stop()

	for {
		if err := s.tick(ctx); err != nil {
			s.transition(ctx, StateStopped)
			return err
		}

		// A tick that outlasted the interval leaves a stale fire in the
		// channel; drain it so Reset arms a full interval.
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(s.cfg.Interval)
		select {
		case <-ctx.Done():
			s.transition(ctx, StateStopped)
			s.cfg.Logger.Info(ctx, "Stream stopped", map[string]interface{}{"symbol": s.cfg.Symbol})
			return nil
		case <-timer.C:
		}
	}
}

// tick performs one fetch/compute/classify/emit cycle. A non-nil error means
// the loop must stop; transient conditions are absorbed here.
func (s *StreamService) tick(ctx context.Context) error {
	series, err := s.cfg.Source.FetchPrices(ctx, s.cfg.Symbol, s.cfg.Lookback)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, ports.ErrContextCanceled) {
			// The boundary select reports the clean stop.
			return nil
		}
		s.consecutiveFailures++
		s.cfg.Logger.Warn(ctx, "Tick skipped: market data fetch failed", map[string]interface{}{
			"symbol":              s.cfg.Symbol,
			"error":               err.Error(),
			"consecutiveFailures": s.consecutiveFailures,
		})
		if s.consecutiveFailures >= s.cfg.MaxConsecutiveFailures {
			stopErr := fmt.Errorf("%w: %d consecutive fetch failures, last: %v",
				ports.ErrUnrecoverableData, s.consecutiveFailures, err)
			s.cfg.Logger.Error(ctx, stopErr, "Stopping stream")
			return stopErr
		}
		return nil
	}
	s.consecutiveFailures = 0

	result, err := s.cfg.MACD.Compute(series)
	if err != nil {
		if errors.Is(err, ports.ErrInsufficientData) {
			s.transition(ctx, StateWaitingForData)
			s.cfg.Logger.Info(ctx, "Waiting for data", map[string]interface{}{
				"symbol": s.cfg.Symbol,
				"have":   len(series),
				"need":   s.cfg.MACD.MinDataPoints(),
			})
			return nil
		}
		// Anything else is an invariant violation inside the calculator.
		return err
	}

	if s.state != StateRunning {
		s.transition(ctx, StateWarmedUp)
		s.transition(ctx, StateRunning)
	}

	signal := s.cfg.Classifier.Classify(result)
	last, _ := series.Last()
	s.emit(ctx, last.Price, result, signal)
	s.forward(ctx, result)
	return nil
}

// emit writes the formatted per-tick record and the optional CSV row.
func (s *StreamService) emit(ctx context.Context, price float64, result domain.MACDResult, signal domain.Signal) {
	fmt.Fprintf(s.cfg.Out, "%s | %s | Price: $%.2f | MACD: %.4f | Signal: %.4f | Histogram: %.4f | %s\n",
		result.Timestamp.Format("2006-01-02 15:04:05"),
		s.cfg.Symbol, price, result.MACDLine, result.SignalLine, result.Histogram, signal)

	if s.cfg.TickLog != nil {
		if err := s.cfg.TickLog.Append(s.cfg.Symbol, price, result, signal); err != nil {
			s.cfg.Logger.Warn(ctx, "Failed to append tick log row", map[string]interface{}{"error": err.Error()})
		}
	}
}

// forward mirrors the signal and MACD lines to the analog output. Failures
// are logged and swallowed; the hardware path never stops the loop.
func (s *StreamService) forward(ctx context.Context, result domain.MACDResult) {
	if s.cfg.Output == nil {
		return
	}
	writeCtx, cancel := context.WithTimeout(ctx, hardwareWriteTimeout)
	defer cancel()

	if err := s.cfg.Output.Write(writeCtx, ChannelSignalLine, result.SignalLine); err != nil {
		s.cfg.Logger.Warn(ctx, "Analog output write failed", map[string]interface{}{
			"channel": ChannelSignalLine, "error": err.Error(),
		})
	}
	if err := s.cfg.Output.Write(writeCtx, ChannelMACDLine, result.MACDLine); err != nil {
		s.cfg.Logger.Warn(ctx, "Analog output write failed", map[string]interface{}{
			"channel": ChannelMACDLine, "error": err.Error(),
		})
	}
}

func (s *StreamService) transition(ctx context.Context, next State) {
	if s.state == next {
		return
	}
	s.cfg.Logger.Debug(ctx, "Stream state changed", map[string]interface{}{
		"from": string(s.state),
		"to":   string(next),
	})
	s.state = next
}
