package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"macdStreamBot/config"
	"macdStreamBot/internal/adapters/alpacaclient"
	"macdStreamBot/internal/adapters/dac"
	"macdStreamBot/internal/adapters/logger"
	"macdStreamBot/internal/adapters/sqlite"
	"macdStreamBot/internal/app"
	"macdStreamBot/internal/domain"
	"macdStreamBot/internal/ports"
	"macdStreamBot/internal/strategy"
	"macdStreamBot/internal/strategy/indicators"
	"macdStreamBot/internal/utils"
)

type cliFlags struct {
	symbol      string
	intervalSec int
	lookbackMin int
	action      string
	qty         int64
	price       float64
	apiKey      string
	secretKey   string
	dbPath      string
	logLevel    string
	enableDAC   bool
	csvPath     string
}

func newRootCommand(flags *cliFlags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "macd-stream-bot",
		Short: "Stream stock prices, compute MACD signals and submit brokerage orders",
		Long: `macd-stream-bot polls Alpaca market data on a fixed interval, computes the
MACD indicator over the recent price window and prints a classified trading
signal per tick. It can mirror the indicator onto an analog output and submit
one-shot buy/sell orders.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags)
		},
	}

	rootCmd.Flags().StringVar(&flags.symbol, "symbol", "AAPL", "stock symbol to stream or trade")
	rootCmd.Flags().IntVar(&flags.intervalSec, "interval", 60, "seconds to wait between streaming ticks")
	rootCmd.Flags().IntVar(&flags.lookbackMin, "lookback", 60, "minutes of price history fetched per tick")
	rootCmd.Flags().StringVar(&flags.action, "action", "stream", "action to perform: stream, buy, sell or account")
	rootCmd.Flags().Int64Var(&flags.qty, "qty", 0, "number of shares, required for buy/sell actions")
	rootCmd.Flags().Float64Var(&flags.price, "price", 0, "limit price for buy/sell actions (omit for a market order)")
	rootCmd.Flags().StringVar(&flags.apiKey, "api-key", "", "Alpaca API key (overrides ALPACA_API_KEY)")
	rootCmd.Flags().StringVar(&flags.secretKey, "secret-key", "", "Alpaca secret key (overrides ALPACA_SECRET_KEY)")
	rootCmd.Flags().StringVar(&flags.dbPath, "db-path", "", "order journal database path (overrides DB_PATH)")
	rootCmd.Flags().StringVar(&flags.logLevel, "log-level", "", "log level: DEBUG, INFO, WARN or ERROR")
	rootCmd.Flags().BoolVar(&flags.enableDAC, "dac", false, "mirror MACD values onto the I2C DAC")
	rootCmd.Flags().StringVar(&flags.csvPath, "csv", "", "append per-tick records to this CSV file")

	return rootCmd
}

func main() {
	flags := &cliFlags{}
	if err := newRootCommand(flags).Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, flags *cliFlags) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	applyFlagOverrides(cmd, flags, cfg)

	appLogger := logger.NewStdLogger(cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := alpacaclient.New(alpacaclient.Config{
		APIKey:        cfg.APIKey,
		SecretKey:     cfg.SecretKey,
		UsePaper:      cfg.UsePaper,
		Logger:        appLogger,
		MaxRetries:    uint64(cfg.MaxFetchRetries),
		RetryInterval: time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize Alpaca client: %w", err)
	}
	appLogger.Info(ctx, "Alpaca client initialized", map[string]interface{}{"paper": cfg.UsePaper})

	switch flags.action {
	case "stream":
		return runStream(ctx, cfg, appLogger, client)
	case "buy", "sell":
		if !cmd.Flags().Changed("qty") {
			return fmt.Errorf("--qty is required for %s actions", flags.action)
		}
		side := domain.Buy
		if flags.action == "sell" {
			side = domain.Sell
		}
		return runTrade(ctx, cfg, appLogger, client, side, flags.qty, limitPriceFlag(cmd, flags))
	case "account":
		return runAccount(ctx, cfg, appLogger, client)
	default:
		return fmt.Errorf("unknown action %q: expected stream, buy, sell or account", flags.action)
	}
}

// applyFlagOverrides lets explicitly-set flags win over environment values.
func applyFlagOverrides(cmd *cobra.Command, flags *cliFlags, cfg *config.Config) {
	if cmd.Flags().Changed("symbol") {
		cfg.Symbol = flags.symbol
	}
	if cmd.Flags().Changed("interval") {
		cfg.Interval = time.Duration(flags.intervalSec) * time.Second
	}
	if cmd.Flags().Changed("lookback") {
		cfg.Lookback = time.Duration(flags.lookbackMin) * time.Minute
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = flags.apiKey
	}
	if cmd.Flags().Changed("secret-key") {
		cfg.SecretKey = flags.secretKey
	}
	if cmd.Flags().Changed("db-path") {
		cfg.DBPath = flags.dbPath
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logger.ParseLevel(flags.logLevel)
	}
	if cmd.Flags().Changed("dac") {
		cfg.EnableDAC = flags.enableDAC
	}
	if cmd.Flags().Changed("csv") {
		cfg.CSVPath = flags.csvPath
	}
}

// limitPriceFlag returns the user-supplied limit price, nil when the flag was
// not given. The value is handed through unvalidated so the order builder can
// reject a bad price alongside any other violations instead of it silently
// degrading to a market order.
func limitPriceFlag(cmd *cobra.Command, flags *cliFlags) *float64 {
	if !cmd.Flags().Changed("price") {
		return nil
	}
	return &flags.price
}

func runStream(ctx context.Context, cfg *config.Config, appLogger ports.Logger, client *alpacaclient.Client) error {
	macd, err := indicators.NewMACD(cfg.FastPeriod, cfg.SlowPeriod, cfg.SignalPeriod)
	if err != nil {
		return fmt.Errorf("failed to initialize MACD calculator: %w", err)
	}
	classifier := strategy.NewClassifier(cfg.SignalEpsilon)

	output := analogOutput(ctx, cfg, appLogger)
	if closer, ok := output.(interface{ Close() error }); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				appLogger.Warn(ctx, "Failed to close analog output", map[string]interface{}{"error": err.Error()})
			}
		}()
	}

	var tickLog *utils.TickWriter
	if cfg.CSVPath != "" {
		tickLog, err = utils.NewTickWriter(cfg.CSVPath)
		if err != nil {
			return fmt.Errorf("failed to open CSV tick log: %w", err)
		}
		defer func() {
			if err := tickLog.Close(); err != nil {
				appLogger.Warn(ctx, "Failed to close CSV tick log", map[string]interface{}{"error": err.Error()})
			}
		}()
	}

	svc, err := app.NewStreamService(app.StreamConfig{
		Symbol:                 cfg.Symbol,
		Interval:               cfg.Interval,
		Lookback:               cfg.Lookback,
		MaxConsecutiveFailures: cfg.MaxConsecutiveFailures,
		Logger:                 appLogger,
		Source:                 client,
		MACD:                   macd,
		Classifier:             classifier,
		Output:                 output,
		Out:                    os.Stdout,
		TickLog:                tickLog,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize streaming service: %w", err)
	}

	appLogger.Info(ctx, "Starting MACD stream", map[string]interface{}{
		"symbol":   cfg.Symbol,
		"interval": cfg.Interval.String(),
		"lookback": cfg.Lookback.String(),
	})
	return svc.Run(ctx)
}

// analogOutput returns the hardware DAC when enabled and reachable, falling
// back to the simulated output otherwise.
func analogOutput(ctx context.Context, cfg *config.Config, appLogger ports.Logger) ports.AnalogOutput {
	if !cfg.EnableDAC {
		return dac.NewSimulated(appLogger)
	}
	hw, err := dac.NewMCP4725(appLogger)
	if err != nil {
		appLogger.Warn(ctx, "DAC unavailable, falling back to simulated output", map[string]interface{}{"error": err.Error()})
		return dac.NewSimulated(appLogger)
	}
	appLogger.Info(ctx, "MCP4725 DAC initialized")
	return hw
}

func runTrade(ctx context.Context, cfg *config.Config, appLogger ports.Logger, client *alpacaclient.Client, side domain.OrderSide, qty int64, limitPrice *float64) error {
	journal, err := sqlite.NewJournal(sqlite.Config{DBPath: cfg.DBPath, Logger: appLogger})
	if err != nil {
		// Orders can still be placed when the journal is unavailable.
		appLogger.Warn(ctx, "Order journal unavailable", map[string]interface{}{"error": err.Error()})
		journal = nil
	} else {
		defer func() {
			if err := journal.Close(); err != nil {
				appLogger.Warn(ctx, "Failed to close order journal", map[string]interface{}{"error": err.Error()})
			}
		}()
	}

	var journalPort ports.OrderJournal
	if journal != nil {
		journalPort = journal
	}
	svc, err := app.NewTradeService(appLogger, client, journalPort, os.Stdout)
	if err != nil {
		return fmt.Errorf("failed to initialize trade service: %w", err)
	}

	return svc.SubmitOrder(ctx, cfg.Symbol, side, qty, limitPrice)
}

func runAccount(ctx context.Context, cfg *config.Config, appLogger ports.Logger, client *alpacaclient.Client) error {
	svc, err := app.NewTradeService(appLogger, client, nil, os.Stdout)
	if err != nil {
		return fmt.Errorf("failed to initialize trade service: %w", err)
	}
	return svc.ShowAccount(ctx)
}
