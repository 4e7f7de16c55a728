package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"macdStreamBot/config"
	"macdStreamBot/internal/adapters/alpacaclient"
	"macdStreamBot/internal/adapters/logger"
	"macdStreamBot/internal/utils"
)

// fetch_bars pulls a window of minute bars for the configured symbol and
// writes it to a CSV file under data/, for offline inspection of the
// indicator inputs.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	appLogger := logger.NewStdLogger(cfg.LogLevel)
	ctx := context.Background()

	client, err := alpacaclient.New(alpacaclient.Config{
		APIKey:        cfg.APIKey,
		SecretKey:     cfg.SecretKey,
		UsePaper:      cfg.UsePaper,
		Logger:        appLogger,
		MaxRetries:    uint64(cfg.MaxFetchRetries),
		RetryInterval: time.Second,
	})
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize Alpaca client")
		log.Fatalf("FATAL: Failed to initialize Alpaca client: %v", err)
	}
	appLogger.Info(ctx, "Alpaca client initialized")

	end := time.Now()
	start := end.Add(-cfg.Lookback)

	fmt.Printf("Fetching bars for %s from %s to %s...\n", cfg.Symbol, start.Format(time.RFC3339), end.Format(time.RFC3339))
	series, err := client.FetchPrices(ctx, cfg.Symbol, cfg.Lookback)
	if err != nil {
		appLogger.Error(ctx, err, "Error fetching bars")
		log.Fatalf("Error fetching bars: %v", err)
	}
	appLogger.Info(ctx, "Fetched bars", map[string]interface{}{"count": len(series)})

	filename := fmt.Sprintf("data/%s_1m_%s_to_%s.csv", cfg.Symbol, start.Format("20060102T1504"), end.Format("20060102T1504"))
	if err := utils.WriteSamplesToCSV(series, filename); err != nil {
		appLogger.Error(ctx, err, "Error writing CSV")
		log.Fatalf("Error writing CSV: %v", err)
	}
	appLogger.Info(ctx, "Saved to", map[string]interface{}{"filename": filename})
}
