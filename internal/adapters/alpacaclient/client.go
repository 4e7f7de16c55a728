package alpacaclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"

	"macdStreamBot/internal/domain"
	"macdStreamBot/internal/ports"
)

const (
	// Base URLs for the trading API. Market data always goes through the
	// SDK's default data endpoint.
	baseURLPaper = "https://paper-api.alpaca.markets"
	baseURLLive  = "https://api.alpaca.markets"
)

// Client implements ports.MarketDataSource and ports.BrokerClient using the
// official Alpaca SDK.
type Client struct {
	trading       *alpaca.Client
	data          *marketdata.Client
	logger        ports.Logger
	maxRetries    uint64
	retryInterval time.Duration
}

// Config holds configuration specific to the Alpaca client adapter.
type Config struct {
	APIKey        string
	SecretKey     string
	UsePaper      bool          // Paper trading endpoint (default behavior of callers)
	Logger        ports.Logger
	MaxRetries    uint64        // Retries per FetchPrices call on transient failures
	RetryInterval time.Duration // Initial backoff interval between retries
}

// New creates a new Alpaca client adapter.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Alpaca client")
	}
	if cfg.APIKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("%w: Alpaca API key and secret key are required", ports.ErrAuthenticationFailed)
	}

	baseURL := baseURLLive
	if cfg.UsePaper {
		baseURL = baseURLPaper
	}
	cfg.Logger.Info(context.Background(), "Alpaca client configured", map[string]interface{}{"baseURL": baseURL})

	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 2
	}
	retryInterval := cfg.RetryInterval
	if retryInterval <= 0 {
		retryInterval = 500 * time.Millisecond
	}

	return &Client{
		trading: alpaca.NewClient(alpaca.ClientOpts{
			APIKey:    cfg.APIKey,
			APISecret: cfg.SecretKey,
			BaseURL:   baseURL,
		}),
		data: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    cfg.APIKey,
			APISecret: cfg.SecretKey,
		}),
		logger:        cfg.Logger,
		maxRetries:    maxRetries,
		retryInterval: retryInterval,
	}, nil
}

// classifyError translates Alpaca API errors into standardized ports errors.
func (c *Client) classifyError(ctx context.Context, err error, operation string) error {
	if err == nil {
		return nil
	}

	fields := map[string]interface{}{"operation": operation, "originalError": err.Error()}

	var apiErr *alpaca.APIError
	if errors.As(err, &apiErr) {
		fields["statusCode"] = apiErr.StatusCode
		var mappedErr error
		switch {
		case apiErr.StatusCode == http.StatusTooManyRequests:
			mappedErr = ports.ErrRateLimited
		case apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden:
			mappedErr = ports.ErrAuthenticationFailed
		case apiErr.StatusCode == http.StatusUnprocessableEntity:
			mappedErr = ports.ErrInvalidRequest
		case apiErr.StatusCode >= 500:
			mappedErr = ports.ErrConnectionFailed
		default:
			mappedErr = ports.ErrUnknown
		}
		finalErr := fmt.Errorf("%s failed: %w: %w", operation, mappedErr, err)
		c.logger.Error(ctx, err, fmt.Sprintf("%s failed with API error", operation), fields)
		return finalErr
	}

	var finalErr error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		finalErr = fmt.Errorf("%s canceled: %w: %w", operation, ports.ErrContextCanceled, err)
	case strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "connection reset by peer") ||
		strings.Contains(err.Error(), "no such host"):
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrConnectionFailed, err)
	default:
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrUnknown, err)
	}

	c.logger.Error(ctx, err, fmt.Sprintf("%s failed", operation), fields)
	return finalErr
}

// FetchPrices implements ports.MarketDataSource using 1-minute bars over the
// lookback window ending now. Transient failures are retried with
// exponential backoff before the call reports ErrTransientData.
func (c *Client) FetchPrices(ctx context.Context, symbol string, lookback time.Duration) (domain.PriceSeries, error) {
	op := "FetchPrices"
	end := time.Now().UTC()
	start := end.Add(-lookback)

	req := marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneMin,
		Start:     start,
		End:       end,
	}

	var bars []marketdata.Bar
	fetch := func() error {
		var err error
		bars, err = c.data.GetBars(symbol, req)
		if err == nil {
			return nil
		}
		// Auth and request-shape failures won't heal on retry.
		classified := c.classifyError(ctx, err, op)
		if errors.Is(classified, ports.ErrAuthenticationFailed) || errors.Is(classified, ports.ErrInvalidRequest) {
			return backoff.Permanent(classified)
		}
		return classified
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(backoff.WithInitialInterval(c.retryInterval)), c.maxRetries),
		ctx,
	)
	if err := backoff.Retry(fetch, policy); err != nil {
		if errors.Is(err, ports.ErrAuthenticationFailed) || errors.Is(err, ports.ErrInvalidRequest) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ports.ErrTransientData, err)
	}

	series := make(domain.PriceSeries, 0, len(bars))
	for _, bar := range bars {
		series = append(series, domain.PriceSample{
			Timestamp: bar.Timestamp,
			Symbol:    symbol,
			Price:     bar.Close,
		})
	}
	c.logger.Debug(ctx, op+" successful", map[string]interface{}{"symbol": symbol, "bars": len(series)})
	return series, nil
}

// classifyOrderError separates the brokerage declining an order from
// transport or credential problems. Alpaca reports declines (insufficient
// buying power, bad parameters) as client-side API errors; those surface as
// ErrOrderRejected carrying the verbatim message. Everything else keeps its
// usual classification.
func (c *Client) classifyOrderError(ctx context.Context, err error) error {
	var apiErr *alpaca.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusBadRequest, http.StatusForbidden, http.StatusUnprocessableEntity:
			c.logger.Error(ctx, err, "SubmitOrder rejected by brokerage", map[string]interface{}{"statusCode": apiErr.StatusCode})
			return fmt.Errorf("%w: %v", ports.ErrOrderRejected, err)
		}
	}
	return c.classifyError(ctx, err, "SubmitOrder")
}

// SubmitOrder implements ports.BrokerClient. Market orders are submitted
// day-only, limit orders good-till-canceled.
func (c *Client) SubmitOrder(ctx context.Context, intent domain.OrderIntent) (*domain.OrderConfirmation, error) {
	op := "SubmitOrder"

	qty := decimal.NewFromInt(intent.Quantity)
	req := alpaca.PlaceOrderRequest{
		Symbol:      intent.Symbol,
		Qty:         &qty,
		Side:        alpaca.Side(intent.Side),
		Type:        alpaca.Market,
		TimeInForce: alpaca.Day,
	}
	if intent.LimitPrice != nil {
		limitPrice := decimal.NewFromFloat(*intent.LimitPrice)
		req.Type = alpaca.Limit
		req.LimitPrice = &limitPrice
		req.TimeInForce = alpaca.GTC
	}

	order, err := c.trading.PlaceOrder(req)
	if err != nil {
		return nil, c.classifyOrderError(ctx, err)
	}

	conf := &domain.OrderConfirmation{
		BrokerOrderID: order.ID,
		Symbol:        order.Symbol,
		Side:          domain.OrderSide(order.Side),
		Quantity:      intent.Quantity,
		Type:          string(order.Type),
		Status:        order.Status,
		LimitPrice:    intent.LimitPrice,
		SubmittedAt:   order.SubmittedAt,
	}
	c.logger.Info(ctx, op+" successful", map[string]interface{}{
		"symbol":  conf.Symbol,
		"side":    conf.Side,
		"qty":     conf.Quantity,
		"type":    conf.Type,
		"status":  conf.Status,
		"orderID": conf.BrokerOrderID,
	})
	return conf, nil
}

// GetAccount implements ports.BrokerClient.
func (c *Client) GetAccount(ctx context.Context) (*domain.AccountSnapshot, error) {
	op := "GetAccount"
	account, err := c.trading.GetAccount()
	if err != nil {
		return nil, c.classifyError(ctx, err, op)
	}
	return &domain.AccountSnapshot{
		Status:         account.Status,
		BuyingPower:    account.BuyingPower.InexactFloat64(),
		Cash:           account.Cash.InexactFloat64(),
		PortfolioValue: account.PortfolioValue.InexactFloat64(),
	}, nil
}
