package ports

import "errors"

// Standard application-level errors.
// Adapters should wrap underlying infrastructure errors with these standard errors.
var (
	// General Errors
	ErrUnknown         = errors.New("unknown error occurred")
	ErrInvalidRequest  = errors.New("invalid request parameters or format")
	ErrTimeout         = errors.New("operation timed out")
	ErrContextCanceled = errors.New("operation canceled via context")

	// Indicator Errors
	ErrInsufficientData = errors.New("not enough samples for the requested computation")
	ErrNotWarmedUp      = errors.New("indicator updated before warm-up completed")

	// Market Data Errors
	ErrTransientData     = errors.New("transient market data failure")
	ErrUnrecoverableData = errors.New("market data source failed repeatedly")

	// Brokerage Errors
	ErrConnectionFailed     = errors.New("failed to connect to the brokerage API")
	ErrRateLimited          = errors.New("API rate limit exceeded")
	ErrAuthenticationFailed = errors.New("brokerage authentication failed (check API keys)")
	ErrOrderRejected        = errors.New("brokerage rejected the order")

	// Hardware Errors
	ErrHardwareWrite = errors.New("analog output write failed")

	// Database Specific Errors
	ErrDBConnection = errors.New("database connection error")
	ErrQueryFailed  = errors.New("database query failed")
	ErrUpdateFailed = errors.New("database update failed")
)
