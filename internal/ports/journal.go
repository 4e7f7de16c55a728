package ports

import (
	"context"
	"time"

	"macdStreamBot/internal/domain"
)

// OrderRecord is a journal entry for one order submission attempt.
type OrderRecord struct {
	ID            int64
	SubmittedAt   time.Time
	Symbol        string
	Side          domain.OrderSide
	Quantity      int64
	LimitPrice    *float64 // nil for market orders
	OrderType     string   // "market" or "limit"
	Status        string   // submitted, then the brokerage status or "rejected"
	BrokerOrderID string
	Error         string // verbatim rejection message, empty on success
}

// OrderJournal persists order submissions and their outcomes.
// Only the one-shot trading path writes to it; streaming never does.
type OrderJournal interface {
	// Record saves a new journal entry and returns its assigned ID.
	Record(ctx context.Context, rec *OrderRecord) (int64, error)
	// UpdateOutcome stores the brokerage's response for an existing entry.
	UpdateOutcome(ctx context.Context, id int64, status, brokerOrderID, errMsg string) error
	// FindBySymbol retrieves the most recent entries for a symbol, up to limit.
	FindBySymbol(ctx context.Context, symbol string, limit int) ([]*OrderRecord, error)
}
