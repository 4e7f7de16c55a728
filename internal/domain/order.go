package domain

import "time"

// OrderSide represents the side of an order (buy or sell).
type OrderSide string

const (
	Buy  OrderSide = "buy"
	Sell OrderSide = "sell"
)

// OrderIntent is a validated order request, ready for submission.
// The brokerage owns the order lifecycle after submission.
type OrderIntent struct {
	Symbol     string
	Side       OrderSide
	Quantity   int64    // Number of shares, positive
	LimitPrice *float64 // nil means market order
}

// IsMarket reports whether the intent describes a market order.
func (o OrderIntent) IsMarket() bool { return o.LimitPrice == nil }

// OrderConfirmation captures the essential details the brokerage returns
// after accepting an order.
type OrderConfirmation struct {
	BrokerOrderID string
	Symbol        string
	Side          OrderSide
	Quantity      int64
	Type          string // "market" or "limit"
	Status        string // Brokerage order status (e.g. new, accepted, filled)
	LimitPrice    *float64
	SubmittedAt   time.Time
}

// AccountSnapshot is a point-in-time view of the brokerage account.
type AccountSnapshot struct {
	Status         string
	BuyingPower    float64
	Cash           float64
	PortfolioValue float64
}
