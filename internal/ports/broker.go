package ports

import (
	"context"

	"macdStreamBot/internal/domain"
)

// BrokerClient defines the interface for interacting with a brokerage.
// Submission hands the order off entirely; the brokerage owns its lifecycle.
type BrokerClient interface {
	// SubmitOrder submits a validated order intent.
	// Rejections are reported wrapped in ErrOrderRejected with the
	// brokerage's verbatim message.
	SubmitOrder(ctx context.Context, intent domain.OrderIntent) (*domain.OrderConfirmation, error)

	// GetAccount retrieves a snapshot of the brokerage account.
	GetAccount(ctx context.Context) (*domain.AccountSnapshot, error)
}
