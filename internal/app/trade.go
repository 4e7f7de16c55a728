package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"macdStreamBot/internal/domain"
	"macdStreamBot/internal/orders"
	"macdStreamBot/internal/ports"
)

// TradeService handles the one-shot order and account actions. It is
// independent of the streaming loop; a run either streams or performs a
// single brokerage action, never both.
type TradeService struct {
	logger  ports.Logger
	broker  ports.BrokerClient
	journal ports.OrderJournal // optional
	out     io.Writer
}

// NewTradeService creates a one-shot trade service. The journal is optional;
// everything else is required.
func NewTradeService(logger ports.Logger, broker ports.BrokerClient, journal ports.OrderJournal, out io.Writer) (*TradeService, error) {
	if logger == nil || broker == nil || out == nil {
		return nil, fmt.Errorf("missing required dependencies for TradeService")
	}
	return &TradeService{logger: logger, broker: broker, journal: journal, out: out}, nil
}

// SubmitOrder validates the parameters, submits the order and records the
// outcome in the journal. Validation failures return before any network
// call; brokerage rejections are surfaced verbatim.
func (t *TradeService) SubmitOrder(ctx context.Context, symbol string, side domain.OrderSide, quantity int64, limitPrice *float64) error {
	intent, err := orders.Build(symbol, string(side), quantity, limitPrice)
	if err != nil {
		t.logger.Error(ctx, err, "Order validation failed", map[string]interface{}{"symbol": symbol, "side": side})
		return err
	}

	orderType := "market"
	if !intent.IsMarket() {
		orderType = "limit"
	}

	// Journal failures must not block trading; log and carry on.
	var recordID int64
	if t.journal != nil {
		recordID, err = t.journal.Record(ctx, &ports.OrderRecord{
			SubmittedAt: time.Now().UTC(),
			Symbol:      intent.Symbol,
			Side:        intent.Side,
			Quantity:    intent.Quantity,
			LimitPrice:  intent.LimitPrice,
			OrderType:   orderType,
			Status:      "submitted",
		})
		if err != nil {
			t.logger.Warn(ctx, "Failed to journal order submission", map[string]interface{}{"error": err.Error()})
			recordID = 0
		}
	}

	conf, err := t.broker.SubmitOrder(ctx, intent)
	if err != nil {
		t.updateJournal(ctx, recordID, "rejected", "", err.Error())
		return err
	}
	t.updateJournal(ctx, recordID, conf.Status, conf.BrokerOrderID, "")

	if intent.IsMarket() {
		fmt.Fprintf(t.out, "Market %s order submitted for %d shares of %s (order %s, status %s)\n",
			intent.Side, intent.Quantity, intent.Symbol, conf.BrokerOrderID, conf.Status)
	} else {
		fmt.Fprintf(t.out, "Limit %s order submitted for %d shares of %s at $%.2f (order %s, status %s)\n",
			intent.Side, intent.Quantity, intent.Symbol, *intent.LimitPrice, conf.BrokerOrderID, conf.Status)
	}
	return nil
}

// ShowAccount prints a snapshot of the brokerage account.
func (t *TradeService) ShowAccount(ctx context.Context) error {
	account, err := t.broker.GetAccount(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(t.out, "Account Status: %s\n", account.Status)
	fmt.Fprintf(t.out, "Buying Power: $%.2f\n", account.BuyingPower)
	fmt.Fprintf(t.out, "Cash: $%.2f\n", account.Cash)
	fmt.Fprintf(t.out, "Portfolio Value: $%.2f\n", account.PortfolioValue)
	return nil
}

func (t *TradeService) updateJournal(ctx context.Context, recordID int64, status, brokerOrderID, errMsg string) {
	if t.journal == nil || recordID == 0 {
		return
	}
	if err := t.journal.UpdateOutcome(ctx, recordID, status, brokerOrderID, errMsg); err != nil {
		t.logger.Warn(ctx, "Failed to journal order outcome", map[string]interface{}{
			"orderRecordID": recordID,
			"error":         err.Error(),
		})
	}
}
