package orders

import (
	"fmt"
	"strings"

	"macdStreamBot/internal/domain"
)

// ValidationError reports every violated rule at once so the caller can
// surface all problems in a single pass.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "invalid order request: " + strings.Join(e.Violations, "; ")
}

// Build validates the raw order parameters and constructs an OrderIntent.
// A nil limitPrice means a market order. On failure it returns a
// *ValidationError listing all violations, not just the first.
func Build(symbol, side string, quantity int64, limitPrice *float64) (domain.OrderIntent, error) {
	var violations []string

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		violations = append(violations, "symbol must not be empty")
	}

	orderSide := domain.OrderSide(strings.ToLower(strings.TrimSpace(side)))
	if orderSide != domain.Buy && orderSide != domain.Sell {
		violations = append(violations, fmt.Sprintf("side must be %q or %q, got %q", domain.Buy, domain.Sell, side))
	}

	if quantity <= 0 {
		violations = append(violations, fmt.Sprintf("quantity must be a positive integer, got %d", quantity))
	}

	if limitPrice != nil && *limitPrice <= 0 {
		violations = append(violations, fmt.Sprintf("limit price must be positive, got %.4f", *limitPrice))
	}

	if len(violations) > 0 {
		return domain.OrderIntent{}, &ValidationError{Violations: violations}
	}

	return domain.OrderIntent{
		Symbol:     symbol,
		Side:       orderSide,
		Quantity:   quantity,
		LimitPrice: limitPrice,
	}, nil
}
