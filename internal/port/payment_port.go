package port

import (
	"context"

	"github.com/nikolayk812/storefront/internal/domain"
)

type PaymentGateway interface {
	Charge(ctx context.Context, amount domain.Money, card domain.CardDetails, customerID string) (transactionID string, err error)
	Refund(ctx context.Context, transactionID string, amount *domain.Money) (refundID string, err error)
}

// Answerer produces a support reply for a customer question.
type Answerer interface {
	Answer(ctx context.Context, question string) string
}
