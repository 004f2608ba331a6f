// Package payment is a stand-in payment gateway. It validates card details
// and approves every valid charge.
package payment

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nikolayk812/storefront/internal/domain"
	"go.uber.org/zap"
)

var ErrInvalidCard = errors.New("Invalid card details")

type Processor struct {
	now func() time.Time
	log *zap.Logger
}

type Option func(*Processor)

func WithClock(now func() time.Time) Option {
	return func(p *Processor) {
		if now != nil {
			p.now = now
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(p *Processor) {
		if log != nil {
			p.log = log
		}
	}
}

func NewProcessor(opts ...Option) *Processor {
	p := &Processor{
		now: time.Now,
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Processor) Charge(ctx context.Context, amount domain.Money, card domain.CardDetails, customerID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := p.ValidateCard(card); err != nil {
		return "", err
	}
	if amount.Amount.IsNegative() {
		return "", fmt.Errorf("amount[%s] is negative", amount.Amount)
	}

	txnID, err := randomID("txn_")
	if err != nil {
		return "", fmt.Errorf("payment processing error: %w", err)
	}

	p.log.Info("payment charged",
		zap.String("transaction_id", txnID),
		zap.String("customer_id", customerID),
		zap.Stringer("amount", amount),
		zap.Int64("amount_minor", amount.Minor()))

	return txnID, nil
}

// Refund returns a refund id. A nil amount refunds the whole charge.
func (p *Processor) Refund(ctx context.Context, transactionID string, amount *domain.Money) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !strings.HasPrefix(transactionID, "txn_") {
		return "", fmt.Errorf("transaction[%s] is not valid", transactionID)
	}

	refundID, err := randomID("ref_")
	if err != nil {
		return "", fmt.Errorf("refund processing error: %w", err)
	}

	fields := []zap.Field{zap.String("transaction_id", transactionID), zap.String("refund_id", refundID)}
	if amount != nil {
		fields = append(fields, zap.Stringer("amount", *amount))
	}
	p.log.Info("payment refunded", fields...)

	return refundID, nil
}

// ValidateCard checks shape and expiry only: 15 or 16 digit number, a name,
// a numeric month and two-digit year not in the past, a 3 or 4 character CVV.
func (p *Processor) ValidateCard(card domain.CardDetails) error {
	number := strings.ReplaceAll(card.Number, " ", "")
	if len(number) != 15 && len(number) != 16 {
		return ErrInvalidCard
	}
	if card.Name == "" {
		return ErrInvalidCard
	}
	if card.ExpMonth == "" || card.ExpYear == "" {
		return ErrInvalidCard
	}
	if len(card.CVV) != 3 && len(card.CVV) != 4 {
		return ErrInvalidCard
	}

	month, err := strconv.Atoi(card.ExpMonth)
	if err != nil {
		return ErrInvalidCard
	}
	year, err := strconv.Atoi(card.ExpYear)
	if err != nil {
		return ErrInvalidCard
	}

	now := p.now()
	currentYear := now.Year() % 100
	currentMonth := int(now.Month())

	if year < currentYear || (year == currentYear && month < currentMonth) {
		return ErrInvalidCard
	}

	return nil
}

func randomID(prefix string) (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return prefix + hex.EncodeToString(b), nil
}
