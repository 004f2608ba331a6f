package domain

import (
	"github.com/shopspring/decimal"
)

// ItemKey identifies a line item. A cart holds at most one LineItem per key.
type ItemKey struct {
	ID   string
	Type string
}

type LineItem struct {
	ID       string
	Type     string
	Name     string
	Price    decimal.Decimal
	Quantity int
}

func (i LineItem) Key() ItemKey {
	return ItemKey{ID: i.ID, Type: i.Type}
}

// Subtotal is price times quantity.
func (i LineItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
