package account

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/checkout"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// OrderJSON is one order as served by the orders endpoints.
type OrderJSON struct {
	ID            uuid.UUID           `json:"id"`
	Amount        decimal.Decimal     `json:"amount"`
	Currency      string              `json:"currency"`
	TransactionID string              `json:"transaction_id"`
	Status        string              `json:"status"`
	CreatedAt     time.Time           `json:"created_at"`
	Items         []checkout.ItemJSON `json:"items"`
}

type CourseJSON struct {
	CourseID  string    `json:"course_id"`
	GrantedAt time.Time `json:"granted_at"`
}

type ErrorJSON struct {
	Error string `json:"error"`
}

func FromOrder(o domain.Order) OrderJSON {
	out := OrderJSON{
		ID:            o.ID,
		Amount:        o.Amount.Amount,
		Currency:      o.Amount.Currency.String(),
		TransactionID: o.TransactionID,
		Status:        o.Status,
		CreatedAt:     o.CreatedAt,
		Items:         make([]checkout.ItemJSON, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		out.Items = append(out.Items, checkout.ItemJSON(it))
	}
	return out
}

func (o OrderJSON) Order(ownerID string) (domain.Order, error) {
	unit, err := currency.ParseISO(o.Currency)
	if err != nil {
		return domain.Order{}, fmt.Errorf("currency[%s] is not valid: %w", o.Currency, err)
	}

	items := make([]domain.LineItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, domain.LineItem(it))
	}

	return domain.Order{
		ID:            o.ID,
		OwnerID:       ownerID,
		Items:         items,
		Amount:        domain.NewMoney(o.Amount, unit),
		TransactionID: o.TransactionID,
		Status:        o.Status,
		CreatedAt:     o.CreatedAt,
	}, nil
}

func FromCourses(courses []domain.CourseAccess) []CourseJSON {
	out := make([]CourseJSON, 0, len(courses))
	for _, c := range courses {
		out = append(out, CourseJSON(c))
	}
	return out
}
