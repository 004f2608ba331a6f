package checkout

import (
	"encoding/json"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// Request is the JSON body of POST /api/checkout.
type Request struct {
	Amount      decimal.Decimal `json:"amount"`
	CardDetails CardJSON        `json:"card_details"`
	Items       []ItemJSON      `json:"items"`
}

type CardJSON struct {
	Number   string `json:"number"`
	Name     string `json:"name"`
	ExpMonth string `json:"exp_month"`
	ExpYear  string `json:"exp_year"`
	CVV      string `json:"cvv"`
}

type ItemJSON struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Response is the JSON body returned by the checkout endpoint.
type Response struct {
	Success bool   `json:"success"`
	OrderID string `json:"order_id,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// MarshalJSON writes amount and prices as JSON numbers.
func (r Request) MarshalJSON() ([]byte, error) {
	type item struct {
		ID       string      `json:"id"`
		Type     string      `json:"type"`
		Name     string      `json:"name"`
		Price    json.Number `json:"price"`
		Quantity int         `json:"quantity"`
	}

	items := make([]item, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, item{ID: it.ID, Type: it.Type, Name: it.Name, Price: json.Number(it.Price.String()), Quantity: it.Quantity})
	}

	return json.Marshal(struct {
		Amount      json.Number `json:"amount"`
		CardDetails CardJSON    `json:"card_details"`
		Items       []item      `json:"items"`
	}{
		Amount:      json.Number(r.Amount.String()),
		CardDetails: r.CardDetails,
		Items:       items,
	})
}

func NewRequest(items []domain.LineItem, total decimal.Decimal, card domain.CardDetails) Request {
	req := Request{
		Amount:      total,
		CardDetails: CardJSON(card),
		Items:       make([]ItemJSON, 0, len(items)),
	}
	for _, it := range items {
		req.Items = append(req.Items, ItemJSON(it))
	}
	return req
}

func (r Request) Card() domain.CardDetails {
	return domain.CardDetails(r.CardDetails)
}

func (r Request) LineItems() []domain.LineItem {
	items := make([]domain.LineItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, domain.LineItem(it))
	}
	return items
}
