package cart

import (
	"encoding/json"
	"fmt"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// lineItemJSON is the persisted shape of a line item. Price is written as a
// JSON number; decimal.Decimal also accepts quoted numbers on read.
type lineItemJSON struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Name     string          `json:"name"`
	Price    json.RawMessage `json:"price"`
	Quantity int             `json:"quantity"`
}

// Marshal encodes items into the persisted mirror format.
func Marshal(items []domain.LineItem) ([]byte, error) {
	out := make([]lineItemJSON, 0, len(items))

	for _, item := range items {
		out = append(out, lineItemJSON{
			ID:       item.ID,
			Type:     item.Type,
			Name:     item.Name,
			Price:    json.RawMessage(item.Price.String()),
			Quantity: item.Quantity,
		})
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return data, nil
}

// Unmarshal decodes the persisted mirror format. Only a value that is not a
// JSON array is an error. Entries that do not decode, lack id or type, have a
// quantity that is not a whole number of at least 1, have a negative or
// unparseable price, or repeat an earlier identity key are dropped.
func Unmarshal(data []byte) ([]domain.LineItem, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	items := make([]domain.LineItem, 0, len(entries))
	seen := make(map[domain.ItemKey]struct{}, len(entries))

	for _, entry := range entries {
		item, ok := decodeEntry(entry)
		if !ok {
			continue
		}

		if _, dup := seen[item.Key()]; dup {
			continue
		}
		seen[item.Key()] = struct{}{}

		items = append(items, item)
	}

	return items, nil
}

func decodeEntry(entry json.RawMessage) (domain.LineItem, bool) {
	var r struct {
		ID       string          `json:"id"`
		Type     string          `json:"type"`
		Name     string          `json:"name"`
		Price    json.RawMessage `json:"price"`
		Quantity json.Number     `json:"quantity"`
	}
	if err := json.Unmarshal(entry, &r); err != nil {
		return domain.LineItem{}, false
	}
	if r.ID == "" || r.Type == "" {
		return domain.LineItem{}, false
	}

	quantity, err := r.Quantity.Int64()
	if err != nil || quantity < 1 {
		return domain.LineItem{}, false
	}

	var price decimal.Decimal
	if len(r.Price) > 0 {
		if err := price.UnmarshalJSON(r.Price); err != nil {
			return domain.LineItem{}, false
		}
	}
	if price.IsNegative() {
		return domain.LineItem{}, false
	}

	return domain.LineItem{
		ID:       r.ID,
		Type:     r.Type,
		Name:     r.Name,
		Price:    price,
		Quantity: int(quantity),
	}, true
}
