package render

import (
	"context"
	"fmt"

	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/domain"
)

type ActionKind string

const (
	ActionMinus  ActionKind = "minus"
	ActionPlus   ActionKind = "plus"
	ActionRemove ActionKind = "remove"
)

// Action is a click on one of the cart row controls.
type Action struct {
	Kind ActionKind
	Key  domain.ItemKey
}

func ParseAction(kind, id, itemType string) (Action, error) {
	switch k := ActionKind(kind); k {
	case ActionMinus, ActionPlus, ActionRemove:
		if id == "" || itemType == "" {
			return Action{}, fmt.Errorf("action[%s] needs id and type", kind)
		}
		return Action{Kind: k, Key: domain.ItemKey{ID: id, Type: itemType}}, nil
	default:
		return Action{}, fmt.Errorf("action[%s] is not supported", kind)
	}
}

// Apply performs the action against store. Actions on items no longer in the
// cart are ignored.
func (a Action) Apply(ctx context.Context, store *cart.Store) error {
	if a.Kind == ActionRemove {
		return store.RemoveItem(ctx, a.Key)
	}

	quantity, ok := quantityOf(store, a.Key)
	if !ok {
		return nil
	}

	switch a.Kind {
	case ActionMinus:
		return store.UpdateQuantity(ctx, a.Key, quantity-1)
	case ActionPlus:
		return store.UpdateQuantity(ctx, a.Key, quantity+1)
	}

	return fmt.Errorf("action[%s] is not supported", a.Kind)
}

func quantityOf(store *cart.Store, key domain.ItemKey) (int, bool) {
	for _, item := range store.Items() {
		if item.Key() == key {
			return item.Quantity, true
		}
	}
	return 0, false
}
