package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

// memoryOrderRepository keeps orders in process memory. It backs the server
// when no database is configured.
type memoryOrderRepository struct {
	mu     sync.RWMutex
	orders map[string][]domain.Order
}

func NewMemoryOrder() port.OrderRepository {
	return &memoryOrderRepository{
		orders: make(map[string][]domain.Order),
	}
}

func (r *memoryOrderRepository) CreateOrder(ctx context.Context, order domain.Order) (uuid.UUID, error) {
	if order.OwnerID == "" {
		return uuid.Nil, fmt.Errorf("ownerID is empty")
	}
	if len(order.Items) == 0 {
		return uuid.Nil, fmt.Errorf("order has no items")
	}
	for i, item := range order.Items {
		if item.Quantity < 1 {
			return uuid.Nil, fmt.Errorf("item[%d] quantity[%d] is not positive", i, item.Quantity)
		}
	}

	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.Status == "" {
		order.Status = domain.OrderStatusCompleted
	}
	order.CreatedAt = time.Now().UTC()
	order.Items = append([]domain.LineItem(nil), order.Items...)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.orders[order.OwnerID] {
		if existing.ID == order.ID {
			return uuid.Nil, fmt.Errorf("order[%s] already exists", order.ID)
		}
	}
	r.orders[order.OwnerID] = append(r.orders[order.OwnerID], order)

	return order.ID, nil
}

func (r *memoryOrderRepository) GetOrder(ctx context.Context, ownerID string, orderID uuid.UUID) (domain.Order, error) {
	if ownerID == "" {
		return domain.Order{}, fmt.Errorf("ownerID is empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders[ownerID] {
		if o.ID == orderID {
			return o, nil
		}
	}

	return domain.Order{}, port.ErrNotFound
}

func (r *memoryOrderRepository) ListOrders(ctx context.Context, ownerID string) ([]domain.Order, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("ownerID is empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.orders[ownerID]
	orders := make([]domain.Order, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		orders = append(orders, stored[i])
	}

	return orders, nil
}
