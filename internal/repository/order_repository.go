package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/db"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"golang.org/x/text/currency"
)

type orderRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewOrder(pool *pgxpool.Pool) port.OrderRepository {
	return &orderRepository{
		q:    db.New(pool),
		pool: pool,
	}
}

// CreateOrder stores the order with its items in one transaction. A zero
// order ID is replaced with a new random one.
func (r *orderRepository) CreateOrder(ctx context.Context, order domain.Order) (uuid.UUID, error) {
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

	return withTx(ctx, r.pool, func(q *db.Queries) (uuid.UUID, error) {
		err := q.InsertOrder(ctx, db.InsertOrderParams{
			ID:            order.ID,
			OwnerID:       order.OwnerID,
			Amount:        order.Amount.Amount,
			Currency:      order.Amount.Currency.String(),
			TransactionID: order.TransactionID,
			Status:        order.Status,
		})
		if err != nil {
			return uuid.Nil, fmt.Errorf("q.InsertOrder: %w", err)
		}

		for i, item := range order.Items {
			err := q.InsertOrderItem(ctx, db.InsertOrderItemParams{
				OrderID:     order.ID,
				Position:    int32(i),
				ItemID:      item.ID,
				ItemType:    item.Type,
				Name:        item.Name,
				PriceAmount: item.Price,
				Quantity:    int64(item.Quantity),
			})
			if err != nil {
				return uuid.Nil, fmt.Errorf("q.InsertOrderItem[%d]: %w", i, err)
			}
		}

		return order.ID, nil
	})
}

func (r *orderRepository) GetOrder(ctx context.Context, ownerID string, orderID uuid.UUID) (domain.Order, error) {
	if ownerID == "" {
		return domain.Order{}, fmt.Errorf("ownerID is empty")
	}

	row, err := r.q.GetOrder(ctx, db.GetOrderParams{OwnerID: ownerID, ID: orderID})
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, port.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("q.GetOrder: %w", err)
	}

	orders, err := r.withItems(ctx, []db.Order{row})
	if err != nil {
		return domain.Order{}, fmt.Errorf("withItems: %w", err)
	}

	return orders[0], nil
}

// ListOrders returns the owner's orders, newest first.
func (r *orderRepository) ListOrders(ctx context.Context, ownerID string) ([]domain.Order, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("ownerID is empty")
	}

	rows, err := r.q.ListOrders(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("q.ListOrders: %w", err)
	}

	orders, err := r.withItems(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("withItems: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) withItems(ctx context.Context, rows []db.Order) ([]domain.Order, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	itemRows, err := r.q.GetOrderItems(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("q.GetOrderItems: %w", err)
	}

	itemsByOrder := make(map[uuid.UUID][]domain.LineItem, len(rows))
	for _, itemRow := range itemRows {
		itemsByOrder[itemRow.OrderID] = append(itemsByOrder[itemRow.OrderID], mapOrderItemRowToDomain(itemRow))
	}

	orders := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		order, err := mapOrderRowToDomain(row, itemsByOrder[row.ID])
		if err != nil {
			return nil, fmt.Errorf("mapOrderRowToDomain: %w", err)
		}
		orders = append(orders, order)
	}

	return orders, nil
}

func mapOrderRowToDomain(row db.Order, items []domain.LineItem) (domain.Order, error) {
	parsedCurrency, err := currency.ParseISO(row.Currency)
	if err != nil {
		return domain.Order{}, fmt.Errorf("currency[%s] is not valid: %w", row.Currency, err)
	}

	return domain.Order{
		ID:            row.ID,
		OwnerID:       row.OwnerID,
		Items:         items,
		Amount:        domain.Money{Amount: row.Amount, Currency: parsedCurrency},
		TransactionID: row.TransactionID,
		Status:        row.Status,
		CreatedAt:     row.CreatedAt,
	}, nil
}

func mapOrderItemRowToDomain(row db.OrderItem) domain.LineItem {
	return domain.LineItem{
		ID:       row.ItemID,
		Type:     row.ItemType,
		Name:     row.Name,
		Price:    row.PriceAmount,
		Quantity: int(row.Quantity),
	}
}
