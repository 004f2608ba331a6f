package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/db"
	"github.com/nikolayk812/storefront/internal/port"
)

// kvRepository keeps a customer's persisted mirrors in PostgreSQL, so a cart
// can follow the customer between devices.
type kvRepository struct {
	q       *db.Queries
	ownerID string
}

func NewKV(pool *pgxpool.Pool, ownerID string) (port.KeyValueStore, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("ownerID is empty")
	}

	return &kvRepository{
		q:       db.New(pool),
		ownerID: ownerID,
	}, nil
}

func (r *kvRepository) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.q.GetEntry(ctx, db.GetEntryParams{
		OwnerID: r.ownerID,
		Key:     key,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("q.GetEntry: %w", err)
	}

	return value, nil
}

func (r *kvRepository) Set(ctx context.Context, key string, value []byte) error {
	err := r.q.SetEntry(ctx, db.SetEntryParams{
		OwnerID: r.ownerID,
		Key:     key,
		Value:   value,
	})
	if err != nil {
		return fmt.Errorf("q.SetEntry: %w", err)
	}

	return nil
}
