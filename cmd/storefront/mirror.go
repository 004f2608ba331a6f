package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/kv"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/render"
	"github.com/nikolayk812/storefront/internal/repository"
	"go.uber.org/zap"
)

// openMirror picks the persisted mirror: the shared database for a known
// customer when one is configured, the local SQLite file otherwise.
func (a *app) openMirror(ctx context.Context) (port.KeyValueStore, func(), error) {
	if a.cfg.DatabaseURL != "" && a.customerID != "" {
		pool, err := pgxpool.New(ctx, a.cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("pgxpool.New: %w", err)
		}

		store, err := repository.NewKV(pool, a.customerID)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("repository.NewKV: %w", err)
		}

		a.logger.Debug("using database mirror", zap.String("customer_id", a.customerID))
		return store, pool.Close, nil
	}

	store, err := kv.OpenSQLite(a.cfg.DataPath)
	if err != nil {
		return nil, nil, fmt.Errorf("kv.OpenSQLite: %w", err)
	}

	a.logger.Debug("using local mirror", zap.String("path", a.cfg.DataPath))
	return store, func() { _ = store.Close() }, nil
}

func (a *app) openCart(ctx context.Context) (*cart.Store, func(), error) {
	mirror, closeFn, err := a.openMirror(ctx)
	if err != nil {
		return nil, nil, err
	}

	return cart.New(ctx, mirror, cart.WithLogger(a.logger)), closeFn, nil
}

func (a *app) renderer() *render.Renderer {
	opts := []render.Option{
		render.WithSymbol(a.cfg.CurrencySymbol),
		render.WithErrorHandler(func(err error) {
			a.logger.Warn("cart render failed", zap.Error(err))
		}),
	}
	// validated at load time
	if tag, err := a.cfg.LanguageTag(); err == nil {
		opts = append(opts, render.WithLanguage(tag))
	}
	return render.New(opts...)
}
