package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/chat"
	"github.com/nikolayk812/storefront/internal/payment"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/nikolayk812/storefront/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the checkout and chat API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			orders, courses, closeStores, err := a.openStores(ctx)
			if err != nil {
				return err
			}
			defer closeStores()

			unit, err := a.cfg.CurrencyUnit()
			if err != nil {
				return err
			}

			h := server.NewHandler(
				payment.NewProcessor(payment.WithLogger(a.logger)),
				orders,
				courses,
				chat.SupportAnswerer{},
				server.WithCurrency(unit),
				server.WithLogger(a.logger),
			)

			srv := &http.Server{
				Addr:              a.cfg.HTTPAddr,
				Handler:           h.Routes(),
				ReadHeaderTimeout: 5 * time.Second,
				ReadTimeout:       15 * time.Second,
				WriteTimeout:      15 * time.Second,
				IdleTimeout:       60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("http server starting", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("srv.ListenAndServe: %w", err)
				}
			case <-ctx.Done():
				a.logger.Info("shutdown requested")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("srv.Shutdown: %w", err)
			}

			a.logger.Info("bye")
			return nil
		},
	}
}

// openStores returns the order and course access repositories: PostgreSQL
// when a database is configured, process memory otherwise.
func (a *app) openStores(ctx context.Context) (port.OrderRepository, port.CourseAccessRepository, func(), error) {
	if a.cfg.DatabaseURL == "" {
		a.logger.Warn("no database configured, orders are kept in memory")
		return repository.NewMemoryOrder(), repository.NewMemoryCourseAccess(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("pool.Ping: %w", err)
	}

	return repository.NewOrder(pool), repository.NewCourseAccess(pool), pool.Close, nil
}
