package main

import (
	"fmt"
	"os"

	"github.com/nikolayk812/storefront/internal/config"
	"github.com/nikolayk812/storefront/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app is the shell shared by all commands; it is filled in before any command runs.
type app struct {
	cfg    config.Config
	logger *zap.Logger

	customerID string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Storefront cart, checkout and support chat",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config.Load: %w", err)
			}
			a.cfg = cfg

			level := cfg.LogLevel
			if a.verbose {
				level = "debug"
			}
			logger, err := logging.New(level, cfg.LogDevelopment)
			if err != nil {
				return fmt.Errorf("logging.New: %w", err)
			}
			a.logger = logger

			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&a.customerID, "customer", "", "customer id (keeps the cart in the shared database when configured)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newServeCmd(a),
		newCartCmd(a),
		newCheckoutCmd(a),
		newChatCmd(a),
		newOrdersCmd(a),
		newCoursesCmd(a),
	)

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
