package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/nikolayk812/storefront/internal/checkout"
	"github.com/spf13/cobra"
)

func newCheckoutCmd(a *app) *cobra.Command {
	var number, name, expiry, cvv string

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Pay for the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeFn, err := a.openCart(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			submitter := checkout.NewSubmitter(a.cfg.APIBaseURL, store,
				checkout.WithHTTPClient(&http.Client{Timeout: a.cfg.HTTPTimeout}),
				checkout.WithLogger(a.logger),
				checkout.WithCustomer(a.customerID))

			card := checkout.CardFromForm(checkout.FormatCardNumber(number), name, checkout.FormatExpiry(expiry), checkout.StripNonDigits(cvv))

			outcome, err := submitter.Submit(cmd.Context(), card)
			switch {
			case errors.Is(err, checkout.ErrEmptyCart):
				return fmt.Errorf("nothing to pay for: %w", err)
			case errors.Is(err, checkout.ErrCheckoutFailed):
				fmt.Fprintln(cmd.ErrOrStderr(), checkout.GenericFailureMessage)
				return err
			case err != nil:
				return err
			}

			if !outcome.Success {
				return fmt.Errorf("payment failed: %s", outcome.Error)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Payment processed successfully! Your order ID is: %s\n", outcome.OrderID)
			return nil
		},
	}

	cmd.Flags().StringVar(&number, "number", "", "card number")
	cmd.Flags().StringVar(&name, "name", "", "name on card")
	cmd.Flags().StringVar(&expiry, "expiry", "", "expiry as MM/YY")
	cmd.Flags().StringVar(&cvv, "cvv", "", "card verification value")
	for _, f := range []string{"number", "name", "expiry", "cvv"} {
		_ = cmd.MarkFlagRequired(f)
	}

	return cmd
}
