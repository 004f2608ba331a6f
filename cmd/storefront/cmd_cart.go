package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newCartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Inspect and change the cart",
	}

	var asHTML bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeFn, err := a.openCart(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			if asHTML {
				return a.renderer().HTML(cmd.OutOrStdout(), store.Snapshot())
			}
			return a.renderer().Text(cmd.OutOrStdout(), store.Snapshot())
		},
	}
	show.Flags().BoolVar(&asHTML, "html", false, "print the cart panel fragment")

	add := &cobra.Command{
		Use:   "add <type> <id> <name> <price>",
		Short: "Add one unit of an item",
		Args:  cobra.ExactArgs(4),
		RunE: a.mutation(func(cmd *cobra.Command, store *cart.Store, args []string) error {
			price, err := decimal.NewFromString(args[3])
			if err != nil {
				return fmt.Errorf("price[%s] is not a number: %w", args[3], err)
			}
			return store.AddItem(cmd.Context(), domain.LineItem{
				Type:  args[0],
				ID:    args[1],
				Name:  args[2],
				Price: price,
			})
		}),
	}

	remove := &cobra.Command{
		Use:   "remove <type> <id>",
		Short: "Remove an item",
		Args:  cobra.ExactArgs(2),
		RunE: a.mutation(func(cmd *cobra.Command, store *cart.Store, args []string) error {
			return store.RemoveItem(cmd.Context(), domain.ItemKey{Type: args[0], ID: args[1]})
		}),
	}

	set := &cobra.Command{
		Use:   "set <type> <id> <quantity>",
		Short: "Set an item's quantity; zero removes it",
		Args:  cobra.ExactArgs(3),
		RunE: a.mutation(func(cmd *cobra.Command, store *cart.Store, args []string) error {
			quantity, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("quantity[%s] is not an integer: %w", args[2], err)
			}
			return store.UpdateQuantity(cmd.Context(), domain.ItemKey{Type: args[0], ID: args[1]}, quantity)
		}),
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: a.mutation(func(cmd *cobra.Command, store *cart.Store, _ []string) error {
			return store.Clear(cmd.Context())
		}),
	}

	cmd.AddCommand(show, add, remove, set, clearCmd)

	return cmd
}

// mutation opens the cart, re-renders it after the change and downgrades
// persistence failures to a warning.
func (a *app) mutation(fn func(*cobra.Command, *cart.Store, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		store, closeFn, err := a.openCart(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		r := a.renderer()
		detach := r.Attach(store, cmd.OutOrStdout(), r.Text)
		defer detach()

		err = fn(cmd, store, args)
		if errors.Is(err, cart.ErrPersist) {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
			return nil
		}
		return err
	}
}
