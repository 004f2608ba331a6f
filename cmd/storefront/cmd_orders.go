package main

import (
	"errors"
	"fmt"
	"net/http"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/account"
	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/spf13/cobra"
)

func (a *app) accountClient() *account.Client {
	return account.NewClient(a.cfg.APIBaseURL, a.customerID,
		account.WithHTTPClient(&http.Client{Timeout: a.cfg.HTTPTimeout}),
		account.WithLogger(a.logger))
}

func newOrdersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "orders [order-id]",
		Short: "List past orders, or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := a.accountClient()
			r := a.renderer()

			if len(args) == 1 {
				id, err := uuid.Parse(args[0])
				if err != nil {
					return fmt.Errorf("order id[%s] is not valid: %w", args[0], err)
				}

				order, err := client.Order(cmd.Context(), id)
				if errors.Is(err, port.ErrNotFound) {
					return fmt.Errorf("order[%s] not found", id)
				}
				if err != nil {
					return fmt.Errorf("client.Order: %w", err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Order %s  %s  %s  %s\n",
					order.ID, order.CreatedAt.Format("2006-01-02 15:04"), order.Status, order.TransactionID)
				return r.Text(cmd.OutOrStdout(), orderSnapshot(order))
			}

			orders, err := client.Orders(cmd.Context())
			if err != nil {
				return fmt.Errorf("client.Orders: %w", err)
			}
			if len(orders) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No orders yet")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ORDER\tDATE\tSTATUS\tITEMS\tAMOUNT")
			for _, o := range orders {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
					o.ID, o.CreatedAt.Format("2006-01-02 15:04"), o.Status, len(o.Items), r.FormatAmount(o.Amount.Amount))
			}
			if err := tw.Flush(); err != nil {
				return fmt.Errorf("tw.Flush: %w", err)
			}
			return nil
		},
	}
}

func newCoursesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "courses",
		Short: "List purchased courses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			courses, err := a.accountClient().Courses(cmd.Context())
			if err != nil {
				return fmt.Errorf("client.Courses: %w", err)
			}
			if len(courses) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No courses yet")
				return nil
			}

			for _, c := range courses {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t(since %s)\n", c.CourseID, c.GrantedAt.Format("2006-01-02"))
			}
			return nil
		},
	}
}

func orderSnapshot(o domain.Order) cart.Snapshot {
	count := 0
	for _, it := range o.Items {
		count += it.Quantity
	}
	return cart.Snapshot{Items: o.Items, Total: o.Amount.Amount, Count: count}
}
