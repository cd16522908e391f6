package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) newOrdersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Show order history",
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List orders",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			orders, err := a.billing().Orders(ctx, a.session(cmd))
			if err != nil {
				return fmt.Errorf("list orders: %w", err)
			}
			if a.outputJSON {
				return outputAsJSON(cmd.OutOrStdout(), orders)
			}
			renderOrders(cmd.OutOrStdout(), orders)
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show <order-id>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			o, err := a.billing().Order(ctx, a.session(cmd), args[0])
			if err != nil {
				return fmt.Errorf("get order: %w", err)
			}
			if a.outputJSON {
				return outputAsJSON(cmd.OutOrStdout(), o)
			}
			renderOrder(cmd.OutOrStdout(), o)
			return nil
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}

func (a *app) newSubscriptionCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "subscription",
		Short: "Manage the active subscription",
	}

	cancelCmd := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel the active subscription",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("cancellation needs confirmation: pass --yes")
			}
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			if err := a.billing().CancelSubscription(ctx, a.session(cmd)); err != nil {
				return fmt.Errorf("cancel subscription: %w", err)
			}
			if a.outputJSON {
				return outputAsJSON(cmd.OutOrStdout(), map[string]bool{"cancelled": true})
			}
			successColor.Fprintln(cmd.OutOrStdout(), "✓ Subscription cancelled")
			return nil
		},
	}
	cancelCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the cancellation")

	cmd.AddCommand(cancelCmd)
	return cmd
}
