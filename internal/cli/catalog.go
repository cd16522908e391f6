package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dogjoy/miniapp/internal/api"
)

type servicesOutput struct {
	Services []api.Service `json:"services"`
	Fallback bool          `json:"fallback"`
}

type tariffsOutput struct {
	Tariffs  []api.Tariff `json:"tariffs"`
	Fallback bool         `json:"fallback"`
}

func (a *app) newServicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "services",
		Short: "Browse one-off services",
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List services",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			services, fallback := a.catalog().Services(ctx, a.session(cmd))
			if a.outputJSON {
				return outputAsJSON(cmd.OutOrStdout(), servicesOutput{Services: services, Fallback: fallback})
			}
			renderServices(cmd.OutOrStdout(), services, fallback)
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show <service-id>",
		Short: "Show one service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			s, err := a.catalog().Service(ctx, a.session(cmd), args[0])
			if err != nil {
				return fmt.Errorf("get service: %w", err)
			}
			if a.outputJSON {
				return outputAsJSON(cmd.OutOrStdout(), s)
			}
			renderService(cmd.OutOrStdout(), s)
			return nil
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}

func (a *app) newTariffsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tariffs",
		Short: "Browse and buy subscription tariffs",
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tariffs",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			tariffs, fallback := a.catalog().Tariffs(ctx, a.session(cmd))
			if a.outputJSON {
				return outputAsJSON(cmd.OutOrStdout(), tariffsOutput{Tariffs: tariffs, Fallback: fallback})
			}
			renderTariffs(cmd.OutOrStdout(), tariffs, fallback)
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show <tariff-id>",
		Short: "Show one tariff",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			t, err := a.catalog().Tariff(ctx, a.session(cmd), args[0])
			if err != nil {
				return fmt.Errorf("get tariff: %w", err)
			}
			if a.outputJSON {
				return outputAsJSON(cmd.OutOrStdout(), t)
			}
			renderTariff(cmd.OutOrStdout(), t)
			return nil
		},
	}

	subscribe := &cobra.Command{
		Use:   "subscribe <tariff-id>",
		Short: "Create a payment for a tariff",
		Long:  "Create a payment for a tariff and print the confirmation URL to complete it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			sess := a.session(cmd)
			t, err := a.catalog().Tariff(ctx, sess, args[0])
			if err != nil {
				return fmt.Errorf("get tariff: %w", err)
			}
			confirmURL, err := a.billing().Subscribe(ctx, sess, *t)
			if err != nil {
				return fmt.Errorf("create payment: %w", err)
			}
			if a.outputJSON {
				return outputAsJSON(cmd.OutOrStdout(), map[string]string{
					"tariffId":        t.ID.String(),
					"confirmationUrl": confirmURL,
				})
			}
			w := cmd.OutOrStdout()
			successColor.Fprintf(w, "✓ Payment for %s created (%s)\n", t.Name, price(t.MonthlyPrice))
			infoColor.Fprintln(w, "Complete it at:")
			fmt.Fprintln(w, confirmURL)
			return nil
		},
	}

	cmd.AddCommand(list, show, subscribe)
	return cmd
}
