package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dogjoy/miniapp/internal/api"
)

func (a *app) newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit the user profile",
	}
	cmd.AddCommand(a.newProfileShowCmd(), a.newProfileUpdateCmd())
	return cmd
}

func (a *app) newProfileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the profile with pets and orders",
		Long: `Show the profile. A missing backend profile is created from the
Telegram identity; if that fails a local profile is shown instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			sess := a.session(cmd)
			view, err := a.profiles().Load(ctx, sess, a.identity())
			if err != nil {
				return fmt.Errorf("load profile: %w", err)
			}
			if a.outputJSON {
				return outputAsJSON(cmd.OutOrStdout(), view)
			}
			renderProfile(cmd.OutOrStdout(), view)
			return nil
		},
	}
}

func (a *app) newProfileUpdateCmd() *cobra.Command {
	var upd api.ProfileUpdate

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change profile fields",
		Example: `  miniapp profile update --email rex@example.com
  miniapp profile update --first-name Anna --phone "+7 900 000-00-00"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if upd == (api.ProfileUpdate{}) {
				return fmt.Errorf("nothing to update: pass at least one field flag")
			}
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			sess := a.session(cmd)
			user, err := a.profiles().Update(ctx, sess, upd)
			if err != nil {
				return fmt.Errorf("update profile: %w", err)
			}
			if a.outputJSON {
				return outputAsJSON(cmd.OutOrStdout(), user)
			}
			successColor.Fprintln(cmd.OutOrStdout(), "✓ Profile updated")
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&upd.FirstName, "first-name", "", "First name")
	f.StringVar(&upd.LastName, "last-name", "", "Last name")
	f.StringVar(&upd.Email, "email", "", "Email address")
	f.StringVar(&upd.PhoneNumber, "phone", "", "Phone number")
	return cmd
}
