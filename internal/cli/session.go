package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dogjoy/miniapp/internal/auth"
)

type sessionOutput struct {
	UserID        string          `json:"userId"`
	IsTestSession bool            `json:"isTestSession"`
	State         string          `json:"state"`
	Token         string          `json:"token"`
	TokenInfo     *auth.TokenInfo `json:"tokenInfo,omitempty"`
	TokenValid    *bool           `json:"tokenValid,omitempty"`
}

func (a *app) newBootstrapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap",
		Short: "Resolve and store a session",
		Long: `Resolve a session and persist it in the session store.

Resolution order: a stored session, a backend login with Telegram init data,
then a local test identity. Running it again reuses the stored session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess := a.session(cmd)
			out := sessionOutput{
				UserID:        sess.UserID,
				IsTestSession: sess.IsTestSession,
				State:         a.boot.State().String(),
				Token:         maskToken(sess.AuthToken),
			}
			if a.outputJSON {
				return outputAsJSON(cmd.OutOrStdout(), out)
			}

			w := cmd.OutOrStdout()
			successColor.Fprintln(w, "✓ Session ready")
			printField(w, "User ID", out.UserID)
			printField(w, "Token", out.Token)
			printField(w, "Test session", yesNo(out.IsTestSession))
			printField(w, "Store", a.cfg.Store.Driver)
			return nil
		},
	}
}

func (a *app) newWhoamiCmd() *cobra.Command {
	var validate bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session and its token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			sess := a.session(cmd)
			info := auth.DescribeToken(sess.AuthToken)
			out := sessionOutput{
				UserID:        sess.UserID,
				IsTestSession: sess.IsTestSession,
				State:         a.boot.State().String(),
				Token:         maskToken(sess.AuthToken),
				TokenInfo:     &info,
			}
			if validate {
				ok := a.client.ValidateToken(ctx, sess.AuthToken) == nil
				out.TokenValid = &ok
			}
			if a.outputJSON {
				return outputAsJSON(cmd.OutOrStdout(), out)
			}

			w := cmd.OutOrStdout()
			headerColor.Fprintln(w, "SESSION")
			printField(w, "User ID", out.UserID)
			printField(w, "Test session", yesNo(out.IsTestSession))
			printField(w, "Token", out.Token)
			if info.Opaque {
				printField(w, "Token type", "opaque")
			} else {
				printField(w, "Subject", info.Subject)
				printField(w, "Issuer", info.Issuer)
				if !info.ExpiresAt.IsZero() {
					exp := info.ExpiresAt.Format(time.RFC3339)
					if info.Expired(time.Now()) {
						exp += " (expired)"
					}
					printField(w, "Expires", exp)
				}
			}
			if out.TokenValid != nil {
				if *out.TokenValid {
					successColor.Fprintln(w, "✓ Backend accepts the token")
				} else {
					errorColor.Fprintln(w, "✗ Backend rejected the token")
				}
			}
			if u, ok := a.host.User(); ok {
				fmt.Fprintln(w)
				headerColor.Fprintln(w, "TELEGRAM")
				printField(w, "ID", u.ID)
				printField(w, "Name", u.FirstName+" "+u.LastName)
				if u.Username != "" {
					printField(w, "Username", "@"+u.Username)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&validate, "validate", false, "Ask the backend whether the token is valid")
	return cmd
}

func (a *app) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.boot.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("clear session: %w", err)
			}
			if a.outputJSON {
				return outputAsJSON(cmd.OutOrStdout(), map[string]bool{"loggedOut": true})
			}
			successColor.Fprintln(cmd.OutOrStdout(), "✓ Session cleared")
			return nil
		},
	}
}
