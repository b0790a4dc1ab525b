package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	accountsrender "github.com/entityauth/entitykit/internal/adapters/render/accounts"
	"github.com/entityauth/entitykit/internal/application"
	"github.com/entityauth/entitykit/internal/domain"
)

func newAccountCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage accounts signed in on this device",
	}

	cmd.AddCommand(
		newAccountListCmd(app),
		newAccountSwitchCmd(app),
		newAccountLogoutCmd(app),
		newAccountLogoutAllCmd(app),
		newAccountSyncCmd(app),
		newAccountImportCmd(app),
	)

	return cmd
}

func newAccountListCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts on this device",
		RunE: func(cmd *cobra.Command, _ []string) error {
			accounts, err := app.service.ListAccounts(cmd.Context())
			if err != nil {
				return err
			}

			return writeAccounts(cmd, app, accounts, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")

	return cmd
}

func newAccountSwitchCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "switch <account>",
		Short: "Make another account the active one",
		Long:  "Make another account the active one. <account> is an account id, user id, email or username.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveAccount(cmd, app, args[0])
			if err != nil {
				return err
			}

			if err := app.service.SwitchAccount(cmd.Context(), id); err != nil {
				if errors.Is(err, domain.ErrTokenBundleNotFound) {
					return fmt.Errorf("%w; sign in again with: ek login", err)
				}
				return err
			}

			return printSignedIn(cmd, app)
		},
	}
}

func newAccountLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout [account]",
		Short: "Sign an account out of this device (default: the active one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id domain.AccountID
			if len(args) == 1 {
				resolved, err := resolveAccount(cmd, app, args[0])
				if err != nil {
					return err
				}
				id = resolved
			} else {
				active, ok := app.service.ActiveAccountID()
				if !ok {
					return domain.ErrNotSignedIn
				}
				id = active
			}

			if err := app.service.LogoutAccount(cmd.Context(), id); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Signed out %s\n", id)
			if next, ok := app.service.ActiveAccountID(); ok && next != id {
				return printSignedIn(cmd, app)
			}

			return nil
		},
	}
}

func newAccountLogoutAllCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout-all",
		Short: "Sign every account out of this device",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.service.LogoutAll(cmd.Context()); err != nil {
				return err
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Signed out of every account")
			return err
		},
	}
}

func newAccountSyncCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Record the current session as an account on this device",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.service.SyncFromCurrentSession(cmd.Context()); err != nil {
				return err
			}

			accounts, err := app.service.ListAccounts(cmd.Context())
			if err != nil {
				return err
			}

			return writeAccounts(cmd, app, accounts, false)
		},
	}
}

// resolveAccount matches raw against account ids first, then user ids, emails
// and usernames.
func resolveAccount(cmd *cobra.Command, app *app, raw string) (domain.AccountID, error) {
	requested := strings.TrimSpace(raw)
	if requested == "" {
		return "", errors.New("account is required")
	}

	accounts, err := app.service.ListAccounts(cmd.Context())
	if err != nil {
		return "", err
	}

	for _, account := range accounts {
		if string(account.ID) == requested {
			return account.ID, nil
		}
	}

	var matches []domain.AccountID
	for _, account := range accounts {
		if account.UserID == requested ||
			strings.EqualFold(account.Email, requested) ||
			strings.EqualFold(account.Username, requested) {
			matches = append(matches, account.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("account %q: %w", requested, domain.ErrAccountNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("account %q is ambiguous; use one of the ids from: ek account list", requested)
	}
}

func writeAccounts(cmd *cobra.Command, app *app, accounts []application.AccountSummary, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(accounts)
	}

	rendered, err := app.accountsRenderer(accounts, accountsrender.RenderOptions{Now: app.now()})
	if err != nil {
		return fmt.Errorf("render accounts: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}
