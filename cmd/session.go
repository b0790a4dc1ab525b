package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	accountsrender "github.com/entityauth/entitykit/internal/adapters/render/accounts"
	"github.com/entityauth/entitykit/internal/domain"
)

func newSessionCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect and update the current session",
	}

	cmd.AddCommand(
		newSessionShowCmd(app),
		newSessionRefreshCmd(app),
		newSessionSetUsernameCmd(app),
		newSessionSetEmailCmd(app),
	)

	return cmd
}

// sessionView is the JSON form of a Snapshot. Token values are left out.
type sessionView struct {
	SignedIn           bool                         `json:"signedIn"`
	AccountID          domain.AccountID             `json:"accountId,omitempty"`
	UserID             string                       `json:"userId,omitempty"`
	Username           string                       `json:"username,omitempty"`
	Email              string                       `json:"email,omitempty"`
	Mode               domain.AccountMode           `json:"mode,omitempty"`
	Organizations      []domain.OrganizationSummary `json:"organizations,omitempty"`
	ActiveOrganization *domain.ActiveOrganization   `json:"activeOrganization,omitempty"`
}

func newSessionShowCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show who is signed in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeSession(cmd, app, app.service.CurrentSnapshot(), asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")

	return cmd
}

func newSessionRefreshCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Refresh the access token now",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !app.service.CurrentSnapshot().SignedIn() {
				return domain.ErrNotSignedIn
			}

			err := runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Refreshing session...", func(ctx context.Context) error {
				_, err := app.service.Refresher().Refresh(ctx)
				return err
			})
			if err != nil {
				return fmt.Errorf("refresh session: %w", err)
			}

			return writeSession(cmd, app, app.service.CurrentSnapshot(), false)
		},
	}
}

func newSessionSetUsernameCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-username <username>",
		Short: "Change the username of the signed-in user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.service.SetUsername(cmd.Context(), strings.TrimSpace(args[0])); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Username set to %s\n", strings.TrimSpace(args[0]))
			return err
		},
	}
}

func newSessionSetEmailCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-email <email>",
		Short: "Change the email of the signed-in user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.service.SetEmail(cmd.Context(), strings.TrimSpace(args[0])); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Email set to %s\n", strings.TrimSpace(args[0]))
			return err
		},
	}
}

func writeSession(cmd *cobra.Command, app *app, snapshot domain.Snapshot, asJSON bool) error {
	if asJSON {
		view := sessionView{SignedIn: snapshot.SignedIn()}
		if snapshot.UserID != "" {
			view.AccountID, _ = app.service.ActiveAccountID()
			view.UserID = snapshot.UserID
			view.Username = snapshot.Username
			view.Email = snapshot.Email
			view.Mode = domain.ModeFor(snapshot.Organizations)
			view.Organizations = snapshot.Organizations
			view.ActiveOrganization = snapshot.ActiveOrganization
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}

	rendered, err := app.sessionRenderer(snapshot, accountsrender.RenderOptions{Now: app.now()})
	if err != nil {
		return fmt.Errorf("render session: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}
