package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/entityauth/entitykit/internal/domain"
)

func newOrgCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "org",
		Short: "List and switch organizations of the signed-in user",
	}

	cmd.AddCommand(newOrgListCmd(app), newOrgSwitchCmd(app))

	return cmd
}

func newOrgListCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List organizations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !app.service.CurrentSnapshot().SignedIn() {
				return domain.ErrNotSignedIn
			}
			if err := app.service.RefreshOrganizations(cmd.Context()); err != nil {
				return err
			}

			snapshot := app.service.CurrentSnapshot()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(snapshot.Organizations)
			}

			return writeSession(cmd, app, snapshot, false)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")

	return cmd
}

func newOrgSwitchCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "switch <organization>",
		Short: "Make another organization active",
		Long:  "Make another organization active. <organization> is an org id, slug or name.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot := app.service.CurrentSnapshot()
			if !snapshot.SignedIn() {
				return domain.ErrNotSignedIn
			}

			orgID := resolveOrganization(snapshot.Organizations, args[0])
			if err := app.service.SwitchOrganization(cmd.Context(), orgID); err != nil {
				return err
			}

			active := app.service.CurrentSnapshot().ActiveOrganization
			name := orgID
			if active != nil && active.Name != "" {
				name = active.Name
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Active organization: %s\n", name)
			return err
		},
	}
}

// resolveOrganization maps a slug or name to its org id. Unknown values are
// passed through as ids for the server to judge.
func resolveOrganization(organizations []domain.OrganizationSummary, raw string) string {
	requested := strings.TrimSpace(raw)
	for _, org := range organizations {
		if org.OrgID == requested {
			return org.OrgID
		}
	}
	for _, org := range organizations {
		if strings.EqualFold(org.Slug, requested) || strings.EqualFold(org.Name, requested) {
			return org.OrgID
		}
	}

	return requested
}
