package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/entityauth/entitykit/internal/application"
	"github.com/entityauth/entitykit/internal/domain"
)

// remoteAccountRecord is one entry of an exported cloud account set.
type remoteAccountRecord struct {
	UserID            string                     `json:"userId"`
	Email             string                     `json:"email,omitempty"`
	Username          string                     `json:"username,omitempty"`
	ImageURL          string                     `json:"imageUrl,omitempty"`
	WorkspaceTenantID string                     `json:"workspaceTenantId,omitempty"`
	LastActiveAt      time.Time                  `json:"lastActiveAt"`
	Organizations     []remoteOrganizationRecord `json:"organizations,omitempty"`
}

type remoteOrganizationRecord struct {
	OrgID       string `json:"orgId"`
	Name        string `json:"name,omitempty"`
	Slug        string `json:"slug,omitempty"`
	Role        string `json:"role,omitempty"`
	MemberCount *int   `json:"memberCount,omitempty"`
}

func newAccountImportCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Add accounts from an exported cloud account set",
		Long:  "Add accounts from an exported cloud account set (a JSON array). New accounts are added without tokens; accounts already on this device are left unchanged.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			remote, err := readRemoteAccounts(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			added, err := app.service.ImportRemoteAccounts(cmd.Context(), remote)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d new %s\n", added, plural(added, "account", "accounts"))
			return err
		},
	}
}

func readRemoteAccounts(stdin io.Reader, source string) ([]application.RemoteAccount, error) {
	var reader io.Reader = stdin
	if source != "-" {
		file, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open account set: %w", err)
		}
		defer func() { _ = file.Close() }()
		reader = file
	}

	var records []remoteAccountRecord
	if err := json.NewDecoder(io.LimitReader(reader, 1<<20)).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode account set: %w", err)
	}

	remote := make([]application.RemoteAccount, 0, len(records))
	for _, record := range records {
		organizations := make([]domain.OrganizationSummary, 0, len(record.Organizations))
		for _, org := range record.Organizations {
			organizations = append(organizations, domain.OrganizationSummary{
				OrgID:       org.OrgID,
				Name:        org.Name,
				Slug:        org.Slug,
				Role:        org.Role,
				MemberCount: org.MemberCount,
			})
		}

		remote = append(remote, application.RemoteAccount{
			UserID:            record.UserID,
			Email:             record.Email,
			Username:          record.Username,
			ImageURL:          record.ImageURL,
			WorkspaceTenantID: record.WorkspaceTenantID,
			Organizations:     organizations,
			LastActiveAt:      record.LastActiveAt,
		})
	}

	return remote, nil
}

func plural(n int, singular, many string) string {
	if n == 1 {
		return singular
	}
	return many
}
