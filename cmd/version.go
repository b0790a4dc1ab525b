package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entityauth/entitykit/internal/version"
)

func newVersionCmd() *cobra.Command {
	return offline(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.String())
			return err
		},
	})
}
