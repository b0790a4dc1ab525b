package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/entityauth/entitykit/internal/domain"
)

func newLoginCmd(app *app) *cobra.Command {
	var email string
	var password string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret, err := resolvePassword(cmd.InOrStdin(), password, passwordStdin)
			if err != nil {
				return err
			}

			err = app.service.Login(cmd.Context(), domain.Credentials{
				Email:    strings.TrimSpace(email),
				Password: secret,
			})
			if err != nil {
				return err
			}

			return printSignedIn(cmd, app)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	_ = cmd.MarkFlagRequired("email")
	cmd.MarkFlagsMutuallyExclusive("password", "password-stdin")

	cmd.AddCommand(newLoginSSOCmd(app))

	return skipRestore(cmd)
}

func newLoginSSOCmd(app *app) *cobra.Command {
	var connection string

	cmd := &cobra.Command{
		Use:   "sso",
		Short: "Sign in through your identity provider in a browser",
		RunE: func(cmd *cobra.Command, _ []string) error {
			flow := app.sso
			if connection != "" {
				flow = flow.WithConnection(connection)
			}

			attempt, err := flow.Begin()
			if err != nil {
				return fmt.Errorf("start sso sign-in: %w", err)
			}
			defer func() { _ = attempt.Close() }()

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Open this URL to sign in:\n%s\n", attempt.AuthorizeURL)

			ctx, cancel := context.WithTimeout(cmd.Context(), app.cfg.SSOTimeout)
			defer cancel()

			result, err := attempt.Complete(ctx)
			if err != nil {
				return fmt.Errorf("sso sign-in: %w", err)
			}

			if err := app.service.ApplyExternalTokens(cmd.Context(), result); err != nil {
				return err
			}

			return printSignedIn(cmd, app)
		},
	}

	cmd.Flags().StringVar(&connection, "connection", "", "Enterprise connection to use at the identity provider")

	return skipRestore(cmd)
}

func newRegisterCmd(app *app) *cobra.Command {
	var email string
	var username string
	var password string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret, err := resolvePassword(cmd.InOrStdin(), password, passwordStdin)
			if err != nil {
				return err
			}

			err = app.service.Register(cmd.Context(), domain.Registration{
				Email:    strings.TrimSpace(email),
				Username: strings.TrimSpace(username),
				Password: secret,
			})
			if err != nil {
				return err
			}

			return printSignedIn(cmd, app)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&username, "username", "", "Username")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	_ = cmd.MarkFlagRequired("email")
	cmd.MarkFlagsMutuallyExclusive("password", "password-stdin")

	return skipRestore(cmd)
}

func newLogoutCmd(app *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Long:  "End the current session on the server. Accounts stay on this device; use --all to forget every account as well.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if all {
				if err := app.service.LogoutAll(cmd.Context()); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Signed out of every account")
				return nil
			}

			if !app.service.CurrentSnapshot().SignedIn() {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
				return nil
			}
			if err := app.service.Logout(cmd.Context()); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Also forget every account on this device")

	return cmd
}

func resolvePassword(stdin io.Reader, flagValue string, fromStdin bool) (string, error) {
	if !fromStdin {
		if flagValue == "" {
			return "", errors.New("password is required: use --password or --password-stdin")
		}
		return flagValue, nil
	}

	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}

	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("password from stdin is empty")
	}

	return password, nil
}

func printSignedIn(cmd *cobra.Command, app *app) error {
	snapshot := app.service.CurrentSnapshot()
	id, _ := app.service.ActiveAccountID()

	name := snapshot.Username
	if name == "" {
		name = snapshot.Email
	}
	if name == "" {
		name = snapshot.UserID
	}

	_, err := fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", name, id)
	return err
}
