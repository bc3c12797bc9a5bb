package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledgerline/warden-client/pkg/utils"
	"github.com/ledgerline/warden-client/pkg/warden"
)

// sessionKey is the token store key for the interactive session, as opposed
// to the per-account keys the token manager uses.
const sessionKey = "session"

func newRootCmd(app *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "wardenctl",
		Short: "Command-line client for the warden authentication service",
		Long: `wardenctl talks to a warden authentication backend: it registers users,
obtains bearer tokens, and reads the authenticated user's profile and items.

Interactive logins keep their token in a local session store so follow-up
commands work without re-entering credentials. Service accounts resolve
their credentials from AWS Secrets Manager instead.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return app.setup()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&app.cfg.BaseURL, "base-url", app.cfg.BaseURL, "warden backend endpoint")
	pf.DurationVar(&app.cfg.Timeout, "timeout", app.cfg.Timeout, "per-request timeout")
	pf.StringVar(&app.cfg.TokenDir, "token-dir", app.cfg.TokenDir, "directory for the file token store")

	root.AddCommand(
		newLoginCmd(app),
		newLogoutCmd(app),
		newRegisterCmd(app),
		newWhoamiCmd(app),
		newItemsCmd(app),
		newAccountsCmd(app),
	)
	return root
}

func newLoginCmd(app *cli) *cobra.Command {
	var username, password, account string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and store a session token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			creds, err := app.credentials(ctx, username, password, account)
			if err != nil {
				return err
			}

			token, err := app.client.Login(ctx, creds.Username, creds.Password)
			if err != nil {
				return err
			}
			app.saveSession(ctx, token)

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (token %s)\n",
				creds.Username, utils.MaskToken(token))
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	cmd.Flags().StringVar(&account, "account", "", "service account to resolve from the secrets backend")
	return cmd
}

func newLogoutCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored session token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.store.Delete(cmd.Context(), sessionKey); err != nil {
				return fmt.Errorf("clear session: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newRegisterCmd(app *cli) *cobra.Command {
	var username, password, email, fullName string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new user account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := warden.RegisterRequest{Username: username, Password: password}
			if cmd.Flags().Changed("email") {
				req.Email = &email
			}
			if cmd.Flags().Changed("full-name") {
				req.FullName = &fullName
			}

			if err := app.client.Register(cmd.Context(), req); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered user %s\n", username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username for the new account")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password for the new account")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&fullName, "full-name", "", "display name")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newWhoamiCmd(app *cli) *cobra.Command {
	var token, account string

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated user's profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			tok, err := app.resolveToken(ctx, token, account)
			if err != nil {
				return err
			}
			profile, err := app.client.Profile(ctx, tok)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Username:  %s\n", profile.Username)
			if profile.Email != nil {
				fmt.Fprintf(out, "Email:     %s\n", *profile.Email)
			}
			if profile.FullName != nil {
				fmt.Fprintf(out, "Full name: %s\n", *profile.FullName)
			}
			status := "active"
			if profile.Disabled {
				status = "disabled"
			}
			fmt.Fprintf(out, "Status:    %s\n", status)
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "use this bearer token instead of the stored session")
	cmd.Flags().StringVar(&account, "account", "", "authenticate as this service account")
	return cmd
}

func newItemsCmd(app *cli) *cobra.Command {
	var token, account string

	cmd := &cobra.Command{
		Use:   "items",
		Short: "List the authenticated user's items",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			tok, err := app.resolveToken(ctx, token, account)
			if err != nil {
				return err
			}
			items, err := app.client.Items(ctx, tok)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "No items.")
				return nil
			}
			for _, it := range items {
				fmt.Fprintf(out, "%s\t(owner: %s)\n", it.ItemID, it.Owner)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "use this bearer token instead of the stored session")
	cmd.Flags().StringVar(&account, "account", "", "authenticate as this service account")
	return cmd
}

func newAccountsCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List service accounts configured in the secrets backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			res, err := app.newResolver(ctx)
			if err != nil {
				return err
			}
			accounts, err := res.DiscoverAccounts(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(accounts) == 0 {
				fmt.Fprintln(out, "No service accounts configured.")
				return nil
			}
			for _, name := range accounts {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}
}
