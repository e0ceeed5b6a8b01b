package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/timetable/internal/cli"
	"github.com/Veraticus/timetable/internal/common"
	"github.com/Veraticus/timetable/internal/config"
	"github.com/Veraticus/timetable/internal/sheets"
	"github.com/spf13/cobra"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with Google Sheets",
		Long: `Authenticate with Google Sheets using OAuth2 for the sheets source.

This command will:
1. Open a local callback server and print the consent URL
2. Exchange the authorization code for a token
3. Save the token, including its refresh token, to the token file

You'll need a desktop OAuth client id and secret in sheets.client_id and
sheets.client_secret. Run this once; later runs reuse and refresh the saved
token unless --force is given.`,
		RunE: runAuth,
	}

	cmd.Flags().String("client-id", "", "OAuth2 Client ID (overrides config)")
	cmd.Flags().String("client-secret", "", "OAuth2 Client Secret (overrides config)")
	cmd.Flags().String("callback", "", "Local callback address (default :8080)")
	cmd.Flags().Bool("force", false, "Ignore any saved token and authenticate again")

	return cmd
}

func runAuth(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	oauthConfig := config.LoadOAuthConfig()
	if v, _ := cmd.Flags().GetString("client-id"); v != "" {
		oauthConfig.ClientID = v
	}
	if v, _ := cmd.Flags().GetString("client-secret"); v != "" {
		oauthConfig.ClientSecret = v
	}
	if v, _ := cmd.Flags().GetString("callback"); v != "" {
		oauthConfig.CallbackAddr = v
	}

	if oauthConfig.ClientID == "" || oauthConfig.ClientSecret == "" {
		return common.NewUserError(
			"OAuth2 credentials not found. Set sheets.client_id and sheets.client_secret or use --client-id and --client-secret",
			common.ErrMissingConfig,
		)
	}

	slog.Info("Starting Google Sheets authentication", "token_file", oauthConfig.TokenFile)

	authenticate := sheets.GetOrCreateToken
	if force, _ := cmd.Flags().GetBool("force"); force {
		authenticate = sheets.AuthenticateInteractive
	}

	token, err := authenticate(ctx, oauthConfig)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	if token.RefreshToken == "" {
		slog.Warn("No refresh token returned; revoke the app's access in your Google account and run auth again")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.FormatSuccess("Authenticated with Google Sheets"))
	fmt.Fprintln(out, cli.FormatInfo("Token saved to "+oauthConfig.TokenFile))
	fmt.Fprintln(out, cli.FormatInfo("Set source.kind: sheets and sheets.spreadsheet_id to read the timetable through the API"))
	return nil
}
