package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/http"

	"bookingdesk/internal/infrastructure/oauth"

	"github.com/spf13/cobra"
)

// NewGmailTokenCommand creates the gmail-token command.
func NewGmailTokenCommand(rootOpts *RootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "gmail-token",
		Short: "Obtain a Gmail refresh token for sending notifications",
		Long: `Run the OAuth consent flow against GMAIL_CLIENT_ID / GMAIL_CLIENT_SECRET
and print the refresh token to store in GMAIL_REFRESH_TOKEN.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGmailToken(cmd, rootOpts, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8090", "callback listen address")
	return cmd
}

func runGmailToken(cmd *cobra.Command, opts *RootOptions, addr string) error {
	cfg := opts.cfg
	if cfg.GmailClientID == "" || cfg.GmailClientSecret == "" {
		return errors.New("GMAIL_CLIENT_ID and GMAIL_CLIENT_SECRET are required")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()
	gmailOAuth := oauth.NewGmailOAuth(cfg.GmailClientID, cfg.GmailClientSecret, "", "http://"+addr+"/oauth2callback", opts.log)

	state, err := randomState()
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2callback", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			http.Error(w, "Invalid state parameter", http.StatusBadRequest)
			return
		}
		token, err := gmailOAuth.ExchangeCode(r.Context(), r.URL.Query().Get("code"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			done <- err
			return
		}
		fmt.Fprintf(out, "\nRefresh Token: %s\n\n", token.RefreshToken)
		if opts.Verbose {
			if raw, err := gmailOAuth.TokenToJSON(token); err == nil {
				fmt.Fprintln(out, raw)
			}
		}
		fmt.Fprint(w, "Authentication successful! You can close this window.")
		done <- nil
	})

	server := &http.Server{Handler: mux}
	go server.Serve(listener)
	defer server.Shutdown(context.Background())

	fmt.Fprintf(out, "Open this URL in your browser:\n%s\n", gmailOAuth.GenerateAuthURL(state))

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
