package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/peteski22/offersync/internal/config"
	"github.com/peteski22/offersync/internal/storage"
)

// sessionOptions holds the flags of the session command.
type sessionOptions struct {
	accountID  string
	displayKey string
	expiresAt  string
	expiresIn  time.Duration
	loyaltyID  string
	token      string
}

func sessionCmd() *cobra.Command {
	var opts sessionOptions

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Save the login session used to fetch offers",
		Long: "Saves the bearer token and account identity copied from a logged-in browser session.\n" +
			"The token is sent as-is; a missing 'Bearer ' prefix is added automatically.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSession(cmd.OutOrStdout(), opts, time.Now())
		},
	}

	cmd.Flags().StringVar(&opts.token, "token", "", "Bearer token (required)")
	cmd.Flags().StringVar(&opts.accountID, "account-id", "", "Account ID sent in the account-id header (required)")
	cmd.Flags().StringVar(&opts.loyaltyID, "loyalty-id", "", "Casino loyalty ID")
	cmd.Flags().StringVar(&opts.displayKey, "display-key", "", "Name used for the snapshot key, e.g. your username")
	cmd.Flags().StringVar(&opts.expiresAt, "expires-at", "", "Token expiry as RFC 3339")
	cmd.Flags().DurationVar(&opts.expiresIn, "expires-in", 0, "Token lifetime from now, e.g. 8h")
	cmd.MarkFlagsMutuallyExclusive("expires-at", "expires-in")
	_ = cmd.MarkFlagRequired("token")
	_ = cmd.MarkFlagRequired("account-id")

	return cmd
}

// runSession validates the options and writes the session file.
func runSession(out io.Writer, opts sessionOptions, now time.Time) error {
	session, err := opts.session(now)
	if err != nil {
		return err
	}

	sessionPath, err := config.SessionFilePath()
	if err != nil {
		return fmt.Errorf("getting session path: %w", err)
	}

	store, err := storage.NewFileSessionStore(sessionPath)
	if err != nil {
		return fmt.Errorf("creating session store: %w", err)
	}

	if err := store.Save(session); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	printf(out, "Session saved to: %s\n", sessionPath)
	if session.ExpiresAt.IsZero() {
		printf(out, "Token expiry unknown; it will be used until the site rejects it.\n")
	} else {
		printf(out, "Token expires at: %s\n", session.ExpiresAt.Format(time.RFC3339))
	}

	return nil
}

// session builds the session from the flags.
func (o sessionOptions) session(now time.Time) (storage.Session, error) {
	session := storage.Session{
		AccountID:  strings.TrimSpace(o.accountID),
		DisplayKey: strings.TrimSpace(o.displayKey),
		LoyaltyID:  strings.TrimSpace(o.loyaltyID),
		Token:      strings.TrimSpace(o.token),
	}

	switch {
	case o.expiresAt != "":
		expiresAt, err := time.Parse(time.RFC3339, o.expiresAt)
		if err != nil {
			return storage.Session{}, fmt.Errorf("parsing --expires-at: %w", err)
		}
		session.ExpiresAt = expiresAt.UTC()
	case o.expiresIn < 0:
		return storage.Session{}, fmt.Errorf("--expires-in cannot be negative")
	case o.expiresIn > 0:
		session.ExpiresAt = now.Add(o.expiresIn).UTC()
	}

	return session, nil
}
