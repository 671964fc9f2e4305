package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/career-counselor/internal/config"
	"github.com/jonathan/career-counselor/internal/identity"
	"github.com/spf13/cobra"
)

var issueTokenCmd = &cobra.Command{
	Use:   "issue-token",
	Short: "Issue a local access token for development",
	Long:  "Signs an access token with SUPABASE_JWT_SECRET so the persistence endpoints can be exercised without the hosted identity provider.",
	RunE:  runIssueToken,
}

var (
	issueTokenUserID string
	issueTokenEmail  string
	issueTokenTTL    time.Duration
)

func init() {
	issueTokenCmd.Flags().StringVar(&issueTokenUserID, "user-id", "", "User id to put in the token subject (required)")
	issueTokenCmd.Flags().StringVar(&issueTokenEmail, "email", "", "User email")
	issueTokenCmd.Flags().DurationVar(&issueTokenTTL, "ttl", 24*time.Hour, "Token lifetime")

	if err := issueTokenCmd.MarkFlagRequired("user-id"); err != nil {
		panic(fmt.Sprintf("failed to mark user-id flag as required: %v", err))
	}

	rootCmd.AddCommand(issueTokenCmd)
}

func runIssueToken(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	token, err := issueToken(cfg.Identity, identity.User{ID: issueTokenUserID, Email: issueTokenEmail}, issueTokenTTL)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}

func issueToken(cfg config.Identity, user identity.User, ttl time.Duration) (string, error) {
	if !cfg.UsesLocalJWT() {
		return "", errors.New("SUPABASE_JWT_SECRET environment variable is required")
	}
	if ttl <= 0 {
		return "", errors.New("--ttl must be positive")
	}
	return identity.NewJWTVerifier(cfg.JWTSecret).IssueToken(user, ttl)
}
