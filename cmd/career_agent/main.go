// Package main provides the entry point for the career counselor API server and CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonathan/career-counselor/internal/config"
	"github.com/jonathan/career-counselor/internal/identity"
	"github.com/jonathan/career-counselor/internal/logger"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "career_agent",
	Short: "Career Counselor API server and CLI",
	Long:  "Career Counselor runs career assessments, recommends career paths with learning resources, and hosts an AI counselor chat, over a REST API or from the terminal.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadRuntime reads the environment configuration and builds the matching logger.
func loadRuntime() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, log, nil
}

// resolveUser exchanges an access token for the user it was issued to.
func resolveUser(ctx context.Context, cfg *config.Config, token string) (identity.User, error) {
	if token == "" {
		return identity.User{}, errors.New("an access token is required (use --token)")
	}
	provider, err := identity.ForConfig(cfg.Identity, &http.Client{Timeout: 10 * time.Second})
	if err != nil {
		return identity.User{}, err
	}
	user, err := provider.CurrentUser(ctx, token)
	if err != nil {
		return identity.User{}, fmt.Errorf("failed to authenticate: %w", err)
	}
	return *user, nil
}
