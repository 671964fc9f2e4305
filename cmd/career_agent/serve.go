package main

import (
	"fmt"

	"github.com/jonathan/career-counselor/internal/config"
	"github.com/jonathan/career-counselor/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the assessment, persistence and counselor chat endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	// Missing store, identity or Gemini settings degrade individual endpoints
	// instead of preventing startup.
	_, log, err := loadRuntime()
	if err != nil {
		return err
	}
	defer log.Sync()

	srv, err := server.New(server.Config{
		Port:   servePort,
		Source: config.FromEnv(),
		Logger: log,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
