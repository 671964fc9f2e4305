package main

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/career-counselor/internal/observability"
	"github.com/jonathan/career-counselor/internal/resources"
	"github.com/spf13/cobra"
)

var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "List learning resources for a career path",
	RunE:  runResources,
}

var (
	resourcesCareerPath string
	resourcesJSON       bool
)

func init() {
	resourcesCmd.Flags().StringVarP(&resourcesCareerPath, "career-path", "p", "", "Career path, e.g. \"Software Developer\" (default set when empty)")
	resourcesCmd.Flags().BoolVar(&resourcesJSON, "json", false, "Print JSON instead of formatted output")
	rootCmd.AddCommand(resourcesCmd)
}

func runResources(cmd *cobra.Command, _ []string) error {
	set := resources.ForCareerPath(resourcesCareerPath)

	if resourcesJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(set); err != nil {
			return fmt.Errorf("failed to encode resources: %w", err)
		}
		return nil
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintResources(set)
	return nil
}
