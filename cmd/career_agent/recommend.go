package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jonathan/career-counselor/internal/observability"
	"github.com/jonathan/career-counselor/internal/recommend"
	"github.com/jonathan/career-counselor/internal/types"
	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend career paths for saved answers",
	Long:  "Reads assessment answers (as written by assess --out) and prints career recommendations, or the single quick-flow career path with --quick.",
	RunE:  runRecommend,
}

var (
	recommendAnswersFile string
	recommendQuick       bool
	recommendJSON        bool
)

func init() {
	recommendCmd.Flags().StringVarP(&recommendAnswersFile, "answers", "a", "", "Path to answers JSON file (required)")
	recommendCmd.Flags().BoolVar(&recommendQuick, "quick", false, "Evaluate the answers with the quick flow rules")
	recommendCmd.Flags().BoolVar(&recommendJSON, "json", false, "Print JSON instead of formatted output")

	if err := recommendCmd.MarkFlagRequired("answers"); err != nil {
		panic(fmt.Sprintf("failed to mark answers flag as required: %v", err))
	}

	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	content, err := os.ReadFile(recommendAnswersFile)
	if err != nil {
		return fmt.Errorf("failed to read answers file: %w", err)
	}

	var answers map[string]any
	if err := json.Unmarshal(content, &answers); err != nil {
		return fmt.Errorf("failed to unmarshal answers JSON: %w", err)
	}

	return writeRecommendations(cmd.OutOrStdout(), types.ParseResponses(answers), recommendQuick, recommendJSON)
}

// recommendation is the JSON output of the recommend command.
type recommendation struct {
	CareerPath      string                 `json:"careerPath"`
	Recommendations []types.Recommendation `json:"recommendations,omitempty"`
}

func writeRecommendations(out io.Writer, responses types.ResponseSet, quick, asJSON bool) error {
	var result recommendation
	if quick {
		result.CareerPath = recommend.RecommendPath(responses)
	} else {
		result.Recommendations = recommend.Recommend(responses)
		result.CareerPath = result.Recommendations[0].Title
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to encode recommendations: %w", err)
		}
		return nil
	}

	printer := observability.NewPrinter(out)
	if quick {
		printer.PrintCareerPath(result.CareerPath)
		return nil
	}
	printer.PrintRecommendations(result.Recommendations)
	return nil
}
