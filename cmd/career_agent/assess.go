package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/jonathan/career-counselor/internal/assessment"
	"github.com/jonathan/career-counselor/internal/catalog"
	"github.com/jonathan/career-counselor/internal/config"
	"github.com/jonathan/career-counselor/internal/gateway"
	"github.com/jonathan/career-counselor/internal/observability"
	"github.com/jonathan/career-counselor/internal/recommend"
	"github.com/jonathan/career-counselor/internal/resources"
	"github.com/jonathan/career-counselor/internal/store/drivers"
	"github.com/jonathan/career-counselor/internal/types"
	"github.com/spf13/cobra"
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Take a career assessment in the terminal",
	Long: `Walks through the career (or quick) questionnaire. Answer with option
numbers separated by commas, or describe your answer in words and matching
options are picked for you. Enter "b" to go back.`,
	RunE: runAssess,
}

var (
	assessQuick bool
	assessOut   string
	assessSave  bool
	assessToken string
)

// errInputClosed means input ended before the questionnaire was complete.
var errInputClosed = errors.New("input ended before the assessment was complete")

func init() {
	assessCmd.Flags().BoolVar(&assessQuick, "quick", false, "Use the short four-question flow")
	assessCmd.Flags().StringVarP(&assessOut, "out", "o", "", "Write the answers as JSON to this file")
	assessCmd.Flags().BoolVar(&assessSave, "save", false, "Save the completed assessment to the document store")
	assessCmd.Flags().StringVar(&assessToken, "token", "", "Access token used with --save")
	rootCmd.AddCommand(assessCmd)
}

func runAssess(cmd *cobra.Command, _ []string) error {
	c := catalog.Career()
	if assessQuick {
		c = catalog.Quick()
	}

	out := cmd.OutOrStdout()
	collector, err := collect(cmd.InOrStdin(), out, c)
	if err != nil {
		return err
	}

	answers := collector.Export()
	careerPath := printResults(out, c, collector.Responses())

	if assessOut != "" {
		data, err := json.MarshalIndent(answers, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answers: %w", err)
		}
		if err := os.WriteFile(assessOut, data, 0644); err != nil {
			return fmt.Errorf("failed to write answers file: %w", err)
		}
		_, _ = fmt.Fprintf(out, "Answers written to %s\n", assessOut)
	}

	if assessSave {
		return saveAssessment(cmd.Context(), out, answers, careerPath)
	}
	return nil
}

// collect asks every question of c on out and reads answers from in.
func collect(in io.Reader, out io.Writer, c *catalog.Catalog) (*assessment.Collector, error) {
	collector := assessment.NewCollector(c)
	printer := observability.NewPrinter(out)
	scanner := bufio.NewScanner(in)

	for {
		q := collector.Current()
		printer.PrintQuestion(collector.Index(), c.Len(), q)
		_, _ = fmt.Fprint(out, "> ")

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, fmt.Errorf("failed to read answer: %w", err)
			}
			return nil, errInputClosed
		}
		line := strings.TrimSpace(scanner.Text())

		if strings.EqualFold(line, "b") {
			if !collector.Previous() {
				_, _ = fmt.Fprintln(out, "Already at the first question.")
			}
			continue
		}

		options, err := parseSelection(q, line)
		if err != nil {
			_, _ = fmt.Fprintf(out, "Invalid answer: %v\n", err)
			continue
		}
		answer(collector, q, options)
		if !collector.CanAdvance(q.ID) {
			_, _ = fmt.Fprintln(out, "Please choose at least one option.")
			continue
		}

		if collector.IsLast() {
			return collector, nil
		}
		collector.Next()
	}
}

// parseSelection turns a line of input into option labels of q. Numbers pick
// options by position; anything else is matched against the option text.
func parseSelection(q types.Question, line string) ([]string, error) {
	if line == "" {
		return nil, errors.New("empty answer")
	}

	fields := strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ' ' })
	var picked []string
	numeric := true
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			numeric = false
			break
		}
		if n < 1 || n > len(q.Options) {
			return nil, fmt.Errorf("option %d is out of range 1-%d", n, len(q.Options))
		}
		if option := q.Options[n-1]; !slices.Contains(picked, option) {
			picked = append(picked, option)
		}
	}
	if numeric {
		if !q.Multiple() && len(picked) > 1 {
			return nil, errors.New("only one option may be picked")
		}
		if q.MaxSelections > 0 && len(picked) > q.MaxSelections {
			return nil, fmt.Errorf("at most %d options may be picked", q.MaxSelections)
		}
		return picked, nil
	}

	matches := assessment.MatchOptions(q, line)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no option matched %q", line)
	}
	return matches, nil
}

// answer replaces the collected answer to q with options.
func answer(c *assessment.Collector, q types.Question, options []string) {
	if q.Multiple() {
		for _, existing := range c.Responses()[q.ID] {
			c.Select(q.ID, existing)
		}
	}
	for _, option := range options {
		c.Select(q.ID, option)
	}
}

// printResults prints the outcome for the flow of c and returns the career path.
func printResults(out io.Writer, c *catalog.Catalog, responses types.ResponseSet) string {
	printer := observability.NewPrinter(out)

	if c.Name() == catalog.NameQuick {
		path := recommend.RecommendPath(responses)
		printer.PrintCareerPath(path)
		return path
	}

	recs := recommend.Recommend(responses)
	printer.PrintRecommendations(recs)
	printer.PrintResources(resources.ForCareerPath(recs[0].Title))
	return recs[0].Title
}

func saveAssessment(ctx context.Context, out io.Writer, answers map[string]any, careerPath string) error {
	cfg, log, err := loadRuntime()
	if err != nil {
		return err
	}
	defer log.Sync()

	user, err := resolveUser(ctx, cfg, assessToken)
	if err != nil {
		return err
	}

	gw := gateway.New(config.Static(cfg), drivers.Dialer{}, gateway.WithLogger(log))
	rec, err := gw.SaveAssessment(ctx, user, answers, careerPath)
	if err != nil {
		return fmt.Errorf("failed to save assessment: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Assessment saved (id %s)\n", rec.ID)
	return nil
}
