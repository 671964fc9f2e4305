// Package observability provides request metrics for the HTTP API and
// formatted output for the interactive CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/career-counselor/internal/resources"
	"github.com/jonathan/career-counselor/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad truncates or right-pads line to the box's inner width, counting runes.
func pad(line string) string {
	width := boxWidth - 4
	n := utf8.RuneCountInString(line)
	if n > width {
		runes := []rune(line)
		return string(runes[:width-3]) + "..."
	}
	return line + strings.Repeat(" ", width-n)
}

// PrintQuestion outputs one numbered question with its options.
func (p *Printer) PrintQuestion(index, total int, q types.Question) {
	var sb strings.Builder

	if q.Subtitle != "" {
		sb.WriteString(q.Subtitle + "\n\n")
	}
	for i, option := range q.Options {
		sb.WriteString(fmt.Sprintf("%2d. %s\n", i+1, option))
	}
	sb.WriteString("\n")
	switch {
	case !q.Multiple():
		sb.WriteString("Pick one")
	case q.MaxSelections > 0:
		sb.WriteString(fmt.Sprintf("Pick up to %d, separated by commas", q.MaxSelections))
	default:
		sb.WriteString("Pick any, separated by commas")
	}

	p.printBox(fmt.Sprintf("QUESTION %d OF %d: %s", index+1, total, q.Prompt), sb.String())
}

// PrintRecommendations outputs career recommendations with their skills and projects.
func (p *Printer) PrintRecommendations(recs []types.Recommendation) {
	if len(recs) == 0 {
		return
	}

	var sb strings.Builder
	for i, rec := range recs {
		sb.WriteString(fmt.Sprintf("#%d  %s (%s match)\n", i+1, rec.Title, rec.MatchScore))
		sb.WriteString(fmt.Sprintf("    %s\n", rec.Description))
		if len(rec.Skills) > 0 {
			sb.WriteString(fmt.Sprintf("    Skills: %s\n", strings.Join(rec.Skills, ", ")))
		}
		for _, project := range rec.Projects {
			sb.WriteString(fmt.Sprintf("    • %s\n", project))
		}
		if i < len(recs)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("CAREER RECOMMENDATIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCareerPath outputs the single path chosen by the quick flow.
func (p *Printer) PrintCareerPath(path string) {
	if path == "" {
		return
	}
	p.printBox("RECOMMENDED PATH", path)
}

// PrintResources outputs the learning resources for a career path.
func (p *Printer) PrintResources(set resources.Set) {
	var sb strings.Builder

	section := func(name string, items []resources.Resource) {
		if len(items) == 0 {
			return
		}
		sb.WriteString(name + ":\n")
		count := min(len(items), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", items[i].Title))
		}
		if len(items) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}
	section("Courses", set.Courses)
	section("Articles", set.Articles)
	section("Videos", set.Videos)

	if sb.Len() == 0 {
		return
	}

	title := "LEARNING RESOURCES"
	if set.CareerPath != "" {
		title += ": " + strings.ToUpper(set.CareerPath)
	}
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n\n"))
}

// PrintUserData outputs a user's dashboard aggregate.
func (p *Printer) PrintUserData(agg types.UserAggregate) {
	var sb strings.Builder

	if agg.LatestAssessment != nil {
		sb.WriteString(fmt.Sprintf("Latest path:   %s\n", agg.LatestAssessment.CareerPath))
		sb.WriteString(fmt.Sprintf("Assessed on:   %s\n\n", agg.LatestAssessment.Timestamp.Format("2006-01-02 15:04")))
	} else {
		sb.WriteString("No assessment yet\n\n")
	}
	sb.WriteString(fmt.Sprintf("Assessments:   %d\n", agg.Stats.AssessmentCount))
	sb.WriteString(fmt.Sprintf("Chat sessions: %d\n", agg.Stats.ChatSessionCount))
	sb.WriteString(fmt.Sprintf("Resources:     %d", agg.Stats.ResourcesViewedCount))

	p.printBox("YOUR PROGRESS", sb.String())
}
