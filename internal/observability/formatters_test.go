package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/jonathan/career-counselor/internal/resources"
	"github.com/jonathan/career-counselor/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrintQuestion(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintQuestion(1, 5, types.Question{
		ID:            "strengths",
		Prompt:        "What are your key strengths?",
		Subtitle:      "Choose your top 3 strengths",
		Mode:          types.SelectionMultiple,
		MaxSelections: 3,
		Options:       []string{"Problem Solving", "Communication"},
	})
	output := buf.String()

	assert.Contains(t, output, "QUESTION 2 OF 5")
	assert.Contains(t, output, "Choose your top 3 strengths")
	assert.Contains(t, output, " 1. Problem Solving")
	assert.Contains(t, output, " 2. Communication")
	assert.Contains(t, output, "Pick up to 3")
}

func TestPrintQuestion_Single(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintQuestion(0, 1, types.Question{ID: "q", Prompt: "Pick", Mode: types.SelectionSingle, Options: []string{"A"}})

	assert.Contains(t, buf.String(), "Pick one")
}

func TestPrintRecommendations(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRecommendations([]types.Recommendation{
		{
			Title:       "Software Developer",
			MatchScore:  "95%",
			Description: "Build applications",
			Skills:      []string{"Go", "Git"},
			Projects:    []string{"Build a CLI"},
		},
		{Title: "Data Scientist", MatchScore: "88%"},
	})
	output := buf.String()

	assert.Contains(t, output, "CAREER RECOMMENDATIONS")
	assert.Contains(t, output, "#1  Software Developer (95% match)")
	assert.Contains(t, output, "Skills: Go, Git")
	assert.Contains(t, output, "• Build a CLI")
	assert.Contains(t, output, "#2  Data Scientist")
}

func TestPrintRecommendations_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRecommendations(nil)
	p.PrintCareerPath("")

	assert.Empty(t, buf.String())
}

func TestPrintResources(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	courses := make([]resources.Resource, 7)
	for i := range courses {
		courses[i] = resources.Resource{Title: "Course"}
	}
	p.PrintResources(resources.Set{
		CareerPath: "Project Manager",
		Courses:    courses,
		Videos:     []resources.Resource{{Title: "Agile in 10 minutes"}},
	})
	output := buf.String()

	assert.Contains(t, output, "LEARNING RESOURCES: PROJECT MANAGER")
	assert.Contains(t, output, "... and 2 more")
	assert.Contains(t, output, "Agile in 10 minutes")
	assert.NotContains(t, output, "Articles")
}

func TestPrintResources_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintResources(resources.Set{CareerPath: "Astronaut"})

	assert.Empty(t, buf.String())
}

func TestPrintUserData(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintUserData(types.UserAggregate{
		LatestAssessment: &types.AssessmentRecord{
			CareerPath: "UX/UI Designer",
			Timestamp:  time.Date(2026, 2, 3, 10, 30, 0, 0, time.UTC),
		},
		Stats: types.UserStats{AssessmentCount: 2, ChatSessionCount: 1, ResourcesViewedCount: 4},
	})
	output := buf.String()

	assert.Contains(t, output, "UX/UI Designer")
	assert.Contains(t, output, "2026-02-03 10:30")
	assert.Contains(t, output, "Assessments:   2")
	assert.Contains(t, output, "Resources:     4")
}

func TestPrintUserData_NoAssessment(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintUserData(types.UserAggregate{})

	assert.Contains(t, buf.String(), "No assessment yet")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("•", 100))

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), line)
	}
	assert.Contains(t, buf.String(), "...")
}
