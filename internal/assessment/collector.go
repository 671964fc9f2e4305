// Package assessment collects answers to a question catalog and enforces its selection rules.
package assessment

import (
	"slices"

	"github.com/jonathan/career-counselor/internal/catalog"
	"github.com/jonathan/career-counselor/internal/types"
)

// Collector holds in-progress answers for one pass through a catalog.
// It is not safe for concurrent use.
type Collector struct {
	catalog   *catalog.Catalog
	responses types.ResponseSet
	current   int
}

// NewCollector creates an empty collector positioned on the first question.
func NewCollector(c *catalog.Catalog) *Collector {
	return &Collector{
		catalog:   c,
		responses: make(types.ResponseSet),
	}
}

// Catalog returns the catalog being answered.
func (c *Collector) Catalog() *catalog.Catalog {
	return c.catalog
}

// Select applies option to the answer for questionID and reports whether the
// answer changed. Single-choice questions replace their answer. Multiple-choice
// questions toggle the option, and additions beyond MaxSelections are dropped.
// Unknown questions and options are ignored.
func (c *Collector) Select(questionID, option string) bool {
	q, ok := c.catalog.Question(questionID)
	if !ok || !q.HasOption(option) {
		return false
	}

	current := c.responses[questionID]
	if !q.Multiple() {
		if len(current) == 1 && current[0] == option {
			return false
		}
		c.responses[questionID] = types.Answer{option}
		return true
	}

	if i := slices.Index(current, option); i >= 0 {
		next := slices.Delete(slices.Clone(current), i, i+1)
		if len(next) == 0 {
			delete(c.responses, questionID)
		} else {
			c.responses[questionID] = next
		}
		return true
	}
	if q.MaxSelections > 0 && len(current) >= q.MaxSelections {
		return false
	}
	c.responses[questionID] = append(slices.Clone(current), option)
	return true
}

// CanAdvance reports whether questionID has a qualifying answer.
func (c *Collector) CanAdvance(questionID string) bool {
	return len(c.responses[questionID]) > 0
}

// IsComplete reports whether every question in the catalog has a qualifying answer.
func (c *Collector) IsComplete() bool {
	for _, q := range c.catalog.Questions() {
		if !c.CanAdvance(q.ID) {
			return false
		}
	}
	return true
}

// Current returns the question at the current position.
func (c *Collector) Current() types.Question {
	return c.catalog.At(c.current)
}

// Index returns the current position.
func (c *Collector) Index() int {
	return c.current
}

// IsLast reports whether the current question is the final one.
func (c *Collector) IsLast() bool {
	return c.current == c.catalog.Len()-1
}

// Next moves to the following question. It refuses when the current
// question is unanswered or already the last.
func (c *Collector) Next() bool {
	if c.IsLast() || !c.CanAdvance(c.Current().ID) {
		return false
	}
	c.current++
	return true
}

// Previous moves back one question.
func (c *Collector) Previous() bool {
	if c.current == 0 {
		return false
	}
	c.current--
	return true
}

// Responses returns a copy of the collected answers.
func (c *Collector) Responses() types.ResponseSet {
	return c.responses.Clone()
}

// Export returns the answers in wire form: a string for single-choice
// questions and a list of strings for multiple-choice questions.
func (c *Collector) Export() map[string]any {
	out := make(map[string]any, len(c.responses))
	for id, answer := range c.responses {
		q, ok := c.catalog.Question(id)
		if !ok || len(answer) == 0 {
			continue
		}
		if q.Multiple() {
			out[id] = slices.Clone([]string(answer))
		} else {
			out[id] = answer[0]
		}
	}
	return out
}

// Reset clears every answer and returns to the first question.
func (c *Collector) Reset() {
	c.responses = make(types.ResponseSet)
	c.current = 0
}

// ApplyTranscript maps free text onto the options of questionID and replaces
// its answer with the matches. It returns the options applied; no match
// leaves the answer untouched.
func (c *Collector) ApplyTranscript(questionID, text string) []string {
	q, ok := c.catalog.Question(questionID)
	if !ok {
		return nil
	}
	matches := MatchOptions(q, text)
	if len(matches) == 0 {
		return nil
	}
	c.responses[questionID] = types.Answer(slices.Clone(matches))
	return matches
}
