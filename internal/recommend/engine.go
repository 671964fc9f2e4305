// Package recommend derives career recommendations from a response set using
// ordered rule tables.
package recommend

import (
	"slices"
	"strings"

	"github.com/jonathan/career-counselor/internal/types"
)

// Condition is a predicate over one question's answer.
type Condition struct {
	Question string
	Value    string
	// Partial matches any selected option containing Value instead of requiring equality.
	Partial bool
}

// Has matches when the answer to question includes option exactly.
func Has(question, option string) Condition {
	return Condition{Question: question, Value: option}
}

// Mentions matches when any selected option for question contains fragment.
func Mentions(question, fragment string) Condition {
	return Condition{Question: question, Value: fragment, Partial: true}
}

// Match evaluates the condition. Absent answers never match.
func (c Condition) Match(r types.ResponseSet) bool {
	answer := r[c.Question]
	if !c.Partial {
		return slices.Contains(answer, c.Value)
	}
	for _, v := range answer {
		if strings.Contains(v, c.Value) {
			return true
		}
	}
	return false
}

// Rule pairs a predicate with the recommendation it yields. The predicate
// holds when every AllOf condition matches and, if AnyOf is non-empty, at
// least one AnyOf condition matches.
type Rule struct {
	Name   string
	AllOf  []Condition
	AnyOf  []Condition
	Result types.Recommendation
}

// Matches reports whether the rule's predicate holds for r.
func (rule Rule) Matches(r types.ResponseSet) bool {
	if len(rule.AllOf) == 0 && len(rule.AnyOf) == 0 {
		return false
	}
	for _, c := range rule.AllOf {
		if !c.Match(r) {
			return false
		}
	}
	if len(rule.AnyOf) == 0 {
		return true
	}
	for _, c := range rule.AnyOf {
		if c.Match(r) {
			return true
		}
	}
	return false
}

// Engine evaluates an ordered rule table.
type Engine struct {
	Rules   []Rule
	Default types.Recommendation
	// Limit caps the number of results; zero means no cap.
	Limit int
}

// Evaluate returns the results of every matching rule in declaration order,
// truncated to Limit, or the default alone when nothing matches. Results are
// copies and never alias the table.
func (e Engine) Evaluate(r types.ResponseSet) []types.Recommendation {
	var out []types.Recommendation
	for _, rule := range e.Rules {
		if e.Limit > 0 && len(out) == e.Limit {
			break
		}
		if rule.Matches(r) {
			out = append(out, rule.Result.Clone())
		}
	}
	if len(out) == 0 {
		return []types.Recommendation{e.Default.Clone()}
	}
	return out
}
