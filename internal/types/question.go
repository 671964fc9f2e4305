// Package types provides type definitions for structured data used throughout the career counselor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "slices"

// SelectionMode describes how many options a question accepts.
type SelectionMode string

const (
	// SelectionSingle accepts exactly one option
	SelectionSingle SelectionMode = "single"
	// SelectionMultiple accepts a set of distinct options, optionally capped
	SelectionMultiple SelectionMode = "multiple"
)

// Question is one step of a questionnaire flow
type Question struct {
	ID            string        `json:"id"`
	Prompt        string        `json:"prompt"`
	Subtitle      string        `json:"subtitle,omitempty"`
	VoicePrompt   string        `json:"voicePrompt,omitempty"`
	Mode          SelectionMode `json:"selectionMode"`
	MaxSelections int           `json:"maxSelections,omitempty"` // 0 means unbounded
	Options       []string      `json:"options"`
}

// Multiple reports whether the question accepts more than one option.
func (q Question) Multiple() bool {
	return q.Mode == SelectionMultiple
}

// HasOption reports whether option is one of the question's labels.
func (q Question) HasOption(option string) bool {
	return slices.Contains(q.Options, option)
}

// Clone returns a copy that shares no slices with q.
func (q Question) Clone() Question {
	q.Options = slices.Clone(q.Options)
	return q
}

// Answer holds the selected option labels for one question.
// A single-choice answer has exactly one element.
type Answer []string

// ResponseSet maps question ids to answers
type ResponseSet map[string]Answer

// Has reports whether the answer to questionID contains option.
func (r ResponseSet) Has(questionID, option string) bool {
	return slices.Contains(r[questionID], option)
}

// Clone returns a deep copy of the response set.
func (r ResponseSet) Clone() ResponseSet {
	out := make(ResponseSet, len(r))
	for id, answer := range r {
		out[id] = slices.Clone(answer)
	}
	return out
}

// ParseResponses converts wire-form answers (string or list of strings per
// question id) into a ResponseSet. Values of any other shape are dropped.
func ParseResponses(raw map[string]any) ResponseSet {
	out := make(ResponseSet, len(raw))
	for id, value := range raw {
		switch v := value.(type) {
		case string:
			if v != "" {
				out[id] = Answer{v}
			}
		case []string:
			if len(v) > 0 {
				out[id] = slices.Clone(v)
			}
		case []any:
			var answer Answer
			for _, item := range v {
				if s, ok := item.(string); ok && s != "" {
					answer = append(answer, s)
				}
			}
			if len(answer) > 0 {
				out[id] = answer
			}
		}
	}
	return out
}
