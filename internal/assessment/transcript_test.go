package assessment

import (
	"testing"

	"github.com/jonathan/career-counselor/internal/catalog"
	"github.com/jonathan/career-counselor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchOptions(t *testing.T) {
	career := catalog.Career()
	interests, _ := career.Question("interests")
	strengths, _ := career.Question("strengths")
	workStyle, _ := career.Question("workStyle")

	tests := []struct {
		name string
		q    types.Question
		text string
		want []string
	}{
		{
			name: "multiple picks every mentioned option",
			q:    interests,
			text: "I love technology and also science",
			want: []string{"Technology & Programming", "Science & Research"},
		},
		{
			name: "case insensitive",
			q:    interests,
			text: "HEALTHCARE",
			want: []string{"Healthcare & Medicine"},
		},
		{
			name: "single takes first match in catalog order",
			q:    workStyle,
			text: "hybrid or remote, either is fine",
			want: []string{"Remote work with flexibility"},
		},
		{
			name: "capped multiple",
			q:    strengths,
			text: "problem communication leadership creativity",
			want: []string{"Problem Solving", "Communication", "Leadership"},
		},
		{
			name: "no match",
			q:    interests,
			text: "gardening",
			want: nil,
		},
		{
			name: "blank",
			q:    interests,
			text: "   ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchOptions(tt.q, tt.text))
		})
	}
}

func TestApplyTranscript(t *testing.T) {
	c := NewCollector(catalog.Career())
	c.Select("interests", "Finance & Economics")

	got := c.ApplyTranscript("interests", "technology, mostly")
	require.Equal(t, []string{"Technology & Programming"}, got)
	assert.Equal(t, types.Answer{"Technology & Programming"}, c.Responses()["interests"])

	assert.Nil(t, c.ApplyTranscript("interests", "nothing relevant"))
	assert.Equal(t, types.Answer{"Technology & Programming"}, c.Responses()["interests"])

	assert.Nil(t, c.ApplyTranscript("missing", "technology"))
}
