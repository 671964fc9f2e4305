package recommend

import (
	"testing"

	"github.com/jonathan/career-counselor/internal/assessment"
	"github.com/jonathan/career-counselor/internal/catalog"
	"github.com/jonathan/career-counselor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommend_Scenarios(t *testing.T) {
	tests := []struct {
		name      string
		responses types.ResponseSet
		want      []string
	}{
		{
			name: "technology first",
			responses: types.ResponseSet{
				"interests": {"Technology & Programming"},
				"strengths": {"Technical Skills"},
				"workStyle": {"Remote work with flexibility"},
				"goals":     {"High earning potential"},
			},
			want: []string{"Software Developer"},
		},
		{
			name:      "empty falls back to default",
			responses: types.ResponseSet{},
			want:      []string{"Digital Marketing Specialist"},
		},
		{
			name:      "no matching answers",
			responses: types.ResponseSet{"interests": {"Healthcare & Medicine"}, "strengths": {"Communication"}},
			want:      []string{"Digital Marketing Specialist"},
		},
		{
			name: "every rule matches in declaration order",
			responses: types.ResponseSet{
				"interests": {"Business & Entrepreneurship", "Creative Arts & Design", "Technology & Programming"},
				"strengths": {"Leadership"},
			},
			want: []string{"Software Developer", "UX/UI Designer", "Product Manager"},
		},
		{
			name:      "strength alone can match",
			responses: types.ResponseSet{"strengths": {"Creativity", "Leadership"}},
			want:      []string{"UX/UI Designer", "Product Manager"},
		},
		{
			name:      "labels are case sensitive",
			responses: types.ResponseSet{"interests": {"technology & programming"}},
			want:      []string{"Digital Marketing Specialist"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Recommend(tt.responses)
			assert.Equal(t, tt.want, titles(got))
		})
	}
}

func TestRecommend_CountBoundsAndDeterminism(t *testing.T) {
	career := catalog.Career()
	interests, _ := career.Question("interests")
	strengths, _ := career.Question("strengths")

	for _, i := range interests.Options {
		for _, s := range strengths.Options {
			r := types.ResponseSet{"interests": {i}, "strengths": {s}}
			first := Recommend(r)
			require.GreaterOrEqual(t, len(first), 1)
			require.LessOrEqual(t, len(first), 3)
			assert.Equal(t, first, Recommend(r))
		}
	}
}

func TestRecommend_DefaultIsFullySpecified(t *testing.T) {
	got := Recommend(nil)
	require.Len(t, got, 1)
	assert.Equal(t, "85%", got[0].MatchScore)
	assert.Len(t, got[0].Skills, 5)
	assert.Len(t, got[0].Projects, 2)
	assert.Len(t, got[0].Resources, 2)
}

func TestRecommendPath(t *testing.T) {
	tests := []struct {
		skill, industry string
		want            string
	}{
		{"Technical/Programming", "Technology/Software", "Software Developer"},
		{"Creative/Design", "Creative/Media", "UX/UI Designer"},
		{"Leadership/Management", "Business/Finance", "Project Manager"},
		{"Technical/Programming", "Healthcare/Medicine", "Marketing Specialist"},
		{"Communication/Sales", "Technology/Software", "Marketing Specialist"},
		{"", "", "Marketing Specialist"},
	}

	for _, tt := range tests {
		t.Run(tt.want+"/"+tt.skill+"/"+tt.industry, func(t *testing.T) {
			r := types.ResponseSet{}
			if tt.skill != "" {
				r["skillFocus"] = types.Answer{tt.skill}
			}
			if tt.industry != "" {
				r["industry"] = types.Answer{tt.industry}
			}
			assert.Equal(t, tt.want, RecommendPath(r))
		})
	}
}

func TestRecommendPath_FromCollector(t *testing.T) {
	c := assessment.NewCollector(catalog.Quick())
	c.Select("workEnvironment", "Independent work")
	c.Select("skillFocus", "Technical/Programming")
	c.Select("motivation", "Financial success")
	c.Select("industry", "Technology/Software")
	require.True(t, c.IsComplete())

	assert.Equal(t, "Software Developer", RecommendPath(c.Responses()))
}

func TestCareerPath(t *testing.T) {
	assert.Equal(t, "UX/UI Designer", CareerPath(types.ResponseSet{"skillFocus": {"Creative/Design"}, "industry": {"Creative/Media"}}))
	assert.Equal(t, "Marketing Specialist", CareerPath(types.ResponseSet{"industry": {"Healthcare/Medicine"}}))
	assert.Equal(t, "Software Developer", CareerPath(types.ResponseSet{"interests": {"Technology & Programming"}}))
	assert.Equal(t, "Digital Marketing Specialist", CareerPath(types.ResponseSet{}))
}
