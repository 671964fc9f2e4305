package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponses(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want ResponseSet
	}{
		{
			name: "single string",
			raw:  map[string]any{"workStyle": "Remote work with flexibility"},
			want: ResponseSet{"workStyle": {"Remote work with flexibility"}},
		},
		{
			name: "decoded json list",
			raw:  map[string]any{"interests": []any{"Technology & Programming", 3, "Science & Research"}},
			want: ResponseSet{"interests": {"Technology & Programming", "Science & Research"}},
		},
		{
			name: "string slice",
			raw:  map[string]any{"goals": []string{"Creative freedom"}},
			want: ResponseSet{"goals": {"Creative freedom"}},
		},
		{
			name: "empty values dropped",
			raw:  map[string]any{"a": "", "b": []any{}, "c": 42, "d": nil},
			want: ResponseSet{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseResponses(tt.raw))
		})
	}
}

func TestParseResponses_FromJSON(t *testing.T) {
	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{"interests":["Technology & Programming"],"experience":"Complete beginner"}`), &raw))

	got := ParseResponses(raw)
	assert.True(t, got.Has("interests", "Technology & Programming"))
	assert.True(t, got.Has("experience", "Complete beginner"))
	assert.False(t, got.Has("goals", "Creative freedom"))
}

func TestResponseSet_CloneIsDeep(t *testing.T) {
	orig := ResponseSet{"interests": {"Technology & Programming"}}
	cp := orig.Clone()
	cp["interests"][0] = "changed"

	assert.Equal(t, "Technology & Programming", orig["interests"][0])
}

func TestQuestion_Helpers(t *testing.T) {
	q := Question{ID: "strengths", Mode: SelectionMultiple, MaxSelections: 3, Options: []string{"Leadership", "Creativity"}}
	assert.True(t, q.Multiple())
	assert.True(t, q.HasOption("Leadership"))
	assert.False(t, q.HasOption("leadership"))

	cp := q.Clone()
	cp.Options[0] = "changed"
	assert.Equal(t, "Leadership", q.Options[0])
}

func TestRecommendation_JSONFieldNames(t *testing.T) {
	rec := Recommendation{Title: "Software Developer", MatchScore: "95%", Resources: []Resource{{Name: "freeCodeCamp", URL: "https://freecodecamp.org"}}}
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"matchScore":"95%"`)
	assert.Contains(t, string(data), `"resources":[{"name":"freeCodeCamp","url":"https://freecodecamp.org"}]`)
}

func TestUserAggregate_DefaultsSerializeAsNullAndZero(t *testing.T) {
	data, err := json.Marshal(UserAggregate{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"latestAssessment":null,"stats":{"assessmentCount":0,"chatSessionCount":0,"resourcesViewedCount":0}}`, string(data))
}
