package recommend

import "github.com/jonathan/career-counselor/internal/types"

// Recommend evaluates the career rule table. It always returns between one
// and three recommendations.
func Recommend(r types.ResponseSet) []types.Recommendation {
	return careerEngine.Evaluate(r)
}

// RecommendPath evaluates the quick rule table and returns a single career path.
func RecommendPath(r types.ResponseSet) string {
	return quickEngine.Evaluate(r)[0].Title
}

// CareerPath derives the career path label recorded with an assessment.
// Answers to the quick flow use the quick table; anything else uses the
// title of the first career recommendation.
func CareerPath(r types.ResponseSet) string {
	_, skill := r[questionSkillFocus]
	_, industry := r[questionIndustry]
	if skill || industry {
		return RecommendPath(r)
	}
	return Recommend(r)[0].Title
}
