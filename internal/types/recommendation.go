package types

import "slices"

// Resource is a named link attached to a recommendation
type Resource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Recommendation is a single career suggestion
type Recommendation struct {
	Title       string     `json:"title"`
	MatchScore  string     `json:"matchScore"`
	Description string     `json:"description"`
	Skills      []string   `json:"skills"`
	Projects    []string   `json:"projects"`
	Resources   []Resource `json:"resources"`
}

// Clone returns a deep copy of the recommendation.
func (r Recommendation) Clone() Recommendation {
	r.Skills = slices.Clone(r.Skills)
	r.Projects = slices.Clone(r.Projects)
	r.Resources = slices.Clone(r.Resources)
	return r
}
