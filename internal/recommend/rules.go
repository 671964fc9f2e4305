package recommend

import "github.com/jonathan/career-counselor/internal/types"

// Question ids the rules inspect. Option labels must stay in lockstep with
// the catalog files.
const (
	questionInterests  = "interests"
	questionStrengths  = "strengths"
	questionSkillFocus = "skillFocus"
	questionIndustry   = "industry"
)

// careerLimit caps the number of career recommendations returned.
const careerLimit = 3

var careerEngine = Engine{
	Limit: careerLimit,
	Rules: []Rule{
		{
			Name: "software-developer",
			AnyOf: []Condition{
				Has(questionInterests, "Technology & Programming"),
				Has(questionStrengths, "Technical Skills"),
			},
			Result: types.Recommendation{
				Title:       "Software Developer",
				MatchScore:  "95%",
				Description: "Build applications and solve problems through code",
				Skills:      []string{"JavaScript", "React", "Node.js", "Git", "Problem Solving"},
				Projects:    []string{"Build a personal portfolio website", "Create a todo app with React"},
				Resources: []types.Resource{
					{Name: "freeCodeCamp", URL: "https://freecodecamp.org"},
					{Name: "JavaScript30", URL: "https://javascript30.com"},
				},
			},
		},
		{
			Name: "ux-ui-designer",
			AnyOf: []Condition{
				Has(questionInterests, "Creative Arts & Design"),
				Has(questionStrengths, "Creativity"),
			},
			Result: types.Recommendation{
				Title:       "UX/UI Designer",
				MatchScore:  "90%",
				Description: "Design user-friendly digital experiences",
				Skills:      []string{"Figma", "User Research", "Prototyping", "Design Systems", "Usability Testing"},
				Projects:    []string{"Redesign a mobile app interface", "Create a design system for a startup"},
				Resources: []types.Resource{
					{Name: "Google UX Design Certificate", URL: "#"},
					{Name: "Figma Academy", URL: "#"},
				},
			},
		},
		{
			Name: "product-manager",
			AnyOf: []Condition{
				Has(questionInterests, "Business & Entrepreneurship"),
				Has(questionStrengths, "Leadership"),
			},
			Result: types.Recommendation{
				Title:       "Product Manager",
				MatchScore:  "88%",
				Description: "Guide product development from idea to launch",
				Skills:      []string{"Product Strategy", "Data Analysis", "Agile/Scrum", "Stakeholder Management", "Market Research"},
				Projects:    []string{"Launch a small digital product", "Conduct user interviews for an app idea"},
				Resources: []types.Resource{
					{Name: "Product School", URL: "#"},
					{Name: "Coursera Product Management", URL: "#"},
				},
			},
		},
	},
	Default: types.Recommendation{
		Title:       "Digital Marketing Specialist",
		MatchScore:  "85%",
		Description: "Promote brands and products through digital channels",
		Skills:      []string{"Social Media Marketing", "Content Creation", "Analytics", "SEO", "Email Marketing"},
		Projects:    []string{"Run a social media campaign", "Create content for a brand"},
		Resources: []types.Resource{
			{Name: "Google Digital Marketing Courses", URL: "#"},
			{Name: "HubSpot Academy", URL: "#"},
		},
	},
}

var quickEngine = Engine{
	Limit: 1,
	Rules: []Rule{
		{
			Name:   "software-developer",
			AllOf:  []Condition{Mentions(questionSkillFocus, "Technical"), Mentions(questionIndustry, "Technology")},
			Result: types.Recommendation{Title: "Software Developer"},
		},
		{
			Name:   "ux-ui-designer",
			AllOf:  []Condition{Mentions(questionSkillFocus, "Creative"), Mentions(questionIndustry, "Creative")},
			Result: types.Recommendation{Title: "UX/UI Designer"},
		},
		{
			Name:   "project-manager",
			AllOf:  []Condition{Mentions(questionSkillFocus, "Leadership"), Mentions(questionIndustry, "Business")},
			Result: types.Recommendation{Title: "Project Manager"},
		},
	},
	Default: types.Recommendation{Title: "Marketing Specialist"},
}
