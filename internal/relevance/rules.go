package relevance

// RulesVersion identifies the keyword table revision. Bump it whenever the
// table changes so stored scores can be traced to the policy that produced
// them.
const RulesVersion = "2024-06"

// CategoryRule binds one scoring category to its normalized weight and the
// keyword patterns that signal the category in bill text. Keywords match as
// lowercase substrings, which lets multi-word phrases participate.
type CategoryRule struct {
	Name     string
	Weight   float64
	Keywords []string
}

// CategorySymbolism is the ceremonial-language category; it scores on keyword
// presence alone, independent of operative actions.
const CategorySymbolism = "symbolism"

// DefaultRules is the fixed six-category table. Weights sum to 1.0.
var DefaultRules = []CategoryRule{
	{
		Name:   "education",
		Weight: 0.25,
		Keywords: []string{
			"school", "student", "education", "curriculum", "teacher",
			"classroom", "college", "tuition", "scholarship", "k-12",
			"literacy", "vocational", "stem education",
		},
	},
	{
		Name:   "civic-rights",
		Weight: 0.25,
		Keywords: []string{
			"voting", "civil rights", "privacy", "free speech",
			"discrimination", "harassment", "juvenile justice",
			"immigration", "first amendment", "due process", "firearm",
			"policing",
		},
	},
	{
		Name:   "health",
		Weight: 0.20,
		Keywords: []string{
			"health", "counseling", "counselor", "medicaid", "insurance",
			"vaccine", "nutrition", "substance abuse", "tobacco", "vaping",
			"suicide prevention", "wellness",
		},
	},
	{
		Name:   "economy",
		Weight: 0.15,
		Keywords: []string{
			"minimum wage", "employment", "labor", "workforce", "tax credit",
			"student loan", "apprenticeship", "internship", "wages",
			"small business", "job training",
		},
	},
	{
		Name:   "environment",
		Weight: 0.10,
		Keywords: []string{
			"climate", "environment", "pollution", "emissions",
			"clean energy", "conservation", "wildlife", "water quality",
			"renewable",
		},
	},
	{
		Name:   CategorySymbolism,
		Weight: 0.05,
		Keywords: []string{
			"designating", "designates", "recognizing", "recognizes",
			"commending", "commends", "commemorating", "commemorates",
			"celebrating", "honoring", "awareness month", "awareness week",
			"national day", "tribute",
		},
	},
}

// operativeKeywords signal a bill that does something rather than says
// something.
var operativeKeywords = []string{
	"authorize", "authorizes", "authorized", "require", "requires",
	"mandate", "mandates", "establish", "establishes", "amend", "amends",
	"fund", "funding", "prohibit", "prohibits", "shall", "appropriate",
	"appropriates", "enact", "enacts",
}

// directAudienceKeywords name the target audience explicitly.
var directAudienceKeywords = []string{
	"teen", "teens", "teenager", "teenagers", "youth", "young people",
	"minors", "adolescent", "adolescents", "students", "children",
	"under 18", "under the age of 18",
}

// proxyKeywords are contextual stand-ins for the audience. The boundary of
// this list is intentionally fuzzy; treat it as tunable configuration rather
// than a fixed contract.
var proxyKeywords = []string{
	"school", "schools", "classroom", "college", "campus", "curriculum",
	"family", "families", "parent", "parents", "guardian", "guardians",
	"dependents", "apprenticeship", "pediatric", "graduation",
}
