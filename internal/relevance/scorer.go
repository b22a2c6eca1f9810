package relevance

import (
	"math"
	"sort"
	"strings"

	"BillScanner/internal/domain"
)

const (
	multiplierDirect    = 1.2
	multiplierNeutral   = 1.0
	multiplierNoPathway = 0.6

	symbolicDampening = 0.7
	symbolicCap       = 4.0

	maxScore = 10.0
)

// Fixed explanation vocabulary.
const (
	reasonSymbolic    = "awareness/symbolic resolution with no programmatic actions"
	reasonOperative   = "operative measure with a direct audience pathway"
	reasonNoAction    = "relevant subject matter without operative action"
	reasonNoPathway   = "broad measure with no direct audience pathway"
	reasonNoRelevance = "no relevant subject matter detected"
)

// Scorer computes the audience-relevance score for a bill. Scoring is a pure
// function of the record's text: no network calls, no randomness, identical
// input always yields identical output.
type Scorer struct {
	rules []CategoryRule
}

// NewScorer builds a scorer over the given rule table; nil selects
// DefaultRules.
func NewScorer(rules []CategoryRule) *Scorer {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Scorer{rules: rules}
}

// Score evaluates the six weighted categories, applies the directness
// multiplier and the symbolism guard, and returns the bounded result.
func (s *Scorer) Score(record domain.BillRecord) domain.RelevanceResult {
	text := strings.ToLower(record.Title + "\n" + record.Text.Content + "\n" + record.Summary.Overview)

	hasAction := containsAny(text, operativeKeywords)
	hasDirect := containsAny(text, directAudienceKeywords)
	hasProxy := containsAny(text, proxyKeywords)
	hasPathway := hasDirect || hasProxy

	categoryScores := make(map[string]float64, len(s.rules))
	symbolicPresent := false

	var weighted, matchedWeight float64
	for _, rule := range s.rules {
		present := containsAny(text, rule.Keywords)

		var score float64
		if rule.Name == CategorySymbolism {
			if present {
				score = 1.0
				symbolicPresent = true
			}
		} else if present {
			switch {
			case hasPathway && hasAction:
				score = 1.0
			case hasPathway || hasAction:
				score = 0.5
			}
		}

		categoryScores[rule.Name] = score
		if present {
			matchedWeight += rule.Weight
			weighted += rule.Weight * score
		}
	}

	// the weighted sum is normalized over the categories that matched at all,
	// so a bill squarely inside two categories is not penalized for the four
	// it never touches
	var ws float64
	if matchedWeight > 0 {
		ws = weighted / matchedWeight
	}

	multiplier := multiplierNeutral
	switch {
	case hasAction && hasPathway:
		multiplier = multiplierDirect
	case !hasPathway:
		multiplier = multiplierNoPathway
	}

	raw := maxScore * ws * multiplier

	symbolicOnly := symbolicPresent && !hasAction
	if symbolicOnly {
		raw = math.Min(raw*symbolicDampening, symbolicCap)
	}

	clamped := math.Min(math.Max(raw, 0), maxScore)

	return domain.RelevanceResult{
		Score:                int(math.Round(clamped)),
		ScoreFloat:           clamped,
		CategoryScores:       categoryScores,
		IsSymbolicOnly:       symbolicOnly,
		HasOperativeAction:   hasAction,
		DirectnessMultiplier: multiplier,
		Explanation:          s.explain(categoryScores, symbolicOnly, hasAction, hasPathway, matchedWeight),
	}
}

// explain names the one or two dominant categories plus a fixed-vocabulary
// reason.
func (s *Scorer) explain(scores map[string]float64, symbolicOnly, hasAction, hasPathway bool, matchedWeight float64) string {
	var reason string
	switch {
	case symbolicOnly:
		reason = reasonSymbolic
	case matchedWeight == 0:
		reason = reasonNoRelevance
	case hasAction && hasPathway:
		reason = reasonOperative
	case !hasAction:
		reason = reasonNoAction
	default:
		reason = reasonNoPathway
	}

	type contribution struct {
		name  string
		value float64
	}

	contributions := make([]contribution, 0, len(s.rules))
	for _, rule := range s.rules {
		if v := rule.Weight * scores[rule.Name]; v > 0 {
			contributions = append(contributions, contribution{rule.Name, v})
		}
	}

	sort.Slice(contributions, func(i, j int) bool {
		if contributions[i].value != contributions[j].value {
			return contributions[i].value > contributions[j].value
		}
		return contributions[i].name < contributions[j].name
	})

	if len(contributions) == 0 {
		return reason
	}

	names := contributions[0].name
	if len(contributions) > 1 {
		names += ", " + contributions[1].name
	}
	return names + ": " + reason
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
