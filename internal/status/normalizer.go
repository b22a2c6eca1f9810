package status

import (
	"strings"

	"BillScanner/internal/domain"
)

// rule maps keyword combinations to a canonical status. Each inner slice of
// anyOf is a conjunction: every keyword must appear in the label. Rules are
// evaluated in declaration order and the first match wins.
type rule struct {
	status domain.NormalizedStatus
	anyOf  [][]string
}

var rules = []rule{
	{domain.StatusBecameLaw, [][]string{{"became", "law"}}},
	{domain.StatusPassedSenate, [][]string{{"agreed", "senate"}, {"passed", "senate"}}},
	{domain.StatusPassedHouse, [][]string{{"agreed", "house"}, {"passed", "house"}}},
	// generic "agreed to" without a chamber keyword is handled separately,
	// because the resolution depends on the bill's chamber of origin
	{domain.StatusToPresident, [][]string{{"to", "president"}}},
	{domain.StatusVetoed, [][]string{{"vetoed"}}},
	{domain.StatusFailedSenate, [][]string{{"failed", "senate"}}},
	{domain.StatusFailedHouse, [][]string{{"failed", "house"}}},
	{domain.StatusFailed, [][]string{{"failed"}}},
	{domain.StatusIntroduced, [][]string{{"introduced"}}},
}

// Normalizer derives a canonical status from a scraped progress tracker or,
// when no tracker is available, from free-text latest-action wording.
type Normalizer struct{}

// NewNormalizer constructs the stateless normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize maps tracker state to the closed status enum. A malformed tracker
// with multiple selected steps resolves to the first selected step in document
// order; this tie-break is deliberate, not incidental. With no tracker at all,
// the latest-action text is matched against the same keyword rules.
func (n *Normalizer) Normalize(tracker []domain.TrackerStep, latestAction string, houseOrigin bool) domain.NormalizedStatus {
	for _, step := range tracker {
		if step.Selected {
			return classify(step.Name, houseOrigin, domain.StatusIntroduced)
		}
	}

	if strings.TrimSpace(latestAction) != "" {
		return classify(latestAction, houseOrigin, domain.StatusIntroduced)
	}

	if len(tracker) > 0 {
		// tracker present but nothing selected: treat like missing selection
		// on an otherwise-live bill
		return domain.StatusIntroduced
	}

	return domain.StatusUnknown
}

// classify runs the ordered keyword rules over a single label. Keywords match
// whole words so that "to" never matches inside "vetoed".
func classify(label string, houseOrigin bool, fallback domain.NormalizedStatus) domain.NormalizedStatus {
	words := tokenize(label)

	for _, r := range rules {
		// the chamber-generic "agreed to" case sits between the chamber-specific
		// passed rules and "to president"
		if r.status == domain.StatusToPresident && matchesGenericAgreed(words) {
			if houseOrigin {
				return domain.StatusPassedHouse
			}
			return domain.StatusPassedSenate
		}

		for _, conj := range r.anyOf {
			if containsAll(words, conj) {
				return r.status
			}
		}
	}

	return fallback
}

// matchesGenericAgreed reports "agreed to" wording with no chamber keyword.
func matchesGenericAgreed(words map[string]bool) bool {
	return words["agreed"] && !words["house"] && !words["senate"]
}

func containsAll(words map[string]bool, keywords []string) bool {
	for _, kw := range keywords {
		if !words[kw] {
			return false
		}
	}
	return true
}

func tokenize(label string) map[string]bool {
	fields := strings.FieldsFunc(strings.ToLower(label), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})

	words := make(map[string]bool, len(fields))
	for _, f := range fields {
		words[f] = true
	}
	return words
}
