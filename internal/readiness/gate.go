package readiness

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"BillScanner/internal/domain"
)

// ReadyReason is the exact reason string returned for a record that passes
// every check.
const ReadyReason = "Ready for posting"

// errorPhrases is the denylist of failure placeholders a summarizer can leak
// into its output. Any match means the summary is incomplete, not valid.
var errorPhrases = []string{
	"full bill text needed",
	"no summary available",
	"error generating summary",
	"summary unavailable",
	"unable to generate",
}

// Gate decides whether a bill record is complete enough to publish. Check is
// pure and total: it never errors and always returns a reason string.
type Gate struct{}

// NewGate constructs the stateless readiness gate.
func NewGate() *Gate {
	return &Gate{}
}

// Check runs the required-field checks in fixed order, short-circuiting on the
// first failure so the reason always names the first blocking problem.
func (g *Gate) Check(record domain.BillRecord) (bool, string) {
	if strings.TrimSpace(record.Title) == "" {
		return false, "Missing title"
	}

	if !record.Identity.Complete() {
		return false, fmt.Sprintf("Incomplete bill identity: congress=%d type=%q number=%d",
			record.Identity.Congress, record.Identity.Type, record.Identity.Number)
	}

	if record.Text.Absent() || utf8.RuneCountInString(record.Text.Content) < domain.MinTextChars {
		return false, fmt.Sprintf("Full bill text missing or under %d characters (source %s)",
			domain.MinTextChars, record.Text.Source)
	}

	if strings.TrimSpace(record.SponsorName) == "" {
		return false, "Missing sponsor name"
	}

	summaries := []struct {
		name  string
		value string
	}{
		{"overview", record.Summary.Overview},
		{"detailed summary", record.Summary.Detailed},
		{"headline", record.Summary.Tweet},
	}

	for _, s := range summaries {
		if strings.TrimSpace(s.value) == "" {
			return false, "Missing summary field: " + s.name
		}
	}

	for _, s := range summaries {
		if phrase := findErrorPhrase(s.value); phrase != "" {
			return false, fmt.Sprintf("Summary field %s contains error phrase %q", s.name, phrase)
		}
	}

	if record.Relevance == nil {
		return false, "Missing relevance score"
	}

	return true, ReadyReason
}

func findErrorPhrase(text string) string {
	lowered := strings.ToLower(text)
	for _, phrase := range errorPhrases {
		if strings.Contains(lowered, phrase) {
			return phrase
		}
	}
	return ""
}
