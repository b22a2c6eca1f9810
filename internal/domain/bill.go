package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// BillType enumerates the chambers-and-forms a bill identifier can carry.
type BillType string

const (
	BillTypeHR      BillType = "hr"
	BillTypeS       BillType = "s"
	BillTypeHJRes   BillType = "hjres"
	BillTypeSJRes   BillType = "sjres"
	BillTypeHConRes BillType = "hconres"
	BillTypeSConRes BillType = "sconres"
	BillTypeHRes    BillType = "hres"
	BillTypeSRes    BillType = "sres"
)

// HouseOrigin reports whether the type belongs to a House-originated measure.
func (t BillType) HouseOrigin() bool {
	switch t {
	case BillTypeHR, BillTypeHJRes, BillTypeHConRes, BillTypeHRes:
		return true
	}
	return false
}

// Valid reports whether the type is one of the known bill forms.
func (t BillType) Valid() bool {
	switch t {
	case BillTypeHR, BillTypeS, BillTypeHJRes, BillTypeSJRes,
		BillTypeHConRes, BillTypeSConRes, BillTypeHRes, BillTypeSRes:
		return true
	}
	return false
}

// BillIdentity is the immutable key of a bill within a legislative session.
type BillIdentity struct {
	Congress int
	Type     BillType
	Number   int
}

// BillID derives the canonical lowercase identifier used as the dedup key.
func (b BillIdentity) BillID() string {
	return strings.ToLower(fmt.Sprintf("%s%d-%d", b.Type, b.Number, b.Congress))
}

// Complete reports whether all three identity fields are present.
func (b BillIdentity) Complete() bool {
	return b.Congress > 0 && b.Type.Valid() && b.Number > 0
}

// MinTextChars is the floor below which extracted text counts as absent.
// The acquisition chain and the readiness gate share this threshold.
const MinTextChars = 100

// TextSource tags which acquisition channel produced a bill's full text.
type TextSource string

const (
	SourceAPIPDF    TextSource = "api-pdf"
	SourceAPITXT    TextSource = "api-txt"
	SourceAPIHTML   TextSource = "api-html"
	SourceAPIXML    TextSource = "api-xml"
	SourceDirectURL TextSource = "direct-url"
	SourceScraped   TextSource = "scraped"
	SourceNone      TextSource = "none"
)

// AcquiredText is the outcome of the tiered text acquisition chain.
// Source "none" with empty content is a valid terminal result, not an error.
type AcquiredText struct {
	Content string
	Source  TextSource
	Length  int
}

// Absent reports whether acquisition produced no usable text.
func (a AcquiredText) Absent() bool {
	return a.Source == SourceNone || a.Length == 0
}

// NewAcquiredText enforces the minimum-length invariant: content under
// MinTextChars is absent regardless of which channel produced it.
func NewAcquiredText(content string, source TextSource) AcquiredText {
	n := utf8.RuneCountInString(content)
	if n < MinTextChars {
		return AcquiredText{Source: SourceNone}
	}
	return AcquiredText{Content: content, Source: source, Length: n}
}

// TrackerStep is one checkpoint in a bill's scraped progress tracker.
// A well-formed tracker marks exactly one step selected; zero or multiple
// selected steps are tolerated as malformed input.
type TrackerStep struct {
	Name     string
	Selected bool
}

// NormalizedStatus is the closed canonical status enum. Derived, never
// authored directly.
type NormalizedStatus string

const (
	StatusIntroduced   NormalizedStatus = "introduced"
	StatusPassedHouse  NormalizedStatus = "passed_house"
	StatusPassedSenate NormalizedStatus = "passed_senate"
	StatusToPresident  NormalizedStatus = "to_president"
	StatusBecameLaw    NormalizedStatus = "became_law"
	StatusVetoed       NormalizedStatus = "vetoed"
	StatusFailedHouse  NormalizedStatus = "failed_house"
	StatusFailedSenate NormalizedStatus = "failed_senate"
	StatusFailed       NormalizedStatus = "failed"
	StatusUnknown      NormalizedStatus = "unknown"
)

// RelevanceResult captures one deterministic scoring pass over a text snapshot.
// Recomputed whenever the text changes; never mutated in place.
type RelevanceResult struct {
	Score                int
	ScoreFloat           float64
	CategoryScores       map[string]float64
	IsSymbolicOnly       bool
	HasOperativeAction   bool
	DirectnessMultiplier float64
	Explanation          string
}

// GlossaryTerm is one entry of the summarizer's term glossary.
type GlossaryTerm struct {
	Term       string
	Definition string
}

// Summary carries the summarization collaborator's output verbatim.
type Summary struct {
	Overview string
	Detailed string
	Tweet    string
	Glossary []GlossaryTerm
}

// BillRecord aggregates everything the pipeline learns about one bill.
// A single orchestrator run exclusively owns writes to a record.
type BillRecord struct {
	Identity         BillIdentity
	Title            string
	SponsorName      string
	LatestActionText string
	Tracker          []TrackerStep
	DirectTextURL    string
	LandingURL       string

	Text   AcquiredText
	Status NormalizedStatus

	Summary   Summary
	Relevance *RelevanceResult

	Problematic   bool
	ProblemReason string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BillID is shorthand for the identity's canonical key.
func (r BillRecord) BillID() string {
	return r.Identity.BillID()
}
