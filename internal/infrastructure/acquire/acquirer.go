package acquire

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"BillScanner/internal/domain"
	"BillScanner/internal/ports"
)

// maxPayloadBytes caps any single download.
const maxPayloadBytes = 20 << 20

// TextVersion is one downloadable rendition of a bill's text as reported by
// the upstream text-version list.
type TextVersion struct {
	VersionType string
	Format      string
	URL         string
}

// VersionLister exposes the upstream text-version endpoint to tier 1.
type VersionLister interface {
	ListTextVersions(ctx context.Context, identity domain.BillIdentity) ([]TextVersion, error)
}

// formatPriority is the fixed tier-1 preference order.
var formatPriority = []string{"PDF", "TXT", "HTML", "XML"}

var formatTags = map[string]domain.TextSource{
	"PDF":  domain.SourceAPIPDF,
	"TXT":  domain.SourceAPITXT,
	"HTML": domain.SourceAPIHTML,
	"XML":  domain.SourceAPIXML,
}

// Acquirer resolves a bill's full text through the three-tier fallback chain:
// structured API text versions, direct text URL, landing-page scrape. Tiers
// run strictly in order, each bounded by the backoff policy; exhausting every
// tier is a valid terminal result, not an error.
type Acquirer struct {
	versions VersionLister
	client   *Client
	backoff  BackoffPolicy
	headless bool
	logger   *slog.Logger
}

var _ ports.TextAcquirer = (*Acquirer)(nil)

// NewAcquirer wires the tier-1 version lister and the shared HTTP client.
// headless disables tier 3, which cannot be trusted in batch environments
// that do not render script-driven pages.
func NewAcquirer(versions VersionLister, client *Client, backoff BackoffPolicy, headless bool, logger *slog.Logger) *Acquirer {
	if client == nil {
		client = NewClient(nil, nil, 0, 0)
	}
	if backoff.MaxAttempts == 0 {
		backoff = DefaultBackoff
	}
	return &Acquirer{
		versions: versions,
		client:   client,
		backoff:  backoff,
		headless: headless,
		logger:   logger,
	}
}

// Acquire attempts each tier in fixed priority order and stops at the first
// one yielding text at or above the minimum length.
func (a *Acquirer) Acquire(ctx context.Context, identity domain.BillIdentity, hints ports.SourceHints) (domain.AcquiredText, error) {
	if text, ok := a.tryAPI(ctx, identity); ok {
		return text, nil
	}

	if text, ok := a.tryDirectURL(ctx, identity, hints.DirectTextURL); ok {
		return text, nil
	}

	if text, ok := a.tryScrape(ctx, identity, hints.LandingURL); ok {
		return text, nil
	}

	a.debug("acquisition exhausted", "bill", identity.BillID())
	return domain.AcquiredText{Source: domain.SourceNone}, nil
}

// tryAPI is tier 1: the published text-version list, formats tried in the
// fixed PDF > TXT > HTML > XML order. No jitter on these calls.
func (a *Acquirer) tryAPI(ctx context.Context, identity domain.BillIdentity) (domain.AcquiredText, bool) {
	if a.versions == nil {
		return domain.AcquiredText{}, false
	}

	var result domain.AcquiredText
	err := a.backoff.Retry(ctx, func() error {
		versions, err := a.versions.ListTextVersions(ctx, identity)
		if err != nil {
			return err
		}

		for _, format := range formatPriority {
			version, ok := pickFormat(versions, format)
			if !ok {
				continue
			}

			content, dErr := a.download(ctx, version.URL, format, false)
			if dErr != nil {
				a.debug("text version download failed", "bill", identity.BillID(), "format", format, "error", dErr)
				continue
			}

			if text := domain.NewAcquiredText(content, formatTags[format]); !text.Absent() {
				result = text
				return nil
			}
		}

		return fmt.Errorf("no text version reached %d characters", domain.MinTextChars)
	})
	if err != nil {
		a.debug("tier 1 exhausted", "bill", identity.BillID(), "error", err)
		return domain.AcquiredText{}, false
	}

	return result, true
}

// tryDirectURL is tier 2. The well-formedness guard is mandatory: a URL that
// is not an absolute http(s) URL is never attempted.
func (a *Acquirer) tryDirectURL(ctx context.Context, identity domain.BillIdentity, rawURL string) (domain.AcquiredText, bool) {
	if !validTextURL(rawURL) {
		if rawURL != "" {
			a.debug("direct text url rejected", "bill", identity.BillID(), "url", rawURL)
		}
		return domain.AcquiredText{}, false
	}

	var result domain.AcquiredText
	err := a.backoff.Retry(ctx, func() error {
		content, err := a.download(ctx, rawURL, formatForURL(rawURL), true)
		if err != nil {
			return err
		}

		text := domain.NewAcquiredText(content, domain.SourceDirectURL)
		if text.Absent() {
			return fmt.Errorf("direct url text under %d characters", domain.MinTextChars)
		}

		result = text
		return nil
	})
	if err != nil {
		a.debug("tier 2 exhausted", "bill", identity.BillID(), "error", err)
		return domain.AcquiredText{}, false
	}

	return result, true
}

// tryScrape is tier 3: follow the landing page's text tab and download the
// best link. Skipped entirely in headless batch mode.
func (a *Acquirer) tryScrape(ctx context.Context, identity domain.BillIdentity, landingURL string) (domain.AcquiredText, bool) {
	if a.headless {
		a.debug("tier 3 skipped in headless mode", "bill", identity.BillID())
		return domain.AcquiredText{}, false
	}
	if !validTextURL(landingURL) {
		return domain.AcquiredText{}, false
	}

	var result domain.AcquiredText
	err := a.backoff.Retry(ctx, func() error {
		content, err := a.scrapeLanding(ctx, landingURL)
		if err != nil {
			return err
		}

		text := domain.NewAcquiredText(content, domain.SourceScraped)
		if text.Absent() {
			return fmt.Errorf("scraped text under %d characters", domain.MinTextChars)
		}

		result = text
		return nil
	})
	if err != nil {
		a.debug("tier 3 exhausted", "bill", identity.BillID(), "error", err)
		return domain.AcquiredText{}, false
	}

	return result, true
}

// download fetches the URL and extracts text according to the format hint.
func (a *Acquirer) download(ctx context.Context, rawURL, format string, polite bool) (string, error) {
	resp, err := a.client.Get(ctx, rawURL, polite)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return "", fmt.Errorf("read payload: %w", err)
	}

	if format == "PDF" || isPDFResponse(resp.Header.Get("Content-Type"), payload) {
		return ExtractPDF(payload)
	}
	if format == "HTML" || format == "XML" || looksLikeMarkup(payload) {
		return ExtractMarkup(payload)
	}
	return strings.TrimSpace(string(payload)), nil
}

func pickFormat(versions []TextVersion, format string) (TextVersion, bool) {
	for _, v := range versions {
		if normalizeFormat(v.Format) == format && v.URL != "" {
			return v, true
		}
	}
	return TextVersion{}, false
}

// normalizeFormat folds upstream format labels ("Formatted Text",
// "Formatted XML") onto the four canonical names.
func normalizeFormat(format string) string {
	f := strings.ToUpper(format)
	switch {
	case strings.Contains(f, "PDF"):
		return "PDF"
	case strings.Contains(f, "XML"):
		return "XML"
	case strings.Contains(f, "TXT"):
		return "TXT"
	case strings.Contains(f, "HTML"), strings.Contains(f, "FORMATTED TEXT"):
		return "HTML"
	case strings.Contains(f, "TEXT"):
		return "TXT"
	}
	return f
}

func formatForURL(rawURL string) string {
	lowered := strings.ToLower(rawURL)
	switch {
	case strings.HasSuffix(lowered, ".pdf"):
		return "PDF"
	case strings.HasSuffix(lowered, ".txt"):
		return "TXT"
	case strings.HasSuffix(lowered, ".xml"):
		return "XML"
	}
	return "HTML"
}

// validTextURL is the syntactic guard for tiers 2-3: absolute http(s) URLs
// only.
func validTextURL(rawURL string) bool {
	if strings.TrimSpace(rawURL) == "" {
		return false
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

func isPDFResponse(contentType string, payload []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "pdf") {
		return true
	}
	return len(payload) >= 5 && string(payload[:5]) == "%PDF-"
}

func looksLikeMarkup(payload []byte) bool {
	trimmed := strings.TrimSpace(string(payload[:min(len(payload), 512)]))
	return strings.HasPrefix(trimmed, "<")
}

func (a *Acquirer) debug(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Debug(msg, args...)
	}
}
