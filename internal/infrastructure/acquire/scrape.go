package acquire

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// scrapeLanding drives tier 3: load the bill's landing page, follow its
// "Text" tab, pick the best download link (PDF preferred, else TXT) and
// extract the payload.
func (a *Acquirer) scrapeLanding(ctx context.Context, landingURL string) (string, error) {
	doc, base, err := a.fetchDocument(ctx, landingURL)
	if err != nil {
		return "", err
	}

	textURL, ok := findTextTab(doc, base)
	if !ok {
		return "", fmt.Errorf("no text tab link on %s", landingURL)
	}

	textDoc, textBase, err := a.fetchDocument(ctx, textURL)
	if err != nil {
		return "", err
	}

	downloadURL, format, ok := findDownloadLink(textDoc, textBase)
	if !ok {
		// some text pages inline the full bill body instead of offering
		// downloads
		textDoc.Find("script, style, noscript").Remove()
		if inline := collapseWhitespace(textDoc.Text()); inline != "" {
			return inline, nil
		}
		return "", fmt.Errorf("no download link on %s", textURL)
	}

	return a.download(ctx, downloadURL, format, true)
}

func (a *Acquirer) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, *url.URL, error) {
	resp, err := a.client.Get(ctx, pageURL, true)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse url %s: %w", pageURL, err)
	}

	return doc, base, nil
}

// findTextTab locates the landing page's link to the bill-text view.
func findTextTab(doc *goquery.Document, base *url.URL) (string, bool) {
	var found string

	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		label := strings.TrimSpace(sel.Text())

		if strings.EqualFold(label, "text") || strings.Contains(strings.ToLower(href), "/text") {
			found = resolveHref(base, href)
			return false
		}
		return true
	})

	return found, found != ""
}

// findDownloadLink picks the best text download on the text page: PDF first,
// TXT second.
func findDownloadLink(doc *goquery.Document, base *url.URL) (string, string, bool) {
	type candidate struct {
		href   string
		format string
	}
	var pdf, txt *candidate

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		label := strings.ToLower(strings.TrimSpace(sel.Text()))
		lowered := strings.ToLower(href)

		switch {
		case pdf == nil && (strings.HasSuffix(lowered, ".pdf") || strings.Contains(label, "pdf")):
			pdf = &candidate{resolveHref(base, href), "PDF"}
		case txt == nil && (strings.HasSuffix(lowered, ".txt") || strings.Contains(label, "txt")):
			txt = &candidate{resolveHref(base, href), "TXT"}
		}
	})

	if pdf != nil {
		return pdf.href, pdf.format, true
	}
	if txt != nil {
		return txt.href, txt.format, true
	}
	return "", "", false
}

func resolveHref(base *url.URL, href string) string {
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	if base == nil {
		return parsed.String()
	}
	return base.ResolveReference(parsed).String()
}
