package acquire

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
)

// ExtractPDF pulls page text out of a downloaded PDF payload.
func ExtractPDF(payload []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}

	return collapseWhitespace(buf.String()), nil
}

// ExtractMarkup strips tags from HTML or XML and returns the remaining text.
func ExtractMarkup(payload []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("parse markup: %w", err)
	}

	doc.Find("script, style, noscript").Remove()
	return collapseWhitespace(doc.Text()), nil
}

// collapseWhitespace folds runs of whitespace into single spaces so length
// thresholds measure content, not formatting.
func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
