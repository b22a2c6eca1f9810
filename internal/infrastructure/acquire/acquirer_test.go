package acquire

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"BillScanner/internal/domain"
	"BillScanner/internal/ports"
)

var testIdentity = domain.BillIdentity{Congress: 118, Type: domain.BillTypeHR, Number: 1234}

// fakeLister serves a canned text-version list and counts calls.
type fakeLister struct {
	mu       sync.Mutex
	calls    int
	versions []TextVersion
	err      error
}

func (f *fakeLister) ListTextVersions(_ context.Context, _ domain.BillIdentity) ([]TextVersion, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.versions, f.err
}

func (f *fakeLister) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func fastBackoff(attempts int) BackoffPolicy {
	return BackoffPolicy{MaxAttempts: attempts, BaseDelay: 0, Multiplier: 2}
}

func TestAcquireTierFallbackToScrape(t *testing.T) {
	t.Parallel()

	longBody := strings.Repeat("Be it enacted by the Senate and House of Representatives. ", 90)
	requested := map[string]int{}
	var mu sync.Mutex

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requested[r.URL.Path]++
		mu.Unlock()

		switch r.URL.Path {
		case "/versions/short.txt":
			fmt.Fprint(w, "only fifty characters of placeholder content here")
		case "/bill/118/hr/1234":
			fmt.Fprintf(w, `<html><body><nav><a href="/bill/118/hr/1234/text">Text</a></nav></body></html>`)
		case "/bill/118/hr/1234/text":
			fmt.Fprintf(w, `<html><body><a href="/download/hr1234.txt">TXT</a></body></html>`)
		case "/download/hr1234.txt":
			fmt.Fprint(w, longBody)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	lister := &fakeLister{versions: []TextVersion{
		{Format: "TXT", URL: server.URL + "/versions/short.txt"},
	}}

	acquirer := NewAcquirer(lister, NewClient(server.Client(), nil, 0, 0), fastBackoff(2), false, nil)

	text, err := acquirer.Acquire(context.Background(), testIdentity, ports.SourceHints{
		DirectTextURL: "not-a-url",
		LandingURL:    server.URL + "/bill/118/hr/1234",
	})
	if err != nil {
		t.Fatalf("Acquire error: %v", err)
	}

	if text.Source != domain.SourceScraped {
		t.Fatalf("expected scraped source, got %s", text.Source)
	}
	if text.Length < domain.MinTextChars {
		t.Fatalf("expected long text, got %d chars", text.Length)
	}

	// the malformed direct URL must never produce a request; only the tier-1
	// short payload and the scrape chain may appear
	mu.Lock()
	defer mu.Unlock()
	for path := range requested {
		if strings.Contains(path, "not-a-url") {
			t.Fatalf("malformed direct URL was requested: %s", path)
		}
	}
	if requested["/download/hr1234.txt"] != 1 {
		t.Fatalf("expected one scrape download, got %d", requested["/download/hr1234.txt"])
	}
}

func TestAcquireAPIFormatPriority(t *testing.T) {
	t.Parallel()

	body := strings.Repeat("Section 1. Definitions and requirements for the program. ", 10)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v/bill.txt":
			fmt.Fprint(w, body)
		case "/v/bill.xml":
			fmt.Fprintf(w, "<bill><section>%s</section></bill>", body)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	// TXT outranks XML even when XML is listed first
	lister := &fakeLister{versions: []TextVersion{
		{Format: "Formatted XML", URL: server.URL + "/v/bill.xml"},
		{Format: "TXT", URL: server.URL + "/v/bill.txt"},
	}}

	acquirer := NewAcquirer(lister, NewClient(server.Client(), nil, 0, 0), fastBackoff(1), false, nil)

	text, err := acquirer.Acquire(context.Background(), testIdentity, ports.SourceHints{})
	if err != nil {
		t.Fatalf("Acquire error: %v", err)
	}
	if text.Source != domain.SourceAPITXT {
		t.Fatalf("expected api-txt, got %s", text.Source)
	}
}

func TestAcquireDirectURL(t *testing.T) {
	t.Parallel()

	body := strings.Repeat("The Secretary shall establish a grant program for eligible entities. ", 5)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}))
	defer server.Close()

	acquirer := NewAcquirer(&fakeLister{err: fmt.Errorf("api offline")},
		NewClient(server.Client(), nil, 0, 0), fastBackoff(1), false, nil)

	text, err := acquirer.Acquire(context.Background(), testIdentity, ports.SourceHints{
		DirectTextURL: server.URL + "/text/hr1234.txt",
	})
	if err != nil {
		t.Fatalf("Acquire error: %v", err)
	}
	if text.Source != domain.SourceDirectURL {
		t.Fatalf("expected direct-url, got %s", text.Source)
	}
}

func TestAcquireHeadlessSkipsScrape(t *testing.T) {
	t.Parallel()

	var landingHits int
	var mu sync.Mutex

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		landingHits++
		mu.Unlock()
		fmt.Fprint(w, `<html><body><a href="/text">Text</a></body></html>`)
	}))
	defer server.Close()

	acquirer := NewAcquirer(&fakeLister{err: fmt.Errorf("api offline")},
		NewClient(server.Client(), nil, 0, 0), fastBackoff(1), true, nil)

	text, err := acquirer.Acquire(context.Background(), testIdentity, ports.SourceHints{
		LandingURL: server.URL + "/bill",
	})
	if err != nil {
		t.Fatalf("Acquire error: %v", err)
	}
	if text.Source != domain.SourceNone {
		t.Fatalf("expected none, got %s", text.Source)
	}

	mu.Lock()
	defer mu.Unlock()
	if landingHits != 0 {
		t.Fatalf("headless mode must not touch the landing page, got %d hits", landingHits)
	}
}

func TestAcquireShortTextIsNeverTagged(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "short")
	}))
	defer server.Close()

	lister := &fakeLister{versions: []TextVersion{
		{Format: "TXT", URL: server.URL + "/short.txt"},
	}}

	acquirer := NewAcquirer(lister, NewClient(server.Client(), nil, 0, 0), fastBackoff(1), true, nil)

	text, err := acquirer.Acquire(context.Background(), testIdentity, ports.SourceHints{
		DirectTextURL: server.URL + "/short.txt",
	})
	if err != nil {
		t.Fatalf("Acquire error: %v", err)
	}
	if text.Source != domain.SourceNone {
		t.Fatalf("sub-threshold text must report none, got %s", text.Source)
	}
	if text.Content != "" {
		t.Fatalf("expected empty content, got %q", text.Content)
	}
}

func TestAcquireRetriesTierOne(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{err: fmt.Errorf("upstream 503")}
	acquirer := NewAcquirer(lister, NewClient(http.DefaultClient, nil, 0, 0), fastBackoff(3), true, nil)

	_, err := acquirer.Acquire(context.Background(), testIdentity, ports.SourceHints{})
	if err != nil {
		t.Fatalf("Acquire error: %v", err)
	}

	if got := lister.callCount(); got != 3 {
		t.Fatalf("expected 3 tier-1 attempts, got %d", got)
	}
}

func TestValidTextURL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		url  string
		want bool
	}{
		{"https://example.org/bill.txt", true},
		{"http://example.org/bill", true},
		{"not-a-url", false},
		{"ftp://example.org/bill.txt", false},
		{"/relative/path", false},
		{"", false},
		{"   ", false},
	}

	for _, tc := range cases {
		if got := validTextURL(tc.url); got != tc.want {
			t.Fatalf("validTextURL(%q) = %v, want %v", tc.url, got, tc.want)
		}
	}
}
