package acquire

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"sync/atomic"
	"time"
)

// defaultAgents is a small rotation of desktop user agents. The active agent
// is chosen per call rather than mutated on a shared session.
var defaultAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0",
}

// Client wraps an explicitly constructed http.Client for acquisition calls:
// rotating user agents and, for the polite tiers, a randomized pre-request
// delay that keeps request timing human-like.
type Client struct {
	http      *http.Client
	agents    []string
	jitterMin time.Duration
	jitterMax time.Duration
	sleep     func(time.Duration)
	calls     atomic.Uint64
}

// NewClient builds the shared acquisition client. A nil http.Client gets a
// 25s timeout; empty agents fall back to the default rotation; a zero jitter
// window disables the pre-request delay.
func NewClient(hc *http.Client, agents []string, jitterMin, jitterMax time.Duration) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 25 * time.Second}
	}
	if len(agents) == 0 {
		agents = defaultAgents
	}
	if jitterMax < jitterMin {
		jitterMax = jitterMin
	}
	return &Client{
		http:      hc,
		agents:    agents,
		jitterMin: jitterMin,
		jitterMax: jitterMax,
		sleep:     time.Sleep,
	}
}

// Get fetches rawURL with the next user agent in rotation. When polite is
// set, the call is preceded by the randomized jitter delay; the structured
// API tier passes polite=false and skips it.
func (c *Client) Get(ctx context.Context, rawURL string, polite bool) (*http.Response, error) {
	if polite {
		c.preRequestDelay()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.nextAgent())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", rawURL, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("request %s: unexpected status %s", rawURL, resp.Status)
	}

	return resp, nil
}

func (c *Client) nextAgent() string {
	n := c.calls.Add(1)
	return c.agents[int(n-1)%len(c.agents)]
}

func (c *Client) preRequestDelay() {
	window := c.jitterMax - c.jitterMin
	if c.jitterMax <= 0 {
		return
	}

	delay := c.jitterMin
	if window > 0 {
		delay += time.Duration(rand.Int63n(int64(window)))
	}
	if delay > 0 {
		c.sleep(delay)
	}
}
