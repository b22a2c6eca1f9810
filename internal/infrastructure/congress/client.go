package congress

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"BillScanner/internal/domain"
	"BillScanner/internal/infrastructure/acquire"
)

// Client talks to the upstream bill-source JSON API. Availability is not
// guaranteed; callers treat every failure as "try the next tier".
type Client struct {
	baseURL string
	apiKey  string
	http    *acquire.Client
}

// NewClient wires the shared acquisition client against the API base URL.
func NewClient(baseURL, apiKey string, httpClient *acquire.Client) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		http:    httpClient,
	}
}

// ListTextVersions returns the published text renditions for a bill, newest
// version first, flattened across formats.
func (c *Client) ListTextVersions(ctx context.Context, identity domain.BillIdentity) ([]acquire.TextVersion, error) {
	endpoint := fmt.Sprintf("%s/bill/%d/%s/%d/text", c.baseURL, identity.Congress, identity.Type, identity.Number)

	var payload struct {
		TextVersions []struct {
			Type    string `json:"type"`
			Formats []struct {
				Type string `json:"type"`
				URL  string `json:"url"`
			} `json:"formats"`
		} `json:"textVersions"`
	}

	if err := c.get(ctx, endpoint, nil, &payload); err != nil {
		return nil, fmt.Errorf("list text versions for %s: %w", identity.BillID(), err)
	}

	versions := make([]acquire.TextVersion, 0, len(payload.TextVersions))
	for _, tv := range payload.TextVersions {
		for _, f := range tv.Formats {
			versions = append(versions, acquire.TextVersion{
				VersionType: tv.Type,
				Format:      strings.ToUpper(strings.TrimSpace(f.Type)),
				URL:         f.URL,
			})
		}
	}

	return versions, nil
}

// ListRecentBills returns skeleton records for bills updated since the given
// time: identity, title, and latest-action wording. Sponsor and tracker data
// come from FetchDetail.
func (c *Client) ListRecentBills(ctx context.Context, since time.Time) ([]domain.BillRecord, error) {
	endpoint := c.baseURL + "/bill"
	query := url.Values{}
	query.Set("fromDateTime", since.UTC().Format("2006-01-02T15:04:05Z"))
	// Encode turns the space into the "+" the API expects; a literal "+"
	// here would arrive percent-encoded
	query.Set("sort", "updateDate desc")

	var payload struct {
		Bills []struct {
			Congress     int    `json:"congress"`
			Type         string `json:"type"`
			Number       string `json:"number"`
			Title        string `json:"title"`
			LatestAction struct {
				Text string `json:"text"`
			} `json:"latestAction"`
		} `json:"bills"`
	}

	if err := c.get(ctx, endpoint, query, &payload); err != nil {
		return nil, fmt.Errorf("list recent bills: %w", err)
	}

	records := make([]domain.BillRecord, 0, len(payload.Bills))
	for _, b := range payload.Bills {
		number, err := strconv.Atoi(b.Number)
		if err != nil {
			continue
		}

		identity := domain.BillIdentity{
			Congress: b.Congress,
			Type:     domain.BillType(strings.ToLower(b.Type)),
			Number:   number,
		}
		if !identity.Complete() {
			continue
		}

		records = append(records, domain.BillRecord{
			Identity:         identity,
			Title:            b.Title,
			LatestActionText: b.LatestAction.Text,
			LandingURL:       LandingURL(identity),
		})
	}

	return records, nil
}

// FetchDetail fills sponsor name and any metadata the listing omits.
func (c *Client) FetchDetail(ctx context.Context, record *domain.BillRecord) error {
	identity := record.Identity
	endpoint := fmt.Sprintf("%s/bill/%d/%s/%d", c.baseURL, identity.Congress, identity.Type, identity.Number)

	var payload struct {
		Bill struct {
			Title    string `json:"title"`
			Sponsors []struct {
				FullName string `json:"fullName"`
			} `json:"sponsors"`
			LatestAction struct {
				Text string `json:"text"`
			} `json:"latestAction"`
		} `json:"bill"`
	}

	if err := c.get(ctx, endpoint, nil, &payload); err != nil {
		return fmt.Errorf("fetch detail for %s: %w", identity.BillID(), err)
	}

	if record.Title == "" {
		record.Title = payload.Bill.Title
	}
	if len(payload.Bill.Sponsors) > 0 {
		record.SponsorName = payload.Bill.Sponsors[0].FullName
	}
	if record.LatestActionText == "" {
		record.LatestActionText = payload.Bill.LatestAction.Text
	}

	return nil
}

const landingBase = "https://www.congress.gov/bill"

var typeSlugs = map[domain.BillType]string{
	domain.BillTypeHR:      "house-bill",
	domain.BillTypeS:       "senate-bill",
	domain.BillTypeHJRes:   "house-joint-resolution",
	domain.BillTypeSJRes:   "senate-joint-resolution",
	domain.BillTypeHConRes: "house-concurrent-resolution",
	domain.BillTypeSConRes: "senate-concurrent-resolution",
	domain.BillTypeHRes:    "house-resolution",
	domain.BillTypeSRes:    "senate-resolution",
}

// LandingURL derives the canonical public landing page for a bill, used by
// the tier-3 scrape.
func LandingURL(identity domain.BillIdentity) string {
	slug, ok := typeSlugs[identity.Type]
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s/%dth-congress/%s/%d", landingBase, identity.Congress, slug, identity.Number)
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values, v any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("format", "json")
	if c.apiKey != "" {
		query.Set("api_key", c.apiKey)
	}

	resp, err := c.http.Get(ctx, endpoint+"?"+query.Encode(), false)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
