package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"BillScanner/internal/config"
	"BillScanner/internal/domain"
	"BillScanner/internal/ports"
)

// maxPromptChars bounds how much bill text goes into one summarization call.
const maxPromptChars = 60000

// GeminiSummarizer implements the summarization collaborator against the
// Gemini generateContent REST API.
type GeminiSummarizer struct {
	endpoint     string
	apiKey       string
	systemPrompt string
	httpClient   *http.Client
}

var _ ports.Summarizer = (*GeminiSummarizer)(nil)

// NewGeminiSummarizer builds a client from configuration.
func NewGeminiSummarizer(cfg config.GeminiConfig) *GeminiSummarizer {
	return &GeminiSummarizer{
		endpoint:     cfg.Endpoint,
		apiKey:       cfg.APIKey,
		systemPrompt: cfg.SystemPrompt,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Summarize asks the model for the three summary renditions plus a term
// glossary, delivered as one strict JSON object.
func (g *GeminiSummarizer) Summarize(ctx context.Context, record domain.BillRecord) (domain.Summary, error) {
	if g.apiKey == "" || g.endpoint == "" {
		return domain.Summary{}, fmt.Errorf("gemini summarizer misconfigured")
	}

	body, err := json.Marshal(map[string]any{
		"contents": []map[string]any{
			{
				"parts": []map[string]any{
					{"text": g.buildPrompt(record)},
				},
			},
		},
		"generationConfig": map[string]any{
			"temperature":      0.3,
			"responseMimeType": "application/json",
		},
	})
	if err != nil {
		return domain.Summary{}, fmt.Errorf("marshal gemini payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.Summary{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("call gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.Summary{}, fmt.Errorf("gemini error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var apiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
		PromptFeedback struct {
			BlockReason string `json:"blockReason"`
		} `json:"promptFeedback"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return domain.Summary{}, fmt.Errorf("decode gemini response: %w", err)
	}

	if apiResp.PromptFeedback.BlockReason != "" {
		return domain.Summary{}, fmt.Errorf("gemini blocked prompt: %s", apiResp.PromptFeedback.BlockReason)
	}
	if len(apiResp.Candidates) == 0 {
		return domain.Summary{}, fmt.Errorf("gemini returned no candidates")
	}

	var text strings.Builder
	for _, part := range apiResp.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}

	return parseSummary(text.String())
}

func (g *GeminiSummarizer) buildPrompt(record domain.BillRecord) string {
	prompt := g.systemPrompt
	if strings.TrimSpace(prompt) == "" {
		prompt = "You summarize United States legislative bills for a teen audience. " +
			"Respond with a single JSON object with keys overview, detailed, tweet, " +
			"and glossary (a list of {term, definition} objects)."
	}

	content := record.Text.Content
	if len(content) > maxPromptChars {
		cut := maxPromptChars
		for cut > 0 && !utf8.RuneStart(content[cut]) {
			cut--
		}
		content = content[:cut]
	}

	return fmt.Sprintf("%s\n\nBill %s: %s\nSponsor: %s\nStatus: %s\n\nFull text:\n%s",
		prompt, record.BillID(), record.Title, record.SponsorName, record.Status, content)
}

// parseSummary decodes the model's JSON, tolerating markdown code fences.
func parseSummary(raw string) (domain.Summary, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var payload struct {
		Overview string `json:"overview"`
		Detailed string `json:"detailed"`
		Tweet    string `json:"tweet"`
		Glossary []struct {
			Term       string `json:"term"`
			Definition string `json:"definition"`
		} `json:"glossary"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return domain.Summary{}, fmt.Errorf("parse summary json: %w", err)
	}

	summary := domain.Summary{
		Overview: strings.TrimSpace(payload.Overview),
		Detailed: strings.TrimSpace(payload.Detailed),
		Tweet:    strings.TrimSpace(payload.Tweet),
	}
	for _, g := range payload.Glossary {
		summary.Glossary = append(summary.Glossary, domain.GlossaryTerm{
			Term:       g.Term,
			Definition: g.Definition,
		})
	}

	return summary, nil
}
