// Package enrichment fetches team news used as prediction context.
package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/leeaandrob/matchsignals/internal/metrics"
	"github.com/leeaandrob/matchsignals/internal/models"
	"github.com/rs/zerolog/log"
)

const (
	TavilyAPIURL = "https://api.tavily.com"

	// MaxTeamNews caps the snippets returned per team.
	MaxTeamNews = 5

	providerTavily = "tavily"
)

// TavilyClient provides search functionality via Tavily API.
type TavilyClient struct {
	client *resty.Client
	apiKey string
	now    func() time.Time
}

// TavilySearchRequest represents a search request.
type TavilySearchRequest struct {
	Query             string `json:"query"`
	SearchDepth       string `json:"search_depth,omitempty"` // "basic" or "advanced"
	Topic             string `json:"topic,omitempty"`        // "general" or "news"
	MaxResults        int    `json:"max_results,omitempty"`
	IncludeAnswer     bool   `json:"include_answer"`
	IncludeRawContent bool   `json:"include_raw_content,omitempty"`
}

// TavilySearchResponse represents a search response.
type TavilySearchResponse struct {
	Query   string         `json:"query"`
	Results []TavilyResult `json:"results"`
}

// TavilyResult represents a single search result.
type TavilyResult struct {
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	Content    string  `json:"content"`
	RawContent string  `json:"raw_content,omitempty"`
	Score      float64 `json:"score"`
	Published  string  `json:"published_date,omitempty"`
}

// NewTavilyClient creates a new Tavily client against the public API.
func NewTavilyClient(apiKey string) *TavilyClient {
	return NewTavilyClientWithURL(apiKey, TavilyAPIURL)
}

// NewTavilyClientWithURL creates a Tavily client against baseURL.
// An empty apiKey is accepted; searches then fail with a ConfigError.
func NewTavilyClientWithURL(apiKey, baseURL string) *TavilyClient {
	return &TavilyClient{
		client: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(30 * time.Second),
		apiKey: apiKey,
		now:    time.Now,
	}
}

// TeamNews returns up to MaxTeamNews recent news snippets about a team, in
// the provider's relevance order. No results is not an error.
func (c *TavilyClient) TeamNews(ctx context.Context, teamName string) ([]models.NewsItem, error) {
	if c.apiKey == "" {
		return nil, &models.ConfigError{Provider: providerTavily, EnvVar: "TAVILY_API_KEY"}
	}

	resp, err := c.Search(ctx, TavilySearchRequest{
		Query:         teamNewsQuery(teamName, c.now()),
		SearchDepth:   "basic",
		Topic:         "news",
		MaxResults:    MaxTeamNews,
		IncludeAnswer: false,
	})
	if err != nil {
		return nil, err
	}

	items := make([]models.NewsItem, 0, len(resp.Results))
	for _, r := range resp.Results {
		if len(items) == MaxTeamNews {
			break
		}
		items = append(items, models.NewsItem{
			Title:      r.Title,
			URL:        r.URL,
			Content:    r.Content,
			Score:      r.Score,
			RawContent: r.RawContent,
			Published:  r.Published,
		})
	}

	return items, nil
}

// Search performs a search with custom parameters.
func (c *TavilyClient) Search(ctx context.Context, req TavilySearchRequest) (*TavilySearchResponse, error) {
	body := map[string]interface{}{
		"api_key":        c.apiKey,
		"query":          req.Query,
		"search_depth":   req.SearchDepth,
		"topic":          req.Topic,
		"max_results":    req.MaxResults,
		"include_answer": req.IncludeAnswer,
	}
	if req.IncludeRawContent {
		body["include_raw_content"] = true
	}

	log.Debug().
		Str("query", req.Query).
		Int("max_results", req.MaxResults).
		Msg("Tavily search")

	result, err := c.post(ctx, body)
	metrics.ObserveUpstream(providerTavily, err)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Int("results", len(result.Results)).
		Msg("Tavily search complete")

	return result, nil
}

func (c *TavilyClient) post(ctx context.Context, body map[string]interface{}) (*TavilySearchResponse, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post("/search")

	if err != nil {
		return nil, fmt.Errorf("tavily search failed: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, &models.UpstreamError{
			Provider:   providerTavily,
			StatusCode: resp.StatusCode(),
			Status:     http.StatusText(resp.StatusCode()),
			Body:       resp.String(),
		}
	}

	var result TavilySearchResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse tavily response: %w", err)
	}
	return &result, nil
}

func teamNewsQuery(teamName string, now time.Time) string {
	return fmt.Sprintf(
		"Recent news for %q regarding the %s football season, including player injuries, team form, and pre-match analysis.",
		teamName, season(now),
	)
}

// season returns the European season label for t, e.g. "2025-2026".
// Seasons roll over in July.
func season(t time.Time) string {
	start := t.Year()
	if t.Month() < time.July {
		start--
	}
	return fmt.Sprintf("%d-%d", start, start+1)
}
