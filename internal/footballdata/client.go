// Package footballdata provides a client for the football-data.org v4 API.
// Covers fixtures, head-to-head aggregates and team match history.
package footballdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/leeaandrob/matchsignals/internal/metrics"
	"github.com/leeaandrob/matchsignals/internal/models"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultBaseURL is the public v4 endpoint.
	DefaultBaseURL = "https://api.football-data.org/v4"

	// FixtureWindow is how far ahead fixtures are listed.
	FixtureWindow = 7 * 24 * time.Hour

	provider = "football-data"
)

// Client provides access to football-data.org.
type Client struct {
	http   *resty.Client
	apiKey string
	now    func() time.Time
}

// NewClient creates a new football-data client. An empty baseURL selects
// DefaultBaseURL. An empty apiKey is accepted; every call then fails with a
// ConfigError.
func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(30*time.Second).
			SetHeader("X-Auth-Token", apiKey),
		apiKey: apiKey,
		now:    time.Now,
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() error {
	if c.apiKey == "" {
		return &models.ConfigError{Provider: provider, EnvVar: "FOOTBALL_DATA_API_KEY"}
	}
	return nil
}

type matchesResponse struct {
	Matches []models.Match `json:"matches"`
}

// TeamAggregate is one side of a head-to-head aggregate.
type TeamAggregate struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Wins   int    `json:"wins"`
	Draws  int    `json:"draws"`
	Losses int    `json:"losses"`
}

// Aggregates summarises previous meetings of a fixture's two teams.
type Aggregates struct {
	NumberOfMatches int           `json:"numberOfMatches"`
	TotalGoals      int           `json:"totalGoals"`
	HomeTeam        TeamAggregate `json:"homeTeam"`
	AwayTeam        TeamAggregate `json:"awayTeam"`
}

// Head2Head is the response of the head-to-head endpoint.
type Head2Head struct {
	Aggregates Aggregates     `json:"aggregates"`
	Matches    []models.Match `json:"matches"`
}

// Fixtures returns the upcoming matches of a competition within FixtureWindow.
func (c *Client) Fixtures(ctx context.Context, leagueCode string) ([]models.Match, error) {
	from := c.now().UTC()
	to := from.Add(FixtureWindow)

	params := url.Values{}
	params.Set("dateFrom", from.Format("2006-01-02"))
	params.Set("dateTo", to.Format("2006-01-02"))

	var resp matchesResponse
	if err := c.get(ctx, "/competitions/"+url.PathEscape(leagueCode)+"/matches", params, &resp); err != nil {
		return nil, err
	}

	fixtures := make([]models.Match, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		if m.IsUpcoming() {
			fixtures = append(fixtures, m)
		}
	}

	log.Debug().
		Str("league", leagueCode).
		Int("count", len(fixtures)).
		Msg("Fetched fixtures")

	return fixtures, nil
}

// HeadToHead retrieves the head-to-head record for a fixture.
func (c *Client) HeadToHead(ctx context.Context, matchID int) (*Head2Head, error) {
	var h2h Head2Head
	if err := c.get(ctx, "/matches/"+strconv.Itoa(matchID)+"/head2head", nil, &h2h); err != nil {
		return nil, err
	}
	return &h2h, nil
}

// TeamMatches returns up to limit finished matches of a team, most recent first.
func (c *Client) TeamMatches(ctx context.Context, teamID, limit int) ([]models.Match, error) {
	params := url.Values{}
	params.Set("status", models.StatusFinished)

	var resp matchesResponse
	if err := c.get(ctx, "/teams/"+strconv.Itoa(teamID)+"/matches", params, &resp); err != nil {
		return nil, err
	}

	matches := resp.Matches
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].UTCDate.After(matches[j].UTCDate)
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if err := c.Configured(); err != nil {
		return err
	}

	log.Debug().
		Str("endpoint", path).
		Str("params", params.Encode()).
		Msg("Fetching from football-data")

	req := c.http.R().SetContext(ctx)
	if len(params) > 0 {
		req.SetQueryParamsFromValues(params)
	}
	resp, err := req.Get(path)
	if err != nil {
		metrics.ObserveUpstream(provider, err)
		return fmt.Errorf("football-data request %s failed: %w", path, err)
	}

	if resp.StatusCode() != http.StatusOK {
		upstreamErr := &models.UpstreamError{
			Provider:   provider,
			StatusCode: resp.StatusCode(),
			Status:     http.StatusText(resp.StatusCode()),
			Body:       resp.String(),
		}
		metrics.ObserveUpstream(provider, upstreamErr)
		return upstreamErr
	}
	metrics.ObserveUpstream(provider, nil)

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to parse football-data response: %w", err)
	}
	return nil
}
