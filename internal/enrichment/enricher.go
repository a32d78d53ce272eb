package enrichment

import (
	"context"
	"time"

	"github.com/leeaandrob/matchsignals/internal/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Searcher looks up news about a single team.
type Searcher interface {
	TeamNews(ctx context.Context, teamName string) ([]models.NewsItem, error)
}

// Enricher gathers news context for both sides of a match.
type Enricher struct {
	searcher Searcher
}

// MatchNews holds the news gathered for one fixture.
type MatchNews struct {
	Home       []models.NewsItem `json:"home"`
	Away       []models.NewsItem `json:"away"`
	EnrichedAt time.Time         `json:"enriched_at"`
}

// NewEnricher creates a new Enricher backed by searcher.
func NewEnricher(searcher Searcher) *Enricher {
	return &Enricher{searcher: searcher}
}

// TeamNews returns news for a single team.
func (e *Enricher) TeamNews(ctx context.Context, teamName string) ([]models.NewsItem, error) {
	return e.searcher.TeamNews(ctx, teamName)
}

// MatchNews fetches home and away news concurrently. The first failure
// cancels the other lookup and is returned.
func (e *Enricher) MatchNews(ctx context.Context, match models.Match) (*MatchNews, error) {
	log.Debug().
		Int("match_id", match.ID).
		Str("home", match.HomeTeam.Name).
		Str("away", match.AwayTeam.Name).
		Msg("Fetching match news")

	result := &MatchNews{}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := e.searcher.TeamNews(gCtx, match.HomeTeam.Name)
		result.Home = items
		return err
	})
	g.Go(func() error {
		items, err := e.searcher.TeamNews(gCtx, match.AwayTeam.Name)
		result.Away = items
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result.EnrichedAt = time.Now()

	log.Debug().
		Int("home_news", len(result.Home)).
		Int("away_news", len(result.Away)).
		Msg("Match news complete")

	return result, nil
}
