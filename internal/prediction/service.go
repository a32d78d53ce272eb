// Package prediction assembles match predictions from statistics, news and a
// language model, falling back to a heuristic when the model fails.
package prediction

import (
	"context"
	"time"

	"github.com/leeaandrob/matchsignals/internal/enrichment"
	"github.com/leeaandrob/matchsignals/internal/metrics"
	"github.com/leeaandrob/matchsignals/internal/models"
	"github.com/rs/zerolog/log"
)

// State is a step of the prediction pipeline.
type State string

const (
	StateIdle          State = "idle"
	StateFetchingNews  State = "fetching_news"
	StateFetchingStats State = "fetching_stats"
	StateGenerating    State = "generating"
	StateSuccess       State = "success"
	StateFailed        State = "failed"
)

// NewsFetcher returns news for one team or both sides of a match.
type NewsFetcher interface {
	TeamNews(ctx context.Context, teamName string) ([]models.NewsItem, error)
	MatchNews(ctx context.Context, match models.Match) (*enrichment.MatchNews, error)
}

// Journal stores produced predictions.
type Journal interface {
	SavePrediction(ctx context.Context, record *models.PredictionRecord) error
}

// Service runs the prediction pipeline. Every call is independent.
type Service struct {
	news      NewsFetcher
	stats     *StatsFetcher
	generator *Generator
	journal   Journal
}

// NewService creates a new Service. journal may be nil.
func NewService(news NewsFetcher, stats *StatsFetcher, generator *Generator, journal Journal) *Service {
	return &Service{
		news:      news,
		stats:     stats,
		generator: generator,
		journal:   journal,
	}
}

// FetchTeamNews returns recent news about a team.
func (s *Service) FetchTeamNews(ctx context.Context, teamName string) ([]models.NewsItem, error) {
	return s.news.TeamNews(ctx, teamName)
}

// Predict runs the full pipeline for match: both news lookups, then stats,
// then generation. A news failure aborts before any statistics are fetched.
func (s *Service) Predict(ctx context.Context, match models.Match) (*models.Prediction, error) {
	transition(match, StateIdle, StateFetchingNews)

	news, err := s.news.MatchNews(ctx, match)
	if err != nil {
		transition(match, StateFetchingNews, StateFailed)
		return nil, err
	}

	return s.FetchPrediction(ctx, match, news.Home, news.Away)
}

// FetchPrediction builds a prediction from already fetched news. Model
// failures are answered by the fallback predictor; only statistics
// configuration errors are returned.
func (s *Service) FetchPrediction(ctx context.Context, match models.Match, homeNews, awayNews []models.NewsItem) (*models.Prediction, error) {
	start := time.Now()
	transition(match, StateFetchingNews, StateFetchingStats)

	stats, err := s.stats.Fetch(ctx, match)
	if err != nil {
		transition(match, StateFetchingStats, StateFailed)
		return nil, err
	}

	transition(match, StateFetchingStats, StateGenerating)

	prompt := ComposePrompt(match, stats, homeNews, awayNews)
	p, err := s.generator.Generate(ctx, prompt, stats)
	if err != nil {
		log.Warn().
			Err(err).
			Int("match_id", match.ID).
			Msg("Model prediction failed, using fallback")
		p = Fallback(match, stats)
	}

	transition(match, StateGenerating, StateSuccess)
	metrics.ObservePrediction(string(p.Source), time.Since(start))

	log.Info().
		Int("match_id", match.ID).
		Str("home", match.HomeTeam.Name).
		Str("away", match.AwayTeam.Name).
		Str("winner", string(p.Winner)).
		Str("source", string(p.Source)).
		Msg("Prediction ready")

	s.record(ctx, match, p)
	return p, nil
}

// record writes the prediction to the journal. Failures are logged only.
func (s *Service) record(ctx context.Context, match models.Match, p *models.Prediction) {
	if s.journal == nil {
		return
	}
	if err := s.journal.SavePrediction(ctx, models.NewPredictionRecord(match, *p)); err != nil {
		log.Warn().Err(err).Int("match_id", match.ID).Msg("Failed to journal prediction")
	}
}

func transition(match models.Match, from, to State) {
	log.Debug().
		Int("match_id", match.ID).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("Pipeline transition")
}
