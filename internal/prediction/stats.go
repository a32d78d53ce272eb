package prediction

import (
	"context"
	"fmt"
	"sync"

	"github.com/leeaandrob/matchsignals/internal/footballdata"
	"github.com/leeaandrob/matchsignals/internal/models"
	"github.com/rs/zerolog/log"
)

// StatsSource is the subset of the football-data client the stats fetcher needs.
type StatsSource interface {
	Configured() error
	HeadToHead(ctx context.Context, matchID int) (*footballdata.Head2Head, error)
	TeamMatches(ctx context.Context, teamID, limit int) ([]models.Match, error)
}

// MatchStats is the locally computed statistical context of a fixture.
type MatchStats struct {
	H2H  models.H2HSummary
	Form models.Form
}

// StatsFetcher gathers head-to-head and recent form for a fixture.
type StatsFetcher struct {
	source StatsSource
}

// NewStatsFetcher creates a stats fetcher reading from source.
func NewStatsFetcher(source StatsSource) *StatsFetcher {
	return &StatsFetcher{source: source}
}

// Fetch runs the three lookups concurrently. Only a missing credential is
// returned as an error: any single failed lookup degrades to a zero summary
// or an empty form list.
func (f *StatsFetcher) Fetch(ctx context.Context, match models.Match) (MatchStats, error) {
	if err := f.source.Configured(); err != nil {
		return MatchStats{}, err
	}

	stats := MatchStats{
		Form: models.Form{
			Home: []models.MatchResult{},
			Away: []models.MatchResult{},
		},
	}

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		h2h, err := f.source.HeadToHead(ctx, match.ID)
		if err != nil {
			log.Warn().Err(err).Int("match_id", match.ID).Msg("Head-to-head lookup failed")
			return
		}
		stats.H2H = summarize(h2h)
	}()

	go func() {
		defer wg.Done()
		form, err := f.teamForm(ctx, match.HomeTeam.ID)
		if err != nil {
			log.Warn().Err(err).Int("team_id", match.HomeTeam.ID).Msg("Home form lookup failed")
			return
		}
		stats.Form.Home = form
	}()

	go func() {
		defer wg.Done()
		form, err := f.teamForm(ctx, match.AwayTeam.ID)
		if err != nil {
			log.Warn().Err(err).Int("team_id", match.AwayTeam.ID).Msg("Away form lookup failed")
			return
		}
		stats.Form.Away = form
	}()

	wg.Wait()

	log.Debug().
		Int("match_id", match.ID).
		Int("h2h_matches", stats.H2H.NumberOfMatches).
		Int("home_form", len(stats.Form.Home)).
		Int("away_form", len(stats.Form.Away)).
		Msg("Match stats complete")

	return stats, nil
}

func (f *StatsFetcher) teamForm(ctx context.Context, teamID int) ([]models.MatchResult, error) {
	matches, err := f.source.TeamMatches(ctx, teamID, models.MaxFormEntries)
	if err != nil {
		return nil, fmt.Errorf("team %d matches: %w", teamID, err)
	}
	return NormalizeForm(teamID, matches), nil
}

func summarize(h2h *footballdata.Head2Head) models.H2HSummary {
	if h2h == nil {
		return models.H2HSummary{}
	}
	agg := h2h.Aggregates
	return models.H2HSummary{
		NumberOfMatches: agg.NumberOfMatches,
		HomeTeamWins:    agg.HomeTeam.Wins,
		AwayTeamWins:    agg.AwayTeam.Wins,
		Draws:           agg.HomeTeam.Draws,
	}
}

// NormalizeForm converts a team's finished matches, most recent first, into
// at most MaxFormEntries form records.
func NormalizeForm(teamID int, matches []models.Match) []models.MatchResult {
	n := len(matches)
	if n > models.MaxFormEntries {
		n = models.MaxFormEntries
	}
	form := make([]models.MatchResult, 0, n)
	for _, m := range matches[:n] {
		form = append(form, FormEntry(teamID, m))
	}
	return form
}

// FormEntry describes match from the point of view of teamID.
func FormEntry(teamID int, m models.Match) models.MatchResult {
	side := models.WinnerAway
	location := models.LocationAway
	opponent := m.HomeTeam.Name
	if teamID == m.HomeTeam.ID {
		side = models.WinnerHome
		location = models.LocationHome
		opponent = m.AwayTeam.Name
	}

	result := models.ResultLoss
	switch m.Score.Winner {
	case models.WinnerDraw:
		result = models.ResultDraw
	case side:
		result = models.ResultWin
	}

	return models.MatchResult{
		Opponent: opponent,
		Result:   result,
		Score:    fmt.Sprintf("%d - %d", goals(m.Score.FullTime.Home), goals(m.Score.FullTime.Away)),
		Location: location,
	}
}

func goals(g *int) int {
	if g == nil {
		return 0
	}
	return *g
}
