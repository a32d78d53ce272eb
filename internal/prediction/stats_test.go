package prediction

import (
	"context"
	"errors"
	"testing"

	"github.com/leeaandrob/matchsignals/internal/footballdata"
	"github.com/leeaandrob/matchsignals/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStatsSource struct {
	configErr error
	h2h       *footballdata.Head2Head
	h2hErr    error
	matches   map[int][]models.Match
	teamErr   map[int]error
}

func (f *fakeStatsSource) Configured() error { return f.configErr }

func (f *fakeStatsSource) HeadToHead(ctx context.Context, matchID int) (*footballdata.Head2Head, error) {
	if f.h2hErr != nil {
		return nil, f.h2hErr
	}
	return f.h2h, nil
}

func (f *fakeStatsSource) TeamMatches(ctx context.Context, teamID, limit int) ([]models.Match, error) {
	if err := f.teamErr[teamID]; err != nil {
		return nil, err
	}
	return f.matches[teamID], nil
}

func intPtr(v int) *int { return &v }

func finished(homeID int, homeName string, awayID int, awayName string, winner models.Winner, hg, ag int) models.Match {
	return models.Match{
		Status:   models.StatusFinished,
		HomeTeam: models.Team{ID: homeID, Name: homeName},
		AwayTeam: models.Team{ID: awayID, Name: awayName},
		Score: models.Score{
			Winner:   winner,
			FullTime: models.FullTime{Home: intPtr(hg), Away: intPtr(ag)},
		},
	}
}

func TestFormEntry(t *testing.T) {
	home := finished(1, "Team A FC", 9, "Rival FC", models.WinnerHome, 2, 0)
	away := finished(9, "Rival FC", 1, "Team A FC", models.WinnerHome, 3, 1)
	draw := finished(1, "Team A FC", 9, "Rival FC", models.WinnerDraw, 1, 1)
	awayWin := finished(9, "Rival FC", 1, "Team A FC", models.WinnerAway, 0, 2)

	assert.Equal(t, models.MatchResult{Opponent: "Rival FC", Result: models.ResultWin, Score: "2 - 0", Location: models.LocationHome}, FormEntry(1, home))
	assert.Equal(t, models.MatchResult{Opponent: "Rival FC", Result: models.ResultLoss, Score: "3 - 1", Location: models.LocationAway}, FormEntry(1, away))
	assert.Equal(t, models.ResultDraw, FormEntry(1, draw).Result)
	assert.Equal(t, models.LocationHome, FormEntry(1, draw).Location)
	assert.Equal(t, models.ResultWin, FormEntry(1, awayWin).Result)
	assert.Equal(t, models.LocationAway, FormEntry(1, awayWin).Location)
}

func TestFormEntryMissingGoals(t *testing.T) {
	m := models.Match{
		HomeTeam: models.Team{ID: 1, Name: "Team A FC"},
		AwayTeam: models.Team{ID: 2, Name: "Team B FC"},
	}

	entry := FormEntry(2, m)

	assert.Equal(t, "0 - 0", entry.Score)
	assert.Equal(t, models.ResultLoss, entry.Result)
	assert.Equal(t, "Team A FC", entry.Opponent)
}

func TestNormalizeFormCapsAtFive(t *testing.T) {
	var matches []models.Match
	for i := 0; i < 7; i++ {
		matches = append(matches, finished(1, "Team A FC", 9, "Rival FC", models.WinnerHome, 1, 0))
	}

	assert.Len(t, NormalizeForm(1, matches), models.MaxFormEntries)
	assert.Empty(t, NormalizeForm(1, nil))
}

func TestStatsFetch(t *testing.T) {
	source := &fakeStatsSource{
		h2h: &footballdata.Head2Head{Aggregates: footballdata.Aggregates{
			NumberOfMatches: 4,
			HomeTeam:        footballdata.TeamAggregate{ID: 1, Wins: 3, Draws: 0, Losses: 1},
			AwayTeam:        footballdata.TeamAggregate{ID: 2, Wins: 1, Draws: 0, Losses: 3},
		}},
		matches: map[int][]models.Match{
			1: {finished(1, "Team A FC", 9, "Rival FC", models.WinnerHome, 2, 1)},
			2: {finished(8, "Other FC", 2, "Team B FC", models.WinnerDraw, 0, 0)},
		},
	}

	stats, err := NewStatsFetcher(source).Fetch(context.Background(), testMatch())
	require.NoError(t, err)

	assert.Equal(t, models.H2HSummary{NumberOfMatches: 4, HomeTeamWins: 3, AwayTeamWins: 1}, stats.H2H)
	require.Len(t, stats.Form.Home, 1)
	assert.Equal(t, models.ResultWin, stats.Form.Home[0].Result)
	require.Len(t, stats.Form.Away, 1)
	assert.Equal(t, models.ResultDraw, stats.Form.Away[0].Result)
	assert.Equal(t, models.LocationAway, stats.Form.Away[0].Location)
}

func TestStatsFetchDegradesFailedLookups(t *testing.T) {
	upstream := &models.UpstreamError{Provider: "football-data", StatusCode: 429, Status: "Too Many Requests"}

	t.Run("head-to-head", func(t *testing.T) {
		source := &fakeStatsSource{
			h2hErr: upstream,
			matches: map[int][]models.Match{
				1: {finished(1, "Team A FC", 9, "Rival FC", models.WinnerHome, 2, 1)},
				2: {finished(2, "Team B FC", 9, "Rival FC", models.WinnerAway, 0, 1)},
			},
		}

		stats, err := NewStatsFetcher(source).Fetch(context.Background(), testMatch())
		require.NoError(t, err)
		assert.Equal(t, models.H2HSummary{}, stats.H2H)
		assert.Len(t, stats.Form.Home, 1)
		assert.Len(t, stats.Form.Away, 1)
	})

	t.Run("home form", func(t *testing.T) {
		source := &fakeStatsSource{
			h2h:     &footballdata.Head2Head{Aggregates: footballdata.Aggregates{NumberOfMatches: 2, HomeTeam: footballdata.TeamAggregate{Wins: 2}}},
			teamErr: map[int]error{1: errors.New("connection reset")},
			matches: map[int][]models.Match{
				2: {finished(2, "Team B FC", 9, "Rival FC", models.WinnerAway, 0, 1)},
			},
		}

		stats, err := NewStatsFetcher(source).Fetch(context.Background(), testMatch())
		require.NoError(t, err)
		assert.Equal(t, 2, stats.H2H.HomeTeamWins)
		assert.NotNil(t, stats.Form.Home)
		assert.Empty(t, stats.Form.Home)
		assert.Len(t, stats.Form.Away, 1)
	})

	t.Run("everything", func(t *testing.T) {
		source := &fakeStatsSource{
			h2hErr:  upstream,
			teamErr: map[int]error{1: upstream, 2: upstream},
		}

		stats, err := NewStatsFetcher(source).Fetch(context.Background(), testMatch())
		require.NoError(t, err)
		assert.Equal(t, models.H2HSummary{}, stats.H2H)
		assert.Empty(t, stats.Form.Home)
		assert.Empty(t, stats.Form.Away)
	})
}

func TestStatsFetchConfigError(t *testing.T) {
	source := &fakeStatsSource{
		configErr: &models.ConfigError{Provider: "football-data", EnvVar: "FOOTBALL_DATA_API_KEY"},
	}

	_, err := NewStatsFetcher(source).Fetch(context.Background(), testMatch())

	require.Error(t, err)
	assert.True(t, models.IsConfigError(err))
}
