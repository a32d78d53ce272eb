package prediction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/leeaandrob/matchsignals/internal/llm"
	"github.com/leeaandrob/matchsignals/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCompleter decodes a canned response the way the llm client does.
type fakeCompleter struct {
	content string
	err     error
	calls   int
	lastReq llm.ChatRequest
}

func (f *fakeCompleter) ChatJSON(ctx context.Context, req llm.ChatRequest, result interface{}) error {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return f.err
	}
	if f.content == "" {
		return models.ErrEmptyResponse
	}
	if err := json.Unmarshal([]byte(f.content), result); err != nil {
		return fmt.Errorf("%w: %v", models.ErrSchemaViolation, err)
	}
	return nil
}

const modelResponse = `{
  "winner": "AWAY_TEAM",
  "reasoning": "Team B arrive in far better shape and Team A are missing their captain.",
  "confidence": 62,
  "predictedScore": {"home": 0, "away": 2},
  "keyPlayers": {"home": ["Smith"], "away": ["Jones", "Brown"]},
  "bothTeamsToScore": false,
  "overUnderGoals": "UNDER",
  "possession": {"home": 44, "away": 56},
  "h2hSummary": {"numberOfMatches": 99, "homeTeamWins": 50, "awayTeamWins": 40, "draws": 9},
  "form": {
    "home": [{"opponent": "Invented FC", "result": "W", "score": "9 - 0", "location": "H"}],
    "away": []
  }
}`

func computedStats() MatchStats {
	return MatchStats{
		H2H: models.H2HSummary{NumberOfMatches: 4, HomeTeamWins: 3, AwayTeamWins: 1},
		Form: models.Form{
			Home: formOf("W", "L"),
			Away: formOf("D"),
		},
	}
}

func TestGenerateMergesComputedStats(t *testing.T) {
	completer := &fakeCompleter{content: modelResponse}
	gen := NewGenerator(completer, 0)
	stats := computedStats()

	p, err := gen.Generate(context.Background(), ComposePrompt(testMatch(), stats, nil, nil), stats)
	require.NoError(t, err)

	assert.Equal(t, models.WinnerAway, p.Winner)
	assert.Equal(t, 62, p.Confidence)
	assert.Equal(t, models.ScoreLine{Home: 0, Away: 2}, p.PredictedScore)
	assert.Equal(t, []string{"Jones", "Brown"}, p.KeyPlayers.Away)
	assert.Equal(t, models.Possession{Home: 44, Away: 56}, p.Possession)

	assert.Equal(t, stats.H2H, p.H2HSummary)
	assert.Equal(t, stats.Form, p.Form)
	assert.Equal(t, models.SourceModel, p.Source)
}

func TestGenerateRequest(t *testing.T) {
	completer := &fakeCompleter{content: modelResponse}
	gen := NewGenerator(completer, 0)
	prompt := ComposePrompt(testMatch(), computedStats(), nil, nil)

	_, err := gen.Generate(context.Background(), prompt, computedStats())
	require.NoError(t, err)

	assert.Equal(t, 1, completer.calls)
	assert.Equal(t, DefaultTemperature, completer.lastReq.Temperature)
	assert.Equal(t, SchemaName, completer.lastReq.SchemaName)
	assert.Equal(t, prompt.System, completer.lastReq.SystemPrompt)
	assert.Equal(t, prompt.User, completer.lastReq.UserPrompt)
	require.NotNil(t, completer.lastReq.Schema)
}

func TestGenerateModelUnavailable(t *testing.T) {
	gen := NewGenerator(nil, 0.5)

	_, err := gen.Generate(context.Background(), Prompt{}, MatchStats{})

	assert.ErrorIs(t, err, models.ErrModelUnavailable)
}

func TestGenerateEmptyResponse(t *testing.T) {
	gen := NewGenerator(&fakeCompleter{}, 0.5)

	_, err := gen.Generate(context.Background(), Prompt{}, MatchStats{})

	assert.ErrorIs(t, err, models.ErrEmptyResponse)
}

func TestGenerateSchemaViolations(t *testing.T) {
	cases := map[string]string{
		"not json":          `the home side will win`,
		"unknown winner":    `{"winner": "TEAM_A", "reasoning": "x", "confidence": 50, "overUnderGoals": "OVER", "possession": {"home": 50, "away": 50}}`,
		"confidence range":  `{"winner": "DRAW", "reasoning": "x", "confidence": 140, "overUnderGoals": "OVER", "possession": {"home": 50, "away": 50}}`,
		"negative score":    `{"winner": "DRAW", "reasoning": "x", "confidence": 50, "predictedScore": {"home": -1, "away": 0}, "overUnderGoals": "OVER", "possession": {"home": 50, "away": 50}}`,
		"bad over under":    `{"winner": "DRAW", "reasoning": "x", "confidence": 50, "overUnderGoals": "MAYBE", "possession": {"home": 50, "away": 50}}`,
		"possession sum":    `{"winner": "DRAW", "reasoning": "x", "confidence": 50, "overUnderGoals": "OVER", "possession": {"home": 60, "away": 50}}`,
		"missing reasoning": `{"winner": "DRAW", "confidence": 50, "overUnderGoals": "OVER", "possession": {"home": 50, "away": 50}}`,
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			gen := NewGenerator(&fakeCompleter{content: content}, 0.5)

			_, err := gen.Generate(context.Background(), Prompt{}, MatchStats{})

			assert.ErrorIs(t, err, models.ErrSchemaViolation)
		})
	}
}

func TestGeneratePropagatesTransportError(t *testing.T) {
	transport := errors.New("chat completion failed: 503")
	gen := NewGenerator(&fakeCompleter{err: transport}, 0.5)

	_, err := gen.Generate(context.Background(), Prompt{}, MatchStats{})

	assert.ErrorIs(t, err, transport)
}

func TestWithComputedStatsDoesNotTouchOtherFields(t *testing.T) {
	raw := models.Prediction{
		Winner:     models.WinnerHome,
		Reasoning:  "r",
		Confidence: 70,
		H2HSummary: models.H2HSummary{NumberOfMatches: 12},
	}
	stats := computedStats()

	merged := withComputedStats(raw, stats)

	assert.Equal(t, stats.H2H, merged.H2HSummary)
	assert.Equal(t, stats.Form, merged.Form)
	assert.Equal(t, models.SourceModel, merged.Source)
	assert.Equal(t, raw.Winner, merged.Winner)
	assert.Equal(t, raw.Confidence, merged.Confidence)
	// the input value is left as it was
	assert.Equal(t, 12, raw.H2HSummary.NumberOfMatches)
}
