package prediction

import "github.com/leeaandrob/matchsignals/internal/models"

const (
	fallbackConfidence = 45
	fallbackReasoning  = "The AI analysis is currently unavailable. This prediction is based on the head-to-head record and the recent form of both teams."
)

// Fallback predicts a match from head-to-head and recent form only.
// H2H wins decide first (2-1), then recent wins (1-0), otherwise a 1-1 draw.
func Fallback(_ models.Match, stats MatchStats) *models.Prediction {
	winner := models.WinnerDraw
	score := models.ScoreLine{Home: 1, Away: 1}

	h2h := stats.H2H
	homeForm := countWins(stats.Form.Home)
	awayForm := countWins(stats.Form.Away)

	switch {
	case h2h.HomeTeamWins > h2h.AwayTeamWins:
		winner, score = models.WinnerHome, models.ScoreLine{Home: 2, Away: 1}
	case h2h.AwayTeamWins > h2h.HomeTeamWins:
		winner, score = models.WinnerAway, models.ScoreLine{Home: 1, Away: 2}
	case homeForm > awayForm:
		winner, score = models.WinnerHome, models.ScoreLine{Home: 1, Away: 0}
	case awayForm > homeForm:
		winner, score = models.WinnerAway, models.ScoreLine{Home: 0, Away: 1}
	}

	overUnder := models.Under
	if float64(score.Home+score.Away) > 2.5 {
		overUnder = models.Over
	}

	return &models.Prediction{
		Winner:         winner,
		Reasoning:      fallbackReasoning,
		Confidence:     fallbackConfidence,
		PredictedScore: score,
		KeyPlayers: models.KeyPlayers{
			Home: []string{"Home team key player"},
			Away: []string{"Away team key player"},
		},
		BothTeamsToScore: score.Home > 0 && score.Away > 0,
		OverUnderGoals:   overUnder,
		Possession:       models.Possession{Home: 50, Away: 50},
		H2HSummary:       h2h,
		Form:             stats.Form,
		Source:           models.SourceFallback,
	}
}

func countWins(form []models.MatchResult) int {
	wins := 0
	for _, r := range form {
		if r.Result == models.ResultWin {
			wins++
		}
	}
	return wins
}
