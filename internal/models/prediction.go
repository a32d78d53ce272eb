package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ResultCode is the outcome of a past match from one team's point of view.
type ResultCode string

const (
	ResultWin  ResultCode = "W"
	ResultDraw ResultCode = "D"
	ResultLoss ResultCode = "L"
)

// Location tells whether a team played at home or away.
type Location string

const (
	LocationHome Location = "H"
	LocationAway Location = "A"
)

// OverUnder is the total-goals market relative to 2.5.
type OverUnder string

const (
	Over  OverUnder = "OVER"
	Under OverUnder = "UNDER"
)

// PredictionSource tags who produced a prediction.
type PredictionSource string

const (
	SourceModel    PredictionSource = "model"
	SourceFallback PredictionSource = "fallback"
)

// MaxFormEntries caps each side's recent-form list.
const MaxFormEntries = 5

// MatchResult is one entry of a team's recent form.
type MatchResult struct {
	Opponent string     `bson:"opponent" json:"opponent"`
	Result   ResultCode `bson:"result" json:"result"`
	Score    string     `bson:"score" json:"score"`
	Location Location   `bson:"location" json:"location"`
}

// H2HSummary aggregates previous meetings between two teams.
type H2HSummary struct {
	NumberOfMatches int `bson:"number_of_matches" json:"numberOfMatches"`
	HomeTeamWins    int `bson:"home_team_wins" json:"homeTeamWins"`
	AwayTeamWins    int `bson:"away_team_wins" json:"awayTeamWins"`
	Draws           int `bson:"draws" json:"draws"`
}

// Form holds the last results of both sides, most recent first.
type Form struct {
	Home []MatchResult `bson:"home" json:"home"`
	Away []MatchResult `bson:"away" json:"away"`
}

// ScoreLine is a predicted final score.
type ScoreLine struct {
	Home int `bson:"home" json:"home" validate:"min=0"`
	Away int `bson:"away" json:"away" validate:"min=0"`
}

// KeyPlayers lists players expected to decide the match.
type KeyPlayers struct {
	Home []string `bson:"home" json:"home" validate:"dive,required"`
	Away []string `bson:"away" json:"away" validate:"dive,required"`
}

// Possession is the predicted ball possession split in percent.
type Possession struct {
	Home int `bson:"home" json:"home" validate:"min=0,max=100"`
	Away int `bson:"away" json:"away" validate:"min=0,max=100"`
}

// Prediction is the result of the prediction pipeline.
type Prediction struct {
	Winner           Winner           `bson:"winner" json:"winner" validate:"required,oneof=HOME_TEAM AWAY_TEAM DRAW"`
	Reasoning        string           `bson:"reasoning" json:"reasoning" validate:"required"`
	Confidence       int              `bson:"confidence" json:"confidence" validate:"min=0,max=100"`
	PredictedScore   ScoreLine        `bson:"predicted_score" json:"predictedScore"`
	KeyPlayers       KeyPlayers       `bson:"key_players" json:"keyPlayers"`
	BothTeamsToScore bool             `bson:"both_teams_to_score" json:"bothTeamsToScore"`
	OverUnderGoals   OverUnder        `bson:"over_under_goals" json:"overUnderGoals" validate:"required,oneof=OVER UNDER"`
	Possession       Possession       `bson:"possession" json:"possession"`
	H2HSummary       H2HSummary       `bson:"h2h_summary" json:"h2hSummary" validate:"-"`
	Form             Form             `bson:"form" json:"form" validate:"-"`
	Source           PredictionSource `bson:"source" json:"source" validate:"-"`
}

// PredictionRecord is a journal entry of a produced prediction.
type PredictionRecord struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	MatchID     int       `bson:"match_id" json:"match_id"`
	Competition string    `bson:"competition" json:"competition"`
	HomeTeam    string    `bson:"home_team" json:"home_team"`
	AwayTeam    string    `bson:"away_team" json:"away_team"`
	KickoffAt   time.Time `bson:"kickoff_at" json:"kickoff_at"`

	Prediction Prediction `bson:"prediction" json:"prediction"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// NewPredictionRecord builds a journal entry for a prediction of match.
func NewPredictionRecord(match Match, p Prediction) *PredictionRecord {
	return &PredictionRecord{
		MatchID:     match.ID,
		Competition: match.Competition.Code,
		HomeTeam:    match.HomeTeam.Name,
		AwayTeam:    match.AwayTeam.Name,
		KickoffAt:   match.UTCDate,
		Prediction:  p,
	}
}
