package models

import "time"

// Match status values reported by football-data.org.
const (
	StatusScheduled = "SCHEDULED"
	StatusTimed     = "TIMED"
	StatusFinished  = "FINISHED"
)

// Winner identifies a side of a fixture.
type Winner string

const (
	WinnerHome Winner = "HOME_TEAM"
	WinnerAway Winner = "AWAY_TEAM"
	WinnerDraw Winner = "DRAW"
)

// Team represents a club as returned by the statistics provider.
type Team struct {
	ID        int    `bson:"id" json:"id"`
	Name      string `bson:"name" json:"name"`
	ShortName string `bson:"short_name" json:"shortName"`
	Crest     string `bson:"crest" json:"crest"`
}

// Competition describes the league or cup a match belongs to.
type Competition struct {
	Name   string `bson:"name" json:"name"`
	Code   string `bson:"code" json:"code"`
	Emblem string `bson:"emblem" json:"emblem"`
}

// FullTime holds the final goals of each side. Nil until the match is played.
type FullTime struct {
	Home *int `bson:"home" json:"home"`
	Away *int `bson:"away" json:"away"`
}

// Score holds the outcome of a match.
type Score struct {
	Winner   Winner   `bson:"winner" json:"winner"`
	FullTime FullTime `bson:"full_time" json:"fullTime"`
}

// Match represents a fixture. Immutable once fetched.
type Match struct {
	ID          int         `bson:"id" json:"id" validate:"required"`
	UTCDate     time.Time   `bson:"utc_date" json:"utcDate"`
	Status      string      `bson:"status" json:"status"`
	Matchday    int         `bson:"matchday" json:"matchday"`
	HomeTeam    Team        `bson:"home_team" json:"homeTeam"`
	AwayTeam    Team        `bson:"away_team" json:"awayTeam"`
	Competition Competition `bson:"competition" json:"competition"`
	Score       Score       `bson:"score" json:"score"`
}

// IsUpcoming reports whether the match has not kicked off yet.
func (m Match) IsUpcoming() bool {
	return m.Status == StatusScheduled || m.Status == StatusTimed
}

// NewsItem is a single web-search snippet about a team.
type NewsItem struct {
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	Content    string  `json:"content"`
	Score      float64 `json:"score"`
	RawContent string  `json:"raw_content,omitempty"`
	Published  string  `json:"published_date,omitempty"`
}
