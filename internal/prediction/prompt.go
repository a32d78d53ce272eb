package prediction

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/leeaandrob/matchsignals/internal/models"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// maxNewsContent bounds each news snippet embedded in the prompt.
const maxNewsContent = 500

const systemInstruction = `You are a senior football analyst who produces sharp, data-driven match predictions.

Weigh the head-to-head record, the recent form of both teams and the latest news (injuries, suspensions, squad changes).
Be confident and concise. Never invent statistics that contradict the data you are given.

Respond ONLY with JSON containing these ten fields:
1. winner: HOME_TEAM, AWAY_TEAM or DRAW
2. reasoning: 2-3 sentences explaining the prediction
3. confidence: integer percentage from 0 to 100
4. predictedScore: {home, away} non-negative integers
5. keyPlayers: {home, away} lists of player short names
6. bothTeamsToScore: boolean
7. overUnderGoals: OVER or UNDER 2.5 total goals
8. possession: {home, away} integer percentages that sum to 100
9. h2hSummary: {numberOfMatches, homeTeamWins, awayTeamWins, draws}
10. form: {home, away} last five results, each {opponent, result W|D|L, score, location H|A}`

// Prompt is everything sent to the model for one prediction.
type Prompt struct {
	System string
	User   string
	Schema *jsonschema.Definition
}

// ComposePrompt builds the model prompt for match.
func ComposePrompt(match models.Match, stats MatchStats, homeNews, awayNews []models.NewsItem) Prompt {
	var sb strings.Builder

	sb.WriteString("Analyze the upcoming football match and provide a prediction.\n\n")

	sb.WriteString("## Match Details\n")
	sb.WriteString(fmt.Sprintf("- Competition: %s\n", match.Competition.Name))
	sb.WriteString(fmt.Sprintf("- Home Team: %s\n", match.HomeTeam.Name))
	sb.WriteString(fmt.Sprintf("- Away Team: %s\n", match.AwayTeam.Name))
	sb.WriteString(fmt.Sprintf("- Match Date: %s\n\n", kickoff(match)))

	sb.WriteString("## Head-to-Head\n")
	sb.WriteString(fmt.Sprintf("- Matches played: %d\n", stats.H2H.NumberOfMatches))
	sb.WriteString(fmt.Sprintf("- %s wins: %d\n", match.HomeTeam.Name, stats.H2H.HomeTeamWins))
	sb.WriteString(fmt.Sprintf("- %s wins: %d\n", match.AwayTeam.Name, stats.H2H.AwayTeamWins))
	sb.WriteString(fmt.Sprintf("- Draws: %d\n\n", stats.H2H.Draws))

	sb.WriteString("## Recent Form (most recent first)\n")
	sb.WriteString(fmt.Sprintf("- %s: %s\n", match.HomeTeam.Name, formSequence(stats.Form.Home)))
	sb.WriteString(fmt.Sprintf("- %s: %s\n\n", match.AwayTeam.Name, formSequence(stats.Form.Away)))

	sb.WriteString("## Recent News & Insights\n\n")
	sb.WriteString(fmt.Sprintf("### %s News\n", match.HomeTeam.Name))
	sb.WriteString(formatNews(match.HomeTeam.Name, homeNews))
	sb.WriteString(fmt.Sprintf("\n### %s News\n", match.AwayTeam.Name))
	sb.WriteString(formatNews(match.AwayTeam.Name, awayNews))

	sb.WriteString("\nBased on all this information, provide your prediction in the required JSON format.")

	return Prompt{
		System: systemInstruction,
		User:   sb.String(),
		Schema: PredictionSchema(),
	}
}

func kickoff(match models.Match) string {
	if match.UTCDate.IsZero() {
		return "Date not available"
	}
	return match.UTCDate.UTC().Format(http.TimeFormat)
}

func formSequence(form []models.MatchResult) string {
	if len(form) == 0 {
		return "No recent results available"
	}
	codes := make([]string, 0, len(form))
	for _, r := range form {
		codes = append(codes, string(r.Result))
	}
	return strings.Join(codes, ", ")
}

func formatNews(team string, news []models.NewsItem) string {
	if len(news) == 0 {
		return fmt.Sprintf("No recent news found for %s.\n", team)
	}
	var sb strings.Builder
	for _, item := range news {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", item.Title, truncateString(item.Content, maxNewsContent)))
	}
	return sb.String()
}

func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
