package prediction

import (
	"sort"

	"github.com/sashabaranov/go-openai/jsonschema"
)

// SchemaName identifies the structured output requested from the model.
const SchemaName = "match_prediction"

// requiredFields are the ten fields every model response must carry.
var requiredFields = []string{
	"winner",
	"reasoning",
	"confidence",
	"predictedScore",
	"keyPlayers",
	"bothTeamsToScore",
	"overUnderGoals",
	"possession",
	"h2hSummary",
	"form",
}

func object(props map[string]jsonschema.Definition, description string) jsonschema.Definition {
	required := make([]string, 0, len(props))
	for name := range props {
		required = append(required, name)
	}
	sort.Strings(required)
	return jsonschema.Definition{
		Type:                 jsonschema.Object,
		Description:          description,
		Properties:           props,
		Required:             required,
		AdditionalProperties: false,
	}
}

func homeAway(def jsonschema.Definition, description string) jsonschema.Definition {
	return object(map[string]jsonschema.Definition{
		"home": def,
		"away": def,
	}, description)
}

var formEntry = object(map[string]jsonschema.Definition{
	"opponent": {Type: jsonschema.String, Description: "Name of the opponent."},
	"result":   {Type: jsonschema.String, Enum: []string{"W", "D", "L"}},
	"score":    {Type: jsonschema.String, Description: "Final score as \"<home> - <away>\"."},
	"location": {Type: jsonschema.String, Enum: []string{"H", "A"}},
}, "One recent result.")

// PredictionSchema describes the structured output the model must produce.
func PredictionSchema() *jsonschema.Definition {
	schema := jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"winner": {
				Type:        jsonschema.String,
				Enum:        []string{"HOME_TEAM", "AWAY_TEAM", "DRAW"},
				Description: "The predicted outcome of the match.",
			},
			"reasoning": {
				Type:        jsonschema.String,
				Description: "A concise analysis (2-3 sentences) explaining the prediction, considering head-to-head, recent form and news.",
			},
			"confidence": {
				Type:        jsonschema.Integer,
				Description: "Confidence in the prediction as a percentage from 0 to 100.",
			},
			"predictedScore": homeAway(
				jsonschema.Definition{Type: jsonschema.Integer, Description: "Goals, zero or more."},
				"The predicted final score.",
			),
			"keyPlayers": homeAway(
				jsonschema.Definition{Type: jsonschema.Array, Items: &jsonschema.Definition{Type: jsonschema.String}},
				"Short names of the players most likely to decide the match, per side.",
			),
			"bothTeamsToScore": {
				Type:        jsonschema.Boolean,
				Description: "Whether both teams are expected to score.",
			},
			"overUnderGoals": {
				Type:        jsonschema.String,
				Enum:        []string{"OVER", "UNDER"},
				Description: "Whether the total goals will be over or under 2.5.",
			},
			"possession": homeAway(
				jsonschema.Definition{Type: jsonschema.Integer},
				"Predicted possession percentages. home + away must equal 100.",
			),
			"h2hSummary": object(map[string]jsonschema.Definition{
				"numberOfMatches": {Type: jsonschema.Integer},
				"homeTeamWins":    {Type: jsonschema.Integer},
				"awayTeamWins":    {Type: jsonschema.Integer},
				"draws":           {Type: jsonschema.Integer},
			}, "Head-to-head record between the two teams."),
			"form": homeAway(
				jsonschema.Definition{Type: jsonschema.Array, Items: &formEntry},
				"Last five results of each team, most recent first.",
			),
		},
		Required:             requiredFields,
		AdditionalProperties: false,
	}
	return &schema
}
