package prediction

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/leeaandrob/matchsignals/internal/llm"
	"github.com/leeaandrob/matchsignals/internal/models"
	"github.com/rs/zerolog/log"
)

// DefaultTemperature keeps structured output close to deterministic.
const DefaultTemperature float32 = 0.5

// Completer sends a prompt and decodes the JSON answer into result.
type Completer interface {
	ChatJSON(ctx context.Context, req llm.ChatRequest, result interface{}) error
}

// Generator asks the model for a prediction.
type Generator struct {
	llm         Completer
	temperature float32
	validate    *validator.Validate
}

// NewGenerator creates a generator. A nil completer makes every call fail
// with models.ErrModelUnavailable.
func NewGenerator(completer Completer, temperature float32) *Generator {
	if temperature <= 0 {
		temperature = DefaultTemperature
	}
	v := validator.New()
	v.RegisterStructValidation(possessionSumsTo100, models.Possession{})
	return &Generator{
		llm:         completer,
		temperature: temperature,
		validate:    v,
	}
}

// Generate requests a schema-constrained prediction and merges the locally
// computed statistics into it.
func (g *Generator) Generate(ctx context.Context, prompt Prompt, stats MatchStats) (*models.Prediction, error) {
	if g.llm == nil {
		return nil, models.ErrModelUnavailable
	}

	var raw models.Prediction
	err := g.llm.ChatJSON(ctx, llm.ChatRequest{
		SystemPrompt: prompt.System,
		UserPrompt:   prompt.User,
		Temperature:  g.temperature,
		Schema:       prompt.Schema,
		SchemaName:   SchemaName,
	}, &raw)
	if err != nil {
		return nil, err
	}

	if err := g.validate.Struct(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrSchemaViolation, err)
	}

	p := withComputedStats(raw, stats)

	log.Debug().
		Str("winner", string(p.Winner)).
		Int("confidence", p.Confidence).
		Msg("Model prediction parsed")

	return &p, nil
}

// withComputedStats returns the model output with h2hSummary and form
// replaced by the computed statistics and the source tagged as model.
func withComputedStats(p models.Prediction, stats MatchStats) models.Prediction {
	p.H2HSummary = stats.H2H
	p.Form = stats.Form
	p.Source = models.SourceModel
	return p
}

func possessionSumsTo100(sl validator.StructLevel) {
	p := sl.Current().Interface().(models.Possession)
	if p.Home+p.Away != 100 {
		sl.ReportError(p.Home, "Home", "home", "possession_sum", "")
	}
}
