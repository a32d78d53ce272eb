package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/leeaandrob/matchsignals/internal/models"
	"github.com/rs/zerolog/log"
)

// Predictor runs the prediction pipeline.
type Predictor interface {
	FetchTeamNews(ctx context.Context, teamName string) ([]models.NewsItem, error)
	FetchPrediction(ctx context.Context, match models.Match, homeNews, awayNews []models.NewsItem) (*models.Prediction, error)
	Predict(ctx context.Context, match models.Match) (*models.Prediction, error)
}

// FixtureSource lists upcoming matches of a competition.
type FixtureSource interface {
	Fixtures(ctx context.Context, leagueCode string) ([]models.Match, error)
}

// JournalReader reads journaled predictions.
type JournalReader interface {
	GetRecentPredictions(ctx context.Context, limit int) ([]models.PredictionRecord, error)
	GetPredictionsByMatch(ctx context.Context, matchID int) ([]models.PredictionRecord, error)
}

// Handlers holds the API handlers.
type Handlers struct {
	predictor Predictor
	fixtures  FixtureSource
	journal   JournalReader
	validate  *validator.Validate
}

// NewHandlers creates new API handlers. journal may be nil.
func NewHandlers(predictor Predictor, fixtures FixtureSource, journal JournalReader) *Handlers {
	return &Handlers{
		predictor: predictor,
		fixtures:  fixtures,
		journal:   journal,
		validate:  validator.New(),
	}
}

type newsRequest struct {
	TeamName string `json:"teamName" validate:"required"`
}

type predictRequest struct {
	Match    models.Match      `json:"match"`
	HomeNews []models.NewsItem `json:"homeNews"`
	AwayNews []models.NewsItem `json:"awayNews"`
}

type matchRequest struct {
	Match models.Match `json:"match"`
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps pipeline errors to HTTP statuses.
func respondServiceError(w http.ResponseWriter, err error) {
	var cfgErr *models.ConfigError
	var upErr *models.UpstreamError
	switch {
	case errors.As(err, &cfgErr):
		respondError(w, http.StatusInternalServerError, cfgErr.Error())
	case errors.As(err, &upErr):
		respondJSON(w, upErr.StatusCode, map[string]string{
			"error":   upErr.Error(),
			"details": upErr.Body,
		})
	default:
		log.Error().Err(err).Msg("Request failed")
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *Handlers) decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return h.validate.StructCtx(r.Context(), dst)
}

func getLimit(r *http.Request, defaultLimit int) int {
	limit := defaultLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	return limit
}

// HealthCheck reports liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetFixtures returns upcoming matches for ?leagueCode=.
func (h *Handlers) GetFixtures(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("leagueCode")
	if code == "" {
		respondError(w, http.StatusBadRequest, "League code is required")
		return
	}

	matches, err := h.fixtures.Fixtures(r.Context(), code)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"matches": matches,
		"count":   len(matches),
	})
}

// GetTeamNews returns recent news for a team.
func (h *Handlers) GetTeamNews(w http.ResponseWriter, r *http.Request) {
	var req newsRequest
	if err := h.decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Team name is required")
		return
	}

	news, err := h.predictor.FetchTeamNews(r.Context(), req.TeamName)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"results": news,
		"count":   len(news),
	})
}

// PredictWithNews builds a prediction from caller-supplied news.
func (h *Handlers) PredictWithNews(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := h.decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "A valid match is required")
		return
	}

	p, err := h.predictor.FetchPrediction(r.Context(), req.Match, req.HomeNews, req.AwayNews)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, p)
}

// PredictMatch runs the whole pipeline, news included.
func (h *Handlers) PredictMatch(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := h.decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "A valid match is required")
		return
	}

	p, err := h.predictor.Predict(r.Context(), req.Match)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, p)
}

// GetPredictions returns the newest journaled predictions.
func (h *Handlers) GetPredictions(w http.ResponseWriter, r *http.Request) {
	if h.journal == nil {
		respondError(w, http.StatusServiceUnavailable, "Prediction journal not available")
		return
	}

	records, err := h.journal.GetRecentPredictions(r.Context(), getLimit(r, 20))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch predictions")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"predictions": records,
		"count":       len(records),
	})
}

// GetMatchPredictions returns journaled predictions of one match.
func (h *Handlers) GetMatchPredictions(w http.ResponseWriter, r *http.Request) {
	if h.journal == nil {
		respondError(w, http.StatusServiceUnavailable, "Prediction journal not available")
		return
	}

	matchID, err := strconv.Atoi(chi.URLParam(r, "matchId"))
	if err != nil || matchID <= 0 {
		respondError(w, http.StatusBadRequest, "Match ID must be a positive integer")
		return
	}

	records, err := h.journal.GetPredictionsByMatch(r.Context(), matchID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch predictions")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"match_id":    matchID,
		"predictions": records,
		"count":       len(records),
	})
}
