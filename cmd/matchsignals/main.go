// MatchSignals - AI football match predictions
// Serves fixtures, team news and predictions over a JSON API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/leeaandrob/matchsignals/internal/api"
	"github.com/leeaandrob/matchsignals/internal/config"
	"github.com/leeaandrob/matchsignals/internal/enrichment"
	"github.com/leeaandrob/matchsignals/internal/footballdata"
	"github.com/leeaandrob/matchsignals/internal/llm"
	"github.com/leeaandrob/matchsignals/internal/prediction"
	"github.com/leeaandrob/matchsignals/internal/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	log.Info().Msg("MatchSignals - Starting prediction service")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx := context.Background()

	// Initialize optional prediction journal
	var store *storage.Store
	var journal prediction.Journal
	var journalReader api.JournalReader
	if cfg.MongoURI != "" {
		store, err = storage.NewStore(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
		}
		defer store.Close(ctx)
		journal, journalReader = store, store
	}

	// Initialize football-data client
	fdClient := footballdata.NewClient(cfg.FootballDataAPIKey, cfg.FootballDataEndpoint)
	log.Info().Msg("football-data client initialized")

	// Initialize news enrichment
	enricher := enrichment.NewEnricher(enrichment.NewTavilyClient(cfg.TavilyAPIKey))
	log.Info().Msg("News enrichment initialized")

	// Initialize LLM client
	var completer prediction.Completer
	if llmClient := llm.NewClient(llm.Config{
		APIKey:   cfg.LLMAPIKey,
		Endpoint: cfg.LLMEndpoint,
		Model:    cfg.LLMModel,
	}); llmClient != nil {
		completer = llmClient
		log.Info().Str("model", llmClient.Model()).Msg("LLM client initialized")
	} else {
		log.Warn().Msg("LLM client not initialized (no API key), predictions use the fallback")
	}

	service := prediction.NewService(
		enricher,
		prediction.NewStatsFetcher(fdClient),
		prediction.NewGenerator(completer, cfg.LLMTemperature),
		journal,
	)
	log.Info().Msg("Prediction service initialized")

	apiServer := api.NewServer(service, fdClient, journalReader, cfg.HTTPAddr)

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := apiServer.Start(); err != nil {
			log.Error().Err(err).Msg("API server error")
		}
	}()

	log.Info().
		Str("api", cfg.HTTPAddr).
		Msg("MatchSignals running")

	// Wait for shutdown signal
	<-sigChan
	log.Info().Msg("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	apiServer.Shutdown(shutdownCtx)

	log.Info().Msg("MatchSignals stopped")
}
