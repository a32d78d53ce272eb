// Package storage provides the MongoDB prediction journal for MatchSignals.
package storage

import (
	"context"
	"time"

	"github.com/leeaandrob/matchsignals/internal/models"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the predictions collection.
type Store struct {
	client      *mongo.Client
	db          *mongo.Database
	predictions *mongo.Collection
}

// NewStore creates a new storage connection.
func NewStore(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	log.Info().Str("db", dbName).Msg("Connected to MongoDB")

	store := &Store{
		client:      client,
		db:          db,
		predictions: db.Collection("predictions"),
	}

	if err := store.createIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to create some indexes")
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) createIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "match_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "competition", Value: 1}}},
	}
	_, err := s.predictions.Indexes().CreateMany(ctx, indexes)
	return err
}

// SavePrediction appends a prediction to the journal.
func (s *Store) SavePrediction(ctx context.Context, record *models.PredictionRecord) error {
	record.CreatedAt = time.Now()
	_, err := s.predictions.InsertOne(ctx, record)
	return err
}

// GetRecentPredictions returns the newest journal entries.
func (s *Store) GetRecentPredictions(ctx context.Context, limit int) ([]models.PredictionRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	return s.findPredictions(ctx, bson.M{}, opts)
}

// GetPredictionsByMatch returns every journal entry for a match, newest first.
func (s *Store) GetPredictionsByMatch(ctx context.Context, matchID int) ([]models.PredictionRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return s.findPredictions(ctx, bson.M{"match_id": matchID}, opts)
}

func (s *Store) findPredictions(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.PredictionRecord, error) {
	cursor, err := s.predictions.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []models.PredictionRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
