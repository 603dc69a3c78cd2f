package repository

import (
	"context"
	"fmt"

	"github.com/erivelton/subscriply/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoReportRepository implements domain.ReportRepository
type MongoReportRepository struct {
	collection *mongo.Collection
}

// NewMongoReportRepository creates a new report repository
func NewMongoReportRepository(db *mongo.Database) *MongoReportRepository {
	return &MongoReportRepository{
		collection: db.Collection("reports"),
	}
}

func (r *MongoReportRepository) GetAll(ctx context.Context) ([]*domain.ReportCard, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer cursor.Close(ctx)

	var cards []*domain.ReportCard
	for cursor.Next(ctx) {
		var card domain.ReportCard
		if err := cursor.Decode(&card); err != nil {
			return nil, err
		}
		cards = append(cards, &card)
	}
	return cards, cursor.Err()
}

func (r *MongoReportRepository) SetVisibility(ctx context.Context, id string, visible bool) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"visible": visible}},
	)
	if err != nil {
		return fmt.Errorf("failed to update report visibility: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Seed installs report cards that don't exist yet. Idempotent by _id so
// redeploys never duplicate or reset visibility preferences.
func (r *MongoReportRepository) Seed(ctx context.Context, cards []*domain.ReportCard) error {
	for _, card := range cards {
		count, err := r.collection.CountDocuments(ctx, bson.M{"_id": card.ID})
		if err != nil {
			return fmt.Errorf("failed to check report %s: %w", card.ID, err)
		}
		if count > 0 {
			continue
		}
		if _, err := r.collection.InsertOne(ctx, card); err != nil {
			return fmt.Errorf("failed to seed report %s: %w", card.ID, err)
		}
	}
	return nil
}
