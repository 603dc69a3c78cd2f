package repository

import (
	"context"
	"fmt"

	"github.com/erivelton/subscriply/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSettingsRepository implements domain.SettingsRepository over the
// singleton settings document.
type MongoSettingsRepository struct {
	collection *mongo.Collection
}

// NewMongoSettingsRepository creates a new settings repository
func NewMongoSettingsRepository(db *mongo.Database) *MongoSettingsRepository {
	return &MongoSettingsRepository{
		collection: db.Collection("settings"),
	}
}

func (r *MongoSettingsRepository) Get(ctx context.Context) (*domain.SystemSettings, error) {
	var settings domain.SystemSettings
	if err := r.collection.FindOne(ctx, bson.M{"_id": domain.SettingsID}).Decode(&settings); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &settings, nil
}

func (r *MongoSettingsRepository) Update(ctx context.Context, settings *domain.SystemSettings) error {
	settings.ID = domain.SettingsID

	_, err := r.collection.ReplaceOne(ctx,
		bson.M{"_id": domain.SettingsID},
		settings,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	return nil
}
