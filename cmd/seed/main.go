package main

import (
	"context"
	"log"
	"time"

	"github.com/erivelton/subscriply/internal/config"
	"github.com/erivelton/subscriply/internal/repository"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Installs the default admin account, system settings, report cards and the
// demo dataset. Safe to run repeatedly; the server also runs this on boot.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDB.URI))
	if err != nil {
		log.Fatalf("Failed to connect to Mongo: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.MongoDB.Database)

	seeder := repository.NewSeeder(
		repository.NewMongoPlanRepository(db),
		repository.NewMongoCustomerRepository(db),
		repository.NewMongoUserRepository(db),
		repository.NewMongoSettingsRepository(db),
		repository.NewMongoReportRepository(db),
	)

	if err := seeder.EnsureDefaults(ctx, cfg.Seed.AdminPassword); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("✓ Defaults seeded")
}
