package tests

import (
	"context"
	"testing"

	"github.com/erivelton/subscriply/internal/domain"
	"github.com/erivelton/subscriply/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A second admin resetting demo data must get their own copy without
// touching the seed admin's dataset.
func TestResetDemoDataPerOwner(t *testing.T) {
	db, cleanupDB := SetupTestDB(t)
	defer cleanupDB()
	ctx := context.Background()

	planRepo := repository.NewMongoPlanRepository(db)
	customerRepo := repository.NewMongoCustomerRepository(db)
	userRepo := repository.NewMongoUserRepository(db)
	settingsRepo := repository.NewMongoSettingsRepository(db)
	reportRepo := repository.NewMongoReportRepository(db)

	seeder := repository.NewSeeder(planRepo, customerRepo, userRepo, settingsRepo, reportRepo)
	require.NoError(t, seeder.EnsureDefaults(ctx, "boot-pass"))

	adminPlans, err := planRepo.GetByOwner(ctx, repository.SeedAdminID)
	require.NoError(t, err)
	require.Len(t, adminPlans, 4)

	// Second boot must not duplicate anything.
	require.NoError(t, seeder.EnsureDefaults(ctx, "boot-pass"))
	adminPlans, err = planRepo.GetByOwner(ctx, repository.SeedAdminID)
	require.NoError(t, err)
	assert.Len(t, adminPlans, 4)

	secondAdmin := &domain.User{ID: "user_second", Username: "second", PasswordHash: "x", IsAdmin: true}
	require.NoError(t, userRepo.Create(ctx, secondAdmin))
	require.NoError(t, customerRepo.Create(ctx, &domain.Customer{
		ID: "cust_old", Name: "Old", Status: domain.CustomerStatusActive, OwnerID: secondAdmin.ID,
	}))

	require.NoError(t, seeder.ResetDemoData(ctx, secondAdmin.ID))

	secondCustomers, err := customerRepo.GetByOwner(ctx, secondAdmin.ID)
	require.NoError(t, err)
	require.Len(t, secondCustomers, 3)
	for _, c := range secondCustomers {
		assert.NotEqual(t, "cust_old", c.ID)
		assert.Equal(t, secondAdmin.ID, c.OwnerID)
	}

	secondPlans, err := planRepo.GetByOwner(ctx, secondAdmin.ID)
	require.NoError(t, err)
	assert.Len(t, secondPlans, 4)

	// Every demo subscription must resolve against the owner's own plans.
	planIDs := make(map[string]bool, len(secondPlans))
	for _, p := range secondPlans {
		planIDs[p.ID] = true
	}
	for _, c := range secondCustomers {
		for _, sub := range c.Subscriptions {
			assert.True(t, planIDs[sub.PlanID], "subscription %s references foreign plan %s", sub.ID, sub.PlanID)
		}
	}

	// The seed admin's dataset is untouched, and resetting it works too.
	adminCustomers, err := customerRepo.GetByOwner(ctx, repository.SeedAdminID)
	require.NoError(t, err)
	assert.Len(t, adminCustomers, 3)

	require.NoError(t, seeder.ResetDemoData(ctx, repository.SeedAdminID))
	adminPlans, err = planRepo.GetByOwner(ctx, repository.SeedAdminID)
	require.NoError(t, err)
	assert.Len(t, adminPlans, 4)
}
