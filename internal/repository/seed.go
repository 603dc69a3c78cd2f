package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/erivelton/subscriply/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// Fixed ID bases keep seeding idempotent across restarts. Demo document IDs
// are suffixed with the owner so every admin gets an independent copy.
const (
	SeedAdminID       = "user_admin"
	seedAdminUsername = "admin"

	seedPlanBasic       = "plan_basic"
	seedPlanPremium     = "plan_premium"
	seedPlanBusiness    = "plan_business"
	seedPlanAnnualBasic = "plan_annual_basic"
)

func demoID(base, ownerID string) string {
	return base + "_" + ownerID
}

// Seeder installs the default admin account, system settings, report cards
// and the demo dataset when the store is empty.
type Seeder struct {
	plans     domain.PlanRepository
	customers domain.CustomerRepository
	users     domain.UserRepository
	settings  domain.SettingsRepository
	reports   domain.ReportRepository
}

// NewSeeder creates a new seeder
func NewSeeder(
	plans domain.PlanRepository,
	customers domain.CustomerRepository,
	users domain.UserRepository,
	settings domain.SettingsRepository,
	reports domain.ReportRepository,
) *Seeder {
	return &Seeder{
		plans:     plans,
		customers: customers,
		users:     users,
		settings:  settings,
		reports:   reports,
	}
}

// EnsureDefaults installs the admin account, settings, report cards and the
// demo dataset if missing. Safe to run on every boot.
func (s *Seeder) EnsureDefaults(ctx context.Context, adminPassword string) error {
	if err := s.ensureAdmin(ctx, adminPassword); err != nil {
		return err
	}
	if err := s.ensureSettings(ctx); err != nil {
		return err
	}
	if err := s.reports.Seed(ctx, domain.DefaultReportCards()); err != nil {
		return err
	}
	return s.ensureDemoData(ctx)
}

func (s *Seeder) ensureAdmin(ctx context.Context, password string) error {
	if _, err := s.users.GetByID(ctx, SeedAdminID); err == nil {
		return nil
	} else if err != domain.ErrNotFound {
		return fmt.Errorf("failed to check admin account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &domain.User{
		ID:           SeedAdminID,
		Username:     seedAdminUsername,
		PasswordHash: string(hash),
		IsAdmin:      true,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to seed admin account: %w", err)
	}

	log.Printf("[Seed] Created admin account %q", admin.Username)
	return nil
}

func (s *Seeder) ensureSettings(ctx context.Context) error {
	if _, err := s.settings.Get(ctx); err == nil {
		return nil
	} else if err != domain.ErrNotFound {
		return fmt.Errorf("failed to check settings: %w", err)
	}
	return s.settings.Update(ctx, domain.DefaultSettings())
}

func (s *Seeder) ensureDemoData(ctx context.Context) error {
	if _, err := s.plans.GetByID(ctx, demoID(seedPlanBasic, SeedAdminID)); err == nil {
		return nil
	} else if err != domain.ErrNotFound {
		return fmt.Errorf("failed to check demo plans: %w", err)
	}
	return s.installDemoData(ctx, SeedAdminID)
}

// ResetDemoData wipes the owner's plans and customers and reinstalls the
// demo dataset. Exposed through the admin reset endpoint.
func (s *Seeder) ResetDemoData(ctx context.Context, ownerID string) error {
	customers, err := s.customers.GetByOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	for _, c := range customers {
		if err := s.customers.Delete(ctx, c.ID); err != nil {
			return err
		}
	}

	plans, err := s.plans.GetByOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	for _, p := range plans {
		if err := s.plans.Delete(ctx, p.ID); err != nil {
			return err
		}
	}

	return s.installDemoData(ctx, ownerID)
}

func (s *Seeder) installDemoData(ctx context.Context, ownerID string) error {
	now := time.Now().UTC()

	demoPlans := []*domain.Plan{
		{ID: demoID(seedPlanBasic, ownerID), Name: "Basic", Price: 29.90, CostPrice: 14.90, DurationDays: 30,
			Description: "Basic access to the service", OwnerID: ownerID},
		{ID: demoID(seedPlanPremium, ownerID), Name: "Premium", Price: 59.90, CostPrice: 29.90, DurationDays: 30,
			Description: "Full access with priority support", OwnerID: ownerID},
		{ID: demoID(seedPlanBusiness, ownerID), Name: "Business", Price: 99.90, CostPrice: 49.90, DurationDays: 30,
			Description: "For small companies with multiple seats", OwnerID: ownerID},
		{ID: demoID(seedPlanAnnualBasic, ownerID), Name: "Annual Basic", Price: 299.90, CostPrice: 149.90, DurationDays: 365,
			Description: "Basic plan billed yearly", OwnerID: ownerID},
	}
	for _, p := range demoPlans {
		if err := s.plans.Create(ctx, p); err != nil {
			return fmt.Errorf("failed to seed plan %s: %w", p.ID, err)
		}
	}

	demoCustomers := []*domain.Customer{
		{
			ID: demoID("cust_demo_1", ownerID), Name: "João Silva", Email: "joao.silva@example.com",
			Phone: "(11) 98765-4321", Status: domain.CustomerStatusActive, OwnerID: ownerID,
			Subscriptions: []domain.Subscription{
				{ID: demoID("sub_demo_1", ownerID), PlanID: demoID(seedPlanBasic, ownerID), StartDate: now.AddDate(0, 0, -15)},
			},
		},
		{
			ID: demoID("cust_demo_2", ownerID), Name: "Maria Oliveira", Email: "maria.oliveira@example.com",
			Status: domain.CustomerStatusActive, OwnerID: ownerID,
			Subscriptions: []domain.Subscription{
				{ID: demoID("sub_demo_2", ownerID), PlanID: demoID(seedPlanPremium, ownerID), StartDate: now.AddDate(0, 0, -27)},
			},
		},
		{
			ID: demoID("cust_demo_3", ownerID), Name: "Carlos Santos", Email: "carlos.santos@example.com",
			Phone: "(21) 99876-5432", Status: domain.CustomerStatusActive, OwnerID: ownerID,
			Subscriptions: []domain.Subscription{
				{ID: demoID("sub_demo_3", ownerID), PlanID: demoID(seedPlanBusiness, ownerID), StartDate: now.AddDate(0, 0, -40)},
				{ID: demoID("sub_demo_4", ownerID), PlanID: demoID(seedPlanAnnualBasic, ownerID), StartDate: now.AddDate(0, 0, -5)},
			},
		},
	}
	for _, c := range demoCustomers {
		if err := s.customers.Create(ctx, c); err != nil {
			return fmt.Errorf("failed to seed customer %s: %w", c.ID, err)
		}
	}

	log.Printf("[Seed] Installed demo dataset: %d plans, %d customers", len(demoPlans), len(demoCustomers))
	return nil
}
