package service

import (
	"context"
	"fmt"
	"time"

	"github.com/erivelton/subscriply/internal/domain"
	"golang.org/x/sync/errgroup"
)

// DashboardService aggregates the portfolio summary and the report cards.
// Everything is recomputed from stored customers and plans on every call;
// nothing derived is cached or persisted.
type DashboardService struct {
	customerRepo domain.CustomerRepository
	planRepo     domain.PlanRepository
	reportRepo   domain.ReportRepository
	nowFn        func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	customerRepo domain.CustomerRepository,
	planRepo domain.PlanRepository,
	reportRepo domain.ReportRepository,
) *DashboardService {
	return &DashboardService{
		customerRepo: customerRepo,
		planRepo:     planRepo,
		reportRepo:   reportRepo,
		nowFn:        time.Now,
	}
}

// WithClock overrides the service clock. Test hook.
func (s *DashboardService) WithClock(nowFn func() time.Time) *DashboardService {
	s.nowFn = nowFn
	return s
}

// GetSummary computes the owner's dashboard numbers: subscription counts
// per status, the profit projections over the currently-paying set, and
// the list of subscriptions about to expire.
func (s *DashboardService) GetSummary(ctx context.Context, ownerID string) (*domain.DashboardSummary, error) {
	var (
		customers []*domain.Customer
		plans     []*domain.Plan
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		customers, err = s.customerRepo.GetByOwner(gCtx, ownerID)
		if err != nil {
			return fmt.Errorf("failed to get customers: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		plans, err = s.planRepo.GetByOwner(gCtx, ownerID)
		if err != nil {
			return fmt.Errorf("failed to get plans: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	details := domain.BuildCustomerDetails(customers, plans, ownerID, s.nowFn())

	return &domain.DashboardSummary{
		TotalCustomers:           len(details),
		ActiveSubscriptions:      domain.CountByStatus(details, domain.StatusActive),
		ExpiringSubscriptions:    domain.CountByStatus(details, domain.StatusWarning),
		ExpiredSubscriptions:     domain.CountByStatus(details, domain.StatusExpired),
		ExpectedMonthlyProfit:    domain.ExpectedMonthlyProfit(details),
		ExpectedYearlyProfit:     domain.ExpectedYearlyProfit(details),
		AverageSubscriptionValue: domain.AverageSubscriptionValue(details),
		ExpiringSoon:             domain.ExpiringSoonList(details),
	}, nil
}

// ListReportCards returns every report card with its visibility flag
func (s *DashboardService) ListReportCards(ctx context.Context) ([]*domain.ReportCard, error) {
	return s.reportRepo.GetAll(ctx)
}

// SetReportCardVisibility toggles whether a card shows on the reports page
func (s *DashboardService) SetReportCardVisibility(ctx context.Context, cardID string, visible bool) error {
	return s.reportRepo.SetVisibility(ctx, cardID, visible)
}
