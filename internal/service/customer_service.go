package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/erivelton/subscriply/internal/domain"
	"github.com/oklog/ulid/v2"
)

// CustomerService handles customers together with their embedded
// subscriptions. The clock is injected so renewal and derivation are
// deterministic under test.
type CustomerService struct {
	customerRepo domain.CustomerRepository
	planRepo     domain.PlanRepository
	nowFn        func() time.Time
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo domain.CustomerRepository, planRepo domain.PlanRepository) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		planRepo:     planRepo,
		nowFn:        time.Now,
	}
}

// WithClock overrides the service clock. Test hook.
func (s *CustomerService) WithClock(nowFn func() time.Time) *CustomerService {
	s.nowFn = nowFn
	return s
}

// CreateCustomerRequest contains the fields for a new customer
type CreateCustomerRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Status string `json:"status"`
}

// CreateCustomer validates and stores a new customer for the owner
func (s *CustomerService) CreateCustomer(ctx context.Context, ownerID string, req CreateCustomerRequest) (*domain.Customer, error) {
	status := req.Status
	if status == "" {
		status = domain.CustomerStatusActive
	}

	customer := &domain.Customer{
		ID:      ulid.Make().String(),
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Phone:   req.Phone,
		Status:  status,
		OwnerID: ownerID,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return customer, nil
}

// GetCustomer fetches one raw customer record, enforcing ownership
func (s *CustomerService) GetCustomer(ctx context.Context, ownerID, customerID string) (*domain.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	return customer, nil
}

// ListCustomerDetails returns the owner's customers with every subscription
// resolved and classified against the current plan catalog. Customers whose
// subscriptions all reference missing plans, and customers with none at
// all, are omitted.
func (s *CustomerService) ListCustomerDetails(ctx context.Context, ownerID string) ([]*domain.CustomerDetails, error) {
	customers, err := s.customerRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customers: %w", err)
	}
	plans, err := s.planRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plans: %w", err)
	}

	return domain.BuildCustomerDetails(customers, plans, ownerID, s.nowFn()), nil
}

// GetCustomerDetails returns one customer with resolved subscriptions.
// Unlike the listing, a customer without resolvable subscriptions is still
// returned, with an empty detail set.
func (s *CustomerService) GetCustomerDetails(ctx context.Context, ownerID, customerID string) (*domain.CustomerDetails, error) {
	customer, err := s.GetCustomer(ctx, ownerID, customerID)
	if err != nil {
		return nil, err
	}
	plans, err := s.planRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plans: %w", err)
	}

	return domain.BuildSingleCustomerDetails(customer, plans, s.nowFn()), nil
}

// UpdateCustomerRequest carries the mutable customer fields. Nil means unchanged.
type UpdateCustomerRequest struct {
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Phone  *string `json:"phone,omitempty"`
	Status *string `json:"status,omitempty"`
}

// UpdateCustomer applies partial changes to an owned customer
func (s *CustomerService) UpdateCustomer(ctx context.Context, ownerID, customerID string, req UpdateCustomerRequest) (*domain.Customer, error) {
	customer, err := s.GetCustomer(ctx, ownerID, customerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		customer.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		customer.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Status != nil {
		if *req.Status != domain.CustomerStatusActive && *req.Status != domain.CustomerStatusInactive {
			return nil, fmt.Errorf("invalid customer status %q", *req.Status)
		}
		customer.Status = *req.Status
	}
	customer.UpdatedAt = s.nowFn()

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return customer, nil
}

// DeleteCustomer removes an owned customer and all embedded subscriptions
func (s *CustomerService) DeleteCustomer(ctx context.Context, ownerID, customerID string) error {
	if _, err := s.GetCustomer(ctx, ownerID, customerID); err != nil {
		return err
	}
	return s.customerRepo.Delete(ctx, customerID)
}

// AddSubscriptionRequest contains the fields for a new subscription
type AddSubscriptionRequest struct {
	PlanID    string    `json:"plan_id"`
	StartDate time.Time `json:"start_date"`
}

// AddSubscription attaches a subscription to an owned customer. The plan
// must exist and belong to the same owner. A zero start date means now.
func (s *CustomerService) AddSubscription(ctx context.Context, ownerID, customerID string, req AddSubscriptionRequest) (*domain.Subscription, error) {
	if _, err := s.GetCustomer(ctx, ownerID, customerID); err != nil {
		return nil, err
	}
	if err := s.checkPlanOwnership(ctx, ownerID, req.PlanID); err != nil {
		return nil, err
	}

	startDate := req.StartDate
	if startDate.IsZero() {
		startDate = s.nowFn()
	}

	sub := domain.Subscription{
		ID:        ulid.Make().String(),
		PlanID:    req.PlanID,
		StartDate: startDate,
	}

	if err := s.customerRepo.AddSubscription(ctx, customerID, sub); err != nil {
		return nil, fmt.Errorf("failed to add subscription: %w", err)
	}
	return &sub, nil
}

// RemoveSubscription detaches a subscription from an owned customer
func (s *CustomerService) RemoveSubscription(ctx context.Context, ownerID, customerID, subscriptionID string) error {
	if _, err := s.GetCustomer(ctx, ownerID, customerID); err != nil {
		return err
	}
	return s.customerRepo.RemoveSubscription(ctx, customerID, subscriptionID)
}

// RenewSubscription starts a subscription on a new cycle, optionally
// switching it to a different plan. A running subscription has its new
// start date backdated by the unused balance; an expired one restarts
// cleanly from now.
func (s *CustomerService) RenewSubscription(ctx context.Context, ownerID, customerID, subscriptionID, newPlanID string) (*domain.SubscriptionDetail, error) {
	customer, err := s.GetCustomer(ctx, ownerID, customerID)
	if err != nil {
		return nil, err
	}

	var current *domain.Subscription
	for i := range customer.Subscriptions {
		if customer.Subscriptions[i].ID == subscriptionID {
			current = &customer.Subscriptions[i]
			break
		}
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}

	currentPlan, err := s.planRepo.GetByID(ctx, current.PlanID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve current plan: %w", err)
	}

	if newPlanID != "" && newPlanID != current.PlanID {
		if err := s.checkPlanOwnership(ctx, ownerID, newPlanID); err != nil {
			return nil, err
		}
	}

	now := s.nowFn()
	detail := domain.ComputeSubscriptionDetail(*current, currentPlan, now)
	result := domain.Renew(*current, detail, newPlanID, now)

	renewed := domain.Subscription{
		ID:        subscriptionID,
		PlanID:    result.PlanID,
		StartDate: result.StartDate,
	}
	if err := s.customerRepo.UpdateSubscription(ctx, customerID, renewed); err != nil {
		return nil, fmt.Errorf("failed to persist renewal: %w", err)
	}

	renewedPlan := currentPlan
	if renewed.PlanID != currentPlan.ID {
		renewedPlan, err = s.planRepo.GetByID(ctx, renewed.PlanID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve renewed plan: %w", err)
		}
	}
	renewedDetail := domain.ComputeSubscriptionDetail(renewed, renewedPlan, now)
	return &renewedDetail, nil
}

func (s *CustomerService) checkPlanOwnership(ctx context.Context, ownerID, planID string) error {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return err
	}
	if plan.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	return nil
}
