package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/erivelton/subscriply/internal/domain"
	"github.com/oklog/ulid/v2"
)

// PlanService handles the plan catalog. Every operation is scoped to the
// calling owner; plans of other owners behave as if they do not exist.
type PlanService struct {
	planRepo     domain.PlanRepository
	customerRepo domain.CustomerRepository
}

// NewPlanService creates a new plan service
func NewPlanService(planRepo domain.PlanRepository, customerRepo domain.CustomerRepository) *PlanService {
	return &PlanService{
		planRepo:     planRepo,
		customerRepo: customerRepo,
	}
}

// CreatePlanRequest contains the fields for a new plan
type CreatePlanRequest struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	CostPrice    float64 `json:"cost_price"`
	DurationDays int     `json:"duration_days"`
}

// CreatePlan validates and stores a new plan for the owner
func (s *PlanService) CreatePlan(ctx context.Context, ownerID string, req CreatePlanRequest) (*domain.Plan, error) {
	if req.DurationDays <= 0 {
		return nil, domain.ErrInvalidDuration
	}

	plan := &domain.Plan{
		ID:           ulid.Make().String(),
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		Price:        req.Price,
		CostPrice:    req.CostPrice,
		DurationDays: req.DurationDays,
		OwnerID:      ownerID,
	}

	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}
	return plan, nil
}

// GetPlan fetches one plan, enforcing ownership
func (s *PlanService) GetPlan(ctx context.Context, ownerID, planID string) (*domain.Plan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	return plan, nil
}

// ListPlans returns the owner's full catalog
func (s *PlanService) ListPlans(ctx context.Context, ownerID string) ([]*domain.Plan, error) {
	return s.planRepo.GetByOwner(ctx, ownerID)
}

// UpdatePlanRequest carries the mutable plan fields. Nil means unchanged.
type UpdatePlanRequest struct {
	Name         *string  `json:"name,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	CostPrice    *float64 `json:"cost_price,omitempty"`
	DurationDays *int     `json:"duration_days,omitempty"`
}

// UpdatePlan applies partial changes to an owned plan. Changing the plan
// takes effect on the next derivation of every subscription that references
// it; stored subscriptions are untouched.
func (s *PlanService) UpdatePlan(ctx context.Context, ownerID, planID string, req UpdatePlanRequest) (*domain.Plan, error) {
	plan, err := s.GetPlan(ctx, ownerID, planID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		plan.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		plan.Description = *req.Description
	}
	if req.Price != nil {
		plan.Price = *req.Price
	}
	if req.CostPrice != nil {
		plan.CostPrice = *req.CostPrice
	}
	if req.DurationDays != nil {
		if *req.DurationDays <= 0 {
			return nil, domain.ErrInvalidDuration
		}
		plan.DurationDays = *req.DurationDays
	}
	plan.UpdatedAt = time.Now()

	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}
	return plan, nil
}

// DeletePlan removes an owned plan. Deletion is refused while any customer
// subscription still references the plan, even one belonging to another
// owner, so no stored subscription is ever left pointing at nothing.
func (s *PlanService) DeletePlan(ctx context.Context, ownerID, planID string) error {
	if _, err := s.GetPlan(ctx, ownerID, planID); err != nil {
		return err
	}

	inUse, err := s.customerRepo.CountByPlan(ctx, planID)
	if err != nil {
		return fmt.Errorf("failed to count plan references: %w", err)
	}
	if inUse > 0 {
		return domain.ErrPlanInUse
	}

	return s.planRepo.Delete(ctx, planID)
}
