package domain

import (
	"context"
	"time"
)

// Plan represents a purchasable subscription tier
type Plan struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Name         string    `bson:"name,omitempty" json:"name"`
	Description  string    `bson:"description,omitempty" json:"description"`
	Price        float64   `bson:"price,omitempty" json:"price"`
	CostPrice    float64   `bson:"cost_price,omitempty" json:"cost_price"` // operator's wholesale cost, not a markup
	DurationDays int       `bson:"duration_days,omitempty" json:"duration_days"`
	OwnerID      string    `bson:"owner_id,omitempty" json:"owner_id"`
	CreatedAt    time.Time `bson:"created_at,omitempty" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at,omitempty" json:"updated_at"`
}

// ProfitPerCycle returns the margin earned over one full billing cycle.
func (p *Plan) ProfitPerCycle() float64 {
	return p.Price - p.CostPrice
}

// PlanRepository defines operations for managing plans
type PlanRepository interface {
	Create(ctx context.Context, plan *Plan) error
	GetByID(ctx context.Context, id string) (*Plan, error)
	GetByOwner(ctx context.Context, ownerID string) ([]*Plan, error)
	Update(ctx context.Context, plan *Plan) error
	Delete(ctx context.Context, id string) error
}
