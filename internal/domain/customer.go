package domain

import (
	"context"
	"time"
)

// Customer status values
const (
	CustomerStatusActive   = "active"
	CustomerStatusInactive = "inactive"
)

// Customer holds a managed customer and their embedded subscriptions.
// Subscriptions are sub-documents of the customer; all subscription
// mutations go through the customer repository.
type Customer struct {
	ID            string         `bson:"_id,omitempty" json:"id"`
	Name          string         `bson:"name" json:"name"`
	Email         string         `bson:"email" json:"email"`
	Phone         string         `bson:"phone,omitempty" json:"phone,omitempty"`
	Status        string         `bson:"status" json:"status"` // active | inactive
	OwnerID       string         `bson:"owner_id" json:"owner_id"`
	Subscriptions []Subscription `bson:"subscriptions" json:"subscriptions"`
	CreatedAt     time.Time      `bson:"created_at,omitempty" json:"created_at"`
	UpdatedAt     time.Time      `bson:"updated_at,omitempty" json:"updated_at"`
}

// CustomerRepository defines operations for managing customers and their
// embedded subscriptions
type CustomerRepository interface {
	Create(ctx context.Context, customer *Customer) error
	GetByID(ctx context.Context, id string) (*Customer, error)
	GetByOwner(ctx context.Context, ownerID string) ([]*Customer, error)
	Update(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, id string) error

	// Embedded subscription mutations
	AddSubscription(ctx context.Context, customerID string, sub Subscription) error
	UpdateSubscription(ctx context.Context, customerID string, sub Subscription) error
	RemoveSubscription(ctx context.Context, customerID, subscriptionID string) error

	// CountByPlan counts subscriptions referencing a plan across all
	// customers, regardless of owner. Used to block plan deletion.
	CountByPlan(ctx context.Context, planID string) (int64, error)
}
