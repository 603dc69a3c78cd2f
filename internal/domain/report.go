package domain

import "context"

// ReportCard is a dashboard report tile with a visibility preference.
// The set of cards is fixed; only visibility is user-editable.
type ReportCard struct {
	ID          string `bson:"_id" json:"id"`
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description" json:"description"`
	Visible     bool   `bson:"visible" json:"visible"`
}

// DefaultReportCards returns the fixed report catalog installed on first boot.
func DefaultReportCards() []*ReportCard {
	return []*ReportCard{
		{ID: "monthly-profit", Title: "Expected Monthly Profit", Description: "Projected monthly profit from active subscriptions", Visible: true},
		{ID: "yearly-profit", Title: "Expected Yearly Profit", Description: "Projected yearly profit from active subscriptions", Visible: true},
		{ID: "expiring-subscriptions", Title: "Expiring Subscriptions", Description: "Customers with subscriptions expiring in the next 5 days", Visible: true},
		{ID: "renewal-rate", Title: "Renewal Rate", Description: "Share of customers that renew their subscriptions", Visible: true},
		{ID: "avg-subscription-value", Title: "Average Subscription Value", Description: "Mean value of active subscriptions", Visible: true},
		{ID: "customer-retention", Title: "Customer Retention", Description: "Customer retention over time", Visible: true},
		{ID: "profit-per-plan", Title: "Profit per Plan", Description: "Profit distribution across plan tiers", Visible: true},
	}
}

// ReportRepository manages report card visibility preferences
type ReportRepository interface {
	GetAll(ctx context.Context) ([]*ReportCard, error)
	SetVisibility(ctx context.Context, id string, visible bool) error
	Seed(ctx context.Context, cards []*ReportCard) error
}
