package domain

import (
	"math"
	"time"
)

// Subscription statuses derived from remaining validity
const (
	StatusActive  = "active"
	StatusWarning = "warning"
	StatusExpired = "expired"
)

// WarningThresholdDays is the remaining-day count at or below which an
// unexpired subscription is classified as warning.
const WarningThresholdDays = 5

// Subscription is one enrollment of a customer into a plan, anchored by
// its start date. Stored embedded in the customer document.
type Subscription struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	PlanID    string    `bson:"plan_id" json:"plan_id"`
	StartDate time.Time `bson:"start_date" json:"start_date"`
}

// SubscriptionDetail is the derived, time-relative view of a subscription.
// Never persisted; recomputed on every read.
type SubscriptionDetail struct {
	ID            string    `json:"id"`
	Plan          *Plan     `json:"plan"`
	StartDate     time.Time `json:"start_date"`
	DaysRemaining int       `json:"days_remaining"`
	Status        string    `json:"status"`
}

// CustomerDetails is a customer with every subscription resolved against
// the plan catalog.
type CustomerDetails struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Email         string               `json:"email"`
	Phone         string               `json:"phone,omitempty"`
	Status        string               `json:"status"`
	OwnerID       string               `json:"owner_id"`
	Subscriptions []SubscriptionDetail `json:"subscriptions"`
}

// ComputeSubscriptionDetail derives the classified view of one subscription
// against its resolved plan at the given instant. The expiry is the start
// date plus the plan duration in calendar days; the remaining count rounds
// up, so a subscription expiring in a fraction of a day still reports one
// day left. Pure function of its inputs: now is injected, never read from
// the system clock.
func ComputeSubscriptionDetail(sub Subscription, plan *Plan, now time.Time) SubscriptionDetail {
	endDate := sub.StartDate.AddDate(0, 0, plan.DurationDays)
	daysRemaining := int(math.Ceil(endDate.Sub(now).Hours() / 24))

	status := StatusActive
	if daysRemaining <= 0 {
		status = StatusExpired
	} else if daysRemaining <= WarningThresholdDays {
		status = StatusWarning
	}

	return SubscriptionDetail{
		ID:            sub.ID,
		Plan:          plan,
		StartDate:     sub.StartDate,
		DaysRemaining: daysRemaining,
		Status:        status,
	}
}

// BuildCustomerDetails resolves every customer owned by ownerID against the
// plan catalog. Subscriptions referencing a missing plan are silently
// dropped, and customers left without any resolvable subscription are
// omitted from the result. Input order is preserved.
func BuildCustomerDetails(customers []*Customer, plans []*Plan, ownerID string, now time.Time) []*CustomerDetails {
	planIndex := indexPlans(plans)

	var out []*CustomerDetails
	for _, c := range customers {
		if c.OwnerID != ownerID {
			continue
		}
		details := resolveSubscriptions(c, planIndex, now)
		if len(details) == 0 {
			continue
		}
		out = append(out, newCustomerDetails(c, details))
	}
	return out
}

// BuildSingleCustomerDetails resolves one customer. An inactive customer's
// subscriptions are reported as expired with zero days remaining regardless
// of their dates. Unlike the listing, a customer without any resolvable
// subscription is still returned, with an empty detail set.
func BuildSingleCustomerDetails(c *Customer, plans []*Plan, now time.Time) *CustomerDetails {
	planIndex := indexPlans(plans)

	var details []SubscriptionDetail
	if c.Status == CustomerStatusInactive {
		for _, sub := range c.Subscriptions {
			plan, ok := planIndex[sub.PlanID]
			if !ok {
				continue
			}
			details = append(details, SubscriptionDetail{
				ID:            sub.ID,
				Plan:          plan,
				StartDate:     sub.StartDate,
				DaysRemaining: 0,
				Status:        StatusExpired,
			})
		}
	} else {
		details = resolveSubscriptions(c, planIndex, now)
	}
	if details == nil {
		details = []SubscriptionDetail{}
	}
	return newCustomerDetails(c, details)
}

func indexPlans(plans []*Plan) map[string]*Plan {
	planIndex := make(map[string]*Plan, len(plans))
	for _, p := range plans {
		planIndex[p.ID] = p
	}
	return planIndex
}

func resolveSubscriptions(c *Customer, planIndex map[string]*Plan, now time.Time) []SubscriptionDetail {
	var details []SubscriptionDetail
	for _, sub := range c.Subscriptions {
		plan, ok := planIndex[sub.PlanID]
		if !ok {
			// orphan reference to a deleted plan, tolerated
			continue
		}
		details = append(details, ComputeSubscriptionDetail(sub, plan, now))
	}
	return details
}

func newCustomerDetails(c *Customer, details []SubscriptionDetail) *CustomerDetails {
	return &CustomerDetails{
		ID:            c.ID,
		Name:          c.Name,
		Email:         c.Email,
		Phone:         c.Phone,
		Status:        c.Status,
		OwnerID:       c.OwnerID,
		Subscriptions: details,
	}
}

// RenewalResult is the new anchor produced by renewing a subscription.
type RenewalResult struct {
	StartDate time.Time `json:"start_date"`
	PlanID    string    `json:"plan_id"`
}

// Renew computes the new start date for a subscription, optionally moving it
// to a different plan. A running subscription is backdated by its remaining
// days, so the renewed expiry lands at now + (newDuration - daysRemaining).
// A subscription at or past expiry gets a clean cycle starting now.
// Calendar-day arithmetic throughout, never raw millisecond offsets.
func Renew(sub Subscription, detail SubscriptionDetail, newPlanID string, now time.Time) RenewalResult {
	planID := sub.PlanID
	if newPlanID != "" {
		planID = newPlanID
	}

	startDate := now
	if detail.DaysRemaining > 0 {
		startDate = now.AddDate(0, 0, -detail.DaysRemaining)
	}

	return RenewalResult{
		StartDate: startDate,
		PlanID:    planID,
	}
}
