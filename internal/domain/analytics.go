package domain

// projectionDays is the day basis for the monthly profit projection.
const projectionDays = 30

// DashboardSummary aggregates the portfolio view shown on the dashboard.
type DashboardSummary struct {
	TotalCustomers           int                `json:"total_customers"`
	ActiveSubscriptions      int                `json:"active_subscriptions"`
	ExpiringSubscriptions    int                `json:"expiring_subscriptions"`
	ExpiredSubscriptions     int                `json:"expired_subscriptions"`
	ExpectedMonthlyProfit    float64            `json:"expected_monthly_profit"`
	ExpectedYearlyProfit     float64            `json:"expected_yearly_profit"`
	AverageSubscriptionValue float64            `json:"average_subscription_value"`
	ExpiringSoon             []ExpiringCustomer `json:"expiring_soon"`
}

// ExpiringCustomer is one dashboard row for a subscription inside the
// warning window.
type ExpiringCustomer struct {
	CustomerID    string `json:"customer_id"`
	CustomerName  string `json:"customer_name"`
	PlanName      string `json:"plan_name"`
	DaysRemaining int    `json:"days_remaining"`
}

// ExpiringSoonList collects every warning-status subscription as a dashboard
// row, preserving the detail set's order. Always non-nil so the dashboard
// renders an empty list rather than null.
func ExpiringSoonList(details []*CustomerDetails) []ExpiringCustomer {
	out := []ExpiringCustomer{}
	for _, c := range details {
		for _, sub := range c.Subscriptions {
			if sub.Status != StatusWarning {
				continue
			}
			out = append(out, ExpiringCustomer{
				CustomerID:    c.ID,
				CustomerName:  c.Name,
				PlanName:      sub.Plan.Name,
				DaysRemaining: sub.DaysRemaining,
			})
		}
	}
	return out
}

// CountByStatus counts subscriptions, not customers, matching a status
// across the whole detail set.
func CountByStatus(details []*CustomerDetails, status string) int {
	count := 0
	for _, c := range details {
		for _, sub := range c.Subscriptions {
			if sub.Status == status {
				count++
			}
		}
	}
	return count
}

// ExpectedMonthlyProfit projects one month of profit from currently-paying
// subscriptions (active or warning). Each contributes its per-cycle margin
// spread over the plan duration, taken over a 30-day month. Expired
// subscriptions contribute nothing. Plain linear fold, no discounting.
func ExpectedMonthlyProfit(details []*CustomerDetails) float64 {
	total := 0.0
	for _, c := range details {
		for _, sub := range c.Subscriptions {
			if !isPaying(sub.Status) {
				continue
			}
			dailyProfit := sub.Plan.ProfitPerCycle() / float64(sub.Plan.DurationDays)
			total += dailyProfit * projectionDays
		}
	}
	return total
}

// ExpectedYearlyProfit is exactly twelve projected months, not an
// independent yearly model.
func ExpectedYearlyProfit(details []*CustomerDetails) float64 {
	return ExpectedMonthlyProfit(details) * 12
}

// AverageSubscriptionValue is the mean plan price over paying subscriptions,
// zero when none qualify.
func AverageSubscriptionValue(details []*CustomerDetails) float64 {
	total := 0.0
	count := 0
	for _, c := range details {
		for _, sub := range c.Subscriptions {
			if !isPaying(sub.Status) {
				continue
			}
			total += sub.Plan.Price
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

func isPaying(status string) bool {
	return status == StatusActive || status == StatusWarning
}
