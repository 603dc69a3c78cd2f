package service

import (
	"context"
	"sync"

	"github.com/erivelton/subscriply/internal/domain"
)

// In-memory repositories for service tests.

type fakePlanRepo struct {
	mu    sync.Mutex
	plans map[string]*domain.Plan
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: make(map[string]*domain.Plan)}
}

func (r *fakePlanRepo) Create(_ context.Context, plan *domain.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *plan
	r.plans[plan.ID] = &cp
	return nil
}

func (r *fakePlanRepo) GetByID(_ context.Context, id string) (*domain.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	plan, ok := r.plans[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *plan
	return &cp, nil
}

func (r *fakePlanRepo) GetByOwner(_ context.Context, ownerID string) ([]*domain.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Plan
	for _, plan := range r.plans {
		if plan.OwnerID == ownerID {
			cp := *plan
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakePlanRepo) Update(_ context.Context, plan *domain.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[plan.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *plan
	r.plans[plan.ID] = &cp
	return nil
}

func (r *fakePlanRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.plans, id)
	return nil
}

type fakeCustomerRepo struct {
	mu        sync.Mutex
	customers map[string]*domain.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[string]*domain.Customer)}
}

func copyCustomer(c *domain.Customer) *domain.Customer {
	cp := *c
	cp.Subscriptions = append([]domain.Subscription(nil), c.Subscriptions...)
	return &cp
}

func (r *fakeCustomerRepo) Create(_ context.Context, customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if customer.Subscriptions == nil {
		customer.Subscriptions = []domain.Subscription{}
	}
	r.customers[customer.ID] = copyCustomer(customer)
	return nil
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer, ok := r.customers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyCustomer(customer), nil
}

func (r *fakeCustomerRepo) GetByOwner(_ context.Context, ownerID string) ([]*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Customer
	for _, customer := range r.customers {
		if customer.OwnerID == ownerID {
			out = append(out, copyCustomer(customer))
		}
	}
	return out, nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[customer.ID]; !ok {
		return domain.ErrNotFound
	}
	r.customers[customer.ID] = copyCustomer(customer)
	return nil
}

func (r *fakeCustomerRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.customers, id)
	return nil
}

func (r *fakeCustomerRepo) AddSubscription(_ context.Context, customerID string, sub domain.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer, ok := r.customers[customerID]
	if !ok {
		return domain.ErrNotFound
	}
	customer.Subscriptions = append(customer.Subscriptions, sub)
	return nil
}

func (r *fakeCustomerRepo) UpdateSubscription(_ context.Context, customerID string, sub domain.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer, ok := r.customers[customerID]
	if !ok {
		return domain.ErrNotFound
	}
	for i := range customer.Subscriptions {
		if customer.Subscriptions[i].ID == sub.ID {
			customer.Subscriptions[i] = sub
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeCustomerRepo) RemoveSubscription(_ context.Context, customerID, subscriptionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer, ok := r.customers[customerID]
	if !ok {
		return domain.ErrNotFound
	}
	for i := range customer.Subscriptions {
		if customer.Subscriptions[i].ID == subscriptionID {
			customer.Subscriptions = append(customer.Subscriptions[:i], customer.Subscriptions[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeCustomerRepo) CountByPlan(_ context.Context, planID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, customer := range r.customers {
		for _, sub := range customer.Subscriptions {
			if sub.PlanID == planID {
				count++
			}
		}
	}
	return count, nil
}
