package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/erivelton/subscriply/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoCustomerRepository implements domain.CustomerRepository.
// Subscriptions live as an embedded array on the customer document, so
// every subscription mutation is an array update on the owning customer.
type MongoCustomerRepository struct {
	collection *mongo.Collection
}

// NewMongoCustomerRepository creates a new customer repository
func NewMongoCustomerRepository(db *mongo.Database) *MongoCustomerRepository {
	return &MongoCustomerRepository{
		collection: db.Collection("customers"),
	}
}

func (r *MongoCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	now := time.Now().UTC()
	customer.CreatedAt = now
	customer.UpdatedAt = now
	if customer.Subscriptions == nil {
		customer.Subscriptions = []domain.Subscription{}
	}

	doc := bson.M{
		"_id":           customer.ID,
		"name":          customer.Name,
		"email":         customer.Email,
		"phone":         customer.Phone,
		"status":        customer.Status,
		"owner_id":      customer.OwnerID,
		"subscriptions": customer.Subscriptions,
		"created_at":    customer.CreatedAt,
		"updated_at":    customer.UpdatedAt,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

func (r *MongoCustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	var customer domain.Customer
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&customer); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &customer, nil
}

func (r *MongoCustomerRepository) GetByOwner(ctx context.Context, ownerID string) ([]*domain.Customer, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer cursor.Close(ctx)

	var customers []*domain.Customer
	for cursor.Next(ctx) {
		var customer domain.Customer
		if err := cursor.Decode(&customer); err != nil {
			return nil, err
		}
		customers = append(customers, &customer)
	}
	return customers, cursor.Err()
}

func (r *MongoCustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	customer.UpdatedAt = time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"name":       customer.Name,
			"email":      customer.Email,
			"phone":      customer.Phone,
			"status":     customer.Status,
			"updated_at": customer.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": customer.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoCustomerRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoCustomerRepository) AddSubscription(ctx context.Context, customerID string, sub domain.Subscription) error {
	update := bson.M{
		"$push": bson.M{"subscriptions": sub},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": customerID}, update)
	if err != nil {
		return fmt.Errorf("failed to add subscription: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoCustomerRepository) UpdateSubscription(ctx context.Context, customerID string, sub domain.Subscription) error {
	filter := bson.M{
		"_id":               customerID,
		"subscriptions._id": sub.ID,
	}
	update := bson.M{
		"$set": bson.M{
			"subscriptions.$.plan_id":    sub.PlanID,
			"subscriptions.$.start_date": sub.StartDate,
			"updated_at":                 time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoCustomerRepository) RemoveSubscription(ctx context.Context, customerID, subscriptionID string) error {
	update := bson.M{
		"$pull": bson.M{"subscriptions": bson.M{"_id": subscriptionID}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": customerID}, update)
	if err != nil {
		return fmt.Errorf("failed to remove subscription: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountByPlan counts subscriptions referencing a plan across every owner,
// which is what blocks plan deletion while the plan is still in use.
func (r *MongoCustomerRepository) CountByPlan(ctx context.Context, planID string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"subscriptions.plan_id": planID})
	if err != nil {
		return 0, fmt.Errorf("failed to count plan references: %w", err)
	}
	return count, nil
}
