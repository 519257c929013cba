package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ibrahimdesign/atelier/app/models"
)

// OrderRepository stores orders created from background order/created events.
type OrderRepository struct {
	col *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{col: db.Collection("orders")}
}

// BulkUpsert writes a batch of orders keyed by eventId. Redelivered events
// replace their earlier copy instead of inserting twice, which keeps
// at-least-once delivery safe.
func (r *OrderRepository) BulkUpsert(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	now := time.Now().UTC()
	writes := make([]mongo.WriteModel, 0, len(orders))
	for i := range orders {
		o := orders[i]
		if o.CreatedAt.IsZero() {
			o.CreatedAt = now
		}
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"eventId": o.EventID}).
			SetReplacement(o).
			SetUpsert(true))
	}

	// Unordered: one bad event must not block the rest of the batch.
	_, err := r.col.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return fmt.Errorf("bulk upsert orders: %w", err)
	}
	return nil
}

// ListByUser returns a principal's orders, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}
