package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderItem is one line of an order event.
type OrderItem struct {
	ProductID string  `bson:"productId" json:"productId"`
	Quantity  int     `bson:"quantity"  json:"quantity"`
	Price     float64 `bson:"price"     json:"price"`
}

// Order is created from order/created events delivered by the background
// runner. EventID carries the delivery's idempotency key: redelivered
// events upsert instead of inserting twice.
type Order struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID   string             `bson:"eventId"       json:"eventId"`
	UserID    string             `bson:"userId"        json:"userId"`
	Items     []OrderItem        `bson:"items"         json:"items"`
	Amount    float64            `bson:"amount"        json:"amount"`
	Address   string             `bson:"address"       json:"address"`
	Date      time.Time          `bson:"date"          json:"date"`
	CreatedAt time.Time          `bson:"createdAt"     json:"createdAt"`
}
