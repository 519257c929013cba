package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking is a fitting/consultation request from the contact flow.
type Booking struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"     json:"id"`
	Name      string             `bson:"name"              json:"name"`
	Email     string             `bson:"email"             json:"email"`
	Datetime  string             `bson:"datetime"          json:"datetime"`
	Message   string             `bson:"message,omitempty" json:"message,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"         json:"createdAt"`
}
