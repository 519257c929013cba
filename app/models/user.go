package models

import "time"

// User mirrors the identity provider's profile record. The _id is the
// provider's opaque user id, not an ObjectID — profiles are created and
// removed by lifecycle webhooks, never by this service directly.
type User struct {
	ID        string    `bson:"_id"                json:"id"`
	Name      string    `bson:"name"               json:"name"`
	Email     string    `bson:"email"              json:"email"`
	ImageURL  string    `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Role      string    `bson:"role,omitempty"     json:"role,omitempty"`
	CreatedAt time.Time `bson:"createdAt"          json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"          json:"updatedAt"`
}
