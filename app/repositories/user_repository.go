package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ibrahimdesign/atelier/app/models"
)

// UserRepository stores the local mirror of identity-provider profiles.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection("users")}
}

// FindByID looks up a profile by the provider's user id.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

// Upsert creates or refreshes a profile mirror. Lifecycle webhooks are
// delivered at least once, so the write must be idempotent.
func (r *UserRepository) Upsert(ctx context.Context, u *models.User) error {
	now := time.Now().UTC()
	u.UpdatedAt = now

	update := bson.M{
		"$set": bson.M{
			"name":      u.Name,
			"email":     u.Email,
			"imageUrl":  u.ImageURL,
			"updatedAt": u.UpdatedAt,
		},
		"$setOnInsert": bson.M{"createdAt": now},
	}
	// Role is managed out-of-band (provider metadata); only set it when the
	// event carries one, so a plain profile update cannot wipe it.
	if u.Role != "" {
		update["$set"].(bson.M)["role"] = u.Role
	}

	_, err := r.col.UpdateOne(ctx, bson.M{"_id": u.ID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// Delete removes a profile mirror. Missing ids are not an error.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
