// Package database owns the MongoDB connection lifecycle.
//
// The client is constructed once at startup and handed to the repositories
// explicitly — there is no package-level connection cache, so tests and the
// worker process can own their own handles.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect opens a Mongo client, verifies it with a ping, and returns the
// named database handle. Callers must eventually call Disconnect.
func Connect(ctx context.Context, uri, name string) (*mongo.Database, error) {
	opts := options.Client().ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(25)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("database: connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	return client.Database(name), nil
}

// Disconnect closes the client owning db.
func Disconnect(ctx context.Context, db *mongo.Database) error {
	if db == nil {
		return nil
	}
	return db.Client().Disconnect(ctx)
}

// EnsureIndexes creates the indexes the catalog depends on. Safe to call on
// every boot; Mongo treats existing identical indexes as a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	products := db.Collection("shop_products")
	_, err := products.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			// Slug uniqueness backs the duplicate-key retry in the catalog
			// service; never relax this index.
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// Public listing is always isPublic+createdAt desc.
			Keys: bson.D{{Key: "isPublic", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "category", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("database: product indexes: %w", err)
	}

	orders := db.Collection("orders")
	_, err = orders.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			// EventID dedupes at-least-once webhook redelivery.
			Keys:    bson.D{{Key: "eventId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("database: order indexes: %w", err)
	}

	return nil
}

// IsDuplicateKey reports whether err is a Mongo unique-index violation.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
