package seeders

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ibrahimdesign/atelier/app/models"
)

func init() {
	Register("catalog", SeedCatalog)
}

func offer(v float64) *float64 { return &v }

// SeedCatalog upserts a small demo catalog, keyed by slug so reseeding is
// idempotent.
func SeedCatalog(ctx context.Context, db *mongo.Database) error {
	now := time.Now().UTC()

	demo := []models.Product{
		{
			Name:        "Classic Two-Piece Suit",
			Slug:        "classic-two-piece-suit-000001",
			Description: "Hand-cut two-piece in midnight navy wool, half-canvassed.",
			Price:       1250,
			OfferPrice:  offer(1100),
			Category:    "Suits",
		},
		{
			Name:        "Linen Summer Blazer",
			Slug:        "linen-summer-blazer-000002",
			Description: "Unstructured blazer in Irish linen, patch pockets.",
			Price:       640,
			Category:    "Blazers",
		},
		{
			Name:        "Evening Sherwani",
			Slug:        "evening-sherwani-000003",
			Description: "Raw silk sherwani with hand embroidery, made to measure.",
			Price:       980,
			OfferPrice:  offer(899),
			Category:    "Occasion",
		},
		{
			Name:        "Oxford Shirt, White",
			Slug:        "oxford-shirt-white-000004",
			Description: "Two-fold cotton oxford, mother of pearl buttons.",
			Price:       145,
			Category:    "Shirts",
		},
		{
			Name:        "Flannel Trousers",
			Slug:        "flannel-trousers-000005",
			Description: "Mid-grey woollen flannel, side adjusters, single pleat.",
			Price:       290,
			Category:    "Trousers",
		},
	}

	col := db.Collection("shop_products")
	for _, p := range demo {
		p.IsPublic = true
		p.CreatedAt = now
		p.UpdatedAt = now

		update := bson.M{"$setOnInsert": p}
		opts := options.Update().SetUpsert(true)
		if _, err := col.UpdateOne(ctx, bson.M{"slug": p.Slug}, update, opts); err != nil {
			return err
		}
	}
	return nil
}
