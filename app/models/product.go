package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxProductImages is the hard cap on images attached to a single product.
const MaxProductImages = 4

// DefaultCategory is used when a product is created without a category.
const DefaultCategory = "Uncategorized"

// Product is a catalog entry. Slug is globally unique; Images is display
// order, first entry is the thumbnail. OfferPrice, when non-nil, is the
// effective display price (no sign or offer<price constraint is enforced —
// matching existing catalog data).
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"        json:"id"`
	OwnerID     string             `bson:"userId"               json:"userId"`
	Name        string             `bson:"name"                 json:"name"`
	Slug        string             `bson:"slug"                 json:"slug"`
	Description string             `bson:"description"          json:"description"`
	Price       float64            `bson:"price"                json:"price"`
	OfferPrice  *float64           `bson:"offerPrice,omitempty" json:"offerPrice,omitempty"`
	Images      []string           `bson:"image"                json:"image"`
	Category    string             `bson:"category"             json:"category"`
	IsPublic    bool               `bson:"isPublic"             json:"isPublic"`
	CreatedAt   time.Time          `bson:"createdAt"            json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"            json:"updatedAt"`
}

// ProductCard is the listing projection: only the fields a catalog card
// renders. Browsing queries never load the full document.
type ProductCard struct {
	ID          primitive.ObjectID `bson:"_id"                  json:"id"`
	Name        string             `bson:"name"                 json:"name"`
	Slug        string             `bson:"slug"                 json:"slug"`
	Description string             `bson:"description"          json:"description"`
	Images      []string           `bson:"image"                json:"image"`
	OfferPrice  *float64           `bson:"offerPrice,omitempty" json:"offerPrice,omitempty"`
	Category    string             `bson:"category"             json:"category"`
	CreatedAt   time.Time          `bson:"createdAt"            json:"createdAt"`
}

// Card projects a full product onto its listing shape.
func (p Product) Card() ProductCard {
	return ProductCard{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Images:      p.Images,
		OfferPrice:  p.OfferPrice,
		Category:    p.Category,
		CreatedAt:   p.CreatedAt,
	}
}

// PageMeta is the pagination envelope returned alongside listing results.
type PageMeta struct {
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	HasMore bool  `json:"hasMore"`
}
