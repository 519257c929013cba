package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ibrahimdesign/atelier/app/models"
	"github.com/ibrahimdesign/atelier/app/repositories"
	"github.com/ibrahimdesign/atelier/pkg/bind"
	"github.com/ibrahimdesign/atelier/pkg/cache"
	"github.com/ibrahimdesign/atelier/pkg/event"
	"github.com/ibrahimdesign/atelier/pkg/imagestore"
	"github.com/ibrahimdesign/atelier/pkg/logger"
	"github.com/ibrahimdesign/atelier/pkg/metrics"
)

// ProductStore is the persistence surface the product service needs.
type ProductStore interface {
	List(ctx context.Context, q repositories.ListQuery) (repositories.ListResult, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)
	Insert(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Categories(ctx context.Context) ([]string, error)
}

// CatalogChanged is fired after every successful mutation.
const CatalogChanged = "catalog.changed"

const categoriesCacheKey = "atelier:catalog:categories"

const slugRetries = 3

// ProductService owns catalog reads and role-gated mutations.
type ProductService struct {
	store  ProductStore
	images imagestore.Store
	cache  *cache.Cache
}

func NewProductService(store ProductStore, images imagestore.Store, c *cache.Cache) *ProductService {
	return &ProductService{store: store, images: images, cache: c}
}

// List runs the public browsing query.
func (s *ProductService) List(ctx context.Context, q repositories.ListQuery) (repositories.ListResult, error) {
	defer metrics.ObserveCatalogList(q.Search != "", time.Now())

	res, err := s.store.List(ctx, q)
	if err != nil {
		return repositories.ListResult{}, &QueryFailure{Err: err}
	}
	return res, nil
}

// GetBySlug returns a public product, or ErrNotFound.
func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	p, err := s.store.FindBySlug(ctx, slug)
	if err != nil {
		return nil, &QueryFailure{Err: err}
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

// Categories returns the distinct categories of public products, cached.
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	var cached []string
	if s.cache.Get(ctx, categoriesCacheKey, &cached) {
		return cached, nil
	}

	cats, err := s.store.Categories(ctx)
	if err != nil {
		return nil, &QueryFailure{Err: err}
	}

	if err := s.cache.Set(ctx, categoriesCacheKey, cats, 10*time.Minute); err != nil {
		logger.WithCtx(ctx).Warn("categories cache set failed", "error", err)
	}
	return cats, nil
}

// InvalidateCategories drops the cached category list. Wired as the
// CatalogChanged listener at boot.
func (s *ProductService) InvalidateCategories() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.cache.Del(ctx, categoriesCacheKey); err != nil {
		logger.Warn("categories cache invalidation failed", "error", err)
	}
}

// CreateInput carries everything needed to create a product. ImageURLs are
// already-hosted URLs; Uploads are raw files to ingest.
type CreateInput struct {
	Name        string            `json:"name" validate:"required,max=140"`
	Description string            `json:"description" validate:"required"`
	Price       float64           `json:"price" validate:"gte=0"`
	OfferPrice  *float64          `json:"offerPrice"`
	Category    string            `json:"category"`
	ImageURLs   []string          `json:"image"`
	Uploads     []imagestore.File `json:"-"`
}

// Create validates the input, ingests uploads, and persists the product.
// Ingest failures abort before anything is written.
func (s *ProductService) Create(ctx context.Context, grant Grant, in CreateInput) (*models.Product, error) {
	if !grant.Create {
		return nil, ErrForbidden
	}

	if errs := bind.Struct(&in); errs != nil {
		return nil, &ValidationError{Fields: errs}
	}
	if n := len(in.ImageURLs) + len(in.Uploads); n > models.MaxProductImages {
		return nil, NewValidationError("image", "at most 4 images are allowed")
	}

	uploaded, err := s.ingest(ctx, in.Uploads)
	if err != nil {
		return nil, err
	}

	category := in.Category
	if category == "" {
		category = models.DefaultCategory
	}

	p := &models.Product{
		OwnerID:     grant.UserID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		OfferPrice:  in.OfferPrice,
		// Uploaded files come first; the first image is the primary thumbnail.
		Images:      append(append([]string{}, uploaded...), in.ImageURLs...),
		Category:    category,
		IsPublic:    true,
	}

	if err := s.insertWithSlug(ctx, p); err != nil {
		return nil, err
	}

	event.FireAsync(CatalogChanged, p.Slug)
	return p, nil
}

// UpdateInput carries a partial update. Nil pointers leave the field alone.
// ExistingImages lists the already-hosted URLs to retain; nil keeps all.
type UpdateInput struct {
	Name           *string           `json:"name" validate:"omitempty,max=140"`
	Description    *string           `json:"description"`
	Price          *float64          `json:"price" validate:"omitempty,gte=0"`
	OfferPrice     *float64          `json:"offerPrice"`
	Category       *string           `json:"category"`
	IsPublic       *bool             `json:"isPublic"`
	ExistingImages []string          `json:"existingImages"`
	Uploads        []imagestore.File `json:"-"`
}

// Update applies a partial update. Sellers may only touch their own
// products; staff and admin may touch any.
func (s *ProductService) Update(ctx context.Context, grant Grant, id string, in UpdateInput) (*models.Product, error) {
	if !grant.Update {
		return nil, ErrForbidden
	}

	if errs := bind.Struct(&in); errs != nil {
		return nil, &ValidationError{Fields: errs}
	}

	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, &QueryFailure{Err: err}
	}
	if p == nil {
		return nil, ErrNotFound
	}

	if grant.Role == models.RoleSeller && p.OwnerID != grant.UserID {
		return nil, ErrForbidden
	}

	images := p.Images
	if in.ExistingImages != nil {
		images = in.ExistingImages
	}
	if len(images)+len(in.Uploads) > models.MaxProductImages {
		return nil, NewValidationError("image", "at most 4 images are allowed")
	}

	uploaded, err := s.ingest(ctx, in.Uploads)
	if err != nil {
		return nil, err
	}
	p.Images = append(append([]string{}, images...), uploaded...)

	if in.Name != nil && *in.Name != p.Name {
		p.Name = *in.Name
		p.Slug = newSlug(p.Name)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.OfferPrice != nil {
		p.OfferPrice = in.OfferPrice
	}
	if in.Category != nil && *in.Category != "" {
		p.Category = *in.Category
	}
	if in.IsPublic != nil {
		p.IsPublic = *in.IsPublic
	}

	if err := s.updateWithSlug(ctx, p); err != nil {
		return nil, err
	}

	event.FireAsync(CatalogChanged, p.Slug)
	return p, nil
}

// Delete removes a product. Admin only. Image cleanup is best effort and
// never fails the delete. Returns the deleted product's display name.
func (s *ProductService) Delete(ctx context.Context, grant Grant, id string) (string, error) {
	if !grant.Delete {
		return "", ErrForbidden
	}

	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return "", &QueryFailure{Err: err}
	}
	if p == nil {
		return "", ErrNotFound
	}

	if err := s.store.Delete(ctx, p.ID); err != nil {
		return "", &QueryFailure{Err: err}
	}

	for _, url := range p.Images {
		if err := s.images.Remove(ctx, url); err != nil {
			logger.WithCtx(ctx).Warn("image cleanup failed", "url", url, "error", err)
		}
	}

	event.FireAsync(CatalogChanged, p.Slug)
	return p.Name, nil
}

func (s *ProductService) ingest(ctx context.Context, uploads []imagestore.File) ([]string, error) {
	if len(uploads) == 0 {
		return nil, nil
	}

	urls, err := s.images.IngestMany(ctx, uploads)
	if err != nil {
		metrics.ImagesIngested.WithLabelValues("failed").Inc()
		return nil, &UpstreamError{Op: "image ingest", Err: err}
	}

	metrics.ImagesIngested.WithLabelValues("success").Add(float64(len(urls)))
	return urls, nil
}

func (s *ProductService) insertWithSlug(ctx context.Context, p *models.Product) error {
	for attempt := 0; attempt < slugRetries; attempt++ {
		p.Slug = newSlug(p.Name)
		err := s.store.Insert(ctx, p)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repositories.ErrDuplicateSlug) {
			return &QueryFailure{Err: err}
		}
	}
	return &QueryFailure{Err: repositories.ErrDuplicateSlug}
}

func (s *ProductService) updateWithSlug(ctx context.Context, p *models.Product) error {
	for attempt := 0; attempt < slugRetries; attempt++ {
		err := s.store.Update(ctx, p)
		if err == nil {
			return nil
		}
		if errors.Is(err, repositories.ErrDuplicateSlug) {
			p.Slug = newSlug(p.Name)
			continue
		}
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return &QueryFailure{Err: err}
	}
	return &QueryFailure{Err: repositories.ErrDuplicateSlug}
}
