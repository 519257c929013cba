package repositories

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"github.com/ibrahimdesign/atelier/app/models"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 50

	// CategoryAll is the sentinel meaning "no category filter".
	CategoryAll = "All"
)

// ListQuery are the browsing-query inputs. Zero values mean defaults; all
// fields are independently optional.
type ListQuery struct {
	Page     int
	Limit    int
	Search   string
	Category string
}

// Normalize clamps page and limit into their valid ranges.
func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultPageLimit
	}
	if q.Limit > maxPageLimit {
		q.Limit = maxPageLimit
	}
	return q
}

// Skip returns the number of leading documents excluded by pagination.
func (q ListQuery) Skip() int { return (q.Page - 1) * q.Limit }

// ListResult is one catalog page plus its pagination metadata.
type ListResult struct {
	Items []models.ProductCard
	Meta  models.PageMeta
}

// BuildListFilter composes the browsing filter. Only public products are
// ever matched — there is no authenticated bypass on the browsing path.
// Search is a case-insensitive substring match over name OR description;
// the pattern is quoted so user input cannot inject regex syntax.
func BuildListFilter(q ListQuery) bson.M {
	filter := bson.M{"isPublic": true}

	if q.Search != "" {
		pattern := regexp.QuoteMeta(q.Search)
		filter["$or"] = bson.A{
			bson.M{"name": primitive.Regex{Pattern: pattern, Options: "i"}},
			bson.M{"description": primitive.Regex{Pattern: pattern, Options: "i"}},
		}
	}

	if q.Category != "" && q.Category != CategoryAll {
		filter["category"] = q.Category
	}

	return filter
}

func cardProjection() bson.D {
	return bson.D{
		{Key: "_id", Value: 1},
		{Key: "name", Value: 1},
		{Key: "slug", Value: 1},
		{Key: "description", Value: 1},
		{Key: "image", Value: 1},
		{Key: "offerPrice", Value: 1},
		{Key: "category", Value: 1},
		{Key: "createdAt", Value: 1},
	}
}

// ProductRepository is the catalog's persistence layer over the
// shop_products collection.
type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{col: db.Collection("shop_products")}
}

// List runs the filtered, projected, paginated browsing query. Items and the
// total count execute concurrently against the same filter. The sort is
// createdAt desc with _id desc as tiebreak so paging is deterministic even
// when timestamps collide.
func (r *ProductRepository) List(ctx context.Context, q ListQuery) (ListResult, error) {
	q = q.Normalize()
	filter := BuildListFilter(q)

	items := []models.ProductCard{}
	var total int64

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		opts := options.Find().
			SetProjection(cardProjection()).
			SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
			SetSkip(int64(q.Skip())).
			SetLimit(int64(q.Limit))

		cur, err := r.col.Find(gctx, filter, opts)
		if err != nil {
			return err
		}
		return cur.All(gctx, &items)
	})

	g.Go(func() error {
		n, err := r.col.CountDocuments(gctx, filter)
		if err != nil {
			return err
		}
		total = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return ListResult{}, fmt.Errorf("list products: %w", err)
	}

	return ListResult{
		Items: items,
		Meta: models.PageMeta{
			Total:   total,
			Page:    q.Page,
			Limit:   q.Limit,
			HasMore: int64(q.Skip()+len(items)) < total,
		},
	}, nil
}

// FindBySlug returns a public product by slug.
func (r *ProductRepository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var p models.Product
	err := r.col.FindOne(ctx, bson.M{"slug": slug, "isPublic": true}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product by slug: %w", err)
	}
	return &p, nil
}

// FindByID returns a product by its hex object id, public or not. A missing
// or malformed id yields (nil, nil).
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var p models.Product
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product by id: %w", err)
	}
	return &p, nil
}

// Insert persists a new product, stamping timestamps and the generated id.
func (r *ProductRepository) Insert(ctx context.Context, p *models.Product) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}

	if _, err := r.col.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// Update replaces the stored document. Concurrent updates are
// last-writer-wins; there is no version token.
func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	p.UpdatedAt = time.Now().UTC()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes the product permanently. No soft delete.
func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// Categories returns the distinct categories across public products, sorted.
func (r *ProductRepository) Categories(ctx context.Context) ([]string, error) {
	raw, err := r.col.Distinct(ctx, "category", bson.M{"isPublic": true})
	if err != nil {
		return nil, fmt.Errorf("distinct categories: %w", err)
	}

	cats := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			cats = append(cats, s)
		}
	}
	sort.Strings(cats)
	return cats, nil
}

// ErrDuplicateSlug signals a slug unique-index violation; the catalog
// service retries with a fresh suffix.
var ErrDuplicateSlug = errors.New("duplicate slug")
