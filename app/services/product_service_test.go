package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ibrahimdesign/atelier/app/models"
	"github.com/ibrahimdesign/atelier/app/repositories"
	"github.com/ibrahimdesign/atelier/pkg/imagestore"
)

// fakeStore is an in-memory ProductStore.
type fakeStore struct {
	mu       sync.Mutex
	products map[string]*models.Product // by hex id

	insertErr   error
	failInserts int // first N inserts return ErrDuplicateSlug
	dupSlugs    map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{products: map[string]*models.Product{}, dupSlugs: map[string]bool{}}
}

func (f *fakeStore) List(_ context.Context, q repositories.ListQuery) (repositories.ListResult, error) {
	return repositories.ListResult{}, nil
}

func (f *fakeStore) FindBySlug(_ context.Context, slug string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.Slug == slug && p.IsPublic {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindByID(_ context.Context, id string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeStore) Insert(_ context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	if f.failInserts > 0 {
		f.failInserts--
		return repositories.ErrDuplicateSlug
	}
	if f.dupSlugs[p.Slug] {
		return repositories.ErrDuplicateSlug
	}
	p.ID = primitive.NewObjectID()
	cp := *p
	f.products[p.ID.Hex()] = &cp
	return nil
}

func (f *fakeStore) Update(_ context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[p.ID.Hex()]; !ok {
		return repositories.ErrDuplicateSlug // never hit in these tests
	}
	cp := *p
	f.products[p.ID.Hex()] = &cp
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.products, id.Hex())
	return nil
}

func (f *fakeStore) Categories(_ context.Context) ([]string, error) {
	return []string{"Suits"}, nil
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.products)
}

func grantFor(role models.Role) Grant {
	return Grant{UserID: "owner-1", Role: role, Capabilities: role.Capabilities()}
}

func newService(store ProductStore, images imagestore.Store) *ProductService {
	return NewProductService(store, images, nil)
}

func upload(name string) imagestore.File {
	return imagestore.File{Name: name, Reader: strings.NewReader("img-bytes")}
}

func validCreate() CreateInput {
	return CreateInput{
		Name:        "Classic Two-Piece Suit",
		Description: "Midnight navy wool, half canvassed.",
		Price:       1250,
	}
}

func TestCreateHappyPath(t *testing.T) {
	store := newFakeStore()
	images := imagestore.NewMemoryStore()
	svc := newService(store, images)

	in := validCreate()
	in.Uploads = []imagestore.File{upload("front.jpg"), upload("back.jpg")}

	p, err := svc.Create(context.Background(), grantFor(models.RoleSeller), in)
	require.NoError(t, err)

	assert.True(t, p.IsPublic)
	assert.Equal(t, "owner-1", p.OwnerID)
	assert.Len(t, p.Images, 2)
	assert.Equal(t, models.DefaultCategory, p.Category)
	assert.True(t, strings.HasPrefix(p.Slug, "classic-two-piece-suit-"), "slug %q", p.Slug)

	// slug carries a six-digit suffix
	suffix := p.Slug[strings.LastIndex(p.Slug, "-")+1:]
	assert.Len(t, suffix, 6)
	assert.Equal(t, 1, store.count())
}

func TestCreateCapabilityGate(t *testing.T) {
	// Scenario sweep: who may create.
	cases := []struct {
		role    models.Role
		allowed bool
	}{
		{models.RoleGuest, false},
		{models.RoleBuyer, false},
		{models.RoleSeller, true},
		{models.RoleStaff, true},
		{models.RoleAdmin, true},
	}

	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			svc := newService(newFakeStore(), imagestore.NewMemoryStore())
			_, err := svc.Create(context.Background(), grantFor(tc.role), validCreate())
			if tc.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrForbidden)
			}
		})
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newService(newFakeStore(), imagestore.NewMemoryStore())

	in := validCreate()
	in.Name = ""
	in.Price = -5

	_, err := svc.Create(context.Background(), grantFor(models.RoleAdmin), in)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "name")
	assert.Contains(t, ve.Fields, "price")
}

func TestCreateAcceptsZeroPriceAndShortFields(t *testing.T) {
	// Free items are legal: price is non-negative, not strictly positive.
	// One-character names and descriptions are legal too.
	svc := newService(newFakeStore(), imagestore.NewMemoryStore())

	in := CreateInput{Name: "X", Description: ".", Price: 0}
	p, err := svc.Create(context.Background(), grantFor(models.RoleSeller), in)

	require.NoError(t, err)
	assert.Equal(t, 0.0, p.Price)
}

func TestCreateUploadedImagesComeFirst(t *testing.T) {
	// The first image is the primary thumbnail; freshly uploaded files take
	// that slot ahead of caller-supplied URLs.
	svc := newService(newFakeStore(), imagestore.NewMemoryStore())

	in := validCreate()
	in.ImageURLs = []string{"https://cdn.example.com/a.jpg"}
	in.Uploads = []imagestore.File{upload("front.jpg")}

	p, err := svc.Create(context.Background(), grantFor(models.RoleSeller), in)
	require.NoError(t, err)

	require.Len(t, p.Images, 2)
	assert.True(t, strings.HasPrefix(p.Images[0], "mem://"), "images %v", p.Images)
	assert.Equal(t, "https://cdn.example.com/a.jpg", p.Images[1])
}

func TestCreateImageCap(t *testing.T) {
	svc := newService(newFakeStore(), imagestore.NewMemoryStore())
	ctx := context.Background()

	// Four images, mixed sources: fine.
	in := validCreate()
	in.ImageURLs = []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"}
	in.Uploads = []imagestore.File{upload("c.jpg"), upload("d.jpg")}
	p, err := svc.Create(ctx, grantFor(models.RoleSeller), in)
	require.NoError(t, err)
	assert.Len(t, p.Images, 4)

	// Five is rejected outright, never truncated.
	in = validCreate()
	in.ImageURLs = []string{"https://cdn.example.com/a.jpg"}
	in.Uploads = []imagestore.File{upload("b.jpg"), upload("c.jpg"), upload("d.jpg"), upload("e.jpg")}
	_, err = svc.Create(ctx, grantFor(models.RoleSeller), in)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "image")
}

func TestCreateIngestFailureAbortsPersist(t *testing.T) {
	store := newFakeStore()
	images := imagestore.NewMemoryStore()
	images.FailAfter = 2 // second upload blows up
	svc := newService(store, images)

	in := validCreate()
	in.Uploads = []imagestore.File{upload("a.jpg"), upload("b.jpg")}

	_, err := svc.Create(context.Background(), grantFor(models.RoleSeller), in)

	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, 0, store.count(), "nothing may be persisted after an ingest failure")
}

func TestCreateRetriesDuplicateSlug(t *testing.T) {
	store := newFakeStore()
	store.failInserts = 2 // two collisions before the suffix lands
	svc := newService(store, imagestore.NewMemoryStore())

	created, err := svc.Create(context.Background(), grantFor(models.RoleAdmin), validCreate())
	require.NoError(t, err)
	assert.NotEmpty(t, created.Slug)
	assert.Equal(t, 1, store.count())
}

func TestCreateGivesUpAfterRepeatedCollisions(t *testing.T) {
	store := newFakeStore()
	store.failInserts = 10 // more collisions than retries
	svc := newService(store, imagestore.NewMemoryStore())

	_, err := svc.Create(context.Background(), grantFor(models.RoleAdmin), validCreate())

	var qf *QueryFailure
	require.ErrorAs(t, err, &qf)
	assert.ErrorIs(t, qf.Err, repositories.ErrDuplicateSlug)
}

func seedProduct(store *fakeStore, owner string) *models.Product {
	p := &models.Product{
		OwnerID:     owner,
		Name:        "Linen Blazer",
		Slug:        "linen-blazer-123456",
		Description: "Unstructured Irish linen.",
		Price:       640,
		Category:    "Blazers",
		IsPublic:    true,
		Images:      []string{"mem://images/1-old.jpg"},
	}
	_ = store.Insert(context.Background(), p)
	return p
}

func TestUpdatePartialSemantics(t *testing.T) {
	store := newFakeStore()
	svc := newService(store, imagestore.NewMemoryStore())
	p := seedProduct(store, "owner-1")

	price := 580.0
	updated, err := svc.Update(context.Background(), grantFor(models.RoleSeller), p.ID.Hex(), UpdateInput{
		Price: &price,
	})
	require.NoError(t, err)

	assert.Equal(t, 580.0, updated.Price)
	assert.Equal(t, "Linen Blazer", updated.Name, "untouched fields stay")
	assert.Equal(t, p.Slug, updated.Slug, "slug unchanged when name unchanged")
}

func TestUpdateRenameRegeneratesSlug(t *testing.T) {
	store := newFakeStore()
	svc := newService(store, imagestore.NewMemoryStore())
	p := seedProduct(store, "owner-1")

	name := "Linen Blazer MkII"
	updated, err := svc.Update(context.Background(), grantFor(models.RoleStaff), p.ID.Hex(), UpdateInput{
		Name: &name,
	})
	require.NoError(t, err)

	assert.NotEqual(t, p.Slug, updated.Slug)
	assert.True(t, strings.HasPrefix(updated.Slug, "linen-blazer-mkii-"), "slug %q", updated.Slug)
}

func TestUpdateSellerOwnershipGate(t *testing.T) {
	store := newFakeStore()
	svc := newService(store, imagestore.NewMemoryStore())
	p := seedProduct(store, "someone-else")

	price := 700.0

	// A seller cannot touch another seller's product.
	_, err := svc.Update(context.Background(), grantFor(models.RoleSeller), p.ID.Hex(), UpdateInput{Price: &price})
	assert.ErrorIs(t, err, ErrForbidden)

	// Staff and admin bypass ownership.
	_, err = svc.Update(context.Background(), grantFor(models.RoleStaff), p.ID.Hex(), UpdateInput{Price: &price})
	assert.NoError(t, err)

	_, err = svc.Update(context.Background(), grantFor(models.RoleAdmin), p.ID.Hex(), UpdateInput{Price: &price})
	assert.NoError(t, err)
}

func TestUpdateImageCapCountsRetained(t *testing.T) {
	store := newFakeStore()
	svc := newService(store, imagestore.NewMemoryStore())
	p := seedProduct(store, "owner-1")

	in := UpdateInput{
		ExistingImages: []string{"a.jpg", "b.jpg", "c.jpg"},
		Uploads:        []imagestore.File{upload("d.jpg"), upload("e.jpg")},
	}

	_, err := svc.Update(context.Background(), grantFor(models.RoleAdmin), p.ID.Hex(), in)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "image")
}

func TestUpdateNotFound(t *testing.T) {
	svc := newService(newFakeStore(), imagestore.NewMemoryStore())

	price := 1.0
	_, err := svc.Update(context.Background(), grantFor(models.RoleAdmin),
		primitive.NewObjectID().Hex(), UpdateInput{Price: &price})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteAdminOnly(t *testing.T) {
	for _, role := range []models.Role{models.RoleGuest, models.RoleBuyer, models.RoleSeller, models.RoleStaff} {
		t.Run(string(role), func(t *testing.T) {
			store := newFakeStore()
			svc := newService(store, imagestore.NewMemoryStore())
			p := seedProduct(store, "owner-1")

			_, err := svc.Delete(context.Background(), grantFor(role), p.ID.Hex())
			assert.ErrorIs(t, err, ErrForbidden)
			assert.Equal(t, 1, store.count())
		})
	}
}

func TestDeleteRemovesImagesAndReturnsName(t *testing.T) {
	store := newFakeStore()
	images := imagestore.NewMemoryStore()
	svc := newService(store, images)
	p := seedProduct(store, "owner-1")

	name, err := svc.Delete(context.Background(), grantFor(models.RoleAdmin), p.ID.Hex())
	require.NoError(t, err)

	assert.Equal(t, "Linen Blazer", name)
	assert.Equal(t, 0, store.count())
	assert.Equal(t, []string{"mem://images/1-old.jpg"}, images.Removed())
}

func TestDeleteCleanupIsBestEffort(t *testing.T) {
	store := newFakeStore()
	images := imagestore.NewMemoryStore()
	images.RemoveErr = context.DeadlineExceeded
	svc := newService(store, images)
	p := seedProduct(store, "owner-1")

	// The cleanup failure is logged, never surfaced.
	name, err := svc.Delete(context.Background(), grantFor(models.RoleAdmin), p.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Linen Blazer", name)
	assert.Equal(t, 0, store.count())
}

func TestDeleteNotFound(t *testing.T) {
	svc := newService(newFakeStore(), imagestore.NewMemoryStore())

	_, err := svc.Delete(context.Background(), grantFor(models.RoleAdmin), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrNotFound)
}
