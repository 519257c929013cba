package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ibrahimdesign/atelier/app/repositories"
	"github.com/ibrahimdesign/atelier/app/services"
	"github.com/ibrahimdesign/atelier/pkg/response"
)

// CatalogController serves the public, read-only catalog surface.
type CatalogController struct {
	products *services.ProductService
}

func NewCatalogController(products *services.ProductService) *CatalogController {
	return &CatalogController{products: products}
}

// intParam parses a query parameter, falling back to def on anything that
// is not a number. Clamping happens in the repository.
func intParam(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// List handles GET /api/shop-products.
func (c *CatalogController) List(w http.ResponseWriter, r *http.Request) {
	q := repositories.ListQuery{
		Page:     intParam(r, "page", 1),
		Limit:    intParam(r, "limit", 0),
		Search:   r.URL.Query().Get("search"),
		Category: r.URL.Query().Get("category"),
	}

	res, err := c.products.List(r.Context(), q)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	response.List(w, res.Items, res.Meta)
}

// Show handles GET /api/shop-products/{slug}.
func (c *CatalogController) Show(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	p, err := c.products.GetBySlug(r.Context(), slug)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	response.Data(w, "product", p)
}

// Categories handles GET /api/shop-products/categories.
func (c *CatalogController) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := c.products.Categories(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}

	response.Data(w, "categories", cats)
}
