package routes

import (
	"github.com/ibrahimdesign/atelier/app/controllers"
	"github.com/ibrahimdesign/atelier/pkg/middleware"
	"github.com/ibrahimdesign/atelier/pkg/router"
)

// Controllers bundles everything RegisterAPI mounts.
type Controllers struct {
	Catalog  *controllers.CatalogController
	Manage   *controllers.ManageController
	Bookings *controllers.BookingController
	Account  *controllers.AccountController
	Webhooks *controllers.WebhookController
}

// RegisterAPI mounts the full API surface. The catalog reads are public;
// mutations and account routes require a bearer token.
func RegisterAPI(r *router.Router, c Controllers) {
	api := r.Group("/api", middleware.Identify)

	products := api.Group("/shop-products")
	products.Get("", "catalog.list", c.Catalog.List)
	products.Get("/categories", "catalog.categories", c.Catalog.Categories)
	products.Get("/{slug}", "catalog.show", c.Catalog.Show)

	manage := products.Group("/manage", middleware.RequireAuth)
	manage.Post("/create", "catalog.create", c.Manage.Create)
	manage.Patch("/{id}", "catalog.update", c.Manage.Update)
	manage.Delete("/{id}", "catalog.delete", c.Manage.Delete)

	api.Post("/bookings", "bookings.create", c.Bookings.Create)

	account := api.Group("", middleware.RequireAuth)
	account.Get("/me", "account.me", c.Account.Me)
	account.Get("/orders", "account.orders", c.Account.Orders)

	webhooks := api.Group("/webhooks")
	webhooks.Post("/identity", "webhooks.identity", c.Webhooks.Identity)
	webhooks.Post("/orders", "webhooks.orders", c.Webhooks.Orders)
}
