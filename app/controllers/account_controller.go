package controllers

import (
	"context"
	"net/http"

	"github.com/ibrahimdesign/atelier/app/models"
	"github.com/ibrahimdesign/atelier/pkg/middleware"
	"github.com/ibrahimdesign/atelier/pkg/response"
)

// ProfileReader is the slice of the user repository the account surface
// needs.
type ProfileReader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// OrderLister is the slice of the order repository the account surface
// needs.
type OrderLister interface {
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
}

// AccountController serves the authenticated principal's own data: the
// synced profile mirror and the order dashboard.
type AccountController struct {
	users  ProfileReader
	orders OrderLister
}

func NewAccountController(users ProfileReader, orders OrderLister) *AccountController {
	return &AccountController{users: users, orders: orders}
}

// Me handles GET /api/me.
func (c *AccountController) Me(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromCtx(r.Context())
	if p == nil {
		response.Unauthorized(w)
		return
	}

	user, err := c.users.FindByID(r.Context(), p.UserID)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	if user == nil {
		response.NotFound(w)
		return
	}

	response.Data(w, "user", user)
}

// Orders handles GET /api/orders, newest first.
func (c *AccountController) Orders(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromCtx(r.Context())
	if p == nil {
		response.Unauthorized(w)
		return
	}

	orders, err := c.orders.ListByUser(r.Context(), p.UserID)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	response.Data(w, "orders", orders)
}
