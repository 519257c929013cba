package controllers

import (
	"net/http"

	"github.com/ibrahimdesign/atelier/app/services"
	"github.com/ibrahimdesign/atelier/pkg/bind"
	"github.com/ibrahimdesign/atelier/pkg/response"
)

// BookingController takes consultation requests from the storefront.
type BookingController struct {
	bookings *services.BookingService
}

func NewBookingController(bookings *services.BookingService) *BookingController {
	return &BookingController{bookings: bookings}
}

// Create handles POST /api/bookings.
func (c *BookingController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.BookingInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationFailed(w, errs)
		return
	}

	b, err := c.bookings.Create(r.Context(), in)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	response.Created(w, "booking", b)
}
