package services

import (
	"context"

	"github.com/ibrahimdesign/atelier/app/models"
	"github.com/ibrahimdesign/atelier/pkg/bind"
)

// BookingStore is the persistence surface for consultation bookings.
type BookingStore interface {
	Insert(ctx context.Context, b *models.Booking) error
}

type BookingService struct {
	store BookingStore
}

func NewBookingService(store BookingStore) *BookingService {
	return &BookingService{store: store}
}

// BookingInput is the consultation request form.
type BookingInput struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Datetime string `json:"datetime" validate:"required"`
	Message  string `json:"message"`
}

// Create validates and persists a consultation booking.
func (s *BookingService) Create(ctx context.Context, in BookingInput) (*models.Booking, error) {
	if errs := bind.Struct(&in); errs != nil {
		return nil, &ValidationError{Fields: errs}
	}

	b := &models.Booking{
		Name:     in.Name,
		Email:    in.Email,
		Datetime: in.Datetime,
		Message:  in.Message,
	}
	if err := s.store.Insert(ctx, b); err != nil {
		return nil, &QueryFailure{Err: err}
	}
	return b, nil
}
