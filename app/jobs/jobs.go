// Package jobs defines the background jobs dispatched by the webhook
// endpoints and consumed by the queue workers.
package jobs

import (
	"context"
	"time"

	"github.com/ibrahimdesign/atelier/app/models"
	"github.com/ibrahimdesign/atelier/pkg/queue"
)

// Queue names for registration and dispatch.
const (
	SyncUserJobName   = "user.sync"
	DeleteUserJobName = "user.delete"
	OrderBatchJobName = "order.batch"
)

// MaxOrderBatch caps how many order events a single batch job carries.
const MaxOrderBatch = 5

const handleTimeout = 10 * time.Second

// UserStore is the slice of the user repository the lifecycle jobs need.
type UserStore interface {
	Upsert(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id string) error
}

// OrderStore is the slice of the order repository the order job needs.
type OrderStore interface {
	BulkUpsert(ctx context.Context, orders []models.Order) error
}

// Deps carries the stores shared by all jobs. Injected once at boot via
// Register; job payloads stay pure data.
type Deps struct {
	Users  UserStore
	Orders OrderStore
}

// Register wires the job factories into the queue registry. Call once at
// boot, before workers start.
func Register(deps Deps) {
	queue.Register(SyncUserJobName, func() queue.Job { return &SyncUserJob{deps: deps} })
	queue.Register(DeleteUserJobName, func() queue.Job { return &DeleteUserJob{deps: deps} })
	queue.Register(OrderBatchJobName, func() queue.Job { return &OrderBatchJob{deps: deps} })
}

// SyncUserJob mirrors a user.created or user.updated event into the local
// profile collection.
type SyncUserJob struct {
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"imageUrl"`
	Role     string `json:"role"`

	deps Deps
}

func (j *SyncUserJob) Handle() error {
	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	return j.deps.Users.Upsert(ctx, &models.User{
		ID:       j.UserID,
		Name:     j.Name,
		Email:    j.Email,
		ImageURL: j.ImageURL,
		Role:     j.Role,
	})
}

// DeleteUserJob removes the local profile mirror after a user.deleted event.
type DeleteUserJob struct {
	UserID string `json:"userId"`

	deps Deps
}

func (j *DeleteUserJob) Handle() error {
	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	return j.deps.Users.Delete(ctx, j.UserID)
}

// OrderEvent is one order/created delivery.
type OrderEvent struct {
	EventID string             `json:"eventId"`
	UserID  string             `json:"userId"`
	Items   []models.OrderItem `json:"items"`
	Amount  float64            `json:"amount"`
	Address string             `json:"address"`
	Date    time.Time          `json:"date"`
}

// OrderBatchJob persists up to MaxOrderBatch order events in one bulk
// upsert keyed by event id, so redeliveries never create duplicates.
type OrderBatchJob struct {
	Events []OrderEvent `json:"events"`

	deps Deps
}

func (j *OrderBatchJob) Handle() error {
	if len(j.Events) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	orders := make([]models.Order, 0, len(j.Events))
	for _, e := range j.Events {
		orders = append(orders, models.Order{
			EventID: e.EventID,
			UserID:  e.UserID,
			Items:   e.Items,
			Amount:  e.Amount,
			Address: e.Address,
			Date:    e.Date,
		})
	}
	return j.deps.Orders.BulkUpsert(ctx, orders)
}
