package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibrahimdesign/atelier/app/models"
)

type memUsers struct {
	mu      sync.Mutex
	users   map[string]*models.User
	deleted []string
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[string]*models.User{}}
}

func (m *memUsers) Upsert(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	return nil
}

func (m *memUsers) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type memOrders struct {
	mu      sync.Mutex
	byEvent map[string]models.Order
}

func newMemOrders() *memOrders {
	return &memOrders{byEvent: map[string]models.Order{}}
}

// BulkUpsert mimics the repository's eventId-keyed upsert.
func (m *memOrders) BulkUpsert(_ context.Context, orders []models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range orders {
		m.byEvent[o.EventID] = o
	}
	return nil
}

func TestSyncUserJobUpserts(t *testing.T) {
	users := newMemUsers()
	deps := Deps{Users: users, Orders: newMemOrders()}

	job := &SyncUserJob{UserID: "u1", Name: "Ada", Email: "ada@example.com", Role: "seller", deps: deps}
	require.NoError(t, job.Handle())

	// A second delivery with changed fields overwrites, never duplicates.
	job = &SyncUserJob{UserID: "u1", Name: "Ada L.", Email: "ada@example.com", Role: "seller", deps: deps}
	require.NoError(t, job.Handle())

	assert.Len(t, users.users, 1)
	assert.Equal(t, "Ada L.", users.users["u1"].Name)
}

func TestDeleteUserJob(t *testing.T) {
	users := newMemUsers()
	deps := Deps{Users: users, Orders: newMemOrders()}

	require.NoError(t, (&SyncUserJob{UserID: "u1", Name: "Ada", deps: deps}).Handle())
	require.NoError(t, (&DeleteUserJob{UserID: "u1", deps: deps}).Handle())

	assert.Empty(t, users.users)
	assert.Equal(t, []string{"u1"}, users.deleted)
}

func TestOrderBatchJobIdempotentByEventID(t *testing.T) {
	orders := newMemOrders()
	deps := Deps{Users: newMemUsers(), Orders: orders}

	batch := []OrderEvent{
		{EventID: "evt-1", UserID: "u1", Amount: 100, Date: time.Now()},
		{EventID: "evt-2", UserID: "u1", Amount: 50, Date: time.Now()},
	}

	job := &OrderBatchJob{Events: batch, deps: deps}
	require.NoError(t, job.Handle())

	// Redelivery of the same events must not create new orders.
	job = &OrderBatchJob{Events: batch, deps: deps}
	require.NoError(t, job.Handle())

	assert.Len(t, orders.byEvent, 2)
}

func TestOrderBatchJobEmptyIsNoop(t *testing.T) {
	job := &OrderBatchJob{deps: Deps{Users: newMemUsers(), Orders: newMemOrders()}}
	assert.NoError(t, job.Handle())
}
