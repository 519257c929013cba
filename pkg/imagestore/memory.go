package imagestore

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// MemoryStore keeps images in a map. Used by tests and by local runs with
// no IMAGE_BUCKET configured.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	seq     int

	// FailAfter, when > 0, makes the FailAfter-th Ingest call fail. Tests
	// use it to exercise abort-before-persist ordering.
	FailAfter int

	// RemoveErr, when set, is returned by every Remove call.
	RemoveErr error

	removed []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: map[string][]byte{}}
}

func (m *MemoryStore) Ingest(_ context.Context, name string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	if m.FailAfter > 0 && m.seq >= m.FailAfter {
		return "", fmt.Errorf("imagestore: simulated upload failure")
	}

	url := fmt.Sprintf("mem://images/%d-%s", m.seq, sanitize(strings.TrimSpace(name)))
	m.objects[url] = data
	return url, nil
}

func (m *MemoryStore) IngestMany(ctx context.Context, files []File) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, f := range files {
		url, err := m.Ingest(ctx, f.Name, f.Reader)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (m *MemoryStore) Remove(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	delete(m.objects, url)
	m.removed = append(m.removed, url)
	return nil
}

// Removed returns the URLs removed so far, in call order.
func (m *MemoryStore) Removed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.removed))
	copy(out, m.removed)
	return out
}

// Len returns the number of stored objects.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
