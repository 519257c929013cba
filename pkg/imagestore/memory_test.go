package imagestore

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func file(name, content string) File {
	return File{Name: name, Reader: strings.NewReader(content)}
}

func TestIngestManyPreservesOrder(t *testing.T) {
	m := NewMemoryStore()

	urls, err := m.IngestMany(context.Background(), []File{
		file("front.jpg", "a"),
		file("side.jpg", "b"),
		file("back.jpg", "c"),
	})
	require.NoError(t, err)
	require.Len(t, urls, 3)

	assert.Contains(t, urls[0], "front")
	assert.Contains(t, urls[1], "side")
	assert.Contains(t, urls[2], "back")
}

func TestIngestManyFailsAtomically(t *testing.T) {
	m := NewMemoryStore()
	m.FailAfter = 2

	urls, err := m.IngestMany(context.Background(), []File{
		file("a.jpg", "a"),
		file("b.jpg", "b"),
	})
	assert.Error(t, err)
	assert.Nil(t, urls)
}

func TestRemove(t *testing.T) {
	m := NewMemoryStore()

	url, err := m.Ingest(context.Background(), "x.jpg", strings.NewReader("data"))
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())

	require.NoError(t, m.Remove(context.Background(), url))
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, []string{url}, m.Removed())
}
