package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStorage struct {
	objects map[string][]byte
}

func (m *memStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(m.objects[key])), nil
}

func (m *memStorage) Save(_ context.Context, key string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.objects[key] = data
	return nil
}

func TestPush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goals.yaml")
	require.NoError(t, os.WriteFile(path, []byte("goals: []\n"), 0644))

	store := &memStorage{objects: map[string][]byte{}}
	require.NoError(t, push(context.Background(), store, path, "catalog/goals.yaml"))
	assert.Equal(t, "goals: []\n", string(store.objects["catalog/goals.yaml"]))

	assert.Error(t, push(context.Background(), store, filepath.Join(t.TempDir(), "missing.yaml"), "x"))
}
