package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/stacknotes/pkg/errors"
	"github.com/matzehuels/stacknotes/pkg/notebookmap"
)

func sampleMap() notebookmap.Map {
	m := notebookmap.New()
	m.Set("react", "redux", "nb-1", notebookmap.ModeDirectional)
	m.Set("react", "vue", "nb-2", notebookmap.ModeDirectional)
	m.Set("@scope/pkg", "lodash", "nb-3", notebookmap.ModeDirectional)
	return m
}

// exerciseStore checks the behaviour every backend shares.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	m, rec, err := LoadOrEmpty(ctx, s)
	require.NoError(t, err)
	require.Nil(t, rec)
	assert.Equal(t, 0, m.Len())

	want := sampleMap()
	require.NoError(t, s.Save(ctx, want))
	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	want.Delete("react", "vue", notebookmap.ModeDirectional)
	want.Set("react", "redux", "nb-9", notebookmap.ModeDirectional)
	require.NoError(t, s.Save(ctx, want))
	got, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	assert.NotEmpty(t, s.Describe())
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "db", "notebooks.db"))
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db", "notebooks.json")
	s := NewFileStore(path)
	ctx := context.Background()

	m, rec, err := LoadOrEmpty(ctx, s)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.True(t, errors.Is(rec.Err, errors.ErrCodeFileNotFound))
	assert.Equal(t, 0, m.Len())

	require.NoError(t, s.Save(ctx, sampleMap()))
	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleMap(), got)
	assert.Equal(t, "file "+path, s.Describe())
}

func TestFileStoreInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notebooks.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	m, rec, err := LoadOrEmpty(context.Background(), NewFileStore(path))
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.True(t, errors.Is(rec.Err, errors.ErrCodeParse))
	assert.Equal(t, 0, m.Len())
}

func TestLoadOrEmptyPropagatesOtherErrors(t *testing.T) {
	// A directory cannot be read as a file.
	_, _, err := LoadOrEmpty(context.Background(), NewFileStore(t.TempDir()))
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		url  string
		want string
	}{
		{"", "file " + notebookmap.DefaultPath},
		{filepath.Join(dir, "n.json"), "file " + filepath.Join(dir, "n.json")},
		{"file://" + filepath.Join(dir, "n.json"), "file " + filepath.Join(dir, "n.json")},
		{"sqlite://:memory:", "sqlite :memory:"},
		{"sqlite://" + filepath.Join(dir, "n.db"), "sqlite " + filepath.Join(dir, "n.db")},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			s, err := Open(ctx, tt.url)
			require.NoError(t, err)
			defer s.Close()
			assert.Equal(t, tt.want, s.Describe())
		})
	}

	_, err := Open(ctx, "ftp://example.com/x")
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupported), "got %v", err)
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("STACKNOTES_TEST_REDIS")
	if url == "" {
		t.Skip("STACKNOTES_TEST_REDIS not set")
	}
	ctx := context.Background()
	s, err := NewRedisStore(ctx, url+"?key=stacknotes:test:"+t.Name())
	require.NoError(t, err)
	defer s.Close()
	t.Cleanup(func() { s.client.Del(context.Background(), s.key) })

	exerciseStore(t, s)

	require.NoError(t, s.client.Set(ctx, s.key, "{broken", 0).Err())
	_, rec, err := LoadOrEmpty(ctx, s)
	require.NoError(t, err)
	require.NotNil(t, rec)
}

func TestMongoStore(t *testing.T) {
	url := os.Getenv("STACKNOTES_TEST_MONGO")
	if url == "" {
		t.Skip("STACKNOTES_TEST_MONGO not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, url+"?collection=test_notebooks")
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.coll.Drop(ctx))

	exerciseStore(t, s)
}
