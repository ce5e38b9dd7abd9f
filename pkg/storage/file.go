package storage

import (
	"context"

	"github.com/matzehuels/stacknotes/pkg/notebookmap"
)

// FileStore keeps the map in a JSON file.
type FileStore struct {
	Path string
}

// NewFileStore returns a store for the JSON file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) Load(ctx context.Context) (notebookmap.Map, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return notebookmap.Load(s.Path)
}

func (s *FileStore) Save(ctx context.Context, m notebookmap.Map) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return notebookmap.Save(s.Path, m)
}

func (s *FileStore) Close() error     { return nil }
func (s *FileStore) Describe() string { return "file " + s.Path }
