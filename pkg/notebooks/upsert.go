package notebooks

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/matzehuels/stacknotes/pkg/notebookmap"
)

// Upserter creates a notebook for a pair when existingID is nil and
// updates the notebook existingID otherwise. It returns the notebook id
// that should be stored for the pair.
type Upserter interface {
	Upsert(ctx context.Context, existingID *string, a, b string) (string, error)
}

// UpserterFunc adapts a function to the Upserter interface.
type UpserterFunc func(ctx context.Context, existingID *string, a, b string) (string, error)

func (f UpserterFunc) Upsert(ctx context.Context, existingID *string, a, b string) (string, error) {
	return f(ctx, existingID, a, b)
}

// LocalUpserter is an in-memory Upserter. New notebooks get a random UUID;
// updates keep the given id. It is safe for concurrent use.
type LocalUpserter struct {
	mu        sync.Mutex
	notebooks map[string]notebookmap.Pair
	created   int
	updated   int
}

// NewLocalUpserter returns an empty LocalUpserter.
func NewLocalUpserter() *LocalUpserter {
	return &LocalUpserter{notebooks: make(map[string]notebookmap.Pair)}
}

func (u *LocalUpserter) Upsert(ctx context.Context, existingID *string, a, b string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	u.mu.Lock()
	defer u.mu.Unlock()

	if existingID != nil {
		u.notebooks[*existingID] = notebookmap.Pair{A: a, B: b}
		u.updated++
		return *existingID, nil
	}
	id := uuid.NewString()
	u.notebooks[id] = notebookmap.Pair{A: a, B: b}
	u.created++
	return id, nil
}

// Lookup returns the pair last written to notebook id.
func (u *LocalUpserter) Lookup(id string) (notebookmap.Pair, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	p, ok := u.notebooks[id]
	return p, ok
}

// Counts returns how many notebooks were created and updated.
func (u *LocalUpserter) Counts() (created, updated int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.created, u.updated
}
