package storage

import (
	"context"
	"net/url"
	"strings"

	"github.com/matzehuels/stacknotes/pkg/errors"
	"github.com/matzehuels/stacknotes/pkg/notebookmap"
)

// Store loads and saves the complete notebook map.
type Store interface {
	Load(ctx context.Context) (notebookmap.Map, error)
	Save(ctx context.Context, m notebookmap.Map) error
	Close() error
	// Describe returns a human readable location, used in logs.
	Describe() string
}

// LoadOrEmpty loads from s and replaces a missing or undecodable map with
// an empty one. The replaced error is returned as a *notebookmap.Recovered;
// any other failure is returned as err.
func LoadOrEmpty(ctx context.Context, s Store) (notebookmap.Map, *notebookmap.Recovered, error) {
	return notebookmap.OrEmpty(s.Load(ctx))
}

// Open returns the store for rawURL:
//
//	""                        FileStore at notebookmap.DefaultPath
//	path/to/file.json         FileStore
//	file:///abs/path.json     FileStore
//	sqlite://path/to/db       SQLiteStore (sqlite://:memory: for tests)
//	redis://host:6379/0       RedisStore (?key= overrides the key)
//	mongodb://host/dbname     MongoStore (?collection= overrides the collection)
func Open(ctx context.Context, rawURL string) (Store, error) {
	if rawURL == "" {
		return NewFileStore(notebookmap.DefaultPath), nil
	}
	scheme, rest, ok := strings.Cut(rawURL, "://")
	if !ok {
		return NewFileStore(rawURL), nil
	}

	switch strings.ToLower(scheme) {
	case "file":
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid store URL %q", rawURL)
		}
		path := u.Path
		if u.Host != "" && u.Host != "localhost" {
			path = u.Host + path
		}
		return NewFileStore(path), nil
	case "sqlite", "sqlite3":
		return NewSQLiteStore(ctx, rest)
	case "redis", "rediss", "unix":
		return NewRedisStore(ctx, rawURL)
	case "mongodb", "mongodb+srv":
		return NewMongoStore(ctx, rawURL)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported store scheme %q", scheme)
	}
}
