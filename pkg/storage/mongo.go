package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/stacknotes/pkg/notebookmap"
)

const (
	defaultMongoDatabase   = "stacknotes"
	defaultMongoCollection = "notebooks"
)

// MongoStore keeps one document per pair.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type pairDocument struct {
	Key string `bson:"_id"`
	A   string `bson:"pkg_a"`
	B   string `bson:"pkg_b"`
	ID  string `bson:"notebook_id"`
}

func documentKey(a, b string) string { return a + "\x00" + b }

// NewMongoStore connects to the deployment in rawURL. The URL path names
// the database (default "stacknotes"); a "collection" query parameter
// overrides the collection name.
func NewMongoStore(ctx context.Context, rawURL string) (*MongoStore, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse mongodb URL: %w", err)
	}
	q := u.Query()
	collection := q.Get("collection")
	if collection == "" {
		collection = defaultMongoCollection
	}
	q.Del("collection")
	u.RawQuery = q.Encode()

	database := strings.Trim(u.Path, "/")
	if database == "" {
		database = defaultMongoDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(u.String()))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &MongoStore{client: client, coll: client.Database(database).Collection(collection)}, nil
}

func (s *MongoStore) Load(ctx context.Context) (notebookmap.Map, error) {
	cur, err := s.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find notebooks: %w", err)
	}
	var docs []pairDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode notebooks: %w", err)
	}

	m := notebookmap.New()
	for _, d := range docs {
		m.Set(d.A, d.B, d.ID, notebookmap.ModeDirectional)
	}
	return m, nil
}

// Save upserts a document per pair and deletes documents for pairs no
// longer in m.
func (s *MongoStore) Save(ctx context.Context, m notebookmap.Map) error {
	entries := m.Entries()
	keys := make([]string, 0, len(entries))
	models := make([]mongo.WriteModel, 0, len(entries))
	for _, e := range entries {
		key := documentKey(e.A, e.B)
		keys = append(keys, key)
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.D{{Key: "_id", Value: key}}).
			SetReplacement(pairDocument{Key: key, A: e.A, B: e.B, ID: e.ID}).
			SetUpsert(true))
	}

	if len(models) > 0 {
		if _, err := s.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
			return fmt.Errorf("write notebooks: %w", err)
		}
	}
	filter := bson.D{{Key: "_id", Value: bson.D{{Key: "$nin", Value: keys}}}}
	if _, err := s.coll.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("delete stale notebooks: %w", err)
	}
	return nil
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

func (s *MongoStore) Describe() string {
	return "mongodb " + s.coll.Database().Name() + "." + s.coll.Name()
}
