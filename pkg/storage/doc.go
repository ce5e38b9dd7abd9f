// Package storage persists the notebook map.
//
// Every backend implements [Store] and saves the whole map on each call:
//
//   - [FileStore]: the pretty-printed JSON file (default db/notebooks.json)
//   - [SQLiteStore]: one row per pair in a local SQLite database
//   - [RedisStore]: the JSON document under a single key
//   - [MongoStore]: one document per pair
//
// [Open] picks a backend from a URL:
//
//	store, err := storage.Open(ctx, "sqlite://db/notebooks.db")
//	defer store.Close()
//
// A missing file or an undecodable document is recovered by [LoadOrEmpty]
// as an empty map. Backends without data (no key, no rows) load an empty
// map directly.
package storage
