package notebookmap

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/matzehuels/stacknotes/pkg/errors"
)

// DefaultPath is where the backfill job keeps the map when no store is configured.
const DefaultPath = "db/notebooks.json"

// Load reads the map at path.
//
// A missing file yields an ErrCodeFileNotFound error and undecodable content
// an ErrCodeParse error. An empty (or whitespace-only) file is an empty map.
func Load(path string) (Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "notebook map %s", path)
		}
		return nil, err
	}
	return Decode(data)
}

// Decode parses the JSON form of a map.
func Decode(data []byte) (Map, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return New(), nil
	}
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "decode notebook map")
	}
	if m == nil {
		// "null" decodes to a nil map.
		return New(), nil
	}
	// A null or empty id means no notebook yet.
	for a, inner := range m {
		for b, id := range inner {
			if id == "" {
				delete(inner, b)
			}
		}
		if len(inner) == 0 {
			delete(m, a)
		}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Recovered wraps the load error that LoadOrEmpty replaced with an empty map.
type Recovered struct{ Err error }

func (r *Recovered) Error() string { return "recovered with empty notebook map: " + r.Err.Error() }
func (r *Recovered) Unwrap() error { return r.Err }

// LoadOrEmpty loads the map, substituting an empty one when the file is
// missing or cannot be parsed. The substituted cause is returned as a
// *Recovered alongside the usable map so callers can log it; any other
// failure is returned with a nil map.
func LoadOrEmpty(path string) (Map, *Recovered, error) {
	return OrEmpty(Load(path))
}

// OrEmpty applies the LoadOrEmpty rule to the result of any load: a
// missing or unparsable map becomes an empty one, other errors pass through.
func OrEmpty(m Map, err error) (Map, *Recovered, error) {
	if err == nil {
		if m == nil {
			m = New()
		}
		return m, nil, nil
	}
	if errors.IsAny(err, errors.ErrCodeFileNotFound, errors.ErrCodeParse) {
		return New(), &Recovered{Err: err}, nil
	}
	return nil, nil, err
}

// Encode returns the JSON form written by Save.
func Encode(m Map) ([]byte, error) {
	if m == nil {
		m = New()
	}
	return json.MarshalIndent(m, "", "  ")
}

// Save writes the entire map to path, creating parent directories.
// The content goes to a temporary file in the same directory first and is
// renamed into place, so readers never observe a partial document.
func Save(path string, m Map) error {
	data, err := Encode(m)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode notebook map")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".notebooks-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
