package notebookmap

import (
	"sort"

	"github.com/matzehuels/stacknotes/pkg/errors"
)

// Map is the persisted package pair to notebook id mapping.
type Map map[string]map[string]string

// Pair identifies two packages in the order they were enumerated.
type Pair struct {
	A string `json:"a"`
	B string `json:"b"`
}

// String returns "A/B" for logging.
func (p Pair) String() string { return p.A + "/" + p.B }

// Canonical returns the pair with the lexicographically smaller name first.
func (p Pair) Canonical() Pair {
	if p.B < p.A {
		return Pair{A: p.B, B: p.A}
	}
	return p
}

// Mode controls whether pair order matters when storing ids.
type Mode int

const (
	// ModeDirectional keeps (A, B) and (B, A) as separate entries.
	ModeDirectional Mode = iota
	// ModeSymmetric stores one id per unordered pair.
	ModeSymmetric
)

// String returns the mode name used in flags and config.
func (m Mode) String() string {
	switch m {
	case ModeSymmetric:
		return "symmetric"
	default:
		return "directional"
	}
}

// ParseMode converts a flag or config value into a Mode.
// An empty string selects ModeDirectional.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "directional", "ordered":
		return ModeDirectional, nil
	case "symmetric", "unordered":
		return ModeSymmetric, nil
	default:
		return ModeDirectional, errors.New(errors.ErrCodeInvalidConfig, "unknown pair mode %q (want directional or symmetric)", s)
	}
}

// key returns the storage key for a pair under mode.
func (m Mode) key(a, b string) (string, string) {
	if m == ModeSymmetric {
		p := Pair{A: a, B: b}.Canonical()
		return p.A, p.B
	}
	return a, b
}

// New returns an empty map.
func New() Map { return make(Map) }

// Get returns the notebook id stored for (a, b).
func (m Map) Get(a, b string, mode Mode) (string, bool) {
	ka, kb := mode.key(a, b)
	inner, ok := m[ka]
	if !ok {
		return "", false
	}
	id, ok := inner[kb]
	return id, ok && id != ""
}

// Set stores id for (a, b), creating the outer entry when absent.
func (m Map) Set(a, b, id string, mode Mode) {
	ka, kb := mode.key(a, b)
	inner, ok := m[ka]
	if !ok || inner == nil {
		inner = make(map[string]string)
		m[ka] = inner
	}
	inner[kb] = id
}

// Delete removes the entry for (a, b) and drops an emptied outer entry.
func (m Map) Delete(a, b string, mode Mode) {
	ka, kb := mode.key(a, b)
	inner, ok := m[ka]
	if !ok {
		return
	}
	delete(inner, kb)
	if len(inner) == 0 {
		delete(m, ka)
	}
}

// Len returns the number of stored pairs.
func (m Map) Len() int {
	n := 0
	for _, inner := range m {
		n += len(inner)
	}
	return n
}

// Entry is a single stored pair with its notebook id.
type Entry struct {
	Pair
	ID string `json:"id"`
}

// Entries returns all stored pairs sorted by A then B.
func (m Map) Entries() []Entry {
	out := make([]Entry, 0, m.Len())
	for a, inner := range m {
		for b, id := range inner {
			out = append(out, Entry{Pair: Pair{A: a, B: b}, ID: id})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

// Clone returns a deep copy of m.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for a, inner := range m {
		cp := make(map[string]string, len(inner))
		for b, id := range inner {
			cp[b] = id
		}
		out[a] = cp
	}
	return out
}

// Validate checks that no key or id is empty.
func (m Map) Validate() error {
	for a, inner := range m {
		if a == "" {
			return errors.New(errors.ErrCodeParse, "empty outer package name")
		}
		for b, id := range inner {
			if b == "" {
				return errors.New(errors.ErrCodeParse, "empty inner package name under %q", a)
			}
			if id == "" {
				return errors.New(errors.ErrCodeParse, "empty notebook id for %s", Pair{A: a, B: b})
			}
		}
	}
	return nil
}
