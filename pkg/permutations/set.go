package permutations

import (
	"context"

	"github.com/matzehuels/stacknotes/pkg/notebookmap"
)

// Entry pairs package A with every package in Bs, in order.
type Entry struct {
	A  string   `json:"a" yaml:"a"`
	Bs []string `json:"bs" yaml:"bs"`
}

// Set is an ordered collection of entries. Iteration order is the order a
// backfill processes pairs in.
type Set []Entry

// Source yields the pairs to process.
type Source interface {
	Permutations(ctx context.Context) (Set, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) (Set, error)

func (f SourceFunc) Permutations(ctx context.Context) (Set, error) { return f(ctx) }

// Permutations returns s itself, so a literal Set can serve as a Source.
func (s Set) Permutations(context.Context) (Set, error) { return s, nil }

// Count returns the number of pairs in s.
func (s Set) Count() int {
	n := 0
	for _, e := range s {
		n += len(e.Bs)
	}
	return n
}

// Each calls fn for every pair in order and stops at the first error.
func (s Set) Each(fn func(a, b string) error) error {
	for _, e := range s {
		for _, b := range e.Bs {
			if err := fn(e.A, b); err != nil {
				return err
			}
		}
	}
	return nil
}

// Pairs flattens s into a pair list.
func (s Set) Pairs() []notebookmap.Pair {
	pairs := make([]notebookmap.Pair, 0, s.Count())
	_ = s.Each(func(a, b string) error {
		pairs = append(pairs, notebookmap.Pair{A: a, B: b})
		return nil
	})
	return pairs
}
