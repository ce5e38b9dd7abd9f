// Package notebookmap holds the persisted pairing of packages to notebooks.
//
// A [Map] is a two-level mapping: the outer key is package A, the inner key
// is package B and the value is the id of the notebook comparing them.
//
//	{
//	  "react": {
//	    "redux": "Tm90ZWJvb2s6MQ=="
//	  }
//	}
//
// The file form is plain JSON with a two-space indent and no schema version.
//
// # Loading
//
// [Load] reports a missing file with [errors.ErrCodeFileNotFound] and a
// malformed one with [errors.ErrCodeParse]. [LoadOrEmpty] turns exactly those
// two outcomes into an empty map; any other failure (permissions, I/O) is
// returned unchanged.
//
// # Pair Mode
//
// Whether (A, B) and (B, A) share one notebook is a caller decision. With
// [ModeDirectional] they are distinct entries. With [ModeSymmetric] the pair
// is stored under its canonical order (the lexicographically smaller name is
// the outer key), so either spelling finds the same id.
package notebookmap
