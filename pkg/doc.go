// Package pkg holds the stacknotes libraries.
//
// # Overview
//
// stacknotes keeps one comparison notebook per pair of packages. A backfill
// run enumerates package pairs, creates or updates the notebook for each
// pair and records the notebook id in the notebook map, saving after every
// pair so an interrupted run loses nothing it finished.
//
//	package list / registry dependencies
//	         ↓
//	    [permutations] (pairs)
//	         ↓
//	    [backfill] ── [notebooks] (content + upsert) ── Sourcegraph
//	         ↓
//	    [storage] ([notebookmap] in a file, SQLite, Redis or MongoDB)
//
// The same module renders the web views served next to the notebooks:
// repository search results ([render/search]), the usage terms
// ([render/terms]) and the link-GitHub call to action ([render/cta]).
//
// # Main Packages
//
// [notebookmap] - The pair to notebook id map and its JSON file format.
//
// [permutations] - Pair sources: package lists and registry dependencies.
//
// [notebooks] - Notebook content and the Upserter interface.
//
// [backfill] - The sequential backfill runner.
//
// [storage] - Durable homes for the notebook map.
//
// [session], [events] - Visitor sessions and UI event logging for the server.
//
// [integrations] - HTTP clients for npm, GitHub and Sourcegraph.
//
// [httputil], [observability], [errors], [buildinfo] - Shared plumbing.
package pkg
