// Package notebooks creates and updates the comparison notebook for a
// package pair.
//
// An [Upserter] receives the stored notebook id (nil when the pair has
// none yet) and returns the id to store. [SourcegraphUpserter] builds a
// markdown and search-query notebook from npm metadata and writes it
// through the Sourcegraph GraphQL API. [LocalUpserter] keeps notebooks in
// memory and is used for dry runs and tests.
package notebooks
