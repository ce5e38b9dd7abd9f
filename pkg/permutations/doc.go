// Package permutations produces the package pairs a backfill run visits.
//
// A [Set] is an ordered list of entries, each pairing a package A with the
// packages B it should be compared against. Sources decide where the pairs
// come from: [ListSource] pairs up a fixed list of packages and
// [DependencySource] pairs each root package with its npm runtime
// dependencies. Package lists are read with [LoadPackageList] from YAML,
// TOML or plain text files.
package permutations
