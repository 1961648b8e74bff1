// Package ledger is the filtering, aggregation, categorization and sorting
// engine. Every function is pure: inputs are never modified and results are
// fresh collections, so a recompute can always start from committed state.
package ledger
