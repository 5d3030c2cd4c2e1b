// Package table provides an ordered-columns container for query results
// returned by a Genie space, with positional column-name synthesis when
// the upstream schema is empty.
package table
