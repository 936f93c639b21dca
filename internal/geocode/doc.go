// Package geocode resolves free-text place queries to coordinates. The
// Gateway serializes a query stream into at most one outbound lookup per
// debounce window and discards responses that a newer query has
// superseded.
package geocode
