// Package geojson serializes the feature collection to and from the
// portable GeoJSON document format. Export is byte-for-byte reproducible
// for identical input; import is all-or-nothing and validates the document
// before any state changes hands.
package geojson
