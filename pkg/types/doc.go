// Package types defines the domain model for the dinamap annotation core:
// map annotation features and the feature collection with its pure
// transformation operations, basemap layer descriptors and the layer stack,
// session configuration, and the standard error values shared by every
// package in the module.
package types
