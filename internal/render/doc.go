// Package render keeps the rendered scene consistent with the domain
// state. The rendering engine itself is an external collaborator reached
// only through the Engine interface; the Bridge owns its lifecycle, builds
// the layer stack, reconciles visibility and feature changes, and
// translates engine pick events back into domain click events. Rendered
// objects are disposable projections: they carry a back-reference id and
// nothing rendered is ever treated as a source of truth.
package render
