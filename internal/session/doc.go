// Package session holds the interaction state machine and the session
// orchestrator that serializes user events over the feature collection,
// the layer stack, the render bridge, and the geocoding gateway.
package session
