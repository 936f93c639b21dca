package types

import "time"

// FeatureCollection is the canonical ordered set of annotation features.
// Insertion order is display and export order; it carries no other meaning.
// All operations are pure: the receiver is never mutated, a new collection
// is returned instead. The zero value is an empty, usable collection.
type FeatureCollection struct {
	features []Feature
}

// NewFeatureCollection builds a collection from the given features without
// validating them. Use Replace to validate a bulk payload.
func NewFeatureCollection(features ...Feature) FeatureCollection {
	return FeatureCollection{features: append([]Feature(nil), features...)}
}

// Features returns a copy of the collection's features in order.
func (c FeatureCollection) Features() []Feature {
	return append([]Feature(nil), c.features...)
}

// Len returns the number of features in the collection.
func (c FeatureCollection) Len() int { return len(c.features) }

// Find returns the feature with the given id and whether it exists.
func (c FeatureCollection) Find(id string) (Feature, bool) {
	for _, f := range c.features {
		if f.ID == id {
			return f, true
		}
	}
	return Feature{}, false
}

// Add appends a feature to the collection. Returns ErrDuplicateID if a
// feature with the same id is already present. CreatedAt and UpdatedAt are
// stamped with the call time when unset.
func (c FeatureCollection) Add(f Feature) (FeatureCollection, error) {
	if err := f.Validate(); err != nil {
		return c, err
	}
	if _, ok := c.Find(f.ID); ok {
		return c, ErrDuplicateID
	}
	now := time.Now()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = now
	}
	if f.UpdatedAt.IsZero() {
		f.UpdatedAt = now
	}
	out := make([]Feature, 0, len(c.features)+1)
	out = append(out, c.features...)
	out = append(out, f)
	return FeatureCollection{features: out}, nil
}

// Update replaces the feature with the given id in place, preserving its
// position. Returns ErrNotFound if the id is absent and ErrIDMismatch if
// f.ID does not equal id. UpdatedAt is stamped with the call time.
func (c FeatureCollection) Update(id string, f Feature) (FeatureCollection, error) {
	if f.ID != id {
		return c, ErrIDMismatch
	}
	if err := f.Validate(); err != nil {
		return c, err
	}
	idx := -1
	for i := range c.features {
		if c.features[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return c, ErrNotFound
	}
	f.UpdatedAt = time.Now()
	out := append([]Feature(nil), c.features...)
	out[idx] = f
	return FeatureCollection{features: out}, nil
}

// Remove returns the collection without the feature carrying the given id.
// Returns ErrNotFound if the id is absent.
func (c FeatureCollection) Remove(id string) (FeatureCollection, error) {
	idx := -1
	for i := range c.features {
		if c.features[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return c, ErrNotFound
	}
	out := make([]Feature, 0, len(c.features)-1)
	out = append(out, c.features[:idx]...)
	out = append(out, c.features[idx+1:]...)
	return FeatureCollection{features: out}, nil
}

// Replace validates the new collection and returns it verbatim. Used for
// bulk import and for clear-all (replace with an empty collection). Import
// is all-or-nothing: any invalid or duplicated feature rejects the whole
// payload and the receiver remains the current state.
func (c FeatureCollection) Replace(newCol FeatureCollection) (FeatureCollection, error) {
	seen := make(map[string]bool, len(newCol.features))
	for _, f := range newCol.features {
		if err := f.Validate(); err != nil {
			return c, err
		}
		if seen[f.ID] {
			return c, ErrDuplicateID
		}
		seen[f.ID] = true
	}
	return newCol, nil
}

// CountByCategory returns how many features carry each recognized category.
func (c FeatureCollection) CountByCategory() map[string]int {
	counts := make(map[string]int, len(validCategories))
	for _, cat := range Categories() {
		counts[cat] = 0
	}
	for _, f := range c.features {
		counts[f.Category]++
	}
	return counts
}

// Equal reports whether both collections hold the same feature ids in the
// same order.
func (c FeatureCollection) Equal(other FeatureCollection) bool {
	if len(c.features) != len(other.features) {
		return false
	}
	for i := range c.features {
		if c.features[i].ID != other.features[i].ID {
			return false
		}
	}
	return true
}
