package geo

import (
	"encoding/json"
	"fmt"
)

// FeatureCollection is an ordered set of features, deep-copied on insertion and owned
// by the collection.
type FeatureCollection struct {
	rec     map[string]any
	members collection[*Feature]
}

// FeatureCollectionFromFeatures returns a collection of copies of features.
func FeatureCollectionFromFeatures(features []*Feature) (*FeatureCollection, error) {
	fc := &FeatureCollection{}
	if _, err := fc.AddItems(features, false); err != nil {
		return nil, err
	}

	return fc, nil
}

// FeatureCollectionFromJSON builds a collection from a parsed "FeatureCollection"
// document. Feature documents become the records of the members.
func FeatureCollectionFromJSON(doc map[string]any) (*FeatureCollection, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: null feature collection", ErrInvalidFormat)
	}
	if t, _ := doc["type"].(string); Type(t) != TypeFeatureCollection {
		return nil, fmt.Errorf("%w: expected type FeatureCollection, got %q", ErrInvalidFormat, t)
	}

	raw, ok := asSlice(doc["features"])
	if !ok {
		return nil, fmt.Errorf("%w: FeatureCollection has no features array", ErrInvalidFormat)
	}

	items := make([]*Feature, len(raw))
	for i, v := range raw {
		m, ok := asMap(v)
		if !ok {
			return nil, fmt.Errorf("%w: feature %d is not an object", ErrInvalidFormat, i)
		}

		f, err := FeatureFromJSON(m)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		items[i] = f
	}

	fc := &FeatureCollection{rec: doc, members: collection[*Feature]{items: items}}
	if err := fc.members.cache.load(doc); err != nil {
		return nil, err
	}

	return fc, nil
}

func (fc *FeatureCollection) object() {}

func (fc *FeatureCollection) Type() Type { return TypeFeatureCollection }

func checkFeature(f *Feature) error {
	if f == nil {
		return fmt.Errorf("%w: nil feature", ErrInvalidFormat)
	}

	return nil
}

// Add appends a copy of f and returns the new length. With eager set the union box is
// recomputed immediately, otherwise it is recomputed on the next BBox call.
func (fc *FeatureCollection) Add(f *Feature, eager bool) (int, error) {
	if err := checkFeature(f); err != nil {
		return fc.members.len(), err
	}

	return fc.members.add(f.Clone(), eager), nil
}

// AddItems appends copies of features and returns the new length. Nothing is added if
// any of them is nil.
func (fc *FeatureCollection) AddItems(features []*Feature, eager bool) (int, error) {
	items := make([]*Feature, len(features))
	for i, f := range features {
		if err := checkFeature(f); err != nil {
			return fc.members.len(), fmt.Errorf("feature %d: %w", i, err)
		}
		items[i] = f.Clone()
	}

	return fc.members.addItems(items, eager), nil
}

// Remove removes the first member equal to f and returns it.
func (fc *FeatureCollection) Remove(f *Feature, eager bool) (*Feature, bool) {
	if f == nil {
		return nil, false
	}

	return fc.members.remove(f, eager)
}

// RemoveByIndex removes the member at i and returns it.
func (fc *FeatureCollection) RemoveByIndex(i int, eager bool) (*Feature, bool) {
	return fc.members.removeByIndex(i, eager)
}

// IndexOf returns the index of the first member equal to f, or -1.
func (fc *FeatureCollection) IndexOf(f *Feature) int {
	if f == nil {
		return -1
	}

	return fc.members.indexOf(f)
}

// Update replaces the first member equal to target with a copy of replacement.
func (fc *FeatureCollection) Update(target, replacement *Feature, eager bool) error {
	if err := checkFeature(replacement); err != nil {
		return err
	}
	if target == nil || !fc.members.update(target, replacement.Clone(), eager) {
		return fmt.Errorf("%w: feature is not a member of the collection", ErrNotFound)
	}

	return nil
}

// UpdateByIndex replaces the member at i with a copy of replacement.
func (fc *FeatureCollection) UpdateByIndex(i int, replacement *Feature, eager bool) error {
	if err := checkFeature(replacement); err != nil {
		return err
	}
	if !fc.members.updateByIndex(i, replacement.Clone(), eager) {
		return fmt.Errorf("%w: no feature at index %d", ErrNotFound, i)
	}

	return nil
}

// UpdateFunc edits the member at i in place through fn. Only the member is marked changed:
// the membership and the union box are kept unless fn replaces the geometry. fn must not
// retain f.
func (fc *FeatureCollection) UpdateFunc(i int, fn func(f *Feature) error) error {
	if i < 0 || i >= len(fc.members.items) {
		return fmt.Errorf("%w: no feature at index %d", ErrNotFound, i)
	}

	f := fc.members.items[i]
	if err := fn(f); err != nil {
		return err
	}
	if f.geometryDirty {
		fc.members.cache.invalidate()
	}

	return nil
}

// Get returns a copy of the member at i.
func (fc *FeatureCollection) Get(i int) (*Feature, bool) {
	return fc.members.get(i)
}

// Features returns copies of the members.
func (fc *FeatureCollection) Features() []*Feature {
	return fc.members.list()
}

// Len returns the number of members.
func (fc *FeatureCollection) Len() int {
	return fc.members.len()
}

func (fc *FeatureCollection) BBox() (BoundingBox, bool) {
	return fc.members.bbox()
}

func (fc *FeatureCollection) HasBBox() bool {
	return fc.members.cache.present()
}

func (fc *FeatureCollection) ToJSON(policy BBoxPolicy) map[string]any {
	doc := foreign(fc.rec, "features")
	doc["type"] = string(TypeFeatureCollection)
	doc["features"] = fc.members.toJSON(policy)
	fc.members.cache.apply(doc, policy, fc.members.union)

	return doc
}

func (fc *FeatureCollection) Save() {
	if fc.rec == nil {
		fc.rec = map[string]any{"type": string(TypeFeatureCollection)}
		fc.members.dirty = true
		fc.members.cache.dirty = true
	}
	fc.members.save(fc.rec, "features")
}

func (fc *FeatureCollection) Record() map[string]any {
	return fc.rec
}

func (fc *FeatureCollection) setRecord(rec map[string]any) {
	fc.rec = rec
	if rec != nil {
		fc.members.relink(rec["features"])
	}
}

// Equal reports whether both collections hold equal features in the same order.
func (fc *FeatureCollection) Equal(other *FeatureCollection) bool {
	return other != nil && fc.members.equal(&other.members)
}

// Clone returns a deep copy of the collection, its record included.
func (fc *FeatureCollection) Clone() *FeatureCollection {
	c := &FeatureCollection{members: fc.members.clone()}
	c.setRecord(cloneRecord(fc.rec))

	return c
}

func (fc *FeatureCollection) MarshalJSON() ([]byte, error) {
	return json.Marshal(fc.ToJSON(IncludeIfPresent))
}
