package geo

import (
	"encoding/json"
	"fmt"
)

// GeometryCollection is an ordered set of geometries of any variant except
// GeometryCollection itself. Members are deep-copied on insertion and owned by the
// collection.
type GeometryCollection struct {
	rec     map[string]any
	members collection[Geometry]
}

// GeometryCollectionFromGeometries returns a collection of copies of geometries.
func GeometryCollectionFromGeometries(geometries []Geometry) (*GeometryCollection, error) {
	gc := &GeometryCollection{}
	if _, err := gc.AddItems(geometries, false); err != nil {
		return nil, err
	}

	return gc, nil
}

// GeometryCollectionFromJSON builds a collection from a parsed "GeometryCollection"
// document. Member documents become the records of the members.
func GeometryCollectionFromJSON(doc map[string]any) (*GeometryCollection, error) {
	if err := expectType(doc, TypeGeometryCollection); err != nil {
		return nil, err
	}

	raw, ok := asSlice(doc["geometries"])
	if !ok {
		return nil, fmt.Errorf("%w: GeometryCollection has no geometries array", ErrInvalidGeometry)
	}

	items := make([]Geometry, len(raw))
	for i, v := range raw {
		m, ok := asMap(v)
		if !ok {
			return nil, fmt.Errorf("%w: geometry %d is not an object", ErrInvalidGeometry, i)
		}
		if t, _ := m["type"].(string); Type(t) == TypeGeometryCollection {
			return nil, fmt.Errorf("%w: geometry %d is a nested GeometryCollection", ErrInvalidGeometry, i)
		}

		g, err := GeometryFromJSON(m)
		if err != nil {
			return nil, fmt.Errorf("geometry %d: %w", i, err)
		}
		items[i] = g
	}

	gc := &GeometryCollection{rec: doc, members: collection[Geometry]{items: items}}
	if err := gc.members.cache.load(doc); err != nil {
		return nil, err
	}

	return gc, nil
}

func (gc *GeometryCollection) object()   {}
func (gc *GeometryCollection) geometry() {}

func (gc *GeometryCollection) Type() Type { return TypeGeometryCollection }

// check rejects nil members and nested collections.
func check(g Geometry) error {
	if g == nil {
		return fmt.Errorf("%w: nil geometry", ErrInvalidGeometry)
	}
	if _, nested := g.(*GeometryCollection); nested {
		return fmt.Errorf("%w: a GeometryCollection cannot contain a GeometryCollection", ErrInvalidGeometry)
	}

	return nil
}

// Add appends a copy of g and returns the new length. With eager set the union box is
// recomputed immediately, otherwise it is recomputed on the next BBox call.
func (gc *GeometryCollection) Add(g Geometry, eager bool) (int, error) {
	if err := check(g); err != nil {
		return gc.members.len(), err
	}

	return gc.members.add(g.Clone(), eager), nil
}

// AddItems appends copies of geometries and returns the new length. Nothing is added
// if any of them is rejected.
func (gc *GeometryCollection) AddItems(geometries []Geometry, eager bool) (int, error) {
	items := make([]Geometry, len(geometries))
	for i, g := range geometries {
		if err := check(g); err != nil {
			return gc.members.len(), fmt.Errorf("geometry %d: %w", i, err)
		}
		items[i] = g.Clone()
	}

	return gc.members.addItems(items, eager), nil
}

// Remove removes the first member equal to g and returns it.
func (gc *GeometryCollection) Remove(g Geometry, eager bool) (Geometry, bool) {
	if g == nil {
		return nil, false
	}

	return gc.members.remove(g, eager)
}

// RemoveByIndex removes the member at i and returns it.
func (gc *GeometryCollection) RemoveByIndex(i int, eager bool) (Geometry, bool) {
	return gc.members.removeByIndex(i, eager)
}

// IndexOf returns the index of the first member equal to g, or -1.
func (gc *GeometryCollection) IndexOf(g Geometry) int {
	if g == nil {
		return -1
	}

	return gc.members.indexOf(g)
}

// Update replaces the first member equal to target with a copy of replacement.
func (gc *GeometryCollection) Update(target, replacement Geometry, eager bool) error {
	if err := check(replacement); err != nil {
		return err
	}
	if target == nil || !gc.members.update(target, replacement.Clone(), eager) {
		return fmt.Errorf("%w: geometry is not a member of the collection", ErrNotFound)
	}

	return nil
}

// Get returns a copy of the member at i.
func (gc *GeometryCollection) Get(i int) (Geometry, bool) {
	return gc.members.get(i)
}

// Geometries returns copies of the members.
func (gc *GeometryCollection) Geometries() []Geometry {
	return gc.members.list()
}

// Len returns the number of members.
func (gc *GeometryCollection) Len() int {
	return gc.members.len()
}

func (gc *GeometryCollection) BBox() (BoundingBox, bool) {
	return gc.members.bbox()
}

func (gc *GeometryCollection) HasBBox() bool {
	return gc.members.cache.present()
}

func (gc *GeometryCollection) Flatten() []Position {
	var out []Position
	for _, g := range gc.members.items {
		out = append(out, g.Flatten()...)
	}

	return out
}

func (gc *GeometryCollection) ToJSON(policy BBoxPolicy) map[string]any {
	doc := foreign(gc.rec, "geometries")
	doc["type"] = string(TypeGeometryCollection)
	doc["geometries"] = gc.members.toJSON(policy)
	gc.members.cache.apply(doc, policy, gc.members.union)

	return doc
}

func (gc *GeometryCollection) Save() {
	if gc.rec == nil {
		gc.rec = map[string]any{"type": string(TypeGeometryCollection)}
		gc.members.dirty = true
		gc.members.cache.dirty = true
	}
	gc.members.save(gc.rec, "geometries")
}

func (gc *GeometryCollection) Record() map[string]any {
	return gc.rec
}

func (gc *GeometryCollection) setRecord(rec map[string]any) {
	gc.rec = rec
	if rec != nil {
		gc.members.relink(rec["geometries"])
	}
}

func (gc *GeometryCollection) Equal(other Geometry) bool {
	o, ok := other.(*GeometryCollection)
	return ok && o != nil && gc.members.equal(&o.members)
}

func (gc *GeometryCollection) Clone() Geometry {
	c := &GeometryCollection{members: gc.members.clone()}
	c.setRecord(cloneRecord(gc.rec))

	return c
}

func (gc *GeometryCollection) MarshalJSON() ([]byte, error) {
	return json.Marshal(gc.ToJSON(IncludeIfPresent))
}
