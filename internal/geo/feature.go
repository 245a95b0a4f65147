package geo

import (
	"encoding/json"
	"fmt"
)

// Feature is a geometry with a property bag and an optional id. The geometry may be
// nil, which is written as a null "geometry" member.
type Feature struct {
	rec        map[string]any
	id         any
	geometry   Geometry
	properties *FeatureProperty
	cache      bboxCache

	geometryDirty   bool
	propertiesDirty bool
	idDirty         bool
}

// FeatureFromGeometry returns a feature holding copies of g and props. Either may be nil.
func FeatureFromGeometry(g Geometry, props *FeatureProperty) *Feature {
	f := &Feature{properties: FeaturePropertyFromMap(nil)}
	if g != nil {
		f.geometry = g.Clone()
	}
	if props != nil {
		f.properties = props.Clone()
	}

	return f
}

// FeatureFromJSON builds a feature from a parsed "Feature" document, which becomes its
// record. Its geometry document becomes the record of the geometry.
func FeatureFromJSON(doc map[string]any) (*Feature, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: null feature", ErrInvalidFormat)
	}
	if t, _ := doc["type"].(string); Type(t) != TypeFeature {
		return nil, fmt.Errorf("%w: expected type Feature, got %q", ErrInvalidFormat, t)
	}

	f := &Feature{rec: doc}

	if v := doc["geometry"]; v != nil {
		m, ok := asMap(v)
		if !ok {
			return nil, fmt.Errorf("%w: feature geometry must be an object", ErrInvalidGeometry)
		}

		g, err := GeometryFromJSON(m)
		if err != nil {
			return nil, err
		}
		f.geometry = g
	}

	switch v := doc["properties"].(type) {
	case nil:
		f.properties = FeaturePropertyFromMap(nil)
	case map[string]any:
		f.properties = FeaturePropertyFromMap(v)
	default:
		return nil, fmt.Errorf("%w: feature properties must be an object, got %T", ErrInvalidFormat, v)
	}

	if v, ok := doc["id"]; ok && v != nil {
		id, err := featureID(v)
		if err != nil {
			return nil, err
		}
		f.id = id
	}

	if err := f.cache.load(doc); err != nil {
		return nil, err
	}

	return f, nil
}

// featureID accepts a string or a number.
func featureID(v any) (any, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	if n, ok := asNumber(v); ok {
		return n, nil
	}

	return nil, fmt.Errorf("%w: feature id must be a string or a number, got %T", ErrInvalidFormat, v)
}

func (f *Feature) object() {}

func (f *Feature) Type() Type { return TypeFeature }

// ID returns the id and whether one is set.
func (f *Feature) ID() (any, bool) {
	return f.id, f.id != nil
}

// SetID sets the id. A nil id removes it.
func (f *Feature) SetID(id any) error {
	if id != nil {
		v, err := featureID(id)
		if err != nil {
			return err
		}
		id = v
	}
	f.id = id
	f.idDirty = true

	return nil
}

// Geometry returns a copy of the geometry, or nil.
func (f *Feature) Geometry() Geometry {
	if f.geometry == nil {
		return nil
	}

	return f.geometry.Clone()
}

// SetGeometry replaces the geometry with a copy of g and, when props is not nil, the
// properties with a copy of props. The cached box is always dropped.
func (f *Feature) SetGeometry(g Geometry, props *FeatureProperty) {
	f.geometry = nil
	if g != nil {
		f.geometry = g.Clone()
	}
	f.geometryDirty = true
	if props != nil {
		f.properties = props.Clone()
		f.propertiesDirty = true
	}
	f.cache.invalidate()
}

// Properties returns the property bag of the feature. Changes made through it are
// written by the next Save.
func (f *Feature) Properties() *FeatureProperty {
	return f.properties
}

// SetProperties replaces the properties with a copy of props.
func (f *Feature) SetProperties(props *FeatureProperty) {
	if props == nil {
		props = FeaturePropertyFromMap(nil)
	}
	f.properties = props.Clone()
	f.propertiesDirty = true
}

// BBox returns the box of every position of the geometry.
func (f *Feature) BBox() (BoundingBox, bool) {
	return f.cache.get(f.computeBBox)
}

func (f *Feature) computeBBox() (BoundingBox, bool) {
	return aggregate(Coordinates(f))
}

func (f *Feature) HasBBox() bool {
	return f.cache.present()
}

// ToJSON projects the feature to a document. "properties" is nil or an ordered
// *FeatureProperty copy.
func (f *Feature) ToJSON(policy BBoxPolicy) map[string]any {
	doc := foreign(f.rec, "geometry", "properties", "id")
	doc["type"] = string(TypeFeature)

	doc["geometry"] = nil
	if f.geometry != nil {
		doc["geometry"] = f.geometry.ToJSON(policy)
	}

	doc["properties"] = nil
	if f.properties.Len() > 0 || !f.nullProperties() {
		doc["properties"] = f.properties.Clone()
	}

	if f.id != nil {
		doc["id"] = f.id
	}
	f.cache.apply(doc, policy, f.computeBBox)

	return doc
}

// nullProperties reports whether the record carries no properties object.
func (f *Feature) nullProperties() bool {
	if f.rec == nil {
		return false
	}
	_, ok := asMap(f.rec["properties"])

	return !ok
}

func (f *Feature) Save() {
	if f.rec == nil {
		f.rec = map[string]any{"type": string(TypeFeature)}
		f.geometryDirty = true
		f.propertiesDirty = true
		f.idDirty = f.id != nil
		f.cache.dirty = true
	}

	if f.geometry != nil {
		f.geometry.Save()
	}
	if f.geometryDirty {
		f.rec["geometry"] = nil
		if f.geometry != nil {
			f.rec["geometry"] = f.geometry.Record()
		}
		f.geometryDirty = false
	}

	if f.propertiesDirty || f.properties.dirty {
		f.rec["properties"] = f.properties.ToMap()
		f.propertiesDirty = false
		f.properties.dirty = false
	}

	if f.idDirty {
		if f.id != nil {
			f.rec["id"] = f.id
		} else {
			delete(f.rec, "id")
		}
		f.idDirty = false
	}

	f.cache.flush(f.rec)
}

func (f *Feature) Record() map[string]any {
	return f.rec
}

// setRecord attaches rec and, while the geometry is saved, the geometry document in it.
func (f *Feature) setRecord(rec map[string]any) {
	f.rec = rec
	if rec == nil || f.geometryDirty || f.geometry == nil {
		return
	}

	m, ok := asMap(rec["geometry"])
	h, holder := f.geometry.(recordHolder)
	if ok && holder {
		h.setRecord(m)
	}
}

// Equal reports whether both features have equal ids, geometries and properties.
func (f *Feature) Equal(other *Feature) bool {
	if other == nil {
		return false
	}
	if (f.id == nil) != (other.id == nil) || (f.id != nil && !equalValue(f.id, other.id)) {
		return false
	}
	if (f.geometry == nil) != (other.geometry == nil) {
		return false
	}
	if f.geometry != nil && !f.geometry.Equal(other.geometry) {
		return false
	}

	return f.properties.Equal(other.properties)
}

// Clone returns a deep copy of the feature, its record included.
func (f *Feature) Clone() *Feature {
	c := &Feature{
		id:              f.id,
		properties:      f.properties.Clone(),
		cache:           f.cache.clone(),
		geometryDirty:   f.geometryDirty,
		propertiesDirty: f.propertiesDirty,
		idDirty:         f.idDirty,
	}
	c.properties.dirty = f.properties.dirty
	if f.geometry != nil {
		c.geometry = f.geometry.Clone()
	}
	c.setRecord(cloneRecord(f.rec))

	return c
}

func (f *Feature) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.ToJSON(IncludeIfPresent))
}
