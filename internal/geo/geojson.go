// Package geo implements a mutable GeoJSON document model.
//
// Documents are parsed into typed geometries, features and feature collections.
// Every object keeps the document it was parsed from as a backing record: mutators
// mark the affected members dirty and Save patches only those members of the record,
// so foreign members survive a parse, mutate and serialize round trip.
//
// Bounding boxes are computed lazily on first access and cached until the object's
// coordinates change.
package geo

import "errors"

// Type is the GeoJSON "type" discriminator of an object.
type Type string

// Object types known to the model.
const (
	TypePoint              Type = "Point"
	TypeMultiPoint         Type = "MultiPoint"
	TypeLineString         Type = "LineString"
	TypeMultiLineString    Type = "MultiLineString"
	TypePolygon            Type = "Polygon"
	TypeMultiPolygon       Type = "MultiPolygon"
	TypeGeometryCollection Type = "GeometryCollection"
	TypeFeature            Type = "Feature"
	TypeFeatureCollection  Type = "FeatureCollection"
)

// BBoxPolicy controls whether ToJSON emits a "bbox" member.
type BBoxPolicy int

const (
	// IncludeIfPresent emits the cached box only if one already exists.
	IncludeIfPresent BBoxPolicy = iota
	// Include computes the box if needed and always emits it.
	Include
	// Exclude never emits the box.
	Exclude
)

func (p BBoxPolicy) String() string {
	switch p {
	case Include:
		return "include"
	case Exclude:
		return "exclude"
	default:
		return "if-present"
	}
}

var (
	// ErrInvalidFormat is returned for malformed bbox arrays, positions and documents.
	ErrInvalidFormat = errors.New("geo: invalid format")
	// ErrInvalidGeometry is returned when coordinates do not match the nesting depth of
	// the declared type, for unknown discriminators and for nested geometry collections.
	ErrInvalidGeometry = errors.New("geo: invalid geometry")
	// ErrNotFound is returned when a collection lookup has no match.
	ErrNotFound = errors.New("geo: not found")
)

// Object is any GeoJSON object of the model: a geometry, a feature or a feature collection.
type Object interface {
	// Type returns the discriminator of the object.
	Type() Type
	// BBox returns the bounding box of the object, computing and caching it on first
	// access. ok is false when the object holds no positions.
	BBox() (box BoundingBox, ok bool)
	// HasBBox reports whether a box is cached, without computing one.
	HasBBox() bool
	// ToJSON projects the object to a document. It never modifies the backing record.
	// The document is a tree of maps, slices and scalars except for the "properties" of a
	// feature, which hold a *FeatureProperty copy so that encoding keeps the key order.
	// Record returns a plain tree once the object is saved.
	ToJSON(policy BBoxPolicy) map[string]any
	// Save patches the backing record with every member changed since the last save.
	Save()
	// Record returns the backing record. It is nil until the object is parsed or saved.
	Record() map[string]any

	object()
}

// Geometry is one of the seven GeoJSON geometry variants.
type Geometry interface {
	Object
	// Flatten returns every position of the geometry in document order.
	Flatten() []Position
	// Clone returns a deep copy sharing no mutable state with the receiver.
	Clone() Geometry
	// Equal reports whether other has the same type and the same coordinates.
	Equal(other Geometry) bool

	geometry()
}

// recordHolder is implemented by objects whose backing record can be re-attached after a
// deep copy of the parent record.
type recordHolder interface {
	setRecord(rec map[string]any)
}
