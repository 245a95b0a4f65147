package geo

import "encoding/json"

// MultiPolygon is a set of polygons.
type MultiPolygon struct {
	base
	polygons [][][]Position
}

// MultiPolygonFromPositions returns a multipolygon holding a copy of polygons.
func MultiPolygonFromPositions(polygons [][][]Position) *MultiPolygon {
	return &MultiPolygon{polygons: clonePositions3(polygons)}
}

// MultiPolygonFromPolygons returns a multipolygon of the rings of polygons.
func MultiPolygonFromPolygons(polygons []*Polygon) *MultiPolygon {
	positions := make([][][]Position, len(polygons))
	for i, p := range polygons {
		positions[i] = p.Positions()
	}

	return &MultiPolygon{polygons: positions}
}

// MultiPolygonFromJSON builds a multipolygon from a parsed "MultiPolygon" document.
func MultiPolygonFromJSON(doc map[string]any) (*MultiPolygon, error) {
	raw, err := coordinates(doc, TypeMultiPolygon)
	if err != nil {
		return nil, err
	}

	polygons, err := positions3(raw)
	if err != nil {
		return nil, err
	}

	mp := &MultiPolygon{polygons: polygons}
	if err := mp.load(doc); err != nil {
		return nil, err
	}

	return mp, nil
}

func (mp *MultiPolygon) Type() Type { return TypeMultiPolygon }

// Positions returns a copy of the rings of every polygon.
func (mp *MultiPolygon) Positions() [][][]Position {
	return clonePositions3(mp.polygons)
}

// Polygons returns every member as a new polygon.
func (mp *MultiPolygon) Polygons() []*Polygon {
	polygons := make([]*Polygon, len(mp.polygons))
	for i, p := range mp.polygons {
		polygons[i] = PolygonFromPositions(p)
	}

	return polygons
}

// SetPositions replaces the polygons.
func (mp *MultiPolygon) SetPositions(polygons [][][]Position) {
	mp.polygons = clonePositions3(polygons)
	mp.changed()
}

func (mp *MultiPolygon) BBox() (BoundingBox, bool) {
	return mp.cache.get(mp.computeBBox)
}

func (mp *MultiPolygon) computeBBox() (BoundingBox, bool) {
	return aggregate(flatten3(mp.polygons))
}

// ToPositions returns the raw coordinates.
func (mp *MultiPolygon) ToPositions() [][][][]float64 {
	return floats3(mp.polygons)
}

func (mp *MultiPolygon) Flatten() []Position {
	return flatten3(mp.polygons)
}

func (mp *MultiPolygon) ToJSON(policy BBoxPolicy) map[string]any {
	return mp.document(TypeMultiPolygon, "coordinates", mp.ToPositions(), policy, mp.computeBBox)
}

func (mp *MultiPolygon) Save() {
	mp.save(TypeMultiPolygon, "coordinates", func() any { return mp.ToPositions() })
}

func (mp *MultiPolygon) Equal(other Geometry) bool {
	o, ok := other.(*MultiPolygon)
	return ok && o != nil && equalPositions3(mp.polygons, o.polygons)
}

func (mp *MultiPolygon) Clone() Geometry {
	return &MultiPolygon{base: mp.base.clone(), polygons: clonePositions3(mp.polygons)}
}

func (mp *MultiPolygon) MarshalJSON() ([]byte, error) {
	return json.Marshal(mp.ToJSON(IncludeIfPresent))
}
