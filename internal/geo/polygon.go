package geo

import "encoding/json"

// Polygon is an exterior ring followed by any number of interior rings.
// Ring closure and orientation are not validated.
type Polygon struct {
	base
	rings [][]Position
}

// PolygonFromPositions returns a polygon holding a copy of rings.
func PolygonFromPositions(rings [][]Position) *Polygon {
	return &Polygon{rings: clonePositions2(rings)}
}

// PolygonFromLineStrings returns a polygon whose rings are the vertices of rings.
func PolygonFromLineStrings(rings []*LineString) *Polygon {
	positions := make([][]Position, len(rings))
	for i, ls := range rings {
		positions[i] = ls.Positions()
	}

	return &Polygon{rings: positions}
}

// PolygonFromJSON builds a polygon from a parsed "Polygon" document.
func PolygonFromJSON(doc map[string]any) (*Polygon, error) {
	raw, err := coordinates(doc, TypePolygon)
	if err != nil {
		return nil, err
	}

	rings, err := positions2(raw)
	if err != nil {
		return nil, err
	}

	p := &Polygon{rings: rings}
	if err := p.load(doc); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Polygon) Type() Type { return TypePolygon }

// Positions returns a copy of the rings.
func (p *Polygon) Positions() [][]Position {
	return clonePositions2(p.rings)
}

// Rings returns every ring as a new line string.
func (p *Polygon) Rings() []*LineString {
	rings := make([]*LineString, len(p.rings))
	for i, r := range p.rings {
		rings[i] = LineStringFromPositions(r)
	}

	return rings
}

// Exterior returns the exterior ring, or nil for an empty polygon.
func (p *Polygon) Exterior() *LineString {
	if len(p.rings) == 0 {
		return nil
	}

	return LineStringFromPositions(p.rings[0])
}

// SetPositions replaces the rings.
func (p *Polygon) SetPositions(rings [][]Position) {
	p.rings = clonePositions2(rings)
	p.changed()
}

func (p *Polygon) BBox() (BoundingBox, bool) {
	return p.cache.get(p.computeBBox)
}

func (p *Polygon) computeBBox() (BoundingBox, bool) {
	return aggregate(flatten2(p.rings))
}

// ToPositions returns the raw coordinates.
func (p *Polygon) ToPositions() [][][]float64 {
	return floats2(p.rings)
}

func (p *Polygon) Flatten() []Position {
	return flatten2(p.rings)
}

func (p *Polygon) ToJSON(policy BBoxPolicy) map[string]any {
	return p.document(TypePolygon, "coordinates", p.ToPositions(), policy, p.computeBBox)
}

func (p *Polygon) Save() {
	p.save(TypePolygon, "coordinates", func() any { return p.ToPositions() })
}

func (p *Polygon) Equal(other Geometry) bool {
	o, ok := other.(*Polygon)
	return ok && o != nil && equalPositions2(p.rings, o.rings)
}

func (p *Polygon) Clone() Geometry {
	return &Polygon{base: p.base.clone(), rings: clonePositions2(p.rings)}
}

func (p *Polygon) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ToJSON(IncludeIfPresent))
}
