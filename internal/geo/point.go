package geo

import "encoding/json"

// Point is the geometry of a single position. Its box is the buffered box around the
// position rather than a degenerate one.
type Point struct {
	base
	pos    Position
	buffer float64
}

// PointFromLngLat returns a point. The first value of alt, if any, is the altitude.
func PointFromLngLat(lng, lat float64, alt ...float64) *Point {
	return PointFromPosition(PositionFromLngLat(lng, lat, alt...))
}

// PointFromPosition returns a point at p.
func PointFromPosition(p Position) *Point {
	return &Point{pos: p, buffer: DefaultBufferDegree}
}

// PointFromJSON builds a point from a parsed "Point" document, which becomes its record.
func PointFromJSON(doc map[string]any) (*Point, error) {
	raw, err := coordinates(doc, TypePoint)
	if err != nil {
		return nil, err
	}

	pos, err := position0(raw)
	if err != nil {
		return nil, err
	}

	p := PointFromPosition(pos)
	if err := p.load(doc); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Point) Type() Type { return TypePoint }

// Position returns the position of the point.
func (p *Point) Position() Position { return p.pos }

// Lng returns the longitude.
func (p *Point) Lng() float64 { return p.pos.lng }

// Lat returns the latitude.
func (p *Point) Lat() float64 { return p.pos.lat }

// Altitude returns the altitude and whether one is set.
func (p *Point) Altitude() (float64, bool) { return p.pos.Altitude() }

// SetPosition moves the point.
func (p *Point) SetPosition(pos Position) {
	p.pos = pos
	p.changed()
}

// BufferDegree returns the buffer used for the box of the point.
func (p *Point) BufferDegree() float64 { return p.buffer }

// SetBufferDegree changes the buffer used for the box of the point.
func (p *Point) SetBufferDegree(degree float64) {
	p.buffer = degree
	p.cache.invalidate()
}

func (p *Point) BBox() (BoundingBox, bool) {
	return p.cache.get(p.computeBBox)
}

func (p *Point) computeBBox() (BoundingBox, bool) {
	return BBoxFromPosition(p.pos, WithBufferDegree(p.buffer)), true
}

// ToPositions returns the wire tuple of the point.
func (p *Point) ToPositions() []float64 {
	return p.pos.Slice()
}

func (p *Point) Flatten() []Position {
	return []Position{p.pos}
}

func (p *Point) ToJSON(policy BBoxPolicy) map[string]any {
	return p.document(TypePoint, "coordinates", p.ToPositions(), policy, p.computeBBox)
}

func (p *Point) Save() {
	p.save(TypePoint, "coordinates", func() any { return p.ToPositions() })
}

func (p *Point) Equal(other Geometry) bool {
	o, ok := other.(*Point)
	return ok && o != nil && p.pos == o.pos
}

func (p *Point) Clone() Geometry {
	return &Point{base: p.base.clone(), pos: p.pos, buffer: p.buffer}
}

func (p *Point) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ToJSON(IncludeIfPresent))
}
