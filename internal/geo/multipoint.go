package geo

import (
	"encoding/json"
	"slices"
)

// MultiPoint is an unordered set of positions.
type MultiPoint struct {
	base
	positions []Position
}

// MultiPointFromPositions returns a multipoint holding a copy of positions.
func MultiPointFromPositions(positions []Position) *MultiPoint {
	return &MultiPoint{positions: slices.Clone(positions)}
}

// MultiPointFromPoints returns a multipoint of the positions of points.
func MultiPointFromPoints(points []*Point) *MultiPoint {
	return &MultiPoint{positions: pointPositions(points)}
}

// MultiPointFromLineString returns a multipoint of the vertices of ls.
func MultiPointFromLineString(ls *LineString) *MultiPoint {
	return MultiPointFromPositions(ls.positions)
}

// MultiPointFromJSON builds a multipoint from a parsed "MultiPoint" document.
func MultiPointFromJSON(doc map[string]any) (*MultiPoint, error) {
	raw, err := coordinates(doc, TypeMultiPoint)
	if err != nil {
		return nil, err
	}

	positions, err := positions1(raw)
	if err != nil {
		return nil, err
	}

	mp := &MultiPoint{positions: positions}
	if err := mp.load(doc); err != nil {
		return nil, err
	}

	return mp, nil
}

func (mp *MultiPoint) Type() Type { return TypeMultiPoint }

// Positions returns a copy of the positions.
func (mp *MultiPoint) Positions() []Position {
	return slices.Clone(mp.positions)
}

// Points returns every position as a new point.
func (mp *MultiPoint) Points() []*Point {
	return positionPoints(mp.positions)
}

// SetPositions replaces the positions.
func (mp *MultiPoint) SetPositions(positions []Position) {
	mp.positions = slices.Clone(positions)
	mp.changed()
}

func (mp *MultiPoint) BBox() (BoundingBox, bool) {
	return mp.cache.get(mp.computeBBox)
}

func (mp *MultiPoint) computeBBox() (BoundingBox, bool) {
	return aggregate(mp.positions)
}

// ToPositions returns the raw coordinates.
func (mp *MultiPoint) ToPositions() [][]float64 {
	return floats1(mp.positions)
}

func (mp *MultiPoint) Flatten() []Position {
	return slices.Clone(mp.positions)
}

func (mp *MultiPoint) ToJSON(policy BBoxPolicy) map[string]any {
	return mp.document(TypeMultiPoint, "coordinates", mp.ToPositions(), policy, mp.computeBBox)
}

func (mp *MultiPoint) Save() {
	mp.save(TypeMultiPoint, "coordinates", func() any { return mp.ToPositions() })
}

func (mp *MultiPoint) Equal(other Geometry) bool {
	o, ok := other.(*MultiPoint)
	return ok && o != nil && equalPositions1(mp.positions, o.positions)
}

func (mp *MultiPoint) Clone() Geometry {
	return &MultiPoint{base: mp.base.clone(), positions: slices.Clone(mp.positions)}
}

func (mp *MultiPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(mp.ToJSON(IncludeIfPresent))
}

func pointPositions(points []*Point) []Position {
	positions := make([]Position, len(points))
	for i, p := range points {
		positions[i] = p.pos
	}

	return positions
}

func positionPoints(positions []Position) []*Point {
	points := make([]*Point, len(positions))
	for i, p := range positions {
		points[i] = PointFromPosition(p)
	}

	return points
}
