package geo

import (
	"encoding/json"
	"slices"
)

// LineString is an ordered path of positions.
type LineString struct {
	base
	positions []Position
}

// LineStringFromPositions returns a line string holding a copy of positions.
func LineStringFromPositions(positions []Position) *LineString {
	return &LineString{positions: slices.Clone(positions)}
}

// LineStringFromPoints returns a line string through the positions of points.
func LineStringFromPoints(points []*Point) *LineString {
	return &LineString{positions: pointPositions(points)}
}

// LineStringFromMultiPoint returns a line string through the positions of mp, in order.
func LineStringFromMultiPoint(mp *MultiPoint) *LineString {
	return LineStringFromPositions(mp.positions)
}

// LineStringFromJSON builds a line string from a parsed "LineString" document.
func LineStringFromJSON(doc map[string]any) (*LineString, error) {
	raw, err := coordinates(doc, TypeLineString)
	if err != nil {
		return nil, err
	}

	positions, err := positions1(raw)
	if err != nil {
		return nil, err
	}

	ls := &LineString{positions: positions}
	if err := ls.load(doc); err != nil {
		return nil, err
	}

	return ls, nil
}

func (ls *LineString) Type() Type { return TypeLineString }

// Positions returns a copy of the vertices.
func (ls *LineString) Positions() []Position {
	return slices.Clone(ls.positions)
}

// Points returns every vertex as a new point.
func (ls *LineString) Points() []*Point {
	return positionPoints(ls.positions)
}

// Len returns the number of vertices.
func (ls *LineString) Len() int {
	return len(ls.positions)
}

// SetPositions replaces the vertices.
func (ls *LineString) SetPositions(positions []Position) {
	ls.positions = slices.Clone(positions)
	ls.changed()
}

// Append adds vertices to the end of the path.
func (ls *LineString) Append(positions ...Position) {
	if len(positions) == 0 {
		return
	}
	ls.positions = append(ls.positions, positions...)
	ls.changed()
}

func (ls *LineString) BBox() (BoundingBox, bool) {
	return ls.cache.get(ls.computeBBox)
}

func (ls *LineString) computeBBox() (BoundingBox, bool) {
	return aggregate(ls.positions)
}

// ToPositions returns the raw coordinates.
func (ls *LineString) ToPositions() [][]float64 {
	return floats1(ls.positions)
}

func (ls *LineString) Flatten() []Position {
	return slices.Clone(ls.positions)
}

func (ls *LineString) ToJSON(policy BBoxPolicy) map[string]any {
	return ls.document(TypeLineString, "coordinates", ls.ToPositions(), policy, ls.computeBBox)
}

func (ls *LineString) Save() {
	ls.save(TypeLineString, "coordinates", func() any { return ls.ToPositions() })
}

func (ls *LineString) Equal(other Geometry) bool {
	o, ok := other.(*LineString)
	return ok && o != nil && equalPositions1(ls.positions, o.positions)
}

func (ls *LineString) Clone() Geometry {
	return &LineString{base: ls.base.clone(), positions: slices.Clone(ls.positions)}
}

func (ls *LineString) MarshalJSON() ([]byte, error) {
	return json.Marshal(ls.ToJSON(IncludeIfPresent))
}
