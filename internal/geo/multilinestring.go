package geo

import "encoding/json"

// MultiLineString is a set of line strings.
type MultiLineString struct {
	base
	lines [][]Position
}

// MultiLineStringFromPositions returns a multi line string holding a copy of lines.
func MultiLineStringFromPositions(lines [][]Position) *MultiLineString {
	return &MultiLineString{lines: clonePositions2(lines)}
}

// MultiLineStringFromLineStrings returns a multi line string of the vertices of lines.
func MultiLineStringFromLineStrings(lines []*LineString) *MultiLineString {
	positions := make([][]Position, len(lines))
	for i, ls := range lines {
		positions[i] = ls.Positions()
	}

	return &MultiLineString{lines: positions}
}

// MultiLineStringFromJSON builds a multi line string from a parsed "MultiLineString" document.
func MultiLineStringFromJSON(doc map[string]any) (*MultiLineString, error) {
	raw, err := coordinates(doc, TypeMultiLineString)
	if err != nil {
		return nil, err
	}

	lines, err := positions2(raw)
	if err != nil {
		return nil, err
	}

	ml := &MultiLineString{lines: lines}
	if err := ml.load(doc); err != nil {
		return nil, err
	}

	return ml, nil
}

func (ml *MultiLineString) Type() Type { return TypeMultiLineString }

// Positions returns a copy of the vertices of every line.
func (ml *MultiLineString) Positions() [][]Position {
	return clonePositions2(ml.lines)
}

// LineStrings returns every line as a new line string.
func (ml *MultiLineString) LineStrings() []*LineString {
	lines := make([]*LineString, len(ml.lines))
	for i, l := range ml.lines {
		lines[i] = LineStringFromPositions(l)
	}

	return lines
}

// SetPositions replaces the lines.
func (ml *MultiLineString) SetPositions(lines [][]Position) {
	ml.lines = clonePositions2(lines)
	ml.changed()
}

func (ml *MultiLineString) BBox() (BoundingBox, bool) {
	return ml.cache.get(ml.computeBBox)
}

func (ml *MultiLineString) computeBBox() (BoundingBox, bool) {
	return aggregate(flatten2(ml.lines))
}

// ToPositions returns the raw coordinates.
func (ml *MultiLineString) ToPositions() [][][]float64 {
	return floats2(ml.lines)
}

func (ml *MultiLineString) Flatten() []Position {
	return flatten2(ml.lines)
}

func (ml *MultiLineString) ToJSON(policy BBoxPolicy) map[string]any {
	return ml.document(TypeMultiLineString, "coordinates", ml.ToPositions(), policy, ml.computeBBox)
}

func (ml *MultiLineString) Save() {
	ml.save(TypeMultiLineString, "coordinates", func() any { return ml.ToPositions() })
}

func (ml *MultiLineString) Equal(other Geometry) bool {
	o, ok := other.(*MultiLineString)
	return ok && o != nil && equalPositions2(ml.lines, o.lines)
}

func (ml *MultiLineString) Clone() Geometry {
	return &MultiLineString{base: ml.base.clone(), lines: clonePositions2(ml.lines)}
}

func (ml *MultiLineString) MarshalJSON() ([]byte, error) {
	return json.Marshal(ml.ToJSON(IncludeIfPresent))
}
