package geo

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// asSlice returns the elements of any slice value: decoded JSON arrays are []any,
// records patched by Save hold typed float slices.
func asSlice(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	if v == nil {
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	s := make([]any, rv.Len())
	for i := range s {
		s[i] = rv.Index(i).Interface()
	}

	return s, true
}

// asNumber converts JSON and YAML decoded numbers to float64.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok && m != nil
}

func numbers(v any, what string) ([]float64, error) {
	s, ok := asSlice(v)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be an array", ErrInvalidFormat, what)
	}

	values := make([]float64, len(s))
	for i, e := range s {
		n, ok := asNumber(e)
		if !ok {
			return nil, fmt.Errorf("%w: %s value %d is not a number", ErrInvalidFormat, what, i)
		}
		values[i] = n
	}

	return values, nil
}

func bboxFrom(v any) (BoundingBox, error) {
	values, err := numbers(v, "bbox")
	if err != nil {
		return BoundingBox{}, err
	}

	return BBoxFromJSON(values)
}

// position0 reads a depth-0 coordinate shape: one position.
func position0(v any) (Position, error) {
	s, ok := asSlice(v)
	if !ok {
		return Position{}, fmt.Errorf("%w: expected a position, got %T", ErrInvalidGeometry, v)
	}
	for _, e := range s {
		if _, nested := asSlice(e); nested {
			return Position{}, fmt.Errorf("%w: expected a position, got a nested array", ErrInvalidGeometry)
		}
	}

	values, err := numbers(s, "position")
	if err != nil {
		return Position{}, err
	}

	return PositionFromSlice(values)
}

func positions1(v any) ([]Position, error) {
	s, ok := asSlice(v)
	if !ok {
		return nil, fmt.Errorf("%w: expected an array of positions, got %T", ErrInvalidGeometry, v)
	}

	out := make([]Position, len(s))
	for i, e := range s {
		p, err := position0(e)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}

	return out, nil
}

func positions2(v any) ([][]Position, error) {
	s, ok := asSlice(v)
	if !ok {
		return nil, fmt.Errorf("%w: expected an array of position arrays, got %T", ErrInvalidGeometry, v)
	}

	out := make([][]Position, len(s))
	for i, e := range s {
		p, err := positions1(e)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}

	return out, nil
}

func positions3(v any) ([][][]Position, error) {
	s, ok := asSlice(v)
	if !ok {
		return nil, fmt.Errorf("%w: expected an array of polygons, got %T", ErrInvalidGeometry, v)
	}

	out := make([][][]Position, len(s))
	for i, e := range s {
		p, err := positions2(e)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}

	return out, nil
}

// coordinates returns the "coordinates" member of a geometry document of type t.
func coordinates(doc map[string]any, t Type) (any, error) {
	if err := expectType(doc, t); err != nil {
		return nil, err
	}

	v, ok := doc["coordinates"]
	if !ok || v == nil {
		return nil, fmt.Errorf("%w: %s has no coordinates", ErrInvalidGeometry, t)
	}

	return v, nil
}

func expectType(doc map[string]any, t Type) error {
	if doc == nil {
		return fmt.Errorf("%w: null %s", ErrInvalidGeometry, t)
	}
	if got, _ := doc["type"].(string); Type(got) != t {
		return fmt.Errorf("%w: expected type %s, got %q", ErrInvalidGeometry, t, got)
	}

	return nil
}

func floats1(ps []Position) [][]float64 {
	out := make([][]float64, len(ps))
	for i, p := range ps {
		out[i] = p.Slice()
	}

	return out
}

func floats2(ps [][]Position) [][][]float64 {
	out := make([][][]float64, len(ps))
	for i, p := range ps {
		out[i] = floats1(p)
	}

	return out
}

func floats3(ps [][][]Position) [][][][]float64 {
	out := make([][][][]float64, len(ps))
	for i, p := range ps {
		out[i] = floats2(p)
	}

	return out
}

func clonePositions2(ps [][]Position) [][]Position {
	out := make([][]Position, len(ps))
	for i, p := range ps {
		out[i] = append([]Position(nil), p...)
	}

	return out
}

func clonePositions3(ps [][][]Position) [][][]Position {
	out := make([][][]Position, len(ps))
	for i, p := range ps {
		out[i] = clonePositions2(p)
	}

	return out
}

func equalPositions1(a, b []Position) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func equalPositions2(a, b [][]Position) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalPositions1(a[i], b[i]) {
			return false
		}
	}

	return true
}

func equalPositions3(a, b [][][]Position) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalPositions2(a[i], b[i]) {
			return false
		}
	}

	return true
}

func flatten2(ps [][]Position) []Position {
	var out []Position
	for _, p := range ps {
		out = append(out, p...)
	}

	return out
}

func flatten3(ps [][][]Position) []Position {
	var out []Position
	for _, p := range ps {
		out = append(out, flatten2(p)...)
	}

	return out
}

// aggregate is the bbox computation of every coordinate container.
func aggregate(ps []Position) (BoundingBox, bool) {
	b, err := BBoxFromPositions(ps)
	return b, err == nil
}
