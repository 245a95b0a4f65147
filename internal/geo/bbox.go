package geo

import (
	"encoding/json"
	"fmt"
)

// DefaultBufferDegree is the planar buffer, in degrees, applied around a single position
// when a box is built from it.
const DefaultBufferDegree = 0.5

// BoundingBox is an axis-aligned envelope with an optional altitude range.
// The altitude range is either present for both corners or absent for both.
// A BoundingBox is immutable; every factory returns a new value.
type BoundingBox struct {
	west, south, east, north float64
	swAlt, neAlt             float64
	hasAlt                   bool
}

// BBoxOption configures the single-position box factories.
type BBoxOption func(*bboxOptions)

type bboxOptions struct {
	altitude *float64
	buffer   float64
}

// WithAltitude assigns alt to both corners of the box.
func WithAltitude(alt float64) BBoxOption {
	return func(o *bboxOptions) { o.altitude = &alt }
}

// WithBufferDegree overrides DefaultBufferDegree.
func WithBufferDegree(degree float64) BBoxOption {
	return func(o *bboxOptions) { o.buffer = degree }
}

// Altitude returns a pointer to alt, for the optional altitude arguments of BBoxFromLngLats.
func Altitude(alt float64) *float64 {
	return &alt
}

// BBoxFromJSON parses a [west, south, east, north] array or a
// [west, south, southwestAltitude, east, north, northeastAltitude] array.
func BBoxFromJSON(values []float64) (BoundingBox, error) {
	switch len(values) {
	case 4:
		return BoundingBox{west: values[0], south: values[1], east: values[2], north: values[3]}, nil
	case 6:
		return BoundingBox{
			west: values[0], south: values[1], swAlt: values[2],
			east: values[3], north: values[4], neAlt: values[5],
			hasAlt: true,
		}, nil
	default:
		return BoundingBox{}, fmt.Errorf("%w: bbox must have 4 or 6 values, got %d", ErrInvalidFormat, len(values))
	}
}

// BBoxFromLngLat returns a box centered on one position and expanded by the buffer
// in every planar direction.
func BBoxFromLngLat(lng, lat float64, opts ...BBoxOption) BoundingBox {
	o := bboxOptions{buffer: DefaultBufferDegree}
	for _, opt := range opts {
		opt(&o)
	}

	b := BoundingBox{
		west:  lng - o.buffer,
		south: lat - o.buffer,
		east:  lng + o.buffer,
		north: lat + o.buffer,
	}
	if o.altitude != nil {
		b.swAlt, b.neAlt, b.hasAlt = *o.altitude, *o.altitude, true
	}

	return b
}

// BBoxFromLngLats returns a box from its edges. If both altitudes are given each corner
// keeps its own; if only one is given both corners receive it; a nil altitude is absent.
func BBoxFromLngLats(west, south, east, north float64, swAlt, neAlt *float64) BoundingBox {
	b := BoundingBox{west: west, south: south, east: east, north: north}
	b.setAltitudes(swAlt, neAlt)

	return b
}

// BBoxFromPosition returns the buffered box around p, keeping its altitude.
func BBoxFromPosition(p Position, opts ...BBoxOption) BoundingBox {
	if p.hasAlt {
		opts = append([]BBoxOption{WithAltitude(p.alt)}, opts...)
	}

	return BBoxFromLngLat(p.lng, p.lat, opts...)
}

// BBoxFromPositions aggregates positions into a box. A single position degenerates to
// BBoxFromPosition. Altitude takes part only for positions that carry one.
func BBoxFromPositions(positions []Position) (BoundingBox, error) {
	switch len(positions) {
	case 0:
		return BoundingBox{}, fmt.Errorf("%w: no positions to aggregate", ErrInvalidFormat)
	case 1:
		return BBoxFromPosition(positions[0]), nil
	}

	first := positions[0]
	b := BoundingBox{west: first.lng, south: first.lat, east: first.lng, north: first.lat}
	for _, p := range positions {
		b.west = min(b.west, p.lng)
		b.east = max(b.east, p.lng)
		b.south = min(b.south, p.lat)
		b.north = max(b.north, p.lat)

		if !p.hasAlt {
			continue
		}
		if !b.hasAlt {
			b.swAlt, b.neAlt, b.hasAlt = p.alt, p.alt, true
			continue
		}
		b.swAlt = min(b.swAlt, p.alt)
		b.neAlt = max(b.neAlt, p.alt)
	}

	return b, nil
}

// BBoxFromPoint returns the buffered box around the position of p.
func BBoxFromPoint(p *Point, opts ...BBoxOption) BoundingBox {
	return BBoxFromPosition(p.pos, opts...)
}

// BBoxFromPoints aggregates the positions of points, like BBoxFromPositions.
func BBoxFromPoints(points []*Point) (BoundingBox, error) {
	positions := make([]Position, len(points))
	for i, p := range points {
		positions[i] = p.pos
	}

	return BBoxFromPositions(positions)
}

// BBoxFromCornerPositions returns the box spanned by its southwest and northeast corners.
func BBoxFromCornerPositions(sw, ne Position) BoundingBox {
	b := BoundingBox{west: sw.lng, south: sw.lat, east: ne.lng, north: ne.lat}

	var swAlt, neAlt *float64
	if sw.hasAlt {
		swAlt = Altitude(sw.alt)
	}
	if ne.hasAlt {
		neAlt = Altitude(ne.alt)
	}
	b.setAltitudes(swAlt, neAlt)

	return b
}

// BBoxFromCornerPoints is BBoxFromCornerPositions for points.
func BBoxFromCornerPoints(sw, ne *Point) BoundingBox {
	return BBoxFromCornerPositions(sw.pos, ne.pos)
}

// UnionBBox returns the smallest box enclosing every box.
func UnionBBox(boxes ...BoundingBox) (BoundingBox, error) {
	if len(boxes) == 0 {
		return BoundingBox{}, fmt.Errorf("%w: no boxes to aggregate", ErrInvalidFormat)
	}

	corners := make([]Position, 0, len(boxes)*2)
	for _, b := range boxes {
		sw, ne := b.ToCornerPositions()
		corners = append(corners, sw, ne)
	}

	return BBoxFromPositions(corners)
}

func (b *BoundingBox) setAltitudes(swAlt, neAlt *float64) {
	switch {
	case swAlt != nil && neAlt != nil:
		b.swAlt, b.neAlt = *swAlt, *neAlt
	case swAlt != nil:
		b.swAlt, b.neAlt = *swAlt, *swAlt
	case neAlt != nil:
		b.swAlt, b.neAlt = *neAlt, *neAlt
	default:
		b.swAlt, b.neAlt, b.hasAlt = 0, 0, false
		return
	}
	b.hasAlt = true
}

// West returns the minimum longitude.
func (b BoundingBox) West() float64 { return b.west }

// South returns the minimum latitude.
func (b BoundingBox) South() float64 { return b.south }

// East returns the maximum longitude.
func (b BoundingBox) East() float64 { return b.east }

// North returns the maximum latitude.
func (b BoundingBox) North() float64 { return b.north }

// Altitudes returns the southwest and northeast altitudes and whether they are set.
func (b BoundingBox) Altitudes() (sw, ne float64, ok bool) {
	return b.swAlt, b.neAlt, b.hasAlt
}

// HasAltitude reports whether both corner altitudes are set.
func (b BoundingBox) HasAltitude() bool { return b.hasAlt }

// ToCornerPositions returns the southwest and northeast corners, with their altitudes
// whenever the box has an altitude range, including a zero altitude.
func (b BoundingBox) ToCornerPositions() (sw, ne Position) {
	sw = Position{lng: b.west, lat: b.south}
	ne = Position{lng: b.east, lat: b.north}
	if b.hasAlt {
		sw.alt, sw.hasAlt = b.swAlt, true
		ne.alt, ne.hasAlt = b.neAlt, true
	}

	return sw, ne
}

// ToCornerPoints returns the corners as new points.
func (b BoundingBox) ToCornerPoints() (sw, ne *Point) {
	swPos, nePos := b.ToCornerPositions()
	return PointFromPosition(swPos), PointFromPosition(nePos)
}

// Southwest returns the southwest corner as a new point.
func (b BoundingBox) Southwest() *Point {
	sw, _ := b.ToCornerPoints()
	return sw
}

// Northeast returns the northeast corner as a new point.
func (b BoundingBox) Northeast() *Point {
	_, ne := b.ToCornerPoints()
	return ne
}

// ToJSON returns the 4-value array, or the 6-value array when the box has altitude.
func (b BoundingBox) ToJSON() []float64 {
	if b.hasAlt {
		return []float64{b.west, b.south, b.swAlt, b.east, b.north, b.neAlt}
	}

	return []float64{b.west, b.south, b.east, b.north}
}

// Equal reports exact field-wise equality, without tolerance.
func (b BoundingBox) Equal(other BoundingBox) bool {
	return b == other
}

// Clone returns an independent copy of the box.
func (b BoundingBox) Clone() BoundingBox {
	return b
}

func (b BoundingBox) String() string {
	return fmt.Sprint(b.ToJSON())
}

// MarshalJSON encodes the box as its wire array.
func (b BoundingBox) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.ToJSON())
}

// UnmarshalJSON decodes a 4 or 6 value wire array.
func (b *BoundingBox) UnmarshalJSON(data []byte) error {
	var values []float64
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	box, err := BBoxFromJSON(values)
	if err != nil {
		return err
	}
	*b = box

	return nil
}

// MarshalYAML encodes the box as a flow sequence.
func (b BoundingBox) MarshalYAML() (any, error) {
	return flowSequence(b.ToJSON()), nil
}
