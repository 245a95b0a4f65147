package geo

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Position is a single coordinate: longitude, latitude and an optional altitude in meters.
// It is a comparable value; containers hold positions by value.
type Position struct {
	lng, lat float64
	alt      float64
	hasAlt   bool
}

// PositionKey identifies a position by its planar coordinates.
type PositionKey string

// PositionFromLngLat returns a position. The first value of alt, if any, is the altitude.
func PositionFromLngLat(lng, lat float64, alt ...float64) Position {
	p := Position{lng: lng, lat: lat}
	if len(alt) > 0 {
		p.alt, p.hasAlt = alt[0], true
	}

	return p
}

// PositionFromSlice parses a [lon, lat] or [lon, lat, alt] tuple.
func PositionFromSlice(values []float64) (Position, error) {
	if len(values) != 2 && len(values) != 3 {
		return Position{}, fmt.Errorf("%w: position must have 2 or 3 values, got %d", ErrInvalidFormat, len(values))
	}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Position{}, fmt.Errorf("%w: position value %v is not finite", ErrInvalidFormat, v)
		}
	}

	return PositionFromLngLat(values[0], values[1], values[2:]...), nil
}

// Lng returns the longitude.
func (p Position) Lng() float64 { return p.lng }

// Lat returns the latitude.
func (p Position) Lat() float64 { return p.lat }

// Altitude returns the altitude and whether one is set.
func (p Position) Altitude() (float64, bool) { return p.alt, p.hasAlt }

// HasAltitude reports whether the position carries an altitude.
func (p Position) HasAltitude() bool { return p.hasAlt }

// Slice returns the wire tuple of the position.
func (p Position) Slice() []float64 {
	if p.hasAlt {
		return []float64{p.lng, p.lat, p.alt}
	}

	return []float64{p.lng, p.lat}
}

// Key returns the planar key of the position, used by elevation lookups.
func (p Position) Key() PositionKey {
	return PositionKey(strconv.FormatFloat(p.lng, 'f', -1, 64) + "," + strconv.FormatFloat(p.lat, 'f', -1, 64))
}

func (p Position) String() string {
	if p.hasAlt {
		return fmt.Sprintf("[%v %v %v]", p.lng, p.lat, p.alt)
	}

	return fmt.Sprintf("[%v %v]", p.lng, p.lat)
}

// MarshalJSON encodes the position as its wire tuple.
func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Slice())
}

// UnmarshalJSON decodes a wire tuple.
func (p *Position) UnmarshalJSON(data []byte) error {
	var values []float64
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	pos, err := PositionFromSlice(values)
	if err != nil {
		return err
	}
	*p = pos

	return nil
}

// MarshalYAML encodes the position as a flow sequence.
func (p Position) MarshalYAML() (any, error) {
	return flowSequence(p.Slice()), nil
}

func flowSequence(values []float64) *yaml.Node {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range values {
		node.Content = append(node.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Value: strconv.FormatFloat(v, 'f', -1, 64),
		})
	}

	return node
}
