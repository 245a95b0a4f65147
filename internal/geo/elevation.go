package geo

import (
	"context"
	"fmt"
)

// ElevationLookup resolves terrain elevations for positions inside box. Results are
// keyed by Position.Key; positions without a known elevation are left out.
type ElevationLookup interface {
	Elevations(ctx context.Context, positions []Position, box BoundingBox) (map[PositionKey]float64, error)
}

// ElevationLookupFunc adapts a function to ElevationLookup.
type ElevationLookupFunc func(ctx context.Context, positions []Position, box BoundingBox) (map[PositionKey]float64, error)

func (f ElevationLookupFunc) Elevations(ctx context.Context, positions []Position, box BoundingBox) (map[PositionKey]float64, error) {
	return f(ctx, positions, box)
}

// LookupElevations asks l for the elevations of every position of o, bounded by the box
// of o. An object without positions yields an empty map without calling l.
func LookupElevations(ctx context.Context, l ElevationLookup, o Object) (map[PositionKey]float64, error) {
	positions := Coordinates(o)
	if len(positions) == 0 {
		return map[PositionKey]float64{}, nil
	}

	box, ok := o.BBox()
	if !ok {
		return map[PositionKey]float64{}, nil
	}

	elevations, err := l.Elevations(ctx, positions, box)
	if err != nil {
		return nil, fmt.Errorf("elevation lookup: %w", err)
	}

	return elevations, nil
}
