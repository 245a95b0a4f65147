// Package orbgeo converts model geometries to and from github.com/paulmach/orb, so
// planar algorithms and renderers built on orb can consume documents of the model.
// orb is two-dimensional: altitudes are dropped on the way out.
package orbgeo

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/woozymasta/geodoc/internal/geo"
)

// Bound converts a box to an orb bound.
func Bound(b geo.BoundingBox) orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.West(), b.South()},
		Max: orb.Point{b.East(), b.North()},
	}
}

// Center returns the center of the box of o.
func Center(o geo.Object) (orb.Point, bool) {
	b, ok := o.BBox()
	if !ok {
		return orb.Point{}, false
	}

	return Bound(b).Center(), true
}

// Geometry converts a model geometry to its orb counterpart.
func Geometry(g geo.Geometry) (orb.Geometry, error) {
	switch v := g.(type) {
	case *geo.Point:
		return point(v.Position()), nil
	case *geo.MultiPoint:
		return orb.MultiPoint(points(v.Positions())), nil
	case *geo.LineString:
		return orb.LineString(points(v.Positions())), nil
	case *geo.MultiLineString:
		lines := v.Positions()
		mls := make(orb.MultiLineString, len(lines))
		for i, l := range lines {
			mls[i] = orb.LineString(points(l))
		}
		return mls, nil
	case *geo.Polygon:
		return polygon(v.Positions()), nil
	case *geo.MultiPolygon:
		polygons := v.Positions()
		mp := make(orb.MultiPolygon, len(polygons))
		for i, p := range polygons {
			mp[i] = polygon(p)
		}
		return mp, nil
	case *geo.GeometryCollection:
		members := v.Geometries()
		c := make(orb.Collection, len(members))
		for i, m := range members {
			og, err := Geometry(m)
			if err != nil {
				return nil, fmt.Errorf("geometry %d: %w", i, err)
			}
			c[i] = og
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: unsupported geometry %T", geo.ErrInvalidGeometry, g)
	}
}

// FromOrb converts an orb geometry to a model geometry. A ring becomes a line string
// and a bound becomes a polygon.
func FromOrb(g orb.Geometry) (geo.Geometry, error) {
	switch v := g.(type) {
	case orb.Point:
		return geo.PointFromPosition(position(v)), nil
	case orb.MultiPoint:
		return geo.MultiPointFromPositions(positions(v)), nil
	case orb.LineString:
		return geo.LineStringFromPositions(positions(v)), nil
	case orb.Ring:
		return geo.LineStringFromPositions(positions(v)), nil
	case orb.MultiLineString:
		lines := make([][]geo.Position, len(v))
		for i, l := range v {
			lines[i] = positions(l)
		}
		return geo.MultiLineStringFromPositions(lines), nil
	case orb.Polygon:
		return geo.PolygonFromPositions(rings(v)), nil
	case orb.Bound:
		return geo.PolygonFromPositions(rings(v.ToPolygon())), nil
	case orb.MultiPolygon:
		polygons := make([][][]geo.Position, len(v))
		for i, p := range v {
			polygons[i] = rings(p)
		}
		return geo.MultiPolygonFromPositions(polygons), nil
	case orb.Collection:
		members := make([]geo.Geometry, len(v))
		for i, m := range v {
			gm, err := FromOrb(m)
			if err != nil {
				return nil, fmt.Errorf("geometry %d: %w", i, err)
			}
			members[i] = gm
		}
		gc, err := geo.GeometryCollectionFromGeometries(members)
		if err != nil {
			return nil, err
		}
		return gc, nil
	default:
		return nil, fmt.Errorf("%w: unsupported orb geometry %T", geo.ErrInvalidGeometry, g)
	}
}

func point(p geo.Position) orb.Point {
	return orb.Point{p.Lng(), p.Lat()}
}

func points(ps []geo.Position) []orb.Point {
	out := make([]orb.Point, len(ps))
	for i, p := range ps {
		out[i] = point(p)
	}

	return out
}

func polygon(rings [][]geo.Position) orb.Polygon {
	p := make(orb.Polygon, len(rings))
	for i, r := range rings {
		p[i] = orb.Ring(points(r))
	}

	return p
}

func position(p orb.Point) geo.Position {
	return geo.PositionFromLngLat(p.Lon(), p.Lat())
}

func positions(ps []orb.Point) []geo.Position {
	out := make([]geo.Position, len(ps))
	for i, p := range ps {
		out[i] = position(p)
	}

	return out
}

func rings(p orb.Polygon) [][]geo.Position {
	out := make([][]geo.Position, len(p))
	for i, r := range p {
		out[i] = positions(r)
	}

	return out
}
