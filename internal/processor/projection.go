package processor

import (
	"math"

	"github.com/woozymasta/geodoc/internal/geo"
)

// maxLat is the latitude limit of the Web Mercator projection.
const maxLat = 85.05112878

// DefaultMapSize is used when a source does not specify the world size.
const DefaultMapSize = 15360

// GameToLngLat converts game world coordinates (0..mapSize) to WGS84 longitude and latitude
// using a Mercator projection adapted for the world size.
//
// It maps x to the longitude range [-180, 180] and applies an inverse Mercator projection
// to z for the latitude.
func GameToLngLat(x, z, mapSize float64) (lng, lat float64) {
	// x: [0..size] -> lng: [-180..180]
	lng = x*(360.0/mapSize) - 180.0

	// z: [0..size] -> mercatorY: [-PI..PI]
	mercatorY := z*((2.0*math.Pi)/mapSize) - math.Pi

	latRad := (2.0 * math.Atan(math.Exp(mercatorY))) - (math.Pi * 0.5)
	lat = latRad * (180.0 / math.Pi)

	return lng, max(-maxLat, min(maxLat, lat))
}

// gamePoint projects a game position into a Point.
func gamePoint(x, z, mapSize float64) *geo.Point {
	lng, lat := GameToLngLat(x, z, mapSize)
	return geo.PointFromLngLat(lng, lat)
}
