package orbgeo

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/geodoc/internal/geo"
)

func TestBoundMatchesOrb(t *testing.T) {
	docs := []string{
		`{"type":"LineString","coordinates":[[0,0],[3,-2],[5,4]]}`,
		`{"type":"Polygon","coordinates":[[[-10,-10],[10,-10],[10,10],[-10,-10]],[[1,1],[2,1],[2,2],[1,1]]]}`,
		`{"type":"MultiPolygon","coordinates":[[[[0,0],[1,0],[1,1],[0,0]]],[[[5,5],[6,5],[6,7],[5,5]]]]}`,
		`{"type":"MultiLineString","coordinates":[[[0,0],[1,1]],[[-4,2],[3,9]]]}`,
	}

	for _, doc := range docs {
		g, err := geo.ParseGeometry([]byte(doc))
		require.NoError(t, err, doc)

		b, ok := g.BBox()
		require.True(t, ok)

		og, err := Geometry(g)
		require.NoError(t, err)
		assert.Equal(t, og.Bound(), Bound(b), doc)
	}
}

func TestGeometryRoundTrip(t *testing.T) {
	docs := []string{
		`{"type":"Point","coordinates":[1,2]}`,
		`{"type":"MultiPoint","coordinates":[[1,2],[3,4]]}`,
		`{"type":"LineString","coordinates":[[1,2],[3,4]]}`,
		`{"type":"MultiLineString","coordinates":[[[1,2],[3,4]],[[5,6],[7,8]]]}`,
		`{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}`,
		`{"type":"MultiPolygon","coordinates":[[[[0,0],[1,0],[1,1],[0,0]]]]}`,
		`{"type":"GeometryCollection","geometries":[{"type":"Point","coordinates":[1,2]},{"type":"LineString","coordinates":[[0,0],[1,1]]}]}`,
	}

	for _, doc := range docs {
		g, err := geo.ParseGeometry([]byte(doc))
		require.NoError(t, err, doc)

		og, err := Geometry(g)
		require.NoError(t, err)

		back, err := FromOrb(og)
		require.NoError(t, err)
		assert.True(t, back.Equal(g), doc)
		assert.Equal(t, g.Type(), back.Type())
	}
}

func TestGeometryDropsAltitude(t *testing.T) {
	og, err := Geometry(geo.PointFromLngLat(1, 2, 300))
	require.NoError(t, err)
	assert.Equal(t, orb.Point{1, 2}, og)
}

func TestFromOrbSpecialCases(t *testing.T) {
	g, err := FromOrb(orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 0}})
	require.NoError(t, err)
	assert.Equal(t, geo.TypeLineString, g.Type())

	g, err = FromOrb(orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{2, 3}})
	require.NoError(t, err)
	require.Equal(t, geo.TypePolygon, g.Type())
	b, _ := g.BBox()
	assert.Equal(t, []float64{0, 0, 2, 3}, b.ToJSON())

	_, err = FromOrb(orb.Collection{orb.Collection{orb.Point{1, 1}}})
	assert.ErrorIs(t, err, geo.ErrInvalidGeometry)

	_, err = FromOrb(nil)
	assert.ErrorIs(t, err, geo.ErrInvalidGeometry)
}

func TestCenter(t *testing.T) {
	c, ok := Center(geo.LineStringFromPositions([]geo.Position{
		geo.PositionFromLngLat(0, 0),
		geo.PositionFromLngLat(4, 2),
	}))
	require.True(t, ok)
	assert.Equal(t, orb.Point{2, 1}, c)

	_, ok = Center(geo.FeatureFromGeometry(nil, nil))
	assert.False(t, ok)
}
