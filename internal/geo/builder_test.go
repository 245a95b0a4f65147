package geo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeMap(t *testing.T, doc string) map[string]any {
	t.Helper()

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(doc), &m))

	return m
}

func TestGeometryFromJSONDispatch(t *testing.T) {
	docs := map[Type]string{
		TypePoint:              `{"type":"Point","coordinates":[1,2]}`,
		TypeMultiPoint:         `{"type":"MultiPoint","coordinates":[[1,2]]}`,
		TypeLineString:         `{"type":"LineString","coordinates":[[1,2],[3,4]]}`,
		TypeMultiLineString:    `{"type":"MultiLineString","coordinates":[[[1,2],[3,4]]]}`,
		TypePolygon:            `{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}`,
		TypeMultiPolygon:       `{"type":"MultiPolygon","coordinates":[[[[0,0],[1,0],[1,1],[0,0]]]]}`,
		TypeGeometryCollection: `{"type":"GeometryCollection","geometries":[{"type":"Point","coordinates":[1,2]}]}`,
	}

	for want, doc := range docs {
		g, err := GeometryFromJSON(decodeMap(t, doc))
		require.NoError(t, err, doc)
		assert.Equal(t, want, g.Type())

		o, err := Parse([]byte(doc))
		require.NoError(t, err)
		assert.Equal(t, want, o.Type())
	}
}

func TestGeometryFromJSONRejectsDiscriminator(t *testing.T) {
	for _, doc := range []map[string]any{
		nil,
		{},
		{"type": 5, "coordinates": []any{1.0, 2.0}},
		{"type": "Circle", "coordinates": []any{1.0, 2.0}},
		{"type": "Feature", "geometry": nil},
	} {
		g, err := GeometryFromJSON(doc)
		assert.ErrorIs(t, err, ErrInvalidGeometry, "%v", doc)
		assert.Nil(t, g)
	}
}

func TestObjectFromJSON(t *testing.T) {
	o, err := ObjectFromJSON(decodeMap(t, `{"type":"Feature","geometry":null,"properties":null}`))
	require.NoError(t, err)
	assert.IsType(t, &Feature{}, o)

	o, err = ObjectFromJSON(decodeMap(t, `{"type":"FeatureCollection","features":[]}`))
	require.NoError(t, err)
	assert.IsType(t, &FeatureCollection{}, o)

	o, err = ObjectFromJSON(decodeMap(t, `{"type":"Point","coordinates":[1,2]}`))
	require.NoError(t, err)
	assert.IsType(t, &Point{}, o)

	o, err = ObjectFromJSON(nil)
	assert.ErrorIs(t, err, ErrInvalidGeometry)
	assert.Nil(t, o)
}

func TestParseErrors(t *testing.T) {
	for _, doc := range []string{`{"type":`, `[1,2]`, ``} {
		o, err := Parse([]byte(doc))
		assert.ErrorIs(t, err, ErrInvalidFormat, doc)
		assert.Nil(t, o)
	}

	_, err := Parse([]byte(`null`))
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}

func TestCoordinates(t *testing.T) {
	o, err := Parse([]byte(`{"type":"GeometryCollection","geometries":[` +
		`{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]},` +
		`{"type":"MultiPoint","coordinates":[[5,5],[6,6,1]]}]}`))
	require.NoError(t, err)

	assert.Equal(t, []Position{
		PositionFromLngLat(0, 0),
		PositionFromLngLat(1, 0),
		PositionFromLngLat(1, 1),
		PositionFromLngLat(0, 0),
		PositionFromLngLat(5, 5),
		PositionFromLngLat(6, 6, 1),
	}, Coordinates(o))

	fc, err := FeatureCollectionFromFeatures([]*Feature{
		FeatureFromGeometry(PointFromLngLat(1, 1), nil),
		FeatureFromGeometry(nil, nil),
		FeatureFromGeometry(o.(Geometry), nil),
	})
	require.NoError(t, err)
	assert.Len(t, Coordinates(fc), 7)

	assert.Empty(t, Coordinates(FeatureFromGeometry(nil, nil)))
	assert.Empty(t, Coordinates(nil))
}

func TestComputeBBoxes(t *testing.T) {
	fc, err := ParseFeatureCollection([]byte(`{"type":"FeatureCollection","features":[` +
		`{"type":"Feature","geometry":{"type":"GeometryCollection","geometries":[{"type":"LineString","coordinates":[[0,0],[2,2]]}]},"properties":null}]}`))
	require.NoError(t, err)

	ComputeBBoxes(fc)
	fc.Save()

	assert.JSONEq(t, `{"type":"FeatureCollection","bbox":[0,0,2,2],"features":[`+
		`{"type":"Feature","bbox":[0,0,2,2],"properties":null,"geometry":{"type":"GeometryCollection","bbox":[0,0,2,2],"geometries":[`+
		`{"type":"LineString","bbox":[0,0,2,2],"coordinates":[[0,0],[2,2]]}]}}]}`,
		toJSON(t, fc.Record()),
	)

	ComputeBBoxes(nil)
}
