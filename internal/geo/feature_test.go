package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureRoundTrip(t *testing.T) {
	docs := []string{
		`{"type":"Feature","id":"a1","geometry":{"type":"Point","coordinates":[1,2]},"properties":{"name":"well","depth":12.5,"tags":["a","b"]},"source":"survey"}`,
		`{"type":"Feature","id":7,"geometry":{"type":"LineString","coordinates":[[0,0],[1,1]],"bbox":[0,0,1,1]},"properties":{},"bbox":[0,0,1,1]}`,
		`{"type":"Feature","geometry":null,"properties":null}`,
	}

	for _, doc := range docs {
		f, err := ParseFeature([]byte(doc))
		require.NoError(t, err, doc)
		assert.JSONEq(t, doc, toJSON(t, f.ToJSON(IncludeIfPresent)))
		assert.JSONEq(t, doc, toJSON(t, f))
	}
}

func TestFeatureFromJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"properties array", `{"type":"Feature","geometry":null,"properties":[1]}`, ErrInvalidFormat},
		{"id bool", `{"type":"Feature","geometry":null,"properties":null,"id":true}`, ErrInvalidFormat},
		{"wrong type", `{"type":"Point","coordinates":[1,2]}`, ErrInvalidFormat},
		{"geometry scalar", `{"type":"Feature","geometry":5,"properties":null}`, ErrInvalidGeometry},
		{"geometry unknown", `{"type":"Feature","geometry":{"type":"Circle"},"properties":null}`, ErrInvalidGeometry},
		{"geometry shape", `{"type":"Feature","geometry":{"type":"Point","coordinates":[[1,2]]},"properties":null}`, ErrInvalidGeometry},
		{"bbox", `{"type":"Feature","geometry":null,"properties":null,"bbox":[1]}`, ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseFeature([]byte(tt.doc))
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, f)
		})
	}

	_, err := FeatureFromJSON(nil)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestFeatureSetGeometryDropsBBox(t *testing.T) {
	f := FeatureFromGeometry(LineStringFromPositions(lngLats([2]float64{0, 0}, [2]float64{1, 1})), nil)

	b, ok := f.BBox()
	require.True(t, ok)
	assert.Equal(t, []float64{0, 0, 1, 1}, b.ToJSON())

	f.SetGeometry(LineStringFromPositions(lngLats([2]float64{10, 10}, [2]float64{20, 30})), nil)
	assert.False(t, f.HasBBox())

	b, ok = f.BBox()
	require.True(t, ok)
	assert.Equal(t, []float64{10, 10, 20, 30}, b.ToJSON())

	f.SetGeometry(nil, FeaturePropertyFromMap(map[string]any{"kind": "empty"}))
	_, ok = f.BBox()
	assert.False(t, ok)
	v, _ := f.Properties().Get("kind")
	assert.Equal(t, "empty", v)
}

func TestFeatureIncludeBBox(t *testing.T) {
	f := FeatureFromGeometry(LineStringFromPositions(lngLats([2]float64{0, 0}, [2]float64{1, 1})), nil)

	assert.JSONEq(t,
		`{"type":"Feature","geometry":{"type":"LineString","coordinates":[[0,0],[1,1]],"bbox":[0,0,1,1]},"properties":{},"bbox":[0,0,1,1]}`,
		toJSON(t, f.ToJSON(Include)),
	)
	assert.JSONEq(t,
		`{"type":"Feature","geometry":{"type":"LineString","coordinates":[[0,0],[1,1]]},"properties":{}}`,
		toJSON(t, f.ToJSON(Exclude)),
	)

	p := FeatureFromGeometry(PointFromLngLat(3, 4), nil)
	b, ok := p.BBox()
	require.True(t, ok)
	assert.Equal(t, BBoxFromLngLat(3, 4), b)
}

func TestFeatureSave(t *testing.T) {
	f, err := ParseFeature([]byte(`{"type":"Feature","id":"a","geometry":{"type":"Point","coordinates":[1,2]},"properties":{"name":"x","n":1},"extra":true}`))
	require.NoError(t, err)
	rec := f.Record()

	f.Save()
	assert.JSONEq(t, `{"type":"Feature","id":"a","geometry":{"type":"Point","coordinates":[1,2]},"properties":{"name":"x","n":1},"extra":true}`, toJSON(t, rec))

	f.Properties().Set("name", "y")
	f.Save()
	assert.JSONEq(t, `{"type":"Feature","id":"a","geometry":{"type":"Point","coordinates":[1,2]},"properties":{"name":"y","n":1},"extra":true}`, toJSON(t, rec))

	require.NoError(t, f.SetID(7))
	f.Save()
	assert.JSONEq(t, `{"type":"Feature","id":7,"geometry":{"type":"Point","coordinates":[1,2]},"properties":{"name":"y","n":1},"extra":true}`, toJSON(t, rec))

	f.SetGeometry(LineStringFromPositions(lngLats([2]float64{0, 0}, [2]float64{1, 1})), nil)
	require.NoError(t, f.SetID(nil))
	f.Save()
	assert.JSONEq(t, `{"type":"Feature","geometry":{"type":"LineString","coordinates":[[0,0],[1,1]]},"properties":{"name":"y","n":1},"extra":true}`, toJSON(t, rec))

	assert.ErrorIs(t, f.SetID(true), ErrInvalidFormat)
}

func TestFeatureSaveCreatesRecord(t *testing.T) {
	f := FeatureFromGeometry(PointFromLngLat(1, 2), FeaturePropertyFromMap(map[string]any{"a": "b"}))
	require.NoError(t, f.SetID("x"))
	f.Save()

	assert.JSONEq(t, `{"type":"Feature","id":"x","geometry":{"type":"Point","coordinates":[1,2]},"properties":{"a":"b"}}`, toJSON(t, f.Record()))
}

func TestFeatureGeometryIsACopy(t *testing.T) {
	f := FeatureFromGeometry(LineStringFromPositions(lngLats([2]float64{0, 0}, [2]float64{1, 1})), nil)

	g := f.Geometry().(*LineString)
	g.Append(PositionFromLngLat(5, 5))

	assert.Equal(t, 2, f.Geometry().(*LineString).Len())
	assert.Nil(t, FeatureFromGeometry(nil, nil).Geometry())
}

func TestFeatureCloneIsIndependent(t *testing.T) {
	f, err := ParseFeature([]byte(`{"type":"Feature","geometry":{"type":"Point","coordinates":[1,2]},"properties":{"name":"x"}}`))
	require.NoError(t, err)

	c := f.Clone()
	assert.True(t, c.Equal(f))

	c.Properties().Set("name", "z")
	c.geometry.(*Point).SetPosition(PositionFromLngLat(8, 9))
	c.Save()

	assert.False(t, c.Equal(f))
	assert.JSONEq(t, `{"type":"Feature","geometry":{"type":"Point","coordinates":[1,2]},"properties":{"name":"x"}}`, toJSON(t, f.Record()))
	assert.JSONEq(t, `{"type":"Feature","geometry":{"type":"Point","coordinates":[8,9]},"properties":{"name":"z"}}`, toJSON(t, c.Record()))
}

func TestFeatureEqual(t *testing.T) {
	a := FeatureFromGeometry(PointFromLngLat(1, 2), FeaturePropertyFromMap(map[string]any{"n": 1}))
	b := FeatureFromGeometry(PointFromLngLat(1, 2), FeaturePropertyFromMap(map[string]any{"n": 1.0}))
	assert.True(t, a.Equal(b))

	require.NoError(t, b.SetID("b"))
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(nil))
	assert.False(t, a.Equal(FeatureFromGeometry(nil, FeaturePropertyFromMap(map[string]any{"n": 1}))))
}

func TestFeatureCollectionRoundTrip(t *testing.T) {
	doc := `{"type":"FeatureCollection","name":"wells","features":[` +
		`{"type":"Feature","geometry":{"type":"Point","coordinates":[0,0]},"properties":{"n":1}},` +
		`{"type":"Feature","geometry":{"type":"LineString","coordinates":[[2,2],[4,5]]},"properties":null}]}`

	fc, err := ParseFeatureCollection([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 2, fc.Len())
	assert.JSONEq(t, doc, toJSON(t, fc.ToJSON(IncludeIfPresent)))

	b, ok := fc.BBox()
	require.True(t, ok)
	assert.Equal(t, []float64{-0.5, -0.5, 4, 5}, b.ToJSON())
	assert.Contains(t, fc.ToJSON(IncludeIfPresent), "bbox")
}

func TestFeatureCollectionFromJSONErrors(t *testing.T) {
	for _, doc := range []string{
		`{"type":"FeatureCollection"}`,
		`{"type":"FeatureCollection","features":[1]}`,
		`{"type":"FeatureCollection","features":[{"type":"Point","coordinates":[1,2]}]}`,
		`{"type":"Feature","geometry":null,"properties":null}`,
	} {
		_, err := ParseFeatureCollection([]byte(doc))
		assert.ErrorIs(t, err, ErrInvalidFormat, doc)
	}

	_, err := FeatureCollectionFromFeatures([]*Feature{nil})
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestFeatureCollectionMembership(t *testing.T) {
	a := FeatureFromGeometry(PointFromLngLat(0, 0), nil)
	b := FeatureFromGeometry(PointFromLngLat(10, 10), nil)

	fc, err := FeatureCollectionFromFeatures([]*Feature{a})
	require.NoError(t, err)

	n, err := fc.Add(nil, false)
	assert.ErrorIs(t, err, ErrInvalidFormat)
	assert.Equal(t, 1, n)

	n, err = fc.Add(b, true)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, fc.HasBBox())
	box, _ := fc.BBox()
	assert.Equal(t, []float64{-0.5, -0.5, 10.5, 10.5}, box.ToJSON())

	assert.Equal(t, 1, fc.IndexOf(b))
	assert.ErrorIs(t, fc.UpdateByIndex(5, a, false), ErrNotFound)
	assert.ErrorIs(t, fc.Update(FeatureFromGeometry(nil, nil), a, false), ErrNotFound)

	require.NoError(t, fc.UpdateByIndex(1, a, false))
	assert.False(t, fc.HasBBox())
	assert.Equal(t, -1, fc.IndexOf(b))

	features := fc.Features()
	features[0].Properties().Set("mutated", true)
	first, _ := fc.Get(0)
	assert.Equal(t, 0, first.Properties().Len())

	removed, ok := fc.RemoveByIndex(0, false)
	require.True(t, ok)
	assert.True(t, removed.Equal(a))
	assert.Equal(t, 1, fc.Len())

	_, ok = fc.Remove(b, false)
	assert.False(t, ok)
}

func TestFeatureCollectionSave(t *testing.T) {
	doc := `{"type":"FeatureCollection","name":"wells","features":[{"type":"Feature","geometry":{"type":"Point","coordinates":[0,0]},"properties":{"n":1}}]}`
	fc, err := ParseFeatureCollection([]byte(doc))
	require.NoError(t, err)
	rec := fc.Record()

	fc.Save()
	assert.JSONEq(t, doc, toJSON(t, rec))

	_, err = fc.Add(FeatureFromGeometry(PointFromLngLat(2, 2), nil), false)
	require.NoError(t, err)
	fc.Save()
	assert.JSONEq(t,
		`{"type":"FeatureCollection","name":"wells","features":[`+
			`{"type":"Feature","geometry":{"type":"Point","coordinates":[0,0]},"properties":{"n":1}},`+
			`{"type":"Feature","geometry":{"type":"Point","coordinates":[2,2]},"properties":{}}]}`,
		toJSON(t, rec),
	)

	c := fc.Clone()
	assert.True(t, c.Equal(fc))
	_, ok := c.RemoveByIndex(0, true)
	require.True(t, ok)
	c.Save()
	assert.Len(t, rec["features"], 2)
	assert.Len(t, c.Record()["features"], 1)
	assert.Contains(t, c.Record(), "bbox")
	assert.NotContains(t, rec, "bbox")
}

func TestFeatureCollectionUpdateFunc(t *testing.T) {
	fc, err := ParseFeatureCollection([]byte(`{"type":"FeatureCollection","bbox":[0,0,5,5],"features":[` +
		`{"type":"Feature","geometry":{"type":"Point","coordinates":[1,1]},"properties":{"n":1}}]}`))
	require.NoError(t, err)
	rec := fc.Record()

	require.NoError(t, fc.UpdateFunc(0, func(f *Feature) error {
		f.Properties().Set("m", 2)
		return f.SetID("a")
	}))
	assert.True(t, fc.HasBBox())
	fc.Save()
	assert.JSONEq(t, `{"type":"FeatureCollection","bbox":[0,0,5,5],"features":[`+
		`{"type":"Feature","id":"a","geometry":{"type":"Point","coordinates":[1,1]},"properties":{"n":1,"m":2}}]}`,
		toJSON(t, rec))

	require.NoError(t, fc.UpdateFunc(0, func(f *Feature) error {
		f.SetGeometry(PointFromLngLat(9, 9), nil)
		return nil
	}))
	assert.False(t, fc.HasBBox())
	fc.Save()
	assert.NotContains(t, rec, "bbox")

	err = fc.UpdateFunc(1, func(*Feature) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)

	err = fc.UpdateFunc(0, func(*Feature) error { return ErrInvalidFormat })
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestFeatureToJSONProperties(t *testing.T) {
	f, err := ParseFeature([]byte(`{"type":"Feature","geometry":null,"properties":{"b":1,"a":[1,2]}}`))
	require.NoError(t, err)

	doc := f.ToJSON(Exclude)
	props, ok := doc["properties"].(*FeatureProperty)
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a"}, props.Keys())
	assert.Equal(t, f.Record()["properties"], props.ToMap())

	props.Set("c", 3)
	_, ok = f.Properties().Get("c")
	assert.False(t, ok)

	f.Save()
	_, ok = f.Record()["properties"].(map[string]any)
	assert.True(t, ok)
}

func TestParseKeepsPropertyOrder(t *testing.T) {
	f, err := ParseFeature([]byte(`{"type":"Feature","geometry":null,"properties":{"z":1,"a":2,"m":3}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a", "m"}, f.Properties().Keys())

	data, err := f.Properties().MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":2,"m":3}`, string(data))

	fc, err := ParseFeatureCollection([]byte(`{"type":"FeatureCollection","features":[` +
		`{"type":"Feature","geometry":null,"properties":{"b":1,"a":2}},` +
		`{"type":"Feature","geometry":null,"properties":{"y":1,"x":2}}]}`))
	require.NoError(t, err)

	first, _ := fc.Get(0)
	second, _ := fc.Get(1)
	assert.Equal(t, []string{"b", "a"}, first.Properties().Keys())
	assert.Equal(t, []string{"y", "x"}, second.Properties().Keys())
}
