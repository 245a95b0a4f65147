package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	return path
}

// run executes the CLI with args and returns the decoded output document.
func run(t *testing.T, args ...string) map[string]any {
	t.Helper()

	out := filepath.Join(t.TempDir(), "out.json")
	a := &app{opts: &Options{}}
	_, err := newParser(a).ParseArgs(append([]string{"--log-level", "error", "--out", out}, args...))
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	return doc
}

func TestConvertCommand(t *testing.T) {
	src := writeFile(t, t.TempDir(), "line.geojson", `{"type":"LineString","coordinates":[[0,0],[1,2]],"name":"l"}`)

	doc := run(t, "--bbox", "include", "convert", src)
	assert.Equal(t, []any{0.0, 0.0, 1.0, 2.0}, doc["bbox"])
	assert.Equal(t, "l", doc["name"])

	doc = run(t, "convert", src)
	assert.NotContains(t, doc, "bbox")
}

func TestBBoxCommand(t *testing.T) {
	src := writeFile(t, t.TempDir(), "fc.geojson", `{"type":"FeatureCollection","source":"survey","features":[`+
		`{"type":"Feature","geometry":{"type":"MultiPoint","coordinates":[[1,1],[2,3]]},"properties":{"k":"v"}}]}`)

	doc := run(t, "bbox", src)
	assert.Equal(t, "survey", doc["source"])
	assert.Equal(t, []any{1.0, 1.0, 2.0, 3.0}, doc["bbox"])

	features := doc["features"].([]any)
	require.Len(t, features, 1)
	f := features[0].(map[string]any)
	assert.Equal(t, []any{1.0, 1.0, 2.0, 3.0}, f["bbox"])
	assert.Equal(t, []any{1.0, 1.0, 2.0, 3.0}, f["geometry"].(map[string]any)["bbox"])
}

func TestIDsCommand(t *testing.T) {
	src := writeFile(t, t.TempDir(), "fc.geojson", `{"type":"FeatureCollection","features":[`+
		`{"type":"Feature","id":"keep","geometry":null,"properties":null},`+
		`{"type":"Feature","geometry":null,"properties":null}]}`)

	doc := run(t, "ids", src)
	features := doc["features"].([]any)
	require.Len(t, features, 2)
	assert.Equal(t, "keep", features[0].(map[string]any)["id"])
	assert.Len(t, features[1].(map[string]any)["id"], 36)
}

func TestMergeCommand(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.geojson", `{"type":"Point","coordinates":[0,0]}`)
	b := writeFile(t, dir, "b.yaml", "type: Feature\ngeometry:\n  type: Point\n  coordinates: [4, 4]\nproperties:\n  name: b\n")

	doc := run(t, "--bbox", "exclude", "merge", "-p", "1", a, b)
	assert.Equal(t, "FeatureCollection", doc["type"])
	require.Len(t, doc["features"], 2)
	assert.NotContains(t, doc, "bbox")
}

func TestImportCommand(t *testing.T) {
	src := writeFile(t, t.TempDir(), "izurvive.json", `[{"nameEN":"Camp","type":"Military","lat":1,"lng":2}]`)

	doc := run(t, "import", "--kind", "izurvive", src)
	features := doc["features"].([]any)
	require.Len(t, features, 1)
	assert.Equal(t, map[string]any{"name": "Camp", "type": "military"}, features[0].(map[string]any)["properties"])
}

func TestInfoCommand(t *testing.T) {
	src := writeFile(t, t.TempDir(), "poly.geojson", `{"type":"Polygon","coordinates":[[[0,0],[4,0],[4,2],[0,0]]]}`)

	doc := run(t, "info", src)
	assert.Equal(t, "Polygon", doc["type"])
	assert.Equal(t, 1.0, doc["geometries"])
	assert.Equal(t, 4.0, doc["positions"])
	assert.Equal(t, []any{0.0, 0.0, 4.0, 2.0}, doc["bbox"])
	assert.Equal(t, []any{2.0, 1.0}, doc["center"])
}

func TestClipCommand(t *testing.T) {
	src := writeFile(t, t.TempDir(), "line.geojson", `{"type":"LineString","coordinates":[[0,0],[10,0]]}`)

	doc := run(t, "clip", "--within", "2, -1, 4, 1", src)
	features := doc["features"].([]any)
	require.Len(t, features, 1)
	geometry := features[0].(map[string]any)["geometry"].(map[string]any)
	assert.Equal(t, []any{[]any{2.0, 0.0}, []any{4.0, 0.0}}, geometry["coordinates"])

	a := &app{opts: &Options{}}
	_, err := newParser(a).ParseArgs([]string{"--log-level", "error", "clip", "--within", "1,2,3", src})
	assert.Error(t, err)
}

func TestCommandErrors(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.yaml", "bbox: sometimes\n")
	src := writeFile(t, dir, "p.geojson", `{"type":"Point","coordinates":[0,0]}`)

	a := &app{opts: &Options{}}
	_, err := newParser(a).ParseArgs([]string{"--log-level", "error", "--config", cfg, "convert", src})
	assert.Error(t, err)

	a = &app{opts: &Options{}}
	_, err = newParser(a).ParseArgs([]string{"--log-level", "error", "convert", filepath.Join(dir, "none.geojson")})
	assert.ErrorIs(t, err, os.ErrNotExist)

	a = &app{opts: &Options{}}
	_, err = newParser(a).ParseArgs([]string{"--log-level", "error", "--minify", "--indent", "4", "convert", src, "--out", filepath.Join(dir, "o.json")})
	require.NoError(t, err)
	assert.True(t, a.cfg.Minify)
	assert.Equal(t, 4, a.cfg.Indent)
}
