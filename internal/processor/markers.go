package processor

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/woozymasta/geodoc/internal/geo"
)

// Internal structures for JSON parsing
type izurviveLocation struct {
	NameEN string  `json:"nameEN"`
	Type   string  `json:"type"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
}

type xamRoot struct {
	Markers struct {
		Locations []struct {
			Type  string    `json:"w"`
			Pos   []float64 `json:"p"`
			Names []string  `json:"s"`
		} `json:"locations"`
	} `json:"markers"`
}

// Regex Pattern captures: 1=Name, 2=X, 3=Z, 4=Type
var cfgRegex = regexp.MustCompile(
	`class\s+\w+\s*\{` + // Start of class block (e.g. "class City {")
		`[\s\S]*?` + // Non-greedy skip (matches across newlines)
		`name\s*=\s*"([^"]+)";` + // Group 1: Name
		`[\s\S]*?` + // Skip content
		`position\[\]\s*=\s*\{` + // Start of position array
		`([\d\.]+),\s*([\d\.]+)` + // Group 2 & 3: X and Z coordinates
		`\};` + // End of position array
		`[\s\S]*?` + // Skip content
		`type\s*=\s*"([^"]+)";` + // Group 4: Type
		`[\s\S]*?\};`, // End of class block
)

// marker builds a Point feature with "name" and "type" properties.
func marker(p *geo.Point, name, kind string) *geo.Feature {
	return geo.FeatureFromGeometry(p, geo.FeaturePropertyFromMap(map[string]any{
		"name": name,
		"type": strings.ToLower(kind),
	}))
}

// DecodeIzurvive converts an iZurvive location list, already in WGS84, into features.
func DecodeIzurvive(data []byte) ([]*geo.Feature, error) {
	var locs []izurviveLocation
	if err := json.Unmarshal(data, &locs); err != nil {
		return nil, fmt.Errorf("%w: izurvive: %v", geo.ErrInvalidFormat, err)
	}

	features := make([]*geo.Feature, 0, len(locs))
	for _, l := range locs {
		features = append(features, marker(geo.PointFromLngLat(l.Lng, l.Lat), l.NameEN, l.Type))
	}

	return features, nil
}

// DecodeXam converts Xam map markers into features projected for a world of mapSize meters.
// Markers without a position are skipped.
func DecodeXam(data []byte, mapSize float64) ([]*geo.Feature, error) {
	var root xamRoot
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: xam: %v", geo.ErrInvalidFormat, err)
	}

	features := make([]*geo.Feature, 0, len(root.Markers.Locations))
	for _, loc := range root.Markers.Locations {
		if len(loc.Pos) < 2 {
			continue
		}
		name := "Unknown"
		if len(loc.Names) > 0 {
			name = loc.Names[0]
		}

		// Xam to game conversion
		xamY, xamX := loc.Pos[0], loc.Pos[1]
		gameX := (xamX * mapSize) / 256.0
		gameZ := ((256.0 + xamY) * mapSize) / 256.0

		features = append(features, marker(gamePoint(gameX, gameZ, mapSize), name, loc.Type))
	}

	return features, nil
}

// DecodeCfgNames extracts named locations from a cfgNames.hpp class list projected for a world
// of mapSize meters. Entries with unparsable coordinates are skipped.
func DecodeCfgNames(data []byte, mapSize float64) ([]*geo.Feature, error) {
	matches := cfgRegex.FindAllStringSubmatch(string(data), -1)

	features := make([]*geo.Feature, 0, len(matches))
	for _, match := range matches {
		name, xStr, zStr, kind := match[1], match[2], match[3], match[4]

		x, err1 := strconv.ParseFloat(xStr, 64)
		z, err2 := strconv.ParseFloat(zStr, 64)
		if err1 != nil || err2 != nil {
			log.Warn().Str("name", name).Str("x", xStr).Str("z", zStr).Msg("Skipping location with invalid coords")
			continue
		}

		features = append(features, marker(gamePoint(x, z, mapSize), name, kind))
	}

	return features, nil
}
