// Package processor imports marker lists into GeoJSON documents and runs whole-document
// operations such as merging, id assignment and summaries.
package processor

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/woozymasta/geodoc/internal/docio"
	"github.com/woozymasta/geodoc/internal/geo"
)

// Marker source formats.
const (
	SourceIzurvive = "izurvive"
	SourceXam      = "xam"
	SourceCfgNames = "cfgnames"
)

// Source describes a marker list to import.
type Source struct {
	// Location is a file path, "-" for stdin or an http(s) URL.
	Location string
	Format   string
	// MapSize is the world size in meters, used by projected formats.
	MapSize float64
}

// ImportLocations reads the markers of src and returns them as a FeatureCollection of points.
func ImportLocations(ctx context.Context, client *http.Client, src Source) (*geo.FeatureCollection, error) {
	data, err := docio.Read(ctx, client, src.Location)
	if err != nil {
		return nil, err
	}

	size := src.MapSize
	if size <= 0 && src.Format != SourceIzurvive {
		log.Warn().
			Str("source", src.Location).
			Msgf("Map size not set, defaulting to %d", DefaultMapSize)
		size = DefaultMapSize
	}

	var features []*geo.Feature
	switch src.Format {
	case SourceIzurvive:
		features, err = DecodeIzurvive(data)
	case SourceXam:
		features, err = DecodeXam(data, size)
	case SourceCfgNames:
		features, err = DecodeCfgNames(data, size)
	default:
		return nil, fmt.Errorf("unknown marker format %q", src.Format)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Location, err)
	}

	log.Info().
		Str("source", src.Location).
		Str("format", src.Format).
		Int("locations", len(features)).
		Msg("Locations imported")

	return geo.FeatureCollectionFromFeatures(features)
}
