package processor

import (
	"fmt"

	"github.com/paulmach/orb/clip"

	"github.com/woozymasta/geodoc/internal/geo"
	"github.com/woozymasta/geodoc/internal/orbgeo"
)

// Clip cuts every feature of o to box and returns the features that keep at least one
// position. Properties, ids and foreign members are kept. Clipping is planar, drops
// altitudes and may reduce a multi geometry with one remaining part to that part.
func Clip(o geo.Object, box geo.BoundingBox) (*geo.FeatureCollection, error) {
	fc, err := Merge(o)
	if err != nil {
		return nil, err
	}

	bound := orbgeo.Bound(box)
	kept := make([]*geo.Feature, 0, fc.Len())
	for i, f := range fc.Features() {
		g := f.Geometry()
		if g == nil {
			continue
		}

		og, err := orbgeo.Geometry(g)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}

		clipped := clip.Geometry(bound, og)
		if clipped == nil {
			continue
		}

		cg, err := orbgeo.FromOrb(clipped)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		if len(cg.Flatten()) == 0 {
			continue
		}

		f.SetGeometry(cg, nil)
		kept = append(kept, f)
	}

	return geo.FeatureCollectionFromFeatures(kept)
}
