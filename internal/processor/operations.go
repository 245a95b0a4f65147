package processor

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"github.com/woozymasta/geodoc/internal/geo"
	"github.com/woozymasta/geodoc/internal/orbgeo"
)

// Merge combines the features of several documents into one FeatureCollection. A bare
// geometry becomes a feature without properties. The union box is computed lazily.
func Merge(docs ...geo.Object) (*geo.FeatureCollection, error) {
	var (
		features []*geo.Feature
		errs     []error
	)

	for i, o := range docs {
		switch v := o.(type) {
		case *geo.FeatureCollection:
			features = append(features, v.Features()...)
		case *geo.Feature:
			features = append(features, v)
		case geo.Geometry:
			features = append(features, geo.FeatureFromGeometry(v, nil))
		default:
			errs = append(errs, fmt.Errorf("%w: document %d is empty", geo.ErrInvalidFormat, i))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	fc := &geo.FeatureCollection{}
	if _, err := fc.AddItems(features, false); err != nil {
		return nil, err
	}

	return fc, nil
}

// NewID returns a random feature id.
func NewID() string {
	return uuid.NewString()
}

// AssignIDs gives every feature of o that has no id one from newID and returns how many
// were assigned. A nil newID uses NewID. Only the changed features are patched on Save;
// the collection keeps its box.
func AssignIDs(o geo.Object, newID func() string) (int, error) {
	if newID == nil {
		newID = NewID
	}

	switch v := o.(type) {
	case *geo.Feature:
		if _, ok := v.ID(); ok {
			return 0, nil
		}
		return 1, v.SetID(newID())

	case *geo.FeatureCollection:
		n := 0
		for i, l := 0, v.Len(); i < l; i++ {
			err := v.UpdateFunc(i, func(f *geo.Feature) error {
				if _, ok := f.ID(); ok {
					return nil
				}
				if err := f.SetID(newID()); err != nil {
					return err
				}
				n++
				return nil
			})
			if err != nil {
				return n, err
			}
		}
		return n, nil

	default:
		return 0, nil
	}
}

// Summary describes the shape of a document.
type Summary struct {
	Type       geo.Type         `json:"type" yaml:"type"`
	Features   int              `json:"features,omitempty" yaml:"features,omitempty"`
	Geometries int              `json:"geometries" yaml:"geometries"`
	Positions  int              `json:"positions" yaml:"positions"`
	BBox       *geo.BoundingBox `json:"bbox,omitempty" yaml:"bbox,omitempty"`
	Center     *orb.Point       `json:"center,omitempty" yaml:"center,omitempty"`
}

// Summarize counts the members and positions of o and computes its box and centre.
func Summarize(o geo.Object) Summary {
	s := Summary{Positions: len(geo.Coordinates(o))}
	if o == nil {
		return s
	}
	s.Type = o.Type()
	s.Geometries = countGeometries(o)

	if fc, ok := o.(*geo.FeatureCollection); ok {
		s.Features = fc.Len()
	}
	if _, ok := o.(*geo.Feature); ok {
		s.Features = 1
	}

	if box, ok := o.BBox(); ok {
		s.BBox = &box
	}
	if c, ok := orbgeo.Center(o); ok {
		s.Center = &c
	}

	return s
}

// countGeometries counts the geometries of o, including the collections themselves.
func countGeometries(o geo.Object) int {
	switch v := o.(type) {
	case *geo.FeatureCollection:
		n := 0
		for _, f := range v.Features() {
			n += countGeometries(f)
		}
		return n
	case *geo.Feature:
		if g := v.Geometry(); g != nil {
			return countGeometries(g)
		}
		return 0
	case *geo.GeometryCollection:
		n := 1
		for _, g := range v.Geometries() {
			n += countGeometries(g)
		}
		return n
	default:
		return 1
	}
}
