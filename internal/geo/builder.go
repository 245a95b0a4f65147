package geo

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// GeometryFromJSON dispatches a parsed geometry document on its "type" member.
func GeometryFromJSON(doc map[string]any) (Geometry, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: null geometry", ErrInvalidGeometry)
	}

	t, _ := doc["type"].(string)
	switch Type(t) {
	case TypePoint:
		return asGeometry(PointFromJSON(doc))
	case TypeMultiPoint:
		return asGeometry(MultiPointFromJSON(doc))
	case TypeLineString:
		return asGeometry(LineStringFromJSON(doc))
	case TypeMultiLineString:
		return asGeometry(MultiLineStringFromJSON(doc))
	case TypePolygon:
		return asGeometry(PolygonFromJSON(doc))
	case TypeMultiPolygon:
		return asGeometry(MultiPolygonFromJSON(doc))
	case TypeGeometryCollection:
		return asGeometry(GeometryCollectionFromJSON(doc))
	case "":
		return nil, fmt.Errorf("%w: missing geometry type", ErrInvalidGeometry)
	default:
		return nil, fmt.Errorf("%w: unknown geometry type %q", ErrInvalidGeometry, t)
	}
}

// ObjectFromJSON dispatches any parsed document: a geometry, a Feature or a
// FeatureCollection.
func ObjectFromJSON(doc map[string]any) (Object, error) {
	if doc != nil {
		switch t, _ := doc["type"].(string); Type(t) {
		case TypeFeature:
			return asObject(FeatureFromJSON(doc))
		case TypeFeatureCollection:
			return asObject(FeatureCollectionFromJSON(doc))
		}
	}

	return asObject(GeometryFromJSON(doc))
}

// asGeometry keeps a nil variant pointer from becoming a non-nil interface.
func asGeometry[G Geometry](g G, err error) (Geometry, error) {
	if err != nil {
		return nil, err
	}

	return g, nil
}

func asObject[O Object](o O, err error) (Object, error) {
	if err != nil {
		return nil, err
	}

	return o, nil
}

// Coordinates flattens a geometry, a feature or a feature collection to its positions,
// descending into collections.
func Coordinates(o Object) []Position {
	switch v := o.(type) {
	case Geometry:
		return v.Flatten()
	case *Feature:
		if v == nil || v.geometry == nil {
			return nil
		}
		return v.geometry.Flatten()
	case *FeatureCollection:
		if v == nil {
			return nil
		}
		var out []Position
		for _, f := range v.members.items {
			out = append(out, Coordinates(f)...)
		}
		return out
	default:
		return nil
	}
}

// ComputeBBoxes computes and caches the box of o and of every object nested in it, so
// that Save writes a "bbox" member at every level.
func ComputeBBoxes(o Object) {
	switch v := o.(type) {
	case nil:
		return
	case *GeometryCollection:
		for _, g := range v.members.items {
			ComputeBBoxes(g)
		}
	case *Feature:
		if v.geometry != nil {
			ComputeBBoxes(v.geometry)
		}
	case *FeatureCollection:
		for _, f := range v.members.items {
			ComputeBBoxes(f)
		}
	}
	o.BBox()
}

// Parse decodes a GeoJSON document of any type. Property keys keep their document order.
func Parse(data []byte) (Object, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON document", ErrInvalidFormat)
	}

	switch Type(gjson.GetBytes(data, "type").String()) {
	case TypeFeature:
		return asObject(ParseFeature(data))
	case TypeFeatureCollection:
		return asObject(ParseFeatureCollection(data))
	default:
		return asObject(ParseGeometry(data))
	}
}

// ParseGeometry decodes a geometry document.
func ParseGeometry(data []byte) (Geometry, error) {
	doc, err := decode(data)
	if err != nil {
		return nil, err
	}

	return GeometryFromJSON(doc)
}

// ParseFeature decodes a Feature document.
func ParseFeature(data []byte) (*Feature, error) {
	doc, err := decode(data)
	if err != nil {
		return nil, err
	}

	f, err := FeatureFromJSON(doc)
	if err != nil {
		return nil, err
	}
	f.properties.reorder(objectKeys(gjson.GetBytes(data, "properties")))

	return f, nil
}

// ParseFeatureCollection decodes a FeatureCollection document.
func ParseFeatureCollection(data []byte) (*FeatureCollection, error) {
	doc, err := decode(data)
	if err != nil {
		return nil, err
	}

	fc, err := FeatureCollectionFromJSON(doc)
	if err != nil {
		return nil, err
	}

	i := 0
	gjson.GetBytes(data, "features").ForEach(func(_, feature gjson.Result) bool {
		if i >= len(fc.members.items) {
			return false
		}
		fc.members.items[i].properties.reorder(objectKeys(feature.Get("properties")))
		i++
		return true
	})

	return fc, nil
}

func decode(data []byte) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	return doc, nil
}

func objectKeys(r gjson.Result) []string {
	if !r.IsObject() {
		return nil
	}

	var keys []string
	r.ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})

	return keys
}
