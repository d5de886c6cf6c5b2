package geo

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sdshc/costshare/internal/conservation"
)

// Feature property keys shared by the GeoJSON and shapefile exports.
const (
	PropFarm      = "farm"
	PropCity      = "city"
	PropContracts = "contracts"
	PropYears     = "years"
	PropPractices = "practices"
	PropFunding   = "funding"
	PropAcres     = "acres"
	PropColor     = "color"
	PropRadius    = "radius"
)

// Feature builds the point feature for one cluster. GeoJSON coordinates are
// longitude first.
func Feature(c conservation.LocationCluster) *geojson.Feature {
	return &geojson.Feature{
		ID:       c.Key,
		Geometry: geom.NewPointFlat(geom.XY, []float64{c.Longitude, c.Latitude}).SetSRID(4326),
		Properties: map[string]any{
			PropFarm:      c.Farm(),
			PropCity:      c.City(),
			PropContracts: c.Contracts(),
			PropYears:     c.Years(),
			PropPractices: c.Practices(),
			PropFunding:   c.Funding,
			PropAcres:     c.Acres,
			PropColor:     MarkerColor(c.Funding),
			PropRadius:    MarkerRadius(c.Acres),
		},
	}
}

// FeatureCollection converts clusters to a GeoJSON FeatureCollection, one
// feature per cluster in cluster order.
func FeatureCollection(clusters []conservation.LocationCluster) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(clusters))}
	for _, c := range clusters {
		fc.Features = append(fc.Features, Feature(c))
	}
	return fc
}

// WriteGeoJSON encodes the clusters as a FeatureCollection to w.
func WriteGeoJSON(w io.Writer, clusters []conservation.LocationCluster) error {
	data, err := FeatureCollection(clusters).MarshalJSON()
	if err != nil {
		return eris.Wrap(err, "geo: marshal feature collection")
	}
	if _, err := w.Write(data); err != nil {
		return eris.Wrap(err, "geo: write geojson")
	}
	return nil
}

// MarshalGeoJSON returns the FeatureCollection as raw JSON for embedding in
// API responses.
func MarshalGeoJSON(clusters []conservation.LocationCluster) (json.RawMessage, error) {
	data, err := FeatureCollection(clusters).MarshalJSON()
	if err != nil {
		return nil, eris.Wrap(err, "geo: marshal feature collection")
	}
	return data, nil
}
