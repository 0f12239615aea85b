package vis

import (
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/transit-sim/transit-sim/sim"
)

// RouteFeatures converts routes into a GeoJSON FeatureCollection: one
// LineString per route through its stops, plus one Point per stop.
// Routes with fewer than two stops contribute only their stop points.
func RouteFeatures(routes []sim.RouteData) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0)}
	for _, r := range routes {
		if len(r.Stops) >= 2 {
			coords := make([]float64, 0, 2*len(r.Stops))
			for _, s := range r.Stops {
				coords = append(coords, s.Position.X, s.Position.Y)
			}
			fc.Features = append(fc.Features, &geojson.Feature{
				ID:       r.ID,
				Geometry: geom.NewLineStringFlat(geom.XY, coords),
				Properties: map[string]interface{}{
					"kind":     "route",
					"numStops": len(r.Stops),
				},
			})
		}
		for _, s := range r.Stops {
			fc.Features = append(fc.Features, &geojson.Feature{
				ID:       r.ID + "/" + s.ID,
				Geometry: geom.NewPointFlat(geom.XY, []float64{s.Position.X, s.Position.Y}),
				Properties: map[string]interface{}{
					"kind":      "stop",
					"route":     r.ID,
					"stop":      s.ID,
					"numPeople": s.NumPeople,
				},
			})
		}
	}
	return fc
}
