package vis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/transit-sim/transit-sim/sim"
)

func TestStore_UpdateBus_KeepsFirstSeenOrder(t *testing.T) {
	// GIVEN a store that saw buses 1, 0 and then 1 again
	s := NewStore()
	s.UpdateBus(sim.BusData{ID: "1", NumPassengers: 2}, false)
	s.UpdateBus(sim.BusData{ID: "0"}, false)
	s.UpdateBus(sim.BusData{ID: "1", NumPassengers: 5}, false)

	// THEN Buses lists each once, in first-seen order, with the latest snapshot
	buses := s.Buses()
	assert.Len(t, buses, 2)
	assert.Equal(t, "1", buses[0].ID)
	assert.Equal(t, 5, buses[0].NumPassengers)
	assert.Equal(t, "0", buses[1].ID)
}

func TestStore_DeletedBus_MovesToRetired(t *testing.T) {
	s := NewStore()
	s.UpdateBus(sim.BusData{ID: "3", Capacity: 60}, false)

	// WHEN the bus is reported deleted
	s.UpdateBus(sim.BusData{ID: "3", Capacity: 60}, true)

	// THEN it leaves the active list and is found among retired buses
	assert.Empty(t, s.Buses())
	got, ok := s.RetiredBus("3")
	assert.True(t, ok)
	assert.Equal(t, 60, got.Capacity)
	assert.Len(t, s.Retired(), 1)

	_, ok = s.RetiredBus("missing")
	assert.False(t, ok)
}

func TestStore_UpdateRoute_CopiesStops(t *testing.T) {
	s := NewStore()
	stops := []sim.StopData{{ID: "0", NumPeople: 1}}
	s.UpdateRoute(sim.RouteData{ID: "East", Stops: stops})

	// WHEN the caller mutates its slice afterwards
	stops[0].NumPeople = 99

	// THEN the stored snapshot is unaffected
	assert.Equal(t, 1, s.Routes()[0].Stops[0].NumPeople)
}

func TestRouteFeatures_LineStringAndPoints(t *testing.T) {
	// GIVEN one route of two stops and one single-stop route
	routes := []sim.RouteData{
		{ID: "East", Stops: []sim.StopData{
			{ID: "0", Position: sim.Position{X: 1, Y: 2}},
			{ID: "1", Position: sim.Position{X: 3, Y: 4}},
		}},
		{ID: "Loop", Stops: []sim.StopData{{ID: "9", Position: sim.Position{X: 5, Y: 6}}}},
	}

	// WHEN converted to features
	fc := RouteFeatures(routes)

	// THEN East contributes a line plus two points; Loop only its point
	assert.Len(t, fc.Features, 4)
	assert.Equal(t, "East", fc.Features[0].ID)
	assert.Equal(t, "route", fc.Features[0].Properties["kind"])
	assert.Equal(t, "Loop/9", fc.Features[3].ID)

	b, err := fc.MarshalJSON()
	assert.NoError(t, err)
	assert.Contains(t, string(b), `"LineString"`)
	assert.Contains(t, string(b), `"Point"`)
}
