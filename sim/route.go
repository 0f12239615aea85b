package sim

import (
	"errors"
	"fmt"
	"io"
)

// routeGeometry is the immutable, shared part of a route. Every clone of a
// route points at the same geometry.
type routeGeometry struct {
	name      string
	stops     []*Stop
	distances []float64 // distances[i] is the length of the segment stops[i] -> stops[i+1]
	generator PassengerGenerator
}

// Route is a traversal cursor over an ordered sequence of stops.
//
// index is the stop most recently reached; it always lies in
// [0, len(stops)-1]. travelled accumulates distance covered since leaving
// that stop. Routes loaded from configuration are prototypes: buses receive
// Clone()s so they share geometry but never position.
type Route struct {
	geo       *routeGeometry
	index     int
	travelled float64
	data      RouteData
}

// NewRoute builds a route prototype. distances must hold exactly one entry
// per segment (len(stops)-1), none negative. gen may be nil for routes
// whose stops are filled by other means.
func NewRoute(name string, stops []*Stop, distances []float64, gen PassengerGenerator) (*Route, error) {
	if len(stops) == 0 {
		return nil, errors.New("route must have at least one stop")
	}
	if len(distances) != len(stops)-1 {
		return nil, fmt.Errorf("route %q: %d stops need %d distances, got %d", name, len(stops), len(stops)-1, len(distances))
	}
	for i, d := range distances {
		if d < 0 {
			return nil, fmt.Errorf("route %q: distance %d must be non-negative, got %f", name, i, d)
		}
	}
	geo := &routeGeometry{
		name:      name,
		stops:     append([]*Stop(nil), stops...),
		distances: append([]float64(nil), distances...),
		generator: gen,
	}
	r := &Route{geo: geo}
	r.UpdateRouteData()
	return r, nil
}

// Clone returns a fresh cursor at the first stop over the same geometry.
func (r *Route) Clone() *Route {
	c := &Route{geo: r.geo}
	c.UpdateRouteData()
	return c
}

// Name returns the route name.
func (r *Route) Name() string { return r.geo.name }

// Index returns the index of the stop most recently reached.
func (r *Route) Index() int { return r.index }

// NumStops returns the number of stops on the route.
func (r *Route) NumStops() int { return len(r.geo.stops) }

// Stops returns a copy of the stop sequence.
func (r *Route) Stops() []*Stop {
	return append([]*Stop(nil), r.geo.stops...)
}

// Distances returns a copy of the segment distances.
func (r *Route) Distances() []float64 {
	return append([]float64(nil), r.geo.distances...)
}

// IsAtEnd reports whether the cursor sits on the final stop.
func (r *Route) IsAtEnd() bool {
	return r.index == len(r.geo.stops)-1
}

// ToNextStop moves the cursor one stop forward and resets the travelled
// distance. No-op at the end.
func (r *Route) ToNextStop() {
	if r.IsAtEnd() {
		return
	}
	r.index++
	r.travelled = 0
}

// PrevStop returns the stop at the cursor.
func (r *Route) PrevStop() *Stop {
	return r.geo.stops[r.index]
}

// GetDestinationStop returns the stop at the cursor.
func (r *Route) GetDestinationStop() *Stop {
	return r.geo.stops[r.index]
}

// NextStop returns the stop after the cursor, or nil at the end.
func (r *Route) NextStop() *Stop {
	if r.IsAtEnd() {
		return nil
	}
	return r.geo.stops[r.index+1]
}

// NextStopDistance returns the length of the segment from the current stop
// to the next one. ok is false at the final stop, where there is no next
// stop; a zero-length segment is reported as (0, true).
func (r *Route) NextStopDistance() (distance float64, ok bool) {
	if r.IsAtEnd() {
		return 0, false
	}
	return r.geo.distances[r.index], true
}

// TotalRouteDistance returns the sum of all segment distances.
func (r *Route) TotalRouteDistance() float64 {
	total := 0.0
	for _, d := range r.geo.distances {
		total += d
	}
	return total
}

// Travel records d units of progress toward the next stop.
func (r *Route) Travel(d float64) {
	r.travelled += d
}

// DistanceTravelled returns progress made since the current stop.
func (r *Route) DistanceTravelled() float64 {
	return r.travelled
}

// Update generates new passengers, ages every stop, and refreshes the snapshot.
// Only prototype routes are updated; bus clones share the same stops.
func (r *Route) Update() {
	if r.geo.generator != nil {
		r.geo.generator.GeneratePassengers()
	}
	for _, s := range r.geo.stops {
		s.Update()
	}
	r.UpdateRouteData()
}

// UpdateRouteData rebuilds the snapshot from the stops' current snapshots.
func (r *Route) UpdateRouteData() {
	stops := make([]StopData, 0, len(r.geo.stops))
	for _, s := range r.geo.stops {
		s.UpdateStopData()
		stops = append(stops, s.GetStopData())
	}
	r.data = RouteData{ID: r.geo.name, Stops: stops}
}

// GetRouteData returns the most recent snapshot.
func (r *Route) GetRouteData() RouteData {
	return r.data
}

// Report writes the route name, its stops, and the waiting passengers.
func (r *Route) Report(w io.Writer) {
	fmt.Fprintf(w, "Name: %s\n", r.geo.name)
	fmt.Fprintf(w, "Num stops: %d\n", len(r.geo.stops))
	for i, s := range r.geo.stops {
		if i < len(r.geo.distances) {
			fmt.Fprintf(w, "Distance to next: %g\n", r.geo.distances[i])
		}
		s.Report(w)
	}
}
