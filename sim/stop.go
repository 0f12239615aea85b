package sim

import (
	"fmt"
	"io"
	"strconv"
)

const (
	// DefaultLongitude and DefaultLatitude anchor stops built with NewStop.
	DefaultLongitude = 44.973723
	DefaultLatitude  = -93.235365

	// defaultStopSpacing is the longitude step between consecutive stop ids.
	defaultStopSpacing = 0.0005
)

// DefaultStopPosition places a stop deterministically from its id, spreading
// consecutive ids along a line east of the default anchor.
func DefaultStopPosition(id int) (longitude, latitude float64) {
	return DefaultLongitude + float64(id)*defaultStopSpacing, DefaultLatitude
}

// Stop is a fixed location with a FIFO queue of waiting passengers.
//
// A stop is assumed to belong to a single route: every queued passenger is
// waiting for whichever bus on that route arrives next.
type Stop struct {
	Observable[StopData]

	id        int
	longitude float64
	latitude  float64
	waiting   PassengerQueue
	data      StopData
}

// NewStop creates a stop at DefaultStopPosition(id).
func NewStop(id int) *Stop {
	lon, lat := DefaultStopPosition(id)
	return NewStopAt(id, lon, lat)
}

// NewStopAt creates a stop at an explicit position.
func NewStopAt(id int, longitude, latitude float64) *Stop {
	s := &Stop{id: id, longitude: longitude, latitude: latitude}
	s.UpdateStopData()
	return s
}

func (s *Stop) ID() int            { return s.id }
func (s *Stop) Longitude() float64 { return s.longitude }
func (s *Stop) Latitude() float64  { return s.latitude }
func (s *Stop) Position() Position { return Position{X: s.longitude, Y: s.latitude} }

// NumPassengersPresent returns how many passengers are waiting.
func (s *Stop) NumPassengersPresent() int {
	return s.waiting.Len()
}

// Waiting returns the queued passengers in FIFO order. Read-only.
func (s *Stop) Waiting() []*Passenger {
	return s.waiting.Items()
}

// AddPassengers queues a newly arrived passenger and returns how many were added.
func (s *Stop) AddPassengers(p *Passenger) int {
	if p == nil {
		return 0
	}
	s.waiting.Enqueue(p)
	return 1
}

// LoadPassengers boards waiting passengers onto bus in FIFO order until the
// queue is empty or the bus refuses one. Returns the number boarded.
func (s *Stop) LoadPassengers(bus *Bus) int {
	added := 0
	for s.waiting.Len() > 0 && bus.LoadPassenger(s.waiting.Peek()) {
		s.waiting.Dequeue()
		added++
	}
	return added
}

// Update ages every waiting passenger, refreshes the snapshot and notifies observers.
func (s *Stop) Update() {
	for _, p := range s.waiting.Items() {
		p.Update()
	}
	s.UpdateStopData()
	s.NotifyObservers(s.data)
}

// UpdateStopData refreshes the snapshot from current state.
func (s *Stop) UpdateStopData() {
	s.data = StopData{
		ID:        strconv.Itoa(s.id),
		Position:  s.Position(),
		NumPeople: s.waiting.Len(),
	}
}

// GetStopData returns the most recent snapshot.
func (s *Stop) GetStopData() StopData {
	return s.data
}

// Report writes the stop id and every waiting passenger.
func (s *Stop) Report(w io.Writer) {
	fmt.Fprintf(w, "ID: %d\n", s.id)
	fmt.Fprintf(w, "Passengers waiting: %d\n", s.waiting.Len())
	for _, p := range s.waiting.Items() {
		p.Report(w)
	}
}
