// Defines the Passenger struct that models an individual rider in the simulation.
// Tracks destination and the time spent waiting at a stop and riding a bus.

package sim

import (
	"fmt"
	"io"
)

const (
	// DefaultPassengerName is used when a passenger is created without a name.
	DefaultPassengerName = "Nobody"
	// NoDestination marks a passenger without a destination stop.
	NoDestination = -1
)

// Passenger models a single rider's lifecycle:
// - waiting at a stop (waitAtStop grows every tick)
// - riding a bus (timeOnBus grows every tick)
// - leaving the bus at the stop whose id equals Destination
type Passenger struct {
	id          int
	name        string
	destination int
	waitAtStop  int
	timeOnBus   int
	onBus       bool
}

// IDSource hands out sequential passenger ids.
// The zero value starts at 0. Not thread-safe.
type IDSource struct {
	next int
}

// Next returns the next id and advances the counter.
func (s *IDSource) Next() int {
	id := s.next
	s.next++
	return id
}

// NewPassenger creates a passenger waiting for a bus. An empty name falls back
// to DefaultPassengerName.
func NewPassenger(id int, destination int, name string) *Passenger {
	if name == "" {
		name = DefaultPassengerName
	}
	return &Passenger{
		id:          id,
		name:        name,
		destination: destination,
	}
}

// Update ages the passenger by one tick.
func (p *Passenger) Update() {
	if p.onBus {
		p.timeOnBus++
	} else {
		p.waitAtStop++
	}
}

// GetOnBus marks the passenger as boarded. Boarding itself counts as the
// first tick on the bus.
func (p *Passenger) GetOnBus() {
	p.onBus = true
	p.timeOnBus = 1
}

// TotalWait returns ticks spent at the stop plus ticks spent on the bus.
func (p *Passenger) TotalWait() int {
	return p.waitAtStop + p.timeOnBus
}

func (p *Passenger) IsOnBus() bool    { return p.onBus }
func (p *Passenger) Destination() int { return p.destination }
func (p *Passenger) ID() int          { return p.id }
func (p *Passenger) Name() string     { return p.name }
func (p *Passenger) WaitAtStop() int  { return p.waitAtStop }
func (p *Passenger) TimeOnBus() int   { return p.timeOnBus }

// Report writes a human-readable summary of the passenger.
func (p *Passenger) Report(w io.Writer) {
	fmt.Fprintf(w, "Name: %s\n", p.name)
	fmt.Fprintf(w, "Destination: %d\n", p.destination)
	fmt.Fprintf(w, "Total Wait: %d\n", p.TotalWait())
	fmt.Fprintf(w, "\tWait at Stop: %d\n", p.waitAtStop)
	fmt.Fprintf(w, "\tTime on bus: %d\n", p.timeOnBus)
}

func (p *Passenger) String() string {
	return fmt.Sprintf("Passenger: (ID: %d, Name: %s, Destination: %d, OnBus: %t)", p.id, p.name, p.destination, p.onBus)
}
