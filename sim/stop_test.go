package sim

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/transit-sim/transit-sim/sim/internal/testutil"
)

func TestNewStop_DefaultPosition(t *testing.T) {
	s0, s2 := NewStop(0), NewStop(2)

	assert.Equal(t, DefaultLongitude, s0.Longitude())
	assert.Equal(t, DefaultLatitude, s0.Latitude())
	testutil.AssertFloat64Equal(t, "longitude", DefaultLongitude+2*defaultStopSpacing, s2.Longitude(), 1e-12)
	assert.Equal(t, "2", s2.GetStopData().ID)
	assert.Equal(t, Position{X: s2.Longitude(), Y: s2.Latitude()}, s2.GetStopData().Position)
}

func TestStop_AddPassengers(t *testing.T) {
	s := NewStop(1)
	assert.Equal(t, 1, s.AddPassengers(NewPassenger(0, 3, "")))
	assert.Equal(t, 0, s.AddPassengers(nil))
	assert.Equal(t, 1, s.NumPassengersPresent())
}

func TestStop_Update_AgesWaitingPassengers(t *testing.T) {
	// GIVEN a stop with one waiting passenger
	s := NewStop(1)
	p := NewPassenger(0, 3, "")
	s.AddPassengers(p)

	// WHEN two ticks pass
	s.Update()
	s.Update()

	// THEN the passenger's stop wait grew and the snapshot is current
	assert.Equal(t, 2, p.WaitAtStop())
	assert.Equal(t, 1, s.GetStopData().NumPeople)
}

func TestStop_LoadPassengers_StopsWhenBusFull(t *testing.T) {
	// GIVEN a stop with three passengers and a bus with capacity two
	s := NewStop(0)
	for i := 0; i < 3; i++ {
		s.AddPassengers(NewPassenger(i, 1, ""))
	}
	bus := newTestBus(t, 2, 1)

	// WHEN the stop loads the bus
	boarded := s.LoadPassengers(bus)

	// THEN the first two board in FIFO order and the third stays queued
	assert.Equal(t, 2, boarded)
	assert.Equal(t, 2, bus.NumPassengers())
	assert.Equal(t, 1, s.NumPassengersPresent())
	assert.Equal(t, 2, s.Waiting()[0].ID())
	assert.False(t, s.Waiting()[0].IsOnBus())
}

func TestStop_Report(t *testing.T) {
	s := NewStop(5)
	s.AddPassengers(NewPassenger(0, 6, "Ann"))
	var sb strings.Builder

	s.Report(&sb)

	assert.True(t, strings.HasPrefix(sb.String(), "ID: 5\nPassengers waiting: 1\nName: Ann\n"))
}
