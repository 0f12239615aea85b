package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/transit-sim/transit-sim/sim/internal/testutil"
)

func TestObservable_NotifiesInRegistrationOrder(t *testing.T) {
	// GIVEN a stop with two registered observers
	stop := NewStop(4)
	var order []string
	first := ObserverFunc[StopData](func(d StopData) { order = append(order, "first:"+d.ID) })
	second := ObserverFunc[StopData](func(d StopData) { order = append(order, "second:"+d.ID) })
	stop.RegisterObserver(first)
	stop.RegisterObserver(second)

	// WHEN NotifyObservers is called once
	stop.NotifyObservers(stop.GetStopData())

	// THEN both receive the same snapshot, in order, exactly once
	assert.Equal(t, []string{"first:4", "second:4"}, order)
}

func TestObservable_DuplicatesAllowed(t *testing.T) {
	var o Observable[int]
	rec := &testutil.RecordingObserver[int]{}
	o.RegisterObserver(rec)
	o.RegisterObserver(rec)

	o.NotifyObservers(3)

	assert.Equal(t, []int{3, 3}, rec.Received)
	assert.Equal(t, 2, o.NumObservers())
}

func TestObservable_ClearObservers(t *testing.T) {
	var o Observable[int]
	rec := &testutil.RecordingObserver[int]{}
	o.RegisterObserver(rec)
	o.RegisterObserver(nil)

	o.ClearObservers()
	o.NotifyObservers(1)

	assert.Empty(t, rec.Received)
	assert.Equal(t, 0, o.NumObservers())
}

func TestObservable_SnapshotIsACopy(t *testing.T) {
	// GIVEN an observer that keeps what it received
	stop := NewStop(1)
	rec := &testutil.RecordingObserver[StopData]{}
	stop.RegisterObserver(rec)
	stop.AddPassengers(NewPassenger(0, 2, ""))
	stop.Update()

	// WHEN the stop changes afterwards
	stop.AddPassengers(NewPassenger(1, 2, ""))
	stop.Update()

	// THEN the first snapshot still shows the old count
	assert.Equal(t, 1, rec.Received[0].NumPeople)
	assert.Equal(t, 2, rec.Last().NumPeople)
}
