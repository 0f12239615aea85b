package sim

import (
	"errors"
	"fmt"
	"math/rand"
)

// BusSize names a bus size class accepted by BusFactory.
type BusSize string

const (
	Small  BusSize = "Small"
	Medium BusSize = "Medium"
	Large  BusSize = "Large"
	// Random picks Small, Medium or Large uniformly on each Generate.
	Random BusSize = "Random"
)

// ErrInvalidBusType is returned by BusFactory.Generate for an unrecognized size.
var ErrInvalidBusType = errors.New("invalid bus type")

// busCapacities maps each fixed size class to its passenger capacity.
var busCapacities = map[BusSize]int{
	Small:  30,
	Medium: 60,
	Large:  90,
}

// randomSizes is indexed by a uniform draw in [0, 3).
var randomSizes = [...]BusSize{Small, Medium, Large}

// CapacityFor returns the capacity of a fixed size class, or 0 if unknown.
func CapacityFor(size BusSize) int {
	return busCapacities[size]
}

// BusFactory builds buses of one size class.
type BusFactory struct {
	Size BusSize
	Rng  *rand.Rand // required for Random
	Log  LogWriter  // handed to every bus built
}

// Generate builds a bus with clones of outbound and inbound. An unknown size
// returns an error wrapping ErrInvalidBusType and no bus.
func (f BusFactory) Generate(name string, outbound, inbound *Route, speed float64) (*Bus, error) {
	size := f.Size
	if size == Random {
		if f.Rng == nil {
			return nil, fmt.Errorf("bus %q: random size needs an rng", name)
		}
		size = randomSizes[f.Rng.Intn(len(randomSizes))]
	}
	capacity, ok := busCapacities[size]
	if !ok {
		return nil, fmt.Errorf("bus %q size %q: %w", name, f.Size, ErrInvalidBusType)
	}
	return NewBus(BusConfig{
		Name:     name,
		Type:     string(size),
		Capacity: capacity,
		Speed:    speed,
		Outbound: outbound,
		Inbound:  inbound,
		Log:      f.Log,
	}), nil
}
