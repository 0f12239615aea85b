package sim

import (
	"fmt"
	"math/rand"
)

// PassengerGenerator places newly arrived passengers at stops.
// Route.Update calls GeneratePassengers once per tick.
type PassengerGenerator interface {
	// GeneratePassengers adds passengers to stops and returns how many were created.
	GeneratePassengers() int
}

// RandomPassengerGenerator draws one Bernoulli trial per stop per tick.
// probs[i] is the chance a passenger appears at stops[i]; the passenger's
// destination is drawn uniformly among the stops after stops[i]. The last
// stop never produces passengers since nothing lies beyond it.
type RandomPassengerGenerator struct {
	probs []float64
	stops []*Stop
	rng   *rand.Rand
	ids   *IDSource
}

// NewRandomPassengerGenerator creates a generator. probs and stops must have
// the same length and every probability must be in [0, 1].
func NewRandomPassengerGenerator(probs []float64, stops []*Stop, rng *rand.Rand, ids *IDSource) (*RandomPassengerGenerator, error) {
	if len(probs) != len(stops) {
		return nil, fmt.Errorf("generator has %d probabilities for %d stops", len(probs), len(stops))
	}
	for i, p := range probs {
		if p < 0 || p > 1 {
			return nil, fmt.Errorf("arrival probability for stop %d must be in [0,1], got %f", stops[i].ID(), p)
		}
	}
	if rng == nil {
		panic("NewRandomPassengerGenerator: rng must not be nil")
	}
	if ids == nil {
		ids = &IDSource{}
	}
	return &RandomPassengerGenerator{probs: probs, stops: stops, rng: rng, ids: ids}, nil
}

// GeneratePassengers implements PassengerGenerator.
func (g *RandomPassengerGenerator) GeneratePassengers() int {
	created := 0
	for i, stop := range g.stops {
		downstream := len(g.stops) - i - 1
		if downstream <= 0 {
			continue
		}
		if g.rng.Float64() >= g.probs[i] {
			continue
		}
		dest := g.stops[i+1+g.rng.Intn(downstream)]
		created += stop.AddPassengers(NewPassenger(g.ids.Next(), dest.ID(), ""))
	}
	return created
}
