package sim

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// StrategyType selects a bus generation strategy.
type StrategyType int

const (
	StrategyA StrategyType = iota + 1 // Small, Medium, ...
	StrategyB                         // Medium, Large, ...
	StrategyC                         // Small, Medium, Large, ...
	StrategyD                         // always Small; fallback for unknown values
)

// StrategyAuto is the configuration name for choosing the strategy by time of day.
const StrategyAuto = "auto"

// ValidStrategies is the set of recognized strategy names.
// Shared by SimConfig.Validate() and ParseStrategy().
var ValidStrategies = map[string]bool{"": true, StrategyAuto: true, "A": true, "B": true, "C": true, "D": true}

var strategyNames = map[StrategyType]string{
	StrategyA: "A",
	StrategyB: "B",
	StrategyC: "C",
	StrategyD: "D",
}

func (t StrategyType) String() string {
	if name, ok := strategyNames[t]; ok {
		return name
	}
	return fmt.Sprintf("StrategyType(%d)", int(t))
}

// ParseStrategy maps "A".."D" to a StrategyType. Empty and "auto" return
// (0, true), meaning the strategy follows StrategyForHour.
func ParseStrategy(name string) (t StrategyType, ok bool) {
	if !ValidStrategies[name] {
		return 0, false
	}
	for st, n := range strategyNames {
		if n == name {
			return st, true
		}
	}
	return 0, true
}

// StrategyForHour returns the strategy used at the given hour of the day:
// A in the morning [6,8), B during the day [8,15), C in the evening peak
// [15,20), D otherwise.
func StrategyForHour(hour int) StrategyType {
	switch {
	case hour >= 6 && hour < 8:
		return StrategyA
	case hour >= 8 && hour < 15:
		return StrategyB
	case hour >= 15 && hour < 20:
		return StrategyC
	default:
		return StrategyD
	}
}

// DepotState holds the sequencing counter of every strategy. Counters persist
// across SetStrategy calls, so returning to a strategy resumes its cycle.
type DepotState struct {
	counters map[StrategyType]int
}

// NewDepotState returns state with every strategy at the start of its cycle.
func NewDepotState() *DepotState {
	return &DepotState{counters: make(map[StrategyType]int)}
}

// Counter returns the raw counter for t.
func (s *DepotState) Counter(t StrategyType) int {
	return s.counters[t]
}

// nextSize returns the size t produces next and advances its counter.
func (s *DepotState) nextSize(t StrategyType) BusSize {
	c := s.counters[t]
	switch t {
	case StrategyA:
		s.counters[t] = (c + 1) % 2
		if c == 0 {
			return Small
		}
		return Medium
	case StrategyB:
		// phases 1 and 2 of a modulo-3 counter; 0 only before the first call
		if c == 0 {
			c = 1
		}
		next := (c + 1) % 3
		if next == 0 {
			next = 1
		}
		s.counters[t] = next
		if c == 1 {
			return Medium
		}
		return Large
	case StrategyC:
		s.counters[t] = (c + 1) % 3
		return [...]BusSize{Small, Medium, Large}[c]
	default:
		return Small
	}
}

// Strategy builds the next bus of a generation policy.
type Strategy interface {
	Type() StrategyType
	GenerateBus(name string, outbound, inbound *Route, speed float64) (*Bus, error)
}

// cyclingStrategy covers all four policies; kind selects the size sequence.
type cyclingStrategy struct {
	kind    StrategyType
	state   *DepotState
	factory BusFactory
}

func (c *cyclingStrategy) Type() StrategyType { return c.kind }

func (c *cyclingStrategy) GenerateBus(name string, outbound, inbound *Route, speed float64) (*Bus, error) {
	f := c.factory
	f.Size = c.state.nextSize(c.kind)
	return f.Generate(name, outbound, inbound, speed)
}

// NewStrategy creates the strategy for t. Unknown values yield StrategyD.
// factory supplies the rng and log writer; its Size is ignored.
func NewStrategy(t StrategyType, state *DepotState, factory BusFactory) Strategy {
	if _, ok := strategyNames[t]; !ok {
		t = StrategyD
	}
	return &cyclingStrategy{kind: t, state: state, factory: factory}
}

// BusDepot builds buses using one active strategy at a time.
type BusDepot struct {
	state    *DepotState
	rng      *rand.Rand
	log      LogWriter
	strategy Strategy
}

// NewBusDepot creates a depot using StrategyD. A nil state starts fresh
// counters. rng may be nil when no strategy draws random sizes.
func NewBusDepot(state *DepotState, rng *rand.Rand, log LogWriter) *BusDepot {
	if state == nil {
		state = NewDepotState()
	}
	d := &BusDepot{state: state, rng: rng, log: log}
	d.SetStrategy(StrategyD)
	return d
}

// SetStrategy replaces the active strategy. Unknown values fall back to StrategyD.
func (d *BusDepot) SetStrategy(t StrategyType) {
	if d.strategy != nil && d.strategy.Type() == t {
		return
	}
	d.strategy = NewStrategy(t, d.state, BusFactory{Rng: d.rng, Log: d.log})
	logrus.Debugf("[depot] strategy set to %s", d.strategy.Type())
}

// Strategy returns the active strategy's type.
func (d *BusDepot) Strategy() StrategyType {
	return d.strategy.Type()
}

// State returns the depot's counters.
func (d *BusDepot) State() *DepotState {
	return d.state
}

// Generate builds a bus with the active strategy.
func (d *BusDepot) Generate(name string, outbound, inbound *Route, speed float64) (*Bus, error) {
	bus, err := d.strategy.GenerateBus(name, outbound, inbound, speed)
	if err != nil {
		return nil, fmt.Errorf("depot strategy %s: %w", d.strategy.Type(), err)
	}
	logrus.Infof("[depot] strategy %s built %s bus %s (capacity %d)", d.strategy.Type(), bus.Type(), bus.Name(), bus.Capacity())
	return bus, nil
}
