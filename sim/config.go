package sim

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/transit-sim/transit-sim/sim/trace"
)

// DefaultBusSpeed is used when neither the network nor a route pair sets bus_speed.
const DefaultBusSpeed = 1.0

// SimConfig describes a transit network and run settings, loadable from YAML.
type SimConfig struct {
	Seed     int64             `yaml:"seed"`
	Strategy string            `yaml:"strategy"`  // "A".."D", or "auto"/"" to follow the hour of day
	BusSpeed float64           `yaml:"bus_speed"` // distance per tick; 0 means DefaultBusSpeed
	Trace    string            `yaml:"trace"`     // "none" or "decisions"
	Routes   []RoutePairConfig `yaml:"routes"`
}

// RoutePairConfig is one line of service: buses run Outbound then Inbound.
type RoutePairConfig struct {
	Outbound       RouteConfig `yaml:"outbound"`
	Inbound        RouteConfig `yaml:"inbound"`
	BusStartTiming int         `yaml:"bus_start_timing"` // ticks between deployments
	BusSpeed       *float64    `yaml:"bus_speed"`        // overrides SimConfig.BusSpeed
}

// RouteConfig holds the geometry of one direction.
type RouteConfig struct {
	Name      string       `yaml:"name"`
	Stops     []StopConfig `yaml:"stops"`
	Distances []float64    `yaml:"distances"` // one per segment
}

// StopConfig describes a stop. Longitude and latitude default to DefaultStopPosition(ID).
type StopConfig struct {
	ID                 int      `yaml:"id"`
	Longitude          *float64 `yaml:"longitude"`
	Latitude           *float64 `yaml:"latitude"`
	ArrivalProbability float64  `yaml:"arrival_probability"`
}

// RoutePair is a built line of service ready for the simulator.
type RoutePair struct {
	Outbound       *Route
	Inbound        *Route
	BusStartTiming int
	Speed          float64
}

// LoadSimConfig reads and parses a YAML network file.
func LoadSimConfig(path string) (*SimConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading network config: %w", err)
	}
	return ParseSimConfig(data)
}

// ParseSimConfig decodes YAML with strict field checking; unknown keys are errors.
func ParseSimConfig(data []byte) (*SimConfig, error) {
	var cfg SimConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing network config: %w", err)
	}
	return &cfg, nil
}

// Validate checks names, ranges and geometry of every route.
func (c *SimConfig) Validate() error {
	if !ValidStrategies[c.Strategy] {
		return fmt.Errorf("unknown strategy %q", c.Strategy)
	}
	if !trace.IsValidTraceLevel(c.Trace) {
		return fmt.Errorf("unknown trace level %q", c.Trace)
	}
	if c.BusSpeed < 0 {
		return fmt.Errorf("bus_speed must be non-negative, got %f", c.BusSpeed)
	}
	if len(c.Routes) == 0 {
		return errors.New("network has no routes")
	}
	names := make(map[string]bool)
	stopIDs := make(map[int]string)
	for i, pair := range c.Routes {
		if pair.BusStartTiming <= 0 {
			return fmt.Errorf("routes[%d]: bus_start_timing must be positive, got %d", i, pair.BusStartTiming)
		}
		if pair.BusSpeed != nil && *pair.BusSpeed < 0 {
			return fmt.Errorf("routes[%d]: bus_speed must be non-negative, got %f", i, *pair.BusSpeed)
		}
		for _, rc := range []RouteConfig{pair.Outbound, pair.Inbound} {
			if err := rc.validate(); err != nil {
				return fmt.Errorf("routes[%d]: %w", i, err)
			}
			if names[rc.Name] {
				return fmt.Errorf("routes[%d]: duplicate route name %q", i, rc.Name)
			}
			names[rc.Name] = true
			for _, s := range rc.Stops {
				if owner, dup := stopIDs[s.ID]; dup {
					return fmt.Errorf("route %q: stop %d already belongs to route %q", rc.Name, s.ID, owner)
				}
				stopIDs[s.ID] = rc.Name
			}
		}
	}
	return nil
}

func (rc RouteConfig) validate() error {
	if rc.Name == "" {
		return errors.New("route name is required")
	}
	if len(rc.Stops) == 0 {
		return fmt.Errorf("route %q has no stops", rc.Name)
	}
	if len(rc.Distances) != len(rc.Stops)-1 {
		return fmt.Errorf("route %q: %d stops need %d distances, got %d", rc.Name, len(rc.Stops), len(rc.Stops)-1, len(rc.Distances))
	}
	for _, s := range rc.Stops {
		if s.ArrivalProbability < 0 || s.ArrivalProbability > 1 {
			return fmt.Errorf("route %q stop %d: arrival_probability must be in [0,1], got %f", rc.Name, s.ID, s.ArrivalProbability)
		}
	}
	return nil
}

// BuildRoutes constructs the stops, arrival generators and route prototypes.
// Each route draws arrivals from its own rng subsystem; ids is shared so
// passenger ids are unique across the network.
func (c *SimConfig) BuildRoutes(rng *PartitionedRNG, ids *IDSource) ([]RoutePair, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	speed := c.BusSpeed
	if speed == 0 {
		speed = DefaultBusSpeed
	}
	pairs := make([]RoutePair, 0, len(c.Routes))
	for _, pc := range c.Routes {
		out, err := pc.Outbound.build(rng, ids)
		if err != nil {
			return nil, err
		}
		in, err := pc.Inbound.build(rng, ids)
		if err != nil {
			return nil, err
		}
		pair := RoutePair{Outbound: out, Inbound: in, BusStartTiming: pc.BusStartTiming, Speed: speed}
		if pc.BusSpeed != nil {
			pair.Speed = *pc.BusSpeed
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

func (rc RouteConfig) build(rng *PartitionedRNG, ids *IDSource) (*Route, error) {
	stops := make([]*Stop, len(rc.Stops))
	probs := make([]float64, len(rc.Stops))
	for i, sc := range rc.Stops {
		lon, lat := DefaultStopPosition(sc.ID)
		if sc.Longitude != nil {
			lon = *sc.Longitude
		}
		if sc.Latitude != nil {
			lat = *sc.Latitude
		}
		stops[i] = NewStopAt(sc.ID, lon, lat)
		probs[i] = sc.ArrivalProbability
	}
	gen, err := NewRandomPassengerGenerator(probs, stops, rng.ForSubsystem(SubsystemRoute(rc.Name)), ids)
	if err != nil {
		return nil, fmt.Errorf("route %q: %w", rc.Name, err)
	}
	route, err := NewRoute(rc.Name, stops, rc.Distances, gen)
	if err != nil {
		return nil, fmt.Errorf("building route: %w", err)
	}
	return route, nil
}
