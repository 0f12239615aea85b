// sim/simulator.go
package sim

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/transit-sim/transit-sim/sim/trace"
)

// Visualizer receives snapshots after every tick. deleted marks a bus that
// completed its trip and was removed.
type Visualizer interface {
	UpdateRoute(data RouteData)
	UpdateBus(data BusData, deleted bool)
}

type nopVisualizer struct{}

func (nopVisualizer) UpdateRoute(RouteData)   {}
func (nopVisualizer) UpdateBus(BusData, bool) {}

// SimulatorConfig groups the parameters of NewSimulator.
type SimulatorConfig struct {
	Routes     []RoutePair
	Strategy   string // "A".."D", or "auto"/"" for StrategyForHour(Clock().Hour())
	Log        LogWriter
	Visualizer Visualizer
	Trace      *trace.DeploymentTrace // nil disables decision tracing
	Clock      func() time.Time       // wall clock for the time-of-day strategy; nil means time.Now
	Report     io.Writer              // receives bus and route reports every tick; nil discards
}

// activeBus is a bus on the road plus the bookkeeping needed to retire it.
type activeBus struct {
	bus      *Bus
	route    int
	deployed int
}

// Simulator drives the network one tick at a time: it deploys buses on each
// route at that route's start interval, moves every bus, retires buses whose
// trip is complete, and then generates and ages passengers on every route.
// Not thread-safe; every method must be called from one goroutine.
type Simulator struct {
	routes     []RoutePair
	fixed      StrategyType // 0 follows the hour of day
	depot      *BusDepot
	visualizer Visualizer
	trace      *trace.DeploymentTrace
	clock      func() time.Time
	report     io.Writer
	metrics    *Metrics

	buses         []activeBus
	startTimings  []int
	timeSinceLast []int
	numTimeSteps  int
	tick          int
	nextBusID     int
	paused        bool
	started       bool
}

// NewSimulator builds a simulator over the given routes. Random bus sizes
// draw from the depot subsystem of rng.
func NewSimulator(cfg SimulatorConfig, rng *PartitionedRNG) (*Simulator, error) {
	fixed, ok := ParseStrategy(cfg.Strategy)
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q", cfg.Strategy)
	}
	if len(cfg.Routes) == 0 {
		return nil, fmt.Errorf("simulator needs at least one route pair")
	}
	s := &Simulator{
		routes:     cfg.Routes,
		fixed:      fixed,
		depot:      NewBusDepot(NewDepotState(), rng.ForSubsystem(SubsystemDepot), cfg.Log),
		visualizer: cfg.Visualizer,
		trace:      cfg.Trace,
		clock:      cfg.Clock,
		report:     cfg.Report,
		metrics:    NewMetrics(),
	}
	if s.visualizer == nil {
		s.visualizer = nopVisualizer{}
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.report == nil {
		s.report = io.Discard
	}
	return s, nil
}

// Start resets the run. busStartTimings holds the ticks between deployments
// for each route pair; nil uses each pair's configured timing. numTimeSteps
// bounds Done; 0 means unbounded.
func (s *Simulator) Start(busStartTimings []int, numTimeSteps int) error {
	if busStartTimings == nil {
		busStartTimings = make([]int, len(s.routes))
		for i, pair := range s.routes {
			busStartTimings[i] = pair.BusStartTiming
		}
	}
	if len(busStartTimings) != len(s.routes) {
		return fmt.Errorf("got %d bus start timings for %d route pairs", len(busStartTimings), len(s.routes))
	}
	s.startTimings = append([]int(nil), busStartTimings...)
	s.timeSinceLast = make([]int, len(s.startTimings))
	s.numTimeSteps = numTimeSteps
	s.tick = 0
	s.started = true
	for i, timing := range s.startTimings {
		logrus.Infof("time between buses for route pair %d: %d", i, timing)
	}
	for _, r := range s.prototypeRoutes() {
		r.Report(s.report)
		r.UpdateRouteData()
		s.visualizer.UpdateRoute(r.GetRouteData())
	}
	return nil
}

// Update runs one tick unless the simulator is paused or not started.
// Returns whether the tick ran.
func (s *Simulator) Update() bool {
	if s.paused || !s.started {
		return false
	}
	s.executeUpdate()
	return true
}

// Done reports whether numTimeSteps ticks have run.
func (s *Simulator) Done() bool {
	return s.numTimeSteps > 0 && s.tick >= s.numTimeSteps
}

// TogglePause flips the pause flag. Paused ticks touch nothing.
func (s *Simulator) TogglePause() {
	s.paused = !s.paused
	logrus.Infof("[tick %07d] paused=%t", s.tick, s.paused)
}

func (s *Simulator) Paused() bool        { return s.paused }
func (s *Simulator) Tick() int           { return s.tick }
func (s *Simulator) Metrics() *Metrics   { return s.metrics }
func (s *Simulator) Depot() *BusDepot    { return s.depot }
func (s *Simulator) Routes() []RoutePair { return s.routes }

// Trace returns the decision trace, nil when tracing is disabled.
func (s *Simulator) Trace() *trace.DeploymentTrace { return s.trace }

// Buses returns the buses currently on the road in deployment order.
func (s *Simulator) Buses() []*Bus {
	out := make([]*Bus, len(s.buses))
	for i, ab := range s.buses {
		out[i] = ab.bus
	}
	return out
}

func (s *Simulator) executeUpdate() {
	s.tick++
	s.metrics.Ticks++
	logrus.Debugf("[tick %07d] deploying buses", s.tick)

	for i := range s.timeSinceLast {
		if s.timeSinceLast[i] <= 0 {
			s.deploy(i)
			s.timeSinceLast[i] = s.startTimings[i]
		} else {
			s.timeSinceLast[i]--
		}
	}
	s.metrics.PeakActiveBuses = max(s.metrics.PeakActiveBuses, len(s.buses))

	logrus.Debugf("[tick %07d] updating %d buses", s.tick, len(s.buses))
	for i := len(s.buses) - 1; i >= 0; i-- {
		ab := s.buses[i]
		ab.bus.Update()
		if ab.bus.IsTripComplete() {
			s.retire(i)
			continue
		}
		s.visualizer.UpdateBus(ab.bus.GetBusData(), false)
		ab.bus.Report(s.report)
	}

	logrus.Debugf("[tick %07d] updating routes", s.tick)
	for _, r := range s.prototypeRoutes() {
		r.Update()
		s.visualizer.UpdateRoute(r.GetRouteData())
		r.Report(s.report)
	}
}

func (s *Simulator) strategyNow() StrategyType {
	if s.fixed != 0 {
		return s.fixed
	}
	return StrategyForHour(s.clock().Hour())
}

func (s *Simulator) deploy(i int) {
	pair := s.routes[i]
	s.depot.SetStrategy(s.strategyNow())
	name := strconv.Itoa(s.nextBusID)
	bus, err := s.depot.Generate(name, pair.Outbound, pair.Inbound, pair.Speed)
	if err != nil {
		s.metrics.DeployFailures++
		logrus.Warnf("[tick %07d] deploying bus on %s: %v", s.tick, pair.Outbound.Name(), err)
		return
	}
	s.nextBusID++
	s.buses = append(s.buses, activeBus{bus: bus, route: i, deployed: s.tick})
	s.metrics.BusesDeployed[bus.Type()]++
	if s.trace.Enabled() {
		s.trace.RecordDeployment(trace.DeploymentRecord{
			Tick:     s.tick,
			BusName:  name,
			Route:    pair.Outbound.Name(),
			Strategy: s.depot.Strategy().String(),
			Size:     bus.Type(),
			Capacity: bus.Capacity(),
		})
	}
}

// retire removes the bus at index i after its trip completed.
func (s *Simulator) retire(i int) {
	ab := s.buses[i]
	s.visualizer.UpdateBus(ab.bus.GetBusData(), true)
	s.metrics.recordRetirement(ab.bus)
	if s.trace.Enabled() {
		delivered, _ := ab.bus.Delivered()
		s.trace.RecordTrip(trace.TripRecord{
			Tick:         s.tick,
			BusName:      ab.bus.Name(),
			DeployedTick: ab.deployed,
			Delivered:    delivered,
		})
	}
	ab.bus.ClearObservers()
	s.buses = append(s.buses[:i], s.buses[i+1:]...)
	logrus.Infof("[tick %07d] bus %s completed its trip", s.tick, ab.bus.Name())
}

// prototypeRoutes lists outbound and inbound prototypes pair by pair.
func (s *Simulator) prototypeRoutes() []*Route {
	routes := make([]*Route, 0, 2*len(s.routes))
	for _, pair := range s.routes {
		routes = append(routes, pair.Outbound, pair.Inbound)
	}
	return routes
}

// ClearBusListeners removes every observer from every active bus.
func (s *Simulator) ClearBusListeners() {
	for _, ab := range s.buses {
		ab.bus.ClearObservers()
	}
}

// ClearStopListeners removes every observer from every stop.
func (s *Simulator) ClearStopListeners() {
	for _, r := range s.prototypeRoutes() {
		for _, stop := range r.Stops() {
			stop.ClearObservers()
		}
	}
}

// AddBusListener registers obs on the active bus named name.
// Returns false if no such bus is on the road.
func (s *Simulator) AddBusListener(name string, obs Observer[BusData]) bool {
	for _, ab := range s.buses {
		if ab.bus.Name() == name {
			ab.bus.RegisterObserver(obs)
			return true
		}
	}
	return false
}

// AddStopListener registers obs on the stop with the given id.
// Returns false if id is not a known stop.
func (s *Simulator) AddStopListener(id string, obs Observer[StopData]) bool {
	want, err := strconv.Atoi(id)
	if err != nil {
		return false
	}
	for _, r := range s.prototypeRoutes() {
		for _, stop := range r.Stops() {
			if stop.ID() == want {
				stop.RegisterObserver(obs)
				return true
			}
		}
	}
	return false
}
