package sim

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transit-sim/transit-sim/sim/internal/testutil"
	"github.com/transit-sim/transit-sim/sim/trace"
)

// recordingVisualizer keeps every update pushed by the simulator.
type recordingVisualizer struct {
	routes  []RouteData
	buses   []BusData
	deleted []string
}

func (v *recordingVisualizer) UpdateRoute(data RouteData) { v.routes = append(v.routes, data) }

func (v *recordingVisualizer) UpdateBus(data BusData, deleted bool) {
	if deleted {
		v.deleted = append(v.deleted, data.ID)
		return
	}
	v.buses = append(v.buses, data)
}

// shortPair is a 2-stop outbound and 2-stop inbound line with unit segments.
// A speed-1 bus completes it on its fourth move.
func shortPair(t *testing.T, firstStop, timing int) RoutePair {
	t.Helper()
	return RoutePair{
		Outbound:       newTestRoute(t, "out", firstStop, []float64{1}),
		Inbound:        newTestRoute(t, "in", firstStop+2, []float64{1}),
		BusStartTiming: timing,
		Speed:          1,
	}
}

func newTestSim(t *testing.T, cfg SimulatorConfig) *Simulator {
	t.Helper()
	s, err := NewSimulator(cfg, NewPartitionedRNG(NewSimulationKey(42)))
	require.NoError(t, err)
	return s
}

func TestNewSimulator_Errors(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(1))

	_, err := NewSimulator(SimulatorConfig{Routes: []RoutePair{shortPair(t, 0, 1)}, Strategy: "Q"}, rng)
	assert.Error(t, err)

	_, err = NewSimulator(SimulatorConfig{}, rng)
	assert.Error(t, err)
}

func TestSimulator_UpdateBeforeStart(t *testing.T) {
	s := newTestSim(t, SimulatorConfig{Routes: []RoutePair{shortPair(t, 0, 1)}})

	assert.False(t, s.Update())
	assert.Equal(t, 0, s.Tick())
}

func TestSimulator_Start_TimingCountMismatch(t *testing.T) {
	s := newTestSim(t, SimulatorConfig{Routes: []RoutePair{shortPair(t, 0, 1)}})

	assert.Error(t, s.Start([]int{1, 2}, 0))
}

func TestSimulator_Start_PushesRoutes(t *testing.T) {
	vis := &recordingVisualizer{}
	var report strings.Builder
	s := newTestSim(t, SimulatorConfig{Routes: []RoutePair{shortPair(t, 0, 1)}, Visualizer: vis, Report: &report})

	require.NoError(t, s.Start(nil, 0))

	require.Len(t, vis.routes, 2)
	assert.Equal(t, "out", vis.routes[0].ID)
	assert.Equal(t, "in", vis.routes[1].ID)
	assert.Contains(t, report.String(), "Name: out")
}

func TestSimulator_DeploymentCadence(t *testing.T) {
	// GIVEN a route deploying with a start timing of 3
	s := newTestSim(t, SimulatorConfig{Routes: []RoutePair{shortPair(t, 0, 3)}, Strategy: "D"})
	require.NoError(t, s.Start(nil, 0))

	// WHEN nine ticks run
	var deployedAt []int
	deployed := 0
	for i := 0; i < 9; i++ {
		require.True(t, s.Update())
		if s.Metrics().BusesDeployed["Small"] > deployed {
			deployed = s.Metrics().BusesDeployed["Small"]
			deployedAt = append(deployedAt, s.Tick())
		}
	}

	// THEN a bus leaves on the first tick and then after every countdown
	assert.Equal(t, []int{1, 5, 9}, deployedAt)
}

func TestSimulator_OverrideTimings(t *testing.T) {
	s := newTestSim(t, SimulatorConfig{Routes: []RoutePair{shortPair(t, 0, 100)}, Strategy: "D"})
	require.NoError(t, s.Start([]int{0}, 3))

	for !s.Done() {
		s.Update()
	}

	assert.Equal(t, 3, s.Tick())
	assert.Equal(t, 3, s.Metrics().BusesDeployed["Small"])
}

func TestSimulator_RetiresCompletedBus(t *testing.T) {
	// GIVEN a single deployment on a line a bus finishes in four moves
	vis := &recordingVisualizer{}
	tr := trace.NewDeploymentTrace(trace.TraceLevelDecisions)
	log := &testutil.MemoryLog{}
	s := newTestSim(t, SimulatorConfig{
		Routes: []RoutePair{shortPair(t, 0, 100)}, Strategy: "C", Visualizer: vis, Trace: tr, Log: log,
	})
	require.NoError(t, s.Start(nil, 0))

	// WHEN three ticks run the bus is still on the road
	for i := 0; i < 3; i++ {
		s.Update()
	}
	require.Len(t, s.Buses(), 1)
	assert.Empty(t, vis.deleted)

	// WHEN the fourth tick runs
	s.Update()

	// THEN the bus is retired once, reported deleted and traced
	assert.Empty(t, s.Buses())
	assert.Equal(t, []string{"0"}, vis.deleted)
	assert.Equal(t, 1, s.Metrics().TripsCompleted)
	assert.Equal(t, 1, s.Metrics().PeakActiveBuses)
	require.Len(t, tr.Deployments, 1)
	assert.Equal(t, trace.DeploymentRecord{Tick: 1, BusName: "0", Route: "out", Strategy: "C", Size: "Small", Capacity: 30}, tr.Deployments[0])
	require.Len(t, tr.Trips, 1)
	assert.Equal(t, 4, tr.Trips[0].Tick)
	assert.Equal(t, 1, tr.Trips[0].DeployedTick)
	assert.Len(t, log.For(BusDataFile), 1)
}

func TestSimulator_FixedStrategyC_CyclesSizes(t *testing.T) {
	tr := trace.NewDeploymentTrace(trace.TraceLevelDecisions)
	s := newTestSim(t, SimulatorConfig{Routes: []RoutePair{shortPair(t, 0, 0)}, Strategy: "C", Trace: tr})
	require.NoError(t, s.Start(nil, 0))

	for i := 0; i < 4; i++ {
		s.Update()
	}

	var sizes []string
	for _, d := range tr.Deployments {
		sizes = append(sizes, d.Size)
	}
	assert.Equal(t, []string{"Small", "Medium", "Large", "Small"}, sizes)
}

func TestSimulator_AutoStrategyFollowsClock(t *testing.T) {
	// GIVEN a clock that moves from 7:00 to 9:00
	now := time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC)
	s := newTestSim(t, SimulatorConfig{
		Routes: []RoutePair{shortPair(t, 0, 0)},
		Clock:  func() time.Time { return now },
	})
	require.NoError(t, s.Start(nil, 0))

	// WHEN a bus is deployed in each period
	s.Update()
	assert.Equal(t, StrategyA, s.Depot().Strategy())
	now = now.Add(2 * time.Hour)
	s.Update()

	// THEN the depot follows the hour of day
	assert.Equal(t, StrategyB, s.Depot().Strategy())
	assert.Equal(t, 1, s.Metrics().BusesDeployed["Small"])
	assert.Equal(t, 1, s.Metrics().BusesDeployed["Medium"])
}

func TestSimulator_PauseSkipsTicks(t *testing.T) {
	s := newTestSim(t, SimulatorConfig{Routes: []RoutePair{shortPair(t, 0, 1)}})
	require.NoError(t, s.Start(nil, 0))
	s.Update()

	s.TogglePause()
	assert.True(t, s.Paused())
	assert.False(t, s.Update())
	assert.Equal(t, 1, s.Tick())

	s.TogglePause()
	assert.True(t, s.Update())
	assert.Equal(t, 2, s.Tick())
}

func TestSimulator_Listeners(t *testing.T) {
	// GIVEN a simulator with one bus on the road
	s := newTestSim(t, SimulatorConfig{Routes: []RoutePair{shortPair(t, 0, 100)}})
	require.NoError(t, s.Start(nil, 0))
	s.Update()

	// WHEN listeners are attached
	busRec := &testutil.RecordingObserver[BusData]{}
	stopRec := &testutil.RecordingObserver[StopData]{}
	assert.True(t, s.AddBusListener("0", busRec))
	assert.False(t, s.AddBusListener("9", busRec))
	assert.True(t, s.AddStopListener("3", stopRec))
	assert.False(t, s.AddStopListener("99", stopRec))
	assert.False(t, s.AddStopListener("three", stopRec))
	s.Update()

	// THEN each receives one snapshot per tick
	assert.Len(t, busRec.Received, 1)
	assert.Equal(t, "0", busRec.Last().ID)
	assert.Len(t, stopRec.Received, 1)
	assert.Equal(t, "3", stopRec.Last().ID)

	// WHEN listeners are cleared
	s.ClearBusListeners()
	s.ClearStopListeners()
	s.Update()

	// THEN nothing more arrives
	assert.Len(t, busRec.Received, 1)
	assert.Len(t, stopRec.Received, 1)
}

func TestSimulator_MultipleRoutesShareNothing(t *testing.T) {
	s := newTestSim(t, SimulatorConfig{
		Routes:   []RoutePair{shortPair(t, 0, 100), shortPair(t, 10, 100)},
		Strategy: "A",
	})
	require.NoError(t, s.Start(nil, 0))

	s.Update()

	buses := s.Buses()
	require.Len(t, buses, 2)
	assert.Equal(t, "Small", buses[0].Type())
	assert.Equal(t, "Medium", buses[1].Type())
	assert.Equal(t, 0, buses[0].Outbound().Stops()[0].ID())
	assert.Equal(t, 10, buses[1].Outbound().Stops()[0].ID())
	assert.Len(t, s.Routes(), 2)
	assert.Nil(t, s.Trace())
}

func TestSimulator_PassengersRideEndToEnd(t *testing.T) {
	// GIVEN a line whose first stop always produces a passenger
	stops := newTestStops(0, 2)
	gen, err := NewRandomPassengerGenerator([]float64{1, 0}, stops, rand42(), &IDSource{})
	require.NoError(t, err)
	out, err := NewRoute("out", stops, []float64{1}, gen)
	require.NoError(t, err)
	pair := RoutePair{Outbound: out, Inbound: newTestRoute(t, "in", 2, []float64{1}), BusStartTiming: 1, Speed: 1}
	log := &testutil.MemoryLog{}
	s := newTestSim(t, SimulatorConfig{Routes: []RoutePair{pair}, Strategy: "D", Log: log})
	require.NoError(t, s.Start(nil, 20))

	// WHEN the run completes
	for !s.Done() {
		s.Update()
	}

	// THEN retired buses delivered passengers and every delivery was logged
	m := s.Metrics()
	assert.Positive(t, m.TripsCompleted)
	assert.Positive(t, m.PassengersDelivered)
	assert.GreaterOrEqual(t, len(log.For(PassengerDataFile)), m.PassengersDelivered)
	assert.Equal(t, m.TripsCompleted, len(log.For(BusDataFile)))
	assert.Positive(t, m.MeanWait())
}

func rand42() *rand.Rand {
	return rand.New(rand.NewSource(42))
}
