package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transit-sim/transit-sim/sim/internal/testutil"
)

func generateSizes(t *testing.T, d *BusDepot, n int) []string {
	t.Helper()
	out := newTestRoute(t, "out", 0, []float64{1})
	in := newTestRoute(t, "in", 2, []float64{1})
	sizes := make([]string, n)
	for i := range sizes {
		bus, err := d.Generate("b", out, in, 1)
		require.NoError(t, err)
		sizes[i] = bus.Type()
	}
	return sizes
}

func TestBusDepot_StrategySequences(t *testing.T) {
	tests := []struct {
		strategy StrategyType
		want     []string
	}{
		{StrategyA, []string{"Small", "Medium", "Small", "Medium", "Small"}},
		{StrategyB, []string{"Medium", "Large", "Medium", "Large", "Medium"}},
		{StrategyC, []string{"Small", "Medium", "Large", "Small", "Medium"}},
		{StrategyD, []string{"Small", "Small", "Small", "Small", "Small"}},
	}
	for _, tc := range tests {
		t.Run(tc.strategy.String(), func(t *testing.T) {
			// GIVEN a fresh depot set to the strategy
			d := NewBusDepot(NewDepotState(), nil, nil)
			d.SetStrategy(tc.strategy)

			// WHEN it generates five buses
			// THEN the sizes follow the strategy's cycle
			assert.Equal(t, tc.want, generateSizes(t, d, 5))
		})
	}
}

func TestBusDepot_DefaultsToD(t *testing.T) {
	d := NewBusDepot(nil, nil, nil)
	assert.Equal(t, StrategyD, d.Strategy())
	assert.NotNil(t, d.State())
}

func TestBusDepot_UnknownStrategyFallsBackToD(t *testing.T) {
	d := NewBusDepot(NewDepotState(), nil, nil)
	d.SetStrategy(StrategyType(42))

	assert.Equal(t, StrategyD, d.Strategy())
	assert.Equal(t, []string{"Small", "Small"}, generateSizes(t, d, 2))
}

func TestBusDepot_CountersSurviveStrategySwitch(t *testing.T) {
	// GIVEN a depot that built one bus with C
	d := NewBusDepot(NewDepotState(), nil, nil)
	d.SetStrategy(StrategyC)
	generateSizes(t, d, 1)

	// WHEN it switches to A and back to C
	d.SetStrategy(StrategyA)
	assert.Equal(t, []string{"Small"}, generateSizes(t, d, 1))
	d.SetStrategy(StrategyC)

	// THEN C resumes where it left off
	assert.Equal(t, []string{"Medium", "Large"}, generateSizes(t, d, 2))
	assert.Equal(t, 0, d.State().Counter(StrategyC))
	assert.Equal(t, 1, d.State().Counter(StrategyA))
}

func TestBusDepot_SeparateStatesAreIndependent(t *testing.T) {
	a := NewBusDepot(NewDepotState(), nil, nil)
	b := NewBusDepot(NewDepotState(), nil, nil)
	a.SetStrategy(StrategyA)
	b.SetStrategy(StrategyA)
	generateSizes(t, a, 1)

	assert.Equal(t, []string{"Small"}, generateSizes(t, b, 1))
}

func TestBusDepot_BusesWriteToDepotLog(t *testing.T) {
	// GIVEN a depot with a log writer
	log := &testutil.MemoryLog{}
	d := NewBusDepot(NewDepotState(), nil, log)
	out := newTestRoute(t, "out", 0, []float64{0.5})
	in := newTestRoute(t, "in", 2, []float64{0.5})
	bus, err := d.Generate("9", out, in, 1)
	require.NoError(t, err)

	// WHEN the bus completes its trip
	for bus.Move() {
	}

	// THEN its trip record lands in the depot's log
	require.Len(t, log.For(BusDataFile), 1)
	assert.Equal(t, "9", log.For(BusDataFile)[0].Fields[1])
}

func TestNewStrategy_Type(t *testing.T) {
	state := NewDepotState()
	assert.Equal(t, StrategyB, NewStrategy(StrategyB, state, BusFactory{}).Type())
	assert.Equal(t, StrategyD, NewStrategy(0, state, BusFactory{}).Type())
}

func TestStrategyForHour(t *testing.T) {
	tests := []struct {
		hour int
		want StrategyType
	}{
		{0, StrategyD}, {5, StrategyD}, {6, StrategyA}, {7, StrategyA},
		{8, StrategyB}, {14, StrategyB}, {15, StrategyC}, {19, StrategyC},
		{20, StrategyD}, {23, StrategyD},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, StrategyForHour(tc.hour), "hour %d", tc.hour)
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		name   string
		want   StrategyType
		wantOK bool
	}{
		{"A", StrategyA, true},
		{"D", StrategyD, true},
		{"", 0, true},
		{StrategyAuto, 0, true},
		{"E", 0, false},
		{"a", 0, false},
	}
	for _, tc := range tests {
		got, ok := ParseStrategy(tc.name)
		assert.Equal(t, tc.wantOK, ok, "%q", tc.name)
		assert.Equal(t, tc.want, got, "%q", tc.name)
	}
	assert.Equal(t, "StrategyType(9)", StrategyType(9).String())
}
