// Tracks run-wide statistics: buses deployed per size, trips completed and
// passengers delivered.

package sim

import (
	"fmt"
	"io"
	"sort"
)

// Metrics aggregates statistics about the simulation for final reporting.
// Delivery figures are collected when a bus retires.
type Metrics struct {
	Ticks               int            // ticks executed (paused ticks excluded)
	BusesDeployed       map[string]int // size class -> buses built
	TripsCompleted      int            // buses retired after a full trip
	PassengersDelivered int            // passengers dropped at their destination by retired buses
	TotalWait           int            // sum of TotalWait over delivered passengers
	PeakActiveBuses     int            // max buses on the road at once
	DeployFailures      int            // depot errors, the deployment was skipped
}

// NewMetrics returns zeroed metrics.
func NewMetrics() *Metrics {
	return &Metrics{BusesDeployed: make(map[string]int)}
}

// MeanWait returns the mean total wait of delivered passengers, 0 if none.
func (m *Metrics) MeanWait() float64 {
	if m.PassengersDelivered == 0 {
		return 0
	}
	return float64(m.TotalWait) / float64(m.PassengersDelivered)
}

func (m *Metrics) recordRetirement(b *Bus) {
	count, wait := b.Delivered()
	m.TripsCompleted++
	m.PassengersDelivered += count
	m.TotalWait += wait
}

// Print writes aggregated metrics at the end of the simulation.
func (m *Metrics) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Simulation Metrics ===")
	fmt.Fprintf(w, "Ticks                : %d\n", m.Ticks)
	sizes := make([]string, 0, len(m.BusesDeployed))
	for size := range m.BusesDeployed {
		sizes = append(sizes, size)
	}
	sort.Strings(sizes)
	for _, size := range sizes {
		fmt.Fprintf(w, "Buses Deployed (%-6s): %d\n", size, m.BusesDeployed[size])
	}
	fmt.Fprintf(w, "Peak Active Buses    : %d\n", m.PeakActiveBuses)
	fmt.Fprintf(w, "Trips Completed      : %d\n", m.TripsCompleted)
	fmt.Fprintf(w, "Passengers Delivered : %d\n", m.PassengersDelivered)
	if m.PassengersDelivered > 0 {
		fmt.Fprintf(w, "Average Total Wait   : %.2f ticks\n", m.MeanWait())
	}
	if m.DeployFailures > 0 {
		fmt.Fprintf(w, "Deploy Failures      : %d\n", m.DeployFailures)
	}
}
