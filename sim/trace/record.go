// Package trace records bus deployment and trip decisions for post-run analysis.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// DeploymentRecord captures a single depot decision.
type DeploymentRecord struct {
	Tick     int
	BusName  string
	Route    string // outbound route name
	Strategy string // "A".."D"
	Size     string // "Small", "Medium" or "Large"
	Capacity int
}

// TripRecord captures a bus retiring after a completed trip.
type TripRecord struct {
	Tick         int
	BusName      string
	DeployedTick int
	Delivered    int // passengers carried to their destination
}

// Duration returns the number of ticks between deployment and retirement.
func (r TripRecord) Duration() int {
	return r.Tick - r.DeployedTick
}
