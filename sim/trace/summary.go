package trace

// TraceSummary aggregates statistics from a DeploymentTrace.
type TraceSummary struct {
	TotalDeployments     int
	CompletedTrips       int
	TotalCapacity        int
	MeanTripTicks        float64
	MaxTripTicks         int
	UniqueRoutes         int
	SizeDistribution     map[string]int // size class → buses deployed
	StrategyDistribution map[string]int // strategy → buses deployed
}

// Summarize computes aggregate statistics from a DeploymentTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(dt *DeploymentTrace) *TraceSummary {
	summary := &TraceSummary{
		SizeDistribution:     make(map[string]int),
		StrategyDistribution: make(map[string]int),
	}
	if dt == nil {
		return summary
	}

	routes := make(map[string]bool)
	summary.TotalDeployments = len(dt.Deployments)
	for _, d := range dt.Deployments {
		summary.SizeDistribution[d.Size]++
		summary.StrategyDistribution[d.Strategy]++
		summary.TotalCapacity += d.Capacity
		routes[d.Route] = true
	}
	summary.UniqueRoutes = len(routes)

	if len(dt.Trips) > 0 {
		total := 0
		for _, r := range dt.Trips {
			d := r.Duration()
			total += d
			if d > summary.MaxTripTicks {
				summary.MaxTripTicks = d
			}
		}
		summary.CompletedTrips = len(dt.Trips)
		summary.MeanTripTicks = float64(total) / float64(len(dt.Trips))
	}

	return summary
}
