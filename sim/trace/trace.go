package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing.
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures every deployment and retirement.
	TraceLevelDecisions TraceLevel = "decisions"
)

var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// DeploymentTrace collects decision records during a run.
type DeploymentTrace struct {
	Level       TraceLevel
	Deployments []DeploymentRecord
	Trips       []TripRecord
}

// NewDeploymentTrace creates a DeploymentTrace ready for recording.
func NewDeploymentTrace(level TraceLevel) *DeploymentTrace {
	return &DeploymentTrace{
		Level:       level,
		Deployments: make([]DeploymentRecord, 0),
		Trips:       make([]TripRecord, 0),
	}
}

// Enabled reports whether records should be kept. Safe on a nil trace.
func (dt *DeploymentTrace) Enabled() bool {
	return dt != nil && dt.Level == TraceLevelDecisions
}

// RecordDeployment appends a deployment record.
func (dt *DeploymentTrace) RecordDeployment(record DeploymentRecord) {
	dt.Deployments = append(dt.Deployments, record)
}

// RecordTrip appends a trip record.
func (dt *DeploymentTrace) RecordTrip(record TripRecord) {
	dt.Trips = append(dt.Trips, record)
}
