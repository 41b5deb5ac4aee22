package server

// lifecycleState is the server's single source of truth for "where in its
// life" the server is. Collapsing the start/shutdown request flags into one
// enumerated state makes illegal combinations (e.g. shut down but never
// started) unrepresentable.
type lifecycleState int

const (
	stateCreated lifecycleState = iota
	stateStarted
	stateShuttingDown
	stateTerminated
)

func (s lifecycleState) String() string {
	switch s {
	case stateCreated:
		return "created"
	case stateStarted:
		return "started"
	case stateShuttingDown:
		return "shutting-down"
	case stateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}
