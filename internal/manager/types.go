package manager

// State is the lifecycle of a Manager. It is ready from construction until
// Close, after which /readyz reports it as not ready.
type State string

const (
	StateReady  State = "ready"
	StateClosed State = "closed"
)
