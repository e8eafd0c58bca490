package profile

// State is the lifecycle state of a Controller.
type State int

const (
	// StateIdle means no load has been requested yet.
	StateIdle State = iota
	// StateLoading means a request for the current language is in flight.
	StateLoading
	// StateReady means the last request succeeded and its document is installed.
	StateReady
	// StateErrored means the last request failed; the fallback document is installed
	// and a retry is scheduled.
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Settled reports whether the state is terminal for the current request.
func (s State) Settled() bool {
	return s == StateReady || s == StateErrored
}
