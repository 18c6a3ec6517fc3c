package pipeline

// State is a step of the controller's state machine:
// Idle → Parsing → Planning → (Translating → Merging → Persisting)* → Finalized.
type State int

const (
	StateIdle State = iota
	StateParsing
	StatePlanning
	StateTranslating
	StateMerging
	StatePersisting
	StateFinalized
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateParsing:
		return "parsing"
	case StatePlanning:
		return "planning"
	case StateTranslating:
		return "translating"
	case StateMerging:
		return "merging"
	case StatePersisting:
		return "persisting"
	case StateFinalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// Progress is delivered to Config.OnProgress on every transition.
type Progress struct {
	State State
	// Batch is the zero-based batch index for per-batch states, -1 otherwise.
	Batch        int
	TotalBatches int
	// Translated counts accumulated blocks with a non-empty translation.
	Translated  int
	TotalBlocks int
	// Err carries the failure of the current step, if any: a chat call
	// failure while Merging, a persist failure while Persisting, or the
	// run-terminating error at Finalized.
	Err error
}
