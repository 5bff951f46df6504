package service

// State is where a load is in its lifecycle
// Idle -> SchemaReady -> Streaming -> Committed | Aborted
type State uint8

// States
const (
	Idle State = iota
	SchemaReady
	Streaming
	Committed
	Aborted
)

var stateNames = [...]string{"idle", "schema_ready", "streaming", "committed", "aborted"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Terminal reports whether no further transition can happen
func (s State) Terminal() bool { return s == Committed || s == Aborted }
