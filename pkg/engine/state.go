package engine

// State is the phase of frame production an engine is in.
type State int

const (
	Idle State = iota
	Traversing
	Diffing
	LayingOut
	Patching
	Emitted
)

var stateNames = [...]string{"idle", "traversing", "diffing", "laying-out", "patching", "emitted"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}
