package stagekit

// State declares the lifecycle callbacks and event-routing table of a
// single named state. A State is a pure declaration owned by the machine's
// state map for its whole lifetime; the full state set is fixed at
// construction and states are never created or destroyed at runtime.
//
// All fields are optional. A state with no On table simply ignores every
// event sent while it is current.
type State[C any] struct {
	Enter Action[C]
	Exit  Action[C]
	Tick  TickFunc[C]
	On    map[string]Rule[C]
}
