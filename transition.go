package stagekit

// Guard is a predicate evaluated before a transition commits. Returning
// false vetoes the transition; no action runs and no state change occurs.
type Guard[C any] func(ctx *C, evt Event) bool

// Action performs side effects during transitions and state lifecycle
// phases. Actions receive the shared context, the triggering event, and the
// restricted API facade for safe re-entry into the machine.
type Action[C any] func(ctx *C, evt Event, api *API[C])

// TickFunc is a per-state frame callback driven by Machine.Tick.
type TickFunc[C any] func(dt float64, ctx *C, api *API[C])

// Rule is one entry in a state's event table: either a Transition, or a
// Resolver evaluated lazily against the current context and event. Rules
// are normalized to the Transition form on lookup so the transition
// algorithm has a single code path.
type Rule[C any] interface {
	resolve(ctx *C, evt Event, api *API[C]) Transition[C]
}

// Transition is the normalized form of a rule: a target state with an
// optional guard and action. Transitions are evaluated, never stored; the
// engine keeps no transition history.
type Transition[C any] struct {
	Target string
	Guard  Guard[C]
	Action Action[C]
}

func (t Transition[C]) resolve(*C, Event, *API[C]) Transition[C] { return t }

// To creates a direct transition to the named state.
func To[C any](target string) Transition[C] {
	return Transition[C]{Target: target}
}

// When attaches a guard condition to the transition.
func (t Transition[C]) When(guard Guard[C]) Transition[C] {
	t.Guard = guard
	return t
}

// Do attaches an action to the transition. The action runs after the guard
// passes and before the state change.
func (t Transition[C]) Do(action Action[C]) Transition[C] {
	t.Action = action
	return t
}

// Resolver computes a transition at dispatch time. Returning a transition
// with an empty target aborts the dispatch silently.
type Resolver[C any] func(ctx *C, evt Event, api *API[C]) Transition[C]

func (r Resolver[C]) resolve(ctx *C, evt Event, api *API[C]) Transition[C] {
	if r == nil {
		return Transition[C]{}
	}
	return r(ctx, evt, api)
}
