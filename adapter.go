package stagekit

// EnterEvent is the payload delivered to OnEnter hooks.
type EnterEvent struct {
	State string
	Event Event
	Token uint64
}

// ExitEvent is the payload delivered to OnExit hooks.
type ExitEvent struct {
	State string
	Event Event
}

// TransitionEvent is the payload delivered to OnTransition hooks.
type TransitionEvent struct {
	From  string
	To    string
	Event Event
}

// TickEvent is the payload delivered to OnTick hooks.
type TickEvent struct {
	DT float64
}

// Hooks is the lifecycle callback set an adapter exposes to the machine.
// Every field is optional; nil hooks are skipped. Hooks of the same kind
// fire in adapter registration order, and the state's own lifecycle
// callback always runs before the adapter hooks of the same phase.
//
// The engine does not recover panics raised inside hooks; they propagate
// to the caller of the machine operation that triggered them.
type Hooks[C any] struct {
	// Info carries optional metadata for registries and diagnostics.
	// It has no behavioral effect on the engine.
	Info Info

	OnStart      func()
	OnStop       func()
	OnEnter      func(EnterEvent)
	OnExit       func(ExitEvent)
	OnTransition func(TransitionEvent)
	OnTick       func(TickEvent)
}

// Info describes an adapter for introspection and logging.
type Info struct {
	Name         string
	Version      string
	Capabilities []string
}

// Factory realizes an adapter's hook set for a machine instance. The
// machine invokes each factory exactly once, synchronously, during
// construction; factories may read and write the machine context and close
// over the machine to call Send or Go later. Realization order equals
// registration order equals hook invocation order.
type Factory[C any] func(m *Machine[C]) Hooks[C]

// Describe wraps a factory so its realized hook set carries the given
// metadata. Behavior is unchanged; the metadata only surfaces through
// Machine.Adapters.
func Describe[C any](info Info, factory Factory[C]) Factory[C] {
	return func(m *Machine[C]) Hooks[C] {
		hooks := factory(m)
		hooks.Info = info
		return hooks
	}
}
