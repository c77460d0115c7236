package stagekit

import (
	"fmt"
	"log/slog"
)

// Config describes a machine to New.
type Config[C any] struct {
	// ID is a diagnostic label used in logs. Optional.
	ID string

	// Initial is the state entered on Start. Required; must be a key of
	// States.
	Initial string

	// States is the fixed state set. Required.
	States map[string]*State[C]

	// Context is the initial shared context. Defaults to new(C).
	Context *C

	// Adapters are realized in order during construction; that order is
	// also the hook invocation order for the machine's lifetime.
	Adapters []Factory[C]

	// OnTransition is invoked after every completed transition, before the
	// adapters' OnTransition hooks.
	OnTransition func(from, to string, evt Event, ctx *C)

	// Log enables an info-level log line per transition.
	Log bool

	// Logger overrides the default slog logger.
	Logger *slog.Logger
}

// Machine is the stateful core of the runtime. It owns the single source
// of truth for the current state and drives all transitions and lifecycle
// hooks deterministically.
//
// A Machine is not safe for concurrent use; drive it from one goroutine,
// or route all interaction through a single driving adapter.
type Machine[C any] struct {
	id           string
	initial      string
	states       map[string]*State[C]
	current      string
	token        uint64
	running      bool
	ctx          *C
	adapters     []Hooks[C]
	onTransition func(from, to string, evt Event, ctx *C)
	log          bool
	logger       *slog.Logger
}

// New constructs a machine from cfg. It fails fast when the configuration
// cannot produce a valid machine: a missing state map or an initial state
// absent from it.
func New[C any](cfg Config[C]) (*Machine[C], error) {
	if len(cfg.States) == 0 {
		return nil, NewConfigError("Machine", "no states defined")
	}
	if cfg.Initial == "" {
		return nil, NewConfigError("Machine", "no initial state defined")
	}
	if _, ok := cfg.States[cfg.Initial]; !ok {
		return nil, NewConfigError("Machine", fmt.Sprintf("initial state '%s' does not exist", cfg.Initial))
	}
	for name, state := range cfg.States {
		if state == nil {
			return nil, NewConfigError("Machine", fmt.Sprintf("state '%s' is nil", name))
		}
	}

	ctx := cfg.Context
	if ctx == nil {
		ctx = new(C)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := &Machine[C]{
		id:           cfg.ID,
		initial:      cfg.Initial,
		states:       cfg.States,
		ctx:          ctx,
		onTransition: cfg.OnTransition,
		log:          cfg.Log,
		logger:       logger,
	}

	for _, factory := range cfg.Adapters {
		m.adapters = append(m.adapters, factory(m))
	}

	return m, nil
}

// Start begins execution and enters the initial state. It is a no-op when
// the machine is already running. The optional event (default @START) is
// passed to the entry sequence; no transition hooks fire for the initial
// entry since there is no state to leave.
func (m *Machine[C]) Start(evt ...Event) {
	if m.running {
		return
	}
	e := pickEvent(evt, EventStart)

	m.running = true
	for i := range m.adapters {
		if fn := m.adapters[i].OnStart; fn != nil {
			fn()
		}
	}
	m.enter(m.initial, e)
}

// Stop halts execution. It is a no-op when the machine is not running.
// OnStop hooks fire first, giving each adapter exactly one chance to
// release background resources, then the current state's exit sequence
// runs with the optional event (default @STOP). The current state remains
// queryable after Stop; only Started flips to false.
func (m *Machine[C]) Stop(evt ...Event) {
	if !m.running {
		return
	}
	e := pickEvent(evt, EventStop)

	for i := range m.adapters {
		if fn := m.adapters[i].OnStop; fn != nil {
			fn()
		}
	}
	m.exit(e)
	m.running = false
}

// Send dispatches an event of the given type through the current state's
// event table. Unhandled event types are ignored; not every state needs to
// handle every event.
func (m *Machine[C]) Send(eventType string, data any) {
	m.SendEvent(NewEvent(eventType, data))
}

// SendEvent dispatches a caller-constructed event. The dispatch runs to
// completion synchronously: table lookup, resolver evaluation, guard,
// action, then the transition itself.
func (m *Machine[C]) SendEvent(evt Event) {
	if !m.running {
		return
	}
	e := evt.normalize()

	rule, ok := m.states[m.current].On[e.Type]
	if !ok {
		return
	}

	tr := rule.resolve(m.ctx, e, m.api())
	if tr.Target == "" {
		// Malformed resolver result; swallowed by policy.
		return
	}
	if tr.Guard != nil && !tr.Guard(m.ctx, e) {
		return
	}
	if tr.Action != nil {
		tr.Action(m.ctx, e, m.api())
	}
	m.transition(tr.Target, e)
}

// Tick forwards dt to the current state's Tick callback, then notifies
// adapter OnTick hooks. Adapters observing OnTick see context mutations
// made by the state's callback.
func (m *Machine[C]) Tick(dt float64) {
	if !m.running {
		return
	}
	if fn := m.states[m.current].Tick; fn != nil {
		fn(dt, m.ctx, m.api())
	}
	e := TickEvent{DT: dt}
	for i := range m.adapters {
		if fn := m.adapters[i].OnTick; fn != nil {
			fn(e)
		}
	}
}

// Go forces a direct transition to target, bypassing event-table lookup,
// guards and actions. It exists as an escape hatch; prefer expressing
// state changes as events through Send. Ignored when the machine is not
// running.
func (m *Machine[C]) Go(target string, evt ...Event) {
	if !m.running {
		return
	}
	m.transition(target, pickEvent(evt, EventGo))
}

// ID returns the machine's diagnostic label.
func (m *Machine[C]) ID() string { return m.id }

// State returns the current state name, or "" before the first Start.
// The value remains queryable after Stop.
func (m *Machine[C]) State() string { return m.current }

// Started reports whether the machine is running.
func (m *Machine[C]) Started() bool { return m.running }

// Token returns the machine's live entry token. The token increments by
// exactly one on every state entry, including re-entry of a previously
// visited state, and never changes on no-op transitions.
func (m *Machine[C]) Token() uint64 { return m.token }

// IsCurrent reports whether token equals the machine's live token.
func (m *Machine[C]) IsCurrent(token uint64) bool { return token == m.token }

// Context returns the shared context. All state callbacks and adapters see
// the same value; the engine never interprets its contents.
func (m *Machine[C]) Context() *C { return m.ctx }

// Adapters returns the metadata of the realized adapters, in registration
// order. Adapters without Describe metadata yield zero-value entries.
func (m *Machine[C]) Adapters() []Info {
	infos := make([]Info, len(m.adapters))
	for i := range m.adapters {
		infos[i] = m.adapters[i].Info
	}
	return infos
}

// transition is the core transition algorithm. An unknown target is logged
// and aborted; a target equal to the current state is a complete no-op
// with no hooks fired. Otherwise the exit and enter sequences run, then
// the transition notifications.
func (m *Machine[C]) transition(target string, evt Event) {
	if _, ok := m.states[target]; !ok {
		m.logger.Warn("transition target not found",
			"machine", m.id, "target", target, "event", evt.Type)
		return
	}
	if target == m.current {
		return
	}

	from := m.current
	m.exit(evt)
	m.enter(target, evt)

	if m.onTransition != nil {
		m.onTransition(from, target, evt, m.ctx)
	}
	e := TransitionEvent{From: from, To: target, Event: evt}
	for i := range m.adapters {
		if fn := m.adapters[i].OnTransition; fn != nil {
			fn(e)
		}
	}
	if m.log {
		m.logger.Info("transition",
			"machine", m.id, "from", from, "to", target, "event", evt.Type)
	}
}

// enter performs the entry sequence: advance the token, run the state's
// Enter callback with an API bound to the new token, then fire OnEnter
// hooks.
func (m *Machine[C]) enter(state string, evt Event) {
	m.current = state
	m.token++

	if fn := m.states[state].Enter; fn != nil {
		fn(m.ctx, evt, &API[C]{machine: m, token: m.token, bound: true})
	}
	e := EnterEvent{State: state, Event: evt, Token: m.token}
	for i := range m.adapters {
		if fn := m.adapters[i].OnEnter; fn != nil {
			fn(e)
		}
	}
}

// exit performs the exit sequence: run the state's Exit callback, then
// fire OnExit hooks.
func (m *Machine[C]) exit(evt Event) {
	state := m.current
	if fn := m.states[state].Exit; fn != nil {
		fn(m.ctx, evt, m.api())
	}
	e := ExitEvent{State: state, Event: evt}
	for i := range m.adapters {
		if fn := m.adapters[i].OnExit; fn != nil {
			fn(e)
		}
	}
}

// api creates a facade tracking the machine's live token.
func (m *Machine[C]) api() *API[C] {
	return &API[C]{machine: m}
}
