package stagekit

import (
	"fmt"
	"log/slog"
)

// Builder provides a fluent interface for assembling a Config. Each State
// call adds a state and selects it; subsequent On/OnEnter/OnExit/OnTick
// calls configure the selected state.
type Builder[C any] struct {
	cfg      Config[C]
	selected string
	err      error
}

// NewBuilder creates a builder for a machine with the given diagnostic id.
func NewBuilder[C any](id string) *Builder[C] {
	return &Builder[C]{
		cfg: Config[C]{
			ID:     id,
			States: make(map[string]*State[C]),
		},
	}
}

// State adds a state and selects it for configuration. Adding the same
// state twice is a configuration error reported by Build.
func (b *Builder[C]) State(name string) *Builder[C] {
	if _, exists := b.cfg.States[name]; exists {
		b.fail(fmt.Sprintf("state '%s' defined twice", name))
		return b
	}
	b.cfg.States[name] = &State[C]{On: make(map[string]Rule[C])}
	b.selected = name
	return b
}

// Initial marks the selected state as the machine's initial state.
func (b *Builder[C]) Initial() *Builder[C] {
	if s := b.current(); s != nil {
		b.cfg.Initial = b.selected
	}
	return b
}

// OnEnter sets the selected state's Enter callback.
func (b *Builder[C]) OnEnter(action Action[C]) *Builder[C] {
	if s := b.current(); s != nil {
		s.Enter = action
	}
	return b
}

// OnExit sets the selected state's Exit callback.
func (b *Builder[C]) OnExit(action Action[C]) *Builder[C] {
	if s := b.current(); s != nil {
		s.Exit = action
	}
	return b
}

// OnTick sets the selected state's Tick callback.
func (b *Builder[C]) OnTick(tick TickFunc[C]) *Builder[C] {
	if s := b.current(); s != nil {
		s.Tick = tick
	}
	return b
}

// On adds a direct transition from the selected state to target when an
// event of the given type arrives.
func (b *Builder[C]) On(eventType, target string) *Builder[C] {
	return b.OnRule(eventType, To[C](target))
}

// OnRule adds an arbitrary rule (guarded transition or resolver) to the
// selected state's event table.
func (b *Builder[C]) OnRule(eventType string, rule Rule[C]) *Builder[C] {
	if s := b.current(); s != nil {
		s.On[eventType] = rule
	}
	return b
}

// Context sets the initial shared context.
func (b *Builder[C]) Context(ctx *C) *Builder[C] {
	b.cfg.Context = ctx
	return b
}

// Adapters appends adapter factories in invocation order.
func (b *Builder[C]) Adapters(factories ...Factory[C]) *Builder[C] {
	b.cfg.Adapters = append(b.cfg.Adapters, factories...)
	return b
}

// OnTransition sets the machine-wide transition callback.
func (b *Builder[C]) OnTransition(fn func(from, to string, evt Event, ctx *C)) *Builder[C] {
	b.cfg.OnTransition = fn
	return b
}

// Log enables per-transition logging.
func (b *Builder[C]) Log() *Builder[C] {
	b.cfg.Log = true
	return b
}

// Logger sets the slog logger.
func (b *Builder[C]) Logger(logger *slog.Logger) *Builder[C] {
	b.cfg.Logger = logger
	return b
}

// Config returns the assembled configuration.
func (b *Builder[C]) Config() (Config[C], error) {
	if b.err != nil {
		return Config[C]{}, b.err
	}
	return b.cfg, nil
}

// Build constructs the machine.
func (b *Builder[C]) Build() (*Machine[C], error) {
	if b.err != nil {
		return nil, b.err
	}
	return New(b.cfg)
}

func (b *Builder[C]) current() *State[C] {
	if b.selected == "" {
		b.fail("no state selected")
		return nil
	}
	return b.cfg.States[b.selected]
}

func (b *Builder[C]) fail(issue string) {
	if b.err == nil {
		b.err = NewConfigError("Builder", issue)
	}
}
