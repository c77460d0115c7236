package stagekit

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Definition is a declarative, serializable machine topology. Lifecycle
// callbacks, guards and actions are referenced by name and bound against a
// Callbacks registry when the definition is realized into a Config.
type Definition struct {
	ID      string              `json:"id,omitempty" yaml:"id,omitempty"`
	Initial string              `json:"initial" yaml:"initial"`
	Log     bool                `json:"log,omitempty" yaml:"log,omitempty"`
	States  map[string]StateDef `json:"states" yaml:"states"`
}

// StateDef declares one state of a Definition.
type StateDef struct {
	Enter string                   `json:"enter,omitempty" yaml:"enter,omitempty"`
	Exit  string                   `json:"exit,omitempty" yaml:"exit,omitempty"`
	Tick  string                   `json:"tick,omitempty" yaml:"tick,omitempty"`
	On    map[string]TransitionDef `json:"on,omitempty" yaml:"on,omitempty"`
}

// TransitionDef declares one event-table entry of a StateDef.
type TransitionDef struct {
	Target string `json:"target" yaml:"target"`
	Guard  string `json:"guard,omitempty" yaml:"guard,omitempty"`
	Action string `json:"action,omitempty" yaml:"action,omitempty"`
}

// UnmarshalYAML accepts both the bare-target shorthand
// ("on: {START: play}") and the full mapping form.
func (t *TransitionDef) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		return value.Decode(&t.Target)
	}
	type plain TransitionDef
	return value.Decode((*plain)(t))
}

// ParseDefinition decodes and validates a YAML definition.
func ParseDefinition(data []byte) (*Definition, error) {
	var d Definition
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, NewConfigError("Definition", err.Error())
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Validate checks that the definition can produce a valid machine: an
// initial state that exists, and every transition target present in the
// state map. Target validation is stricter here than in the running engine
// because a definition is static data that can be checked up front.
func (d *Definition) Validate() error {
	if d.Initial == "" {
		return NewConfigError("Definition", "no initial state defined")
	}
	if len(d.States) == 0 {
		return NewConfigError("Definition", "no states defined")
	}
	if _, ok := d.States[d.Initial]; !ok {
		return NewConfigError("Definition", fmt.Sprintf("initial state '%s' does not exist", d.Initial))
	}
	for name, state := range d.States {
		for eventType, tr := range state.On {
			if tr.Target == "" {
				return NewConfigError("Definition",
					fmt.Sprintf("state '%s': event '%s' has no target", name, eventType))
			}
			if _, ok := d.States[tr.Target]; !ok {
				return NewConfigError("Definition",
					fmt.Sprintf("state '%s': event '%s' targets unknown state '%s'", name, eventType, tr.Target))
			}
		}
	}
	return nil
}

// Callbacks binds the names used in a Definition to concrete functions.
type Callbacks[C any] struct {
	Actions map[string]Action[C]
	Guards  map[string]Guard[C]
	Ticks   map[string]TickFunc[C]
}

func (cb Callbacks[C]) action(name, where string) (Action[C], error) {
	if name == "" {
		return nil, nil
	}
	fn, ok := cb.Actions[name]
	if !ok {
		return nil, NewConfigError("Callbacks", fmt.Sprintf("%s references unknown action '%s'", where, name))
	}
	return fn, nil
}

func (cb Callbacks[C]) guard(name, where string) (Guard[C], error) {
	if name == "" {
		return nil, nil
	}
	fn, ok := cb.Guards[name]
	if !ok {
		return nil, NewConfigError("Callbacks", fmt.Sprintf("%s references unknown guard '%s'", where, name))
	}
	return fn, nil
}

func (cb Callbacks[C]) tick(name, where string) (TickFunc[C], error) {
	if name == "" {
		return nil, nil
	}
	fn, ok := cb.Ticks[name]
	if !ok {
		return nil, NewConfigError("Callbacks", fmt.Sprintf("%s references unknown tick '%s'", where, name))
	}
	return fn, nil
}

// Realize resolves a definition against the callback registry, producing a
// Config ready for New. Context and adapters are set by the caller on the
// returned Config.
func Realize[C any](d *Definition, cb Callbacks[C]) (Config[C], error) {
	if err := d.Validate(); err != nil {
		return Config[C]{}, err
	}

	states := make(map[string]*State[C], len(d.States))
	for name, def := range d.States {
		where := fmt.Sprintf("state '%s'", name)

		enter, err := cb.action(def.Enter, where)
		if err != nil {
			return Config[C]{}, err
		}
		exit, err := cb.action(def.Exit, where)
		if err != nil {
			return Config[C]{}, err
		}
		tick, err := cb.tick(def.Tick, where)
		if err != nil {
			return Config[C]{}, err
		}

		node := &State[C]{Enter: enter, Exit: exit, Tick: tick}
		if len(def.On) > 0 {
			node.On = make(map[string]Rule[C], len(def.On))
			for eventType, tr := range def.On {
				where := fmt.Sprintf("state '%s', event '%s'", name, eventType)
				guard, err := cb.guard(tr.Guard, where)
				if err != nil {
					return Config[C]{}, err
				}
				action, err := cb.action(tr.Action, where)
				if err != nil {
					return Config[C]{}, err
				}
				node.On[eventType] = Transition[C]{Target: tr.Target, Guard: guard, Action: action}
			}
		}
		states[name] = node
	}

	return Config[C]{
		ID:      d.ID,
		Initial: d.Initial,
		States:  states,
		Log:     d.Log,
	}, nil
}
