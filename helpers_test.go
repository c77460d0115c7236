package stagekit

import (
	"fmt"
	"testing"
)

// flowContext is the shared context used across the root-package tests.
type flowContext struct {
	Score  int
	Loaded bool
}

// recorder captures hook invocations in order so tests can assert the exact
// interleaving of state callbacks and adapter hooks.
type recorder struct {
	Log         []string
	Starts      int
	Stops       int
	Enters      []EnterEvent
	Exits       []ExitEvent
	Transitions []TransitionEvent
	Ticks       []TickEvent
}

func (r *recorder) note(entry string) {
	r.Log = append(r.Log, entry)
}

// adapter realizes recording hooks, optionally tagged so several recorders
// sharing one log can be told apart.
func (r *recorder) adapter(tag string) Factory[flowContext] {
	return func(m *Machine[flowContext]) Hooks[flowContext] {
		return Hooks[flowContext]{
			OnStart: func() {
				r.Starts++
				r.note(tag + ":start")
			},
			OnStop: func() {
				r.Stops++
				r.note(tag + ":stop")
			},
			OnEnter: func(e EnterEvent) {
				r.Enters = append(r.Enters, e)
				r.note(tag + ":enter:" + e.State)
			},
			OnExit: func(e ExitEvent) {
				r.Exits = append(r.Exits, e)
				r.note(tag + ":exit:" + e.State)
			},
			OnTransition: func(e TransitionEvent) {
				r.Transitions = append(r.Transitions, e)
				r.note(tag + ":transition:" + e.From + ">" + e.To)
			},
			OnTick: func(e TickEvent) {
				r.Ticks = append(r.Ticks, e)
				r.note(fmt.Sprintf("%s:tick:%g", tag, e.DT))
			},
		}
	}
}

// newFlowConfig builds the menu/play/pause topology most tests run against.
func newFlowConfig() Config[flowContext] {
	return Config[flowContext]{
		ID:      "flow",
		Initial: "menu",
		States: map[string]*State[flowContext]{
			"menu": {
				On: map[string]Rule[flowContext]{
					"START": To[flowContext]("play"),
				},
			},
			"play": {
				On: map[string]Rule[flowContext]{
					"PAUSE": To[flowContext]("pause"),
					"STOP":  To[flowContext]("menu"),
				},
			},
			"pause": {
				On: map[string]Rule[flowContext]{
					"RESUME": To[flowContext]("play"),
					"STOP":   To[flowContext]("menu"),
				},
			},
		},
	}
}

func newFlowMachine(t *testing.T, mutate func(*Config[flowContext])) *Machine[flowContext] {
	t.Helper()
	cfg := newFlowConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	m, err := New(cfg)
	if err != nil {
		t.Fatalf("expected machine to build, got: %v", err)
	}
	return m
}

func assertState[C any](t *testing.T, m *Machine[C], want string) {
	t.Helper()
	if got := m.State(); got != want {
		t.Errorf("expected state %q, got %q", want, got)
	}
}

func assertToken[C any](t *testing.T, m *Machine[C], want uint64) {
	t.Helper()
	if got := m.Token(); got != want {
		t.Errorf("expected token %d, got %d", want, got)
	}
}

func assertLog(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d log entries %v, got %d: %v", len(want), want, len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("log entry %d: expected %q, got %q (full: %v)", i, want[i], got[i], got)
		}
	}
}
