package stagekit

import "testing"

func TestAPI_TokenBoundDuringEnter(t *testing.T) {
	var entryToken uint64
	m := newFlowMachine(t, func(c *Config[flowContext]) {
		c.States["play"].Enter = func(ctx *flowContext, evt Event, api *API[flowContext]) {
			entryToken = api.Token()
		}
	})
	m.Start()
	m.Send("START", nil)

	if entryToken != 2 {
		t.Errorf("expected entry token 2, got %d", entryToken)
	}
	assertToken(t, m, 2)
}

func TestAPI_TokenIncrementsOnReEntry(t *testing.T) {
	var tokens []uint64
	m := newFlowMachine(t, func(c *Config[flowContext]) {
		c.States["play"].Enter = func(ctx *flowContext, evt Event, api *API[flowContext]) {
			tokens = append(tokens, api.Token())
		}
	})
	m.Start()
	m.Send("START", nil)
	m.Send("PAUSE", nil)
	m.Send("RESUME", nil)

	if len(tokens) != 2 || tokens[0] != 2 || tokens[1] != 4 {
		t.Errorf("expected play entry tokens [2 4], got %v", tokens)
	}
}

func TestAPI_IsCurrentDetectsStaleness(t *testing.T) {
	var api *API[flowContext]
	var token uint64
	m := newFlowMachine(t, func(c *Config[flowContext]) {
		c.States["play"].Enter = func(ctx *flowContext, evt Event, a *API[flowContext]) {
			if api == nil {
				api = a
				token = a.Token()
			}
		}
	})
	m.Start()
	m.Send("START", nil)

	if !api.IsCurrent(token) {
		t.Error("expected freshly captured token to be current")
	}

	m.Send("PAUSE", nil)
	if api.IsCurrent(token) {
		t.Error("expected token to be stale after leaving the state")
	}

	m.Send("RESUME", nil)
	if api.IsCurrent(token) {
		t.Error("expected token to stay stale after re-entry of the same state")
	}
}

func TestAPI_StaleContinuationGuard(t *testing.T) {
	// Simulates the deferred-completion pattern: an Enter callback captures
	// its token and a continuation later checks it before acting.
	var finishLoad func()
	m := newFlowMachine(t, func(c *Config[flowContext]) {
		c.States["play"].Enter = func(ctx *flowContext, evt Event, api *API[flowContext]) {
			token := api.Token()
			finishLoad = func() {
				if !api.IsCurrent(token) {
					return
				}
				api.UpdateContext(func(fc *flowContext) { fc.Loaded = true })
			}
		}
	})
	m.Start()
	m.Send("START", nil)
	m.Send("STOP", nil) // leave play before the continuation fires

	finishLoad()

	if m.Context().Loaded {
		t.Error("expected stale continuation to be dropped")
	}
}

func TestAPI_SendFromEnterCallback(t *testing.T) {
	m := newFlowMachine(t, func(c *Config[flowContext]) {
		c.States["play"].Enter = func(ctx *flowContext, evt Event, api *API[flowContext]) {
			if !ctx.Loaded {
				api.Send("PAUSE", nil)
			}
		}
	})
	m.Start()

	m.Send("START", nil)

	assertState(t, m, "pause")
	assertToken(t, m, 3)
}

func TestAPI_UpdateContext(t *testing.T) {
	m := newFlowMachine(t, nil)
	m.Start()

	api := m.api()
	api.UpdateContext(func(fc *flowContext) { fc.Score = 42 })

	if got := m.Context().Score; got != 42 {
		t.Errorf("expected score 42, got %d", got)
	}
	if api.Context() != m.Context() {
		t.Error("expected API and machine to share one context")
	}
}

func TestAPI_UnboundTokenTracksMachine(t *testing.T) {
	m := newFlowMachine(t, nil)
	m.Start()

	api := m.api()
	if api.Token() != m.Token() {
		t.Errorf("expected live token %d, got %d", m.Token(), api.Token())
	}

	m.Send("START", nil)
	if api.Token() != m.Token() {
		t.Errorf("expected unbound token to follow machine, got %d vs %d", api.Token(), m.Token())
	}
}

func TestAPI_StateAndGo(t *testing.T) {
	m := newFlowMachine(t, nil)
	m.Start()

	api := m.api()
	if api.State() != "menu" {
		t.Errorf("expected state 'menu', got %q", api.State())
	}

	api.Go("pause")
	assertState(t, m, "pause")
}
