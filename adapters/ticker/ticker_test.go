package ticker

import (
	"testing"
	"time"

	"github.com/stagekit/stagekit"
)

type ctx struct {
	Clock Clock
}

// newDriven builds a one-state machine whose tick callback signals ticks,
// so tests can synchronize on actual tick delivery instead of sleeping.
func newDriven(t *testing.T, d *Driver[ctx], ticks chan struct{}) *stagekit.Machine[ctx] {
	t.Helper()
	m, err := stagekit.New(stagekit.Config[ctx]{
		Initial: "running",
		States: map[string]*stagekit.State[ctx]{
			"running": {
				Tick: func(dt float64, c *ctx, api *stagekit.API[ctx]) {
					select {
					case ticks <- struct{}{}:
					default:
					}
				},
			},
		},
		Adapters: []stagekit.Factory[ctx]{d.Adapter()},
	})
	if err != nil {
		t.Fatalf("expected machine to build, got: %v", err)
	}
	return m
}

func waitTicks(t *testing.T, ticks chan struct{}, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-ticks:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for tick %d of %d", i+1, n)
		}
	}
}

func TestDriver_DrivesTicks(t *testing.T) {
	d := New(time.Millisecond, func(c *ctx) *Clock { return &c.Clock })
	ticks := make(chan struct{}, 64)
	m := newDriven(t, d, ticks)

	d.Do(func(m *stagekit.Machine[ctx]) { m.Start() })
	waitTicks(t, ticks, 3)
	d.Do(func(m *stagekit.Machine[ctx]) { m.Stop() })
	d.Wait()

	clock := m.Context().Clock
	if clock.Ticks < 3 {
		t.Fatalf("expected at least 3 ticks, got %d", clock.Ticks)
	}
	if clock.Elapsed <= 0 {
		t.Errorf("expected positive elapsed time, got %g", clock.Elapsed)
	}
}

func TestDriver_StopJoinsLoop(t *testing.T) {
	d := New(time.Millisecond, func(c *ctx) *Clock { return &c.Clock })
	ticks := make(chan struct{}, 64)
	m := newDriven(t, d, ticks)

	d.Do(func(m *stagekit.Machine[ctx]) { m.Start() })
	waitTicks(t, ticks, 1)
	d.Do(func(m *stagekit.Machine[ctx]) { m.Stop() })
	d.Wait()

	// The loop has exited; the clock is final and readable without Do.
	final := m.Context().Clock.Ticks
	if final == 0 {
		t.Fatal("expected ticks before stop")
	}
	if m.Started() {
		t.Error("expected machine stopped")
	}
	if got := m.Context().Clock.Ticks; got != final {
		t.Errorf("expected frozen tick count %d, got %d", final, got)
	}
}

func TestDriver_RestartsAfterStop(t *testing.T) {
	d := New(time.Millisecond, func(c *ctx) *Clock { return &c.Clock })
	ticks := make(chan struct{}, 64)
	m := newDriven(t, d, ticks)

	d.Do(func(m *stagekit.Machine[ctx]) { m.Start() })
	waitTicks(t, ticks, 2)
	d.Do(func(m *stagekit.Machine[ctx]) { m.Stop() })
	d.Wait()

	first := m.Context().Clock.Ticks

	d.Do(func(m *stagekit.Machine[ctx]) { m.Start() })
	waitTicks(t, ticks, 2)
	d.Do(func(m *stagekit.Machine[ctx]) { m.Stop() })
	d.Wait()

	if got := m.Context().Clock.Ticks; got <= first {
		t.Errorf("expected ticking to resume after restart, got %d then %d", first, got)
	}
}

func TestDriver_NilClockAccessor(t *testing.T) {
	d := New[ctx](time.Millisecond, nil)
	ticks := make(chan struct{}, 64)
	m := newDriven(t, d, ticks)

	d.Do(func(m *stagekit.Machine[ctx]) { m.Start() })
	waitTicks(t, ticks, 2)
	d.Do(func(m *stagekit.Machine[ctx]) { m.Stop() })
	d.Wait()

	// Ticks were delivered but no clock updates expected.
	if m.Context().Clock.Ticks != 0 {
		t.Errorf("expected untouched clock, got %d ticks", m.Context().Clock.Ticks)
	}
}

func TestDriver_SendThroughDo(t *testing.T) {
	d := New(time.Millisecond, func(c *ctx) *Clock { return &c.Clock })
	ticks := make(chan struct{}, 64)
	m, err := stagekit.New(stagekit.Config[ctx]{
		Initial: "idle",
		States: map[string]*stagekit.State[ctx]{
			"idle": {On: map[string]stagekit.Rule[ctx]{
				"RUN": stagekit.To[ctx]("running"),
			}},
			"running": {
				Tick: func(dt float64, c *ctx, api *stagekit.API[ctx]) {
					select {
					case ticks <- struct{}{}:
					default:
					}
				},
			},
		},
		Adapters: []stagekit.Factory[ctx]{d.Adapter()},
	})
	if err != nil {
		t.Fatalf("expected machine to build, got: %v", err)
	}

	d.Do(func(m *stagekit.Machine[ctx]) { m.Start() })
	d.Do(func(m *stagekit.Machine[ctx]) { m.Send("RUN", nil) })
	waitTicks(t, ticks, 1)
	d.Do(func(m *stagekit.Machine[ctx]) { m.Stop() })
	d.Wait()

	if got := m.State(); got != "running" {
		t.Errorf("expected state 'running', got %q", got)
	}
}

func TestNew_DefaultInterval(t *testing.T) {
	d := New[ctx](0, nil)
	if d.interval != 100*time.Millisecond {
		t.Errorf("expected default interval 100ms, got %v", d.interval)
	}
}
