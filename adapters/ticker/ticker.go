// Package ticker provides a wall-clock driver for machines that are not
// pumped by a host frame loop: a background goroutine calls Machine.Tick at
// a fixed interval, and a mutex serializes that loop with any outside
// interaction routed through Do.
package ticker

import (
	"sync"
	"time"

	"github.com/stagekit/stagekit"
)

// Clock is an optional context namespace the driver maintains: elapsed
// seconds and tick count since Start. Embed it in the machine context and
// point the driver at it with an accessor.
type Clock struct {
	Elapsed float64
	Ticks   int
}

// Driver owns the tick loop for one machine. The machine itself is not
// synchronized, so once the driver is attached, every outside interaction
// with the machine (Start, Stop, Send, context reads) must go through Do,
// which holds the same lock the loop ticks under.
type Driver[C any] struct {
	interval time.Duration
	clock    func(*C) *Clock

	mutex   sync.Mutex // serializes machine access with the tick loop
	machine *stagekit.Machine[C]

	lifecycle sync.Mutex // guards stop/done
	stop      chan struct{}
	done      chan struct{}
}

// New creates a driver ticking every interval. A non-positive interval
// falls back to 100ms.
//
// clock may be nil; when set, it locates the Clock inside the shared
// context and the driver keeps it updated on every tick.
func New[C any](interval time.Duration, clock func(*C) *Clock) *Driver[C] {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &Driver[C]{interval: interval, clock: clock}
}

// Adapter returns the adapter factory realizing this driver on a machine.
// The loop starts on machine start and stops on machine stop. A driver
// serves one machine.
func (d *Driver[C]) Adapter() stagekit.Factory[C] {
	return stagekit.Describe(stagekit.Info{
		Name:         "ticker",
		Version:      "1.0",
		Capabilities: []string{"driver"},
	}, func(m *stagekit.Machine[C]) stagekit.Hooks[C] {
		d.machine = m
		return stagekit.Hooks[C]{
			OnStart: d.startLoop,
			OnStop:  d.signalStop,
			OnTick: func(e stagekit.TickEvent) {
				if d.clock == nil {
					return
				}
				c := d.clock(m.Context())
				c.Elapsed += e.DT
				c.Ticks++
			},
		}
	})
}

// Do runs fn with exclusive access to the machine, holding the tick loop
// off for the duration. Valid once the factory from Adapter has been
// realized. fn must not call Do again.
func (d *Driver[C]) Do(fn func(m *stagekit.Machine[C])) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	fn(d.machine)
}

// Wait blocks until the tick loop has exited. Call it after stopping the
// machine, from outside Do; once it returns, the machine and its context
// can be read directly since no loop goroutine remains.
func (d *Driver[C]) Wait() {
	d.lifecycle.Lock()
	done := d.done
	d.lifecycle.Unlock()
	if done != nil {
		<-done
	}
}

func (d *Driver[C]) startLoop() {
	d.lifecycle.Lock()
	defer d.lifecycle.Unlock()
	if d.stop != nil {
		return
	}
	d.stop = make(chan struct{})
	d.done = make(chan struct{})
	go d.run(d.stop, d.done)
}

// signalStop only signals the loop; it must not wait for it, since it runs
// inside Stop while the machine lock may be held by Do. A tick racing the
// shutdown lands on a stopped machine and is a no-op.
func (d *Driver[C]) signalStop() {
	d.lifecycle.Lock()
	defer d.lifecycle.Unlock()
	if d.stop == nil {
		return
	}
	close(d.stop)
	d.stop = nil
}

func (d *Driver[C]) run(stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			d.mutex.Lock()
			d.machine.Tick(now.Sub(last).Seconds())
			d.mutex.Unlock()
			last = now
		}
	}
}
