// Package metrics provides an adapter that aggregates execution counters
// for a machine: state visits, dwell times, transition and tick counts.
package metrics

import (
	"sync"
	"time"

	"github.com/stagekit/stagekit"
)

// Collector accumulates machine metrics. It is safe for concurrent reads
// while the machine runs, so dashboards can poll it from another goroutine.
type Collector struct {
	mutex            sync.RWMutex
	stateVisits      map[string]int
	stateTimeSpent   map[string]time.Duration
	transitionCounts map[string]int
	tickCount        int
	lastStateEntry   map[string]time.Time
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		stateVisits:      make(map[string]int),
		stateTimeSpent:   make(map[string]time.Duration),
		transitionCounts: make(map[string]int),
		lastStateEntry:   make(map[string]time.Time),
	}
}

func (c *Collector) recordEnter(state string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.stateVisits[state]++
	c.lastStateEntry[state] = time.Now()
}

func (c *Collector) recordExit(state string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if entered, ok := c.lastStateEntry[state]; ok {
		c.stateTimeSpent[state] += time.Since(entered)
		delete(c.lastStateEntry, state)
	}
}

func (c *Collector) recordTransition(from, to string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.transitionCounts[from+"->"+to]++
}

func (c *Collector) recordTick() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.tickCount++
}

// StateVisitCounts returns the number of times each state was entered.
func (c *Collector) StateVisitCounts() map[string]int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	result := make(map[string]int, len(c.stateVisits))
	for state, count := range c.stateVisits {
		result[state] = count
	}
	return result
}

// StateTimeSpent returns the accumulated dwell time per state.
func (c *Collector) StateTimeSpent() map[string]time.Duration {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	result := make(map[string]time.Duration, len(c.stateTimeSpent))
	for state, duration := range c.stateTimeSpent {
		result[state] = duration
	}
	return result
}

// TransitionCounts returns the number of times each "from->to" transition
// occurred.
func (c *Collector) TransitionCounts() map[string]int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	result := make(map[string]int, len(c.transitionCounts))
	for transition, count := range c.transitionCounts {
		result[transition] = count
	}
	return result
}

// TickCount returns the number of ticks observed.
func (c *Collector) TickCount() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.tickCount
}

// Reset clears all metrics.
func (c *Collector) Reset() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.stateVisits = make(map[string]int)
	c.stateTimeSpent = make(map[string]time.Duration)
	c.transitionCounts = make(map[string]int)
	c.tickCount = 0
	c.lastStateEntry = make(map[string]time.Time)
}

// Adapter returns an adapter factory feeding the collector.
func Adapter[C any](c *Collector) stagekit.Factory[C] {
	return stagekit.Describe(stagekit.Info{
		Name:         "metrics",
		Version:      "1.0",
		Capabilities: []string{"observability"},
	}, func(m *stagekit.Machine[C]) stagekit.Hooks[C] {
		return stagekit.Hooks[C]{
			OnEnter: func(e stagekit.EnterEvent) {
				c.recordEnter(e.State)
			},
			OnExit: func(e stagekit.ExitEvent) {
				c.recordExit(e.State)
			},
			OnTransition: func(e stagekit.TransitionEvent) {
				c.recordTransition(e.From, e.To)
			},
			OnTick: func(e stagekit.TickEvent) {
				c.recordTick()
			},
		}
	})
}
