// Package history provides an adapter that records recent transitions in a
// bounded in-memory log, useful for debug overlays and crash reports.
package history

import (
	"sync"
	"time"

	"github.com/stagekit/stagekit"
)

// Entry is one recorded transition.
type Entry struct {
	From  string
	To    string
	Event stagekit.Event
	At    time.Time
}

// Log is a bounded transition history. The oldest entries are evicted once
// the capacity is reached.
type Log struct {
	mutex   sync.RWMutex
	max     int
	entries []Entry
}

// New creates a log holding at most max entries. A non-positive max falls
// back to 64.
func New(max int) *Log {
	if max <= 0 {
		max = 64
	}
	return &Log{max: max}
}

func (l *Log) record(e Entry) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.entries = append(l.entries, e)
	if len(l.entries) > l.max {
		l.entries = l.entries[len(l.entries)-l.max:]
	}
}

// Entries returns a copy of the recorded transitions, oldest first.
func (l *Log) Entries() []Entry {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Last returns the most recent entry, or false when the log is empty.
func (l *Log) Last() (Entry, bool) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	if len(l.entries) == 0 {
		return Entry{}, false
	}
	return l.entries[len(l.entries)-1], true
}

// Len returns the number of recorded entries.
func (l *Log) Len() int {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	return len(l.entries)
}

// Clear discards all entries.
func (l *Log) Clear() {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.entries = nil
}

// Adapter returns an adapter factory feeding the log.
func Adapter[C any](l *Log) stagekit.Factory[C] {
	return stagekit.Describe(stagekit.Info{
		Name:         "history",
		Version:      "1.0",
		Capabilities: []string{"debugging"},
	}, func(m *stagekit.Machine[C]) stagekit.Hooks[C] {
		return stagekit.Hooks[C]{
			OnTransition: func(e stagekit.TransitionEvent) {
				l.record(Entry{
					From:  e.From,
					To:    e.To,
					Event: e.Event,
					At:    time.Now(),
				})
			},
		}
	})
}
