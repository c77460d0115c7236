// Package logging provides an adapter that mirrors a machine's lifecycle to
// a structured slog logger.
package logging

import (
	"log/slog"

	"github.com/stagekit/stagekit"
)

// Adapter returns an adapter factory that logs every lifecycle phase of the
// machine at info level. A nil logger falls back to slog.Default.
func Adapter[C any](logger *slog.Logger) stagekit.Factory[C] {
	if logger == nil {
		logger = slog.Default()
	}
	return stagekit.Describe(stagekit.Info{
		Name:         "logging",
		Version:      "1.0",
		Capabilities: []string{"observability"},
	}, func(m *stagekit.Machine[C]) stagekit.Hooks[C] {
		log := logger.With("machine", m.ID())
		return stagekit.Hooks[C]{
			OnStart: func() {
				log.Info("machine started")
			},
			OnStop: func() {
				log.Info("machine stopped", "state", m.State())
			},
			OnEnter: func(e stagekit.EnterEvent) {
				log.Info("state entered",
					"state", e.State, "event", e.Event.Type, "token", e.Token)
			},
			OnExit: func(e stagekit.ExitEvent) {
				log.Info("state exited",
					"state", e.State, "event", e.Event.Type)
			},
			OnTransition: func(e stagekit.TransitionEvent) {
				log.Info("transition",
					"from", e.From, "to", e.To, "event", e.Event.Type)
			},
		}
	})
}
