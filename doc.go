// Package stagekit provides a small finite state machine runtime for
// orchestrating interactive flows: UI screens, game modes, media playback
// stages. The machine owns a typed, shared context, resolves transitions
// from per-state event tables, and notifies an ordered set of adapters at
// every lifecycle phase so platform concerns (input, rendering, audio,
// timing) can observe and extend machine behavior without the machine
// knowing about them.
//
// The engine is single-threaded and cooperative: Start, Stop, Send, Tick
// and Go all run to completion without internal suspension, and the machine
// must be driven from one goroutine at a time. Asynchronous work started in
// state callbacks uses the entry token to detect staleness: capture the
// token from the API facade when work begins, and check IsCurrent before
// touching the context or sending follow-up events once the work resumes.
package stagekit
