package stagekit

// API is the restricted surface handed to actions, guards, resolvers and
// tick callbacks so they can safely re-enter the machine without touching
// its internals.
//
// An API created during a state entry is bound to that entry's token.
// Asynchronous work started in an Enter callback should capture Token and
// check IsCurrent when it resumes: a false result means the machine has
// since moved on and the continuation must not mutate the context or send
// follow-up events. The token check is advisory; the engine does not
// enforce it.
type API[C any] struct {
	machine *Machine[C]
	token   uint64
	bound   bool
}

// Send dispatches an event through the current state's event table.
func (a *API[C]) Send(eventType string, data any) {
	a.machine.Send(eventType, data)
}

// Go forces a direct transition, bypassing guards and actions. Prefer Send.
func (a *API[C]) Go(target string, evt ...Event) {
	a.machine.Go(target, evt...)
}

// Context returns the machine's shared context.
func (a *API[C]) Context() *C {
	return a.machine.ctx
}

// UpdateContext applies fn to the shared context.
func (a *API[C]) UpdateContext(fn func(*C)) {
	fn(a.machine.ctx)
}

// State returns the current state name.
func (a *API[C]) State() string {
	return a.machine.current
}

// Token returns the entry token this API was bound to, or the machine's
// live token when the API was not created during a state entry.
func (a *API[C]) Token() uint64 {
	if a.bound {
		return a.token
	}
	return a.machine.token
}

// IsCurrent reports whether the supplied token still equals the machine's
// live token, i.e. whether no state entry has happened since the token was
// captured.
func (a *API[C]) IsCurrent(token uint64) bool {
	return token == a.machine.token
}
