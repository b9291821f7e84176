package game

// Conn is the transport-side handle for one connected player. The wire
// protocol and encoding live behind it; coordinators only push named events
// and register interest in the connection going away.
type Conn interface {
	// Send delivers a one-way event to the peer. It must not block the
	// caller; delivery is best effort.
	Send(event string, payload any)

	// Watch registers fn to be invoked at most once when the connection
	// terminates. The returned cancel unregisters fn and is safe to call
	// after the connection has already closed.
	Watch(fn func()) (cancel func())
}
