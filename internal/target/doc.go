// Package target runs the accepting side of the control channel: it owns the
// listener, performs handshakes through a shared transport.Acceptor, and
// dispatches decoded messages to the container engine.
package target
