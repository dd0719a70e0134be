// Package transport turns a raw TCP stream into an encrypted,
// message-oriented control channel.
//
// Sessions are only ever produced by a completed TLS handshake: Dial for the
// initiator side, Acceptor.Accept for the acceptor side. One session owns one
// stream and is used by one goroutine; there is no internal locking.
package transport
