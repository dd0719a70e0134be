package transport

import "errors"

var (
	ErrIO        = errors.New("transport: i/o failure")
	ErrTLS       = errors.New("transport: tls configuration failure")
	ErrHandshake = errors.New("transport: tls handshake failure")
)
