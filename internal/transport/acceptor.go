package transport

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
)

// Acceptor performs the server-side TLS handshake for inbound connections.
// The handshake context is built once from the server identity and is safe
// for concurrent use by many Accept calls; per-handshake state lives in the
// call, not in the Acceptor.
type Acceptor struct {
	cfg *tls.Config
}

// NewAcceptor builds an acceptor pinned to a modern TLS baseline from a
// loaded server identity. Malformed identity material fails with ErrTLS.
func NewAcceptor(identity tls.Certificate) (*Acceptor, error) {
	if len(identity.Certificate) == 0 || identity.PrivateKey == nil {
		return nil, fmt.Errorf("%w: incomplete server identity", ErrTLS)
	}
	if _, err := x509.ParseCertificate(identity.Certificate[0]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTLS, err)
	}
	return &Acceptor{
		cfg: &tls.Config{
			Certificates: []tls.Certificate{identity},
			MinVersion:   tls.VersionTLS12,
		},
	}, nil
}

// Accept runs the TLS server handshake over an already-connected raw stream
// and returns the acceptor-role session. The stream must be freshly accepted
// and unused. On handshake failure the stream is closed and no session state
// escapes.
func (a *Acceptor) Accept(raw net.Conn) (*ServerSession, error) {
	conn := tls.Server(raw, a.cfg)
	if err := conn.Handshake(); err != nil {
		raw.Close()
		return nil, fmt.Errorf("%w: %v", ErrHandshake, err)
	}
	return &ServerSession{session{conn: conn}}, nil
}
