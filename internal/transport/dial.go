package transport

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
)

// Dial opens a TCP connection to addr and performs the TLS client handshake,
// validating the presented certificate against serverName. A non-nil
// trustAnchor is added to the trust store for this connection, which lets
// clients validate targets whose certificates are not publicly trusted.
//
// One attempt only; retry policy belongs to the caller.
func Dial(addr, serverName string, trustAnchor *x509.Certificate) (*ClientSession, error) {
	raw, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}

	conn := tls.Client(raw, clientConfig(serverName, trustAnchor))
	if err := conn.Handshake(); err != nil {
		raw.Close()
		return nil, fmt.Errorf("%w: %v", ErrHandshake, err)
	}
	return &ClientSession{session{conn: conn}}, nil
}

func clientConfig(serverName string, trustAnchor *x509.Certificate) *tls.Config {
	cfg := &tls.Config{
		ServerName: serverName,
		MinVersion: tls.VersionTLS12,
	}
	if trustAnchor != nil {
		pool, err := x509.SystemCertPool()
		if err != nil {
			pool = x509.NewCertPool()
		}
		pool.AddCert(trustAnchor)
		cfg.RootCAs = pool
	}
	return cfg
}
