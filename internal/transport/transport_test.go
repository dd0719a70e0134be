package transport

import (
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"testing"

	"github.com/danmuck/corral/internal/testutil/tlstest"
	"github.com/danmuck/corral/internal/wire"
)

func newLoopbackAcceptor(t *testing.T) (*Acceptor, *tlstest.Authority) {
	t.Helper()

	authority := tlstest.NewAuthority(t, "corral-test-ca")
	identity := authority.IssueServerIdentity(
		t, "localhost", []string{"localhost"}, []net.IP{net.ParseIP("127.0.0.1")},
	)
	acceptor, err := NewAcceptor(identity)
	if err != nil {
		t.Fatalf("new acceptor: %v", err)
	}
	return acceptor, authority
}

func listen(t *testing.T) net.Listener {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })
	return ln
}

func TestSendReceiveRoundTrip(t *testing.T) {
	acceptor, authority := newLoopbackAcceptor(t)
	ln := listen(t)

	got := make(chan wire.Message, 1)
	srvErr := make(chan error, 1)
	go func() {
		raw, err := ln.Accept()
		if err != nil {
			srvErr <- err
			return
		}
		sess, err := acceptor.Accept(raw)
		if err != nil {
			srvErr <- err
			return
		}
		defer sess.Close()
		msg, err := sess.Receive()
		if err != nil {
			srvErr <- err
			return
		}
		got <- msg
	}()

	client, err := Dial(ln.Addr().String(), "localhost", authority.TrustAnchor())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	want := wire.StartMessage{ResourceName: "my_resource"}
	if err := client.Send(want); err != nil {
		t.Fatalf("send: %v", err)
	}

	select {
	case err := <-srvErr:
		t.Fatalf("server side: %v", err)
	case msg := <-got:
		if msg != want {
			t.Fatalf("message mismatch: got=%#v want=%#v", msg, want)
		}
	}
}

func TestDialUntrustedCertificateFailsHandshake(t *testing.T) {
	acceptor, _ := newLoopbackAcceptor(t)
	ln := listen(t)

	go func() {
		raw, err := ln.Accept()
		if err != nil {
			return
		}
		// Expected to fail; the client aborts once verification fails.
		_, _ = acceptor.Accept(raw)
	}()

	// No trust anchor: the test CA is not in the default trust store.
	_, err := Dial(ln.Addr().String(), "localhost", nil)
	if !errors.Is(err, ErrHandshake) {
		t.Fatalf("expected ErrHandshake, got %v", err)
	}
}

func TestReceiveMidHeaderClosureIsIOFailure(t *testing.T) {
	acceptor, authority := newLoopbackAcceptor(t)
	ln := listen(t)

	go func() {
		raw, err := ln.Accept()
		if err != nil {
			return
		}
		sess, err := acceptor.Accept(raw)
		if err != nil {
			return
		}
		// Two bytes of a three-byte header, then drop the stream.
		_, _ = sess.conn.Write([]byte{0x00, 0x00})
		sess.Close()
	}()

	client, err := Dial(ln.Addr().String(), "localhost", authority.TrustAnchor())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	if _, err := client.Receive(); !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
}

func TestReceiveCleanClosureIsEOF(t *testing.T) {
	acceptor, authority := newLoopbackAcceptor(t)
	ln := listen(t)

	go func() {
		raw, err := ln.Accept()
		if err != nil {
			return
		}
		sess, err := acceptor.Accept(raw)
		if err != nil {
			return
		}
		sess.Close()
	}()

	client, err := Dial(ln.Addr().String(), "localhost", authority.TrustAnchor())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	if _, err := client.Receive(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF on clean pre-frame closure, got %v", err)
	}
}

func TestReceiveUnknownOpcode(t *testing.T) {
	acceptor, authority := newLoopbackAcceptor(t)
	ln := listen(t)

	go func() {
		raw, err := ln.Accept()
		if err != nil {
			return
		}
		sess, err := acceptor.Accept(raw)
		if err != nil {
			return
		}
		defer sess.Close()
		_, _ = sess.conn.Write([]byte{0xFF, 0x00, 0x00})
	}()

	client, err := Dial(ln.Addr().String(), "localhost", authority.TrustAnchor())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	if _, err := client.Receive(); !errors.Is(err, wire.ErrUnknownOpcode) {
		t.Fatalf("expected wire.ErrUnknownOpcode, got %v", err)
	}
}

func TestSendOversizedMessage(t *testing.T) {
	acceptor, authority := newLoopbackAcceptor(t)
	ln := listen(t)

	go func() {
		raw, err := ln.Accept()
		if err != nil {
			return
		}
		sess, err := acceptor.Accept(raw)
		if err != nil {
			return
		}
		defer sess.Close()
		// Drain until the peer closes so the handshake completes cleanly.
		_, _ = io.Copy(io.Discard, sess.conn)
	}()

	client, err := Dial(ln.Addr().String(), "localhost", authority.TrustAnchor())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	huge := wire.StartMessage{ResourceName: strings.Repeat("A", wire.MaxPayloadLength+1)}
	if err := client.Send(huge); !errors.Is(err, wire.ErrMessageTooBig) {
		t.Fatalf("expected wire.ErrMessageTooBig, got %v", err)
	}
}

func TestConcurrentSessionsAreIndependent(t *testing.T) {
	const sessions = 8

	acceptor, authority := newLoopbackAcceptor(t)
	ln := listen(t)

	results := make(chan string, sessions)
	go func() {
		for i := 0; i < sessions; i++ {
			raw, err := ln.Accept()
			if err != nil {
				return
			}
			go func(raw net.Conn) {
				sess, err := acceptor.Accept(raw)
				if err != nil {
					return
				}
				defer sess.Close()
				msg, err := sess.Receive()
				if err != nil {
					return
				}
				if start, ok := msg.(wire.StartMessage); ok {
					results <- start.ResourceName
				}
			}(raw)
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < sessions; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			client, err := Dial(ln.Addr().String(), "localhost", authority.TrustAnchor())
			if err != nil {
				t.Errorf("dial %d: %v", i, err)
				return
			}
			defer client.Close()
			if err := client.Send(wire.StartMessage{ResourceName: fmt.Sprintf("resource-%d", i)}); err != nil {
				t.Errorf("send %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, sessions)
	for i := 0; i < sessions; i++ {
		seen[<-results] = true
	}
	for i := 0; i < sessions; i++ {
		name := fmt.Sprintf("resource-%d", i)
		if !seen[name] {
			t.Fatalf("missing delivery for %s", name)
		}
	}
}

func TestNewAcceptorRejectsIncompleteIdentity(t *testing.T) {
	if _, err := NewAcceptor(tls.Certificate{}); !errors.Is(err, ErrTLS) {
		t.Fatalf("expected ErrTLS for empty identity, got %v", err)
	}

	bad := tls.Certificate{
		Certificate: [][]byte{[]byte("not a certificate")},
		PrivateKey:  struct{}{},
	}
	if _, err := NewAcceptor(bad); !errors.Is(err, ErrTLS) {
		t.Fatalf("expected ErrTLS for malformed identity, got %v", err)
	}
}

func TestDialConnectFailureIsIOFailure(t *testing.T) {
	ln := listen(t)
	addr := ln.Addr().String()
	ln.Close()

	if _, err := Dial(addr, "localhost", nil); !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
}
