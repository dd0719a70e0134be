package transport

import (
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/danmuck/corral/internal/wire"
)

// session is the shared internals behind both role types. It wraps exactly
// one established TLS stream and performs complete blocking reads and writes,
// so frame order on a session is the order of Send calls issued by its owner.
type session struct {
	conn *tls.Conn
}

// ClientSession is the initiator end of a control channel. Constructed only
// by Dial.
type ClientSession struct {
	session
}

// ServerSession is the acceptor end of a control channel. Constructed only by
// Acceptor.Accept.
type ServerSession struct {
	session
}

// Send encodes m into a single contiguous frame and writes it in one blocking
// call. A failed write surfaces as ErrIO; a frame is never partially sent
// without reporting failure.
func (s *session) Send(m wire.Message) error {
	h, err := m.Header()
	if err != nil {
		return err
	}
	payload, err := wire.EncodePayload(m)
	if err != nil {
		return err
	}

	buf := make([]byte, 0, wire.HeaderSize+len(payload))
	hdr := wire.EncodeHeader(h)
	buf = append(buf, hdr[:]...)
	buf = append(buf, payload...)

	if _, err := s.conn.Write(buf); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

// Receive blocks for one complete frame: exactly wire.HeaderSize header bytes,
// then exactly header.Length payload bytes. Decoders are never handed short
// reads. A clean close before any header byte is io.EOF; a close mid-frame is
// ErrIO.
func (s *session) Receive() (wire.Message, error) {
	var hdr [wire.HeaderSize]byte
	if _, err := io.ReadFull(s.conn, hdr[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}

	h, err := wire.DecodeHeader(hdr[:])
	if err != nil {
		return nil, err
	}

	payload := make([]byte, h.Length)
	if _, err := io.ReadFull(s.conn, payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}

	return wire.DecodePayload(h.Opcode, payload)
}

// Close releases the underlying socket.
func (s *session) Close() error {
	return s.conn.Close()
}

// RemoteAddr reports the peer address of the underlying stream.
func (s *session) RemoteAddr() net.Addr {
	return s.conn.RemoteAddr()
}
