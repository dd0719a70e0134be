package wire

import "encoding/binary"

const (
	// HeaderSize is the serialized byte count of the header fields, not the
	// in-memory size of the Header struct, which is aligned.
	HeaderSize = 3

	// MaxFrameLength bounds one complete header+payload unit on the wire.
	MaxFrameLength = 65535

	// MaxPayloadLength bounds the payload declared by Header.Length.
	MaxPayloadLength = MaxFrameLength - HeaderSize
)

// OpCode is the single-byte discriminant identifying a message variant.
//
// The discriminant values are stable across minor versions; adding a variant
// means adding one constant here, one Message type, and one dispatch entry in
// DecodePayload. Values outside the defined set are rejected, never ignored.
type OpCode uint8

const (
	OpStart OpCode = 0x00
	OpStop  OpCode = 0x01
)

func (op OpCode) valid() bool {
	switch op {
	case OpStart, OpStop:
		return true
	}
	return false
}

// Header is the fixed wire header: one opcode byte followed by the payload
// byte count as a big-endian uint16. A Header is a pure value; it is never
// mutated after construction.
type Header struct {
	Opcode OpCode
	Length uint16
}

// EncodeHeader serializes h into exactly HeaderSize bytes. It has no failure
// mode for a header already known to satisfy the length invariant.
func EncodeHeader(h Header) [HeaderSize]byte {
	var buf [HeaderSize]byte
	buf[0] = byte(h.Opcode)
	binary.BigEndian.PutUint16(buf[1:3], h.Length)
	return buf
}

// DecodeHeader reconstructs a Header from exactly HeaderSize bytes. A shorter
// buffer fails with ErrShortHeader rather than reading out of bounds; an
// opcode outside the defined set fails with ErrUnknownOpcode.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, ErrShortHeader
	}
	op := OpCode(buf[0])
	if !op.valid() {
		return Header{}, ErrUnknownOpcode
	}
	return Header{
		Opcode: op,
		Length: binary.BigEndian.Uint16(buf[1:3]),
	}, nil
}
