package wire

import "unicode/utf8"

// Message is one control message carried by a frame. The set of variants is
// closed: every implementation lives in this package and is paired with
// exactly one OpCode.
type Message interface {
	// Header derives the frame header for this message. It fails with
	// ErrMessageTooBig before any payload bytes are produced if the natural
	// encoding would exceed MaxPayloadLength.
	Header() (Header, error)

	// encodePayload serializes the payload only; header bytes are the
	// caller's concern.
	encodePayload() ([]byte, error)
}

// StartMessage requests that the named container be started.
type StartMessage struct {
	ResourceName string
}

// StopMessage requests that the named container be stopped.
type StopMessage struct {
	ResourceName string
}

func (m StartMessage) Header() (Header, error) {
	return resourceHeader(OpStart, m.ResourceName)
}

func (m StartMessage) encodePayload() ([]byte, error) {
	return resourcePayload(m.ResourceName)
}

func (m StopMessage) Header() (Header, error) {
	return resourceHeader(OpStop, m.ResourceName)
}

func (m StopMessage) encodePayload() ([]byte, error) {
	return resourcePayload(m.ResourceName)
}

func resourceHeader(op OpCode, name string) (Header, error) {
	if len(name) > MaxPayloadLength {
		return Header{}, ErrMessageTooBig
	}
	return Header{Opcode: op, Length: uint16(len(name))}, nil
}

func resourcePayload(name string) ([]byte, error) {
	// Size check happens before the copy so an oversized message never
	// produces a truncated partial encoding.
	if len(name) > MaxPayloadLength {
		return nil, ErrMessageTooBig
	}
	return []byte(name), nil
}

// EncodePayload serializes the payload of m. The result never exceeds
// MaxPayloadLength; oversized messages fail with ErrMessageTooBig.
func EncodePayload(m Message) ([]byte, error) {
	return m.encodePayload()
}

// DecodePayload reconstructs the message for op from exactly the payload
// bytes declared by the frame header. The caller guarantees the payload
// length matches the header; that contract is established upstream and not
// re-validated here.
func DecodePayload(op OpCode, payload []byte) (Message, error) {
	switch op {
	case OpStart:
		name, err := decodeResourceName(payload)
		if err != nil {
			return nil, err
		}
		return StartMessage{ResourceName: name}, nil
	case OpStop:
		name, err := decodeResourceName(payload)
		if err != nil {
			return nil, err
		}
		return StopMessage{ResourceName: name}, nil
	}
	return nil, ErrUnknownOpcode
}

func decodeResourceName(payload []byte) (string, error) {
	if !utf8.Valid(payload) {
		return "", ErrInvalidEncoding
	}
	return string(payload), nil
}
