package wire

import "errors"

var (
	ErrShortHeader     = errors.New("wire: short header")
	ErrUnknownOpcode   = errors.New("wire: unknown opcode")
	ErrMessageTooBig   = errors.New("wire: message payload too big")
	ErrInvalidEncoding = errors.New("wire: invalid payload encoding")
)
