// Package wire owns the control-channel wire contract and parsing primitives.
//
// Ownership boundary:
// - frame header encode/decode
// - message payload encode/decode
// - opcode dispatch
//
// The package is pure: no I/O, no allocation beyond the returned buffers.
package wire
