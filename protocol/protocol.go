// Package protocol holds the buffers and wire constants shared by the
// greenhouse firmware and its host tooling.
package protocol

// Version represents the greenhouse firmware version
const Version = "0.1.0"

// Buffer sizes
const (
	OutputBufferSize = 2048   // Response ring buffer (one slot is never used)
	InputBufferSize  = 64 + 1 // Largest single USB CDC read plus one
	TraceBufferSize  = 512    // Diagnostics ring buffer
)

// Wire bytes
const (
	ByteEscape = 0x1B
	ByteCR     = '\r'
	ByteLF     = '\n'
)

// Command letters. Lower case is accepted as well.
const (
	LetterStatus    = 'S'
	LetterUpdateLed = 'L'
)

// Fixed response text
const (
	Ack          = "ack\r\n"
	LineEnd      = "\r\n"
	Unrecognised = "Unrecognised command code"
)
