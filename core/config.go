package core

import "greenhouse/protocol"

// DefaultLEDPin is the on-board LED of a Raspberry Pi Pico
const DefaultLEDPin GPIOPin = 25

// Config holds the controller configuration. Firmware has no filesystem,
// so targets build it in code.
type Config struct {
	// LEDPin is the output driven by the L command
	LEDPin GPIOPin

	// LEDActiveLow is set when the LED lights with the pin driven low
	LEDActiveLow bool

	// OutputBufferSize is the response ring size; one byte is never used
	OutputBufferSize int

	// TraceBufferSize is the diagnostics ring size
	TraceBufferSize int

	// Trace enables the per-byte parser trace at startup
	Trace bool
}

// DefaultConfig returns the configuration used by the Pico target
func DefaultConfig() Config {
	return Config{
		LEDPin:           DefaultLEDPin,
		OutputBufferSize: protocol.OutputBufferSize,
		TraceBufferSize:  protocol.TraceBufferSize,
	}
}

// applyDefaults fills in missing buffer sizes
func applyDefaults(cfg *Config) {
	if cfg.OutputBufferSize < 2 {
		cfg.OutputBufferSize = protocol.OutputBufferSize
	}
	if cfg.TraceBufferSize < 2 {
		cfg.TraceBufferSize = protocol.TraceBufferSize
	}
}
