//go:build rp2040

package main

import "greenhouse/core"

// ModeConfig selects the board setup
type ModeConfig struct {
	// Controller configuration (LED pin, buffer sizes, trace)
	Config core.Config

	// Drive the LED from a PIO state machine instead of plain GPIO
	UsePIO bool

	// Sample an AHT20 on I2C0 for status reports
	Climate bool
}

// GetMode returns the current mode configuration
// This can be modified at compile time
func GetMode() ModeConfig {
	return ModeConfig{
		Config:  core.DefaultConfig(),
		UsePIO:  false,
		Climate: true,
	}
}
