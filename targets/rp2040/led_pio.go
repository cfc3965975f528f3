//go:build rp2040

package main

import (
	"greenhouse/core"
	"greenhouse/targets/pio"
)

// newPIOLEDDriver drives the LED from PIO0, state machine 0
func newPIOLEDDriver() core.GPIODriver {
	return pio.NewPIOOutputDriver(0, 0)
}
