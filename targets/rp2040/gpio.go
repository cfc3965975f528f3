//go:build rp2040

package main

import (
	"errors"
	"machine"

	"greenhouse/core"
)

// RP2040 has GPIO0..GPIO29 in bank 0
const numGPIO = 30

var errInvalidPin = errors.New("gpio: pin out of range")

// RPGPIODriver implements core.GPIODriver with machine.Pin.
// It keeps no map so it can be created without heap churn.
type RPGPIODriver struct {
	configured uint32 // bit n set once GPIOn is an output
}

// NewRPGPIODriver creates a new RP2040 GPIO driver
func NewRPGPIODriver() *RPGPIODriver {
	return &RPGPIODriver{}
}

func (d *RPGPIODriver) isOutput(pin core.GPIOPin) bool {
	return d.configured&(1<<pin) != 0
}

// ConfigureOutput configures a pin as a digital output, driven low
func (d *RPGPIODriver) ConfigureOutput(pin core.GPIOPin) error {
	if pin >= numGPIO {
		return errInvalidPin
	}
	if d.isOutput(pin) {
		return nil
	}

	p := machine.Pin(pin)
	p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	p.Low()

	d.configured |= 1 << pin
	return nil
}

// SetPin drives an output, configuring it on first use
func (d *RPGPIODriver) SetPin(pin core.GPIOPin, value bool) error {
	if !d.isOutput(pin) {
		if err := d.ConfigureOutput(pin); err != nil {
			return err
		}
	}

	machine.Pin(pin).Set(value)
	return nil
}

// GetPin reads back the output level. Unconfigured pins read low.
func (d *RPGPIODriver) GetPin(pin core.GPIOPin) (bool, error) {
	if pin >= numGPIO {
		return false, errInvalidPin
	}
	if !d.isOutput(pin) {
		return false, nil
	}

	return machine.Pin(pin).Get(), nil
}
