//go:build rp2040

package pio

// PIO output backend using tinygo-org/pio package
// A single state machine owns one pin and latches whatever bit the CPU
// pushes into its TX FIFO.

import (
	"errors"
	"machine"

	"greenhouse/core"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

var (
	errPinNotOwned = errors.New("pio: pin not owned by this state machine")
	errFIFOFull    = errors.New("pio: tx fifo full")
)

// Program flow:
//  1. Pull 32-bit word from FIFO (blocking)
//  2. Shift its low bit out to the pin
//
// buildOutputProgram creates the output PIO program using AssemblerV0
func buildOutputProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}

	return []uint16{
		asm.Pull(false, true).Encode(),          // 0: pull block
		asm.Out(rp2pio.OutDestPins, 1).Encode(), // 1: out pins, 1
	}
}

const outputPIOOrigin = 0 // Load at offset 0 for correct jump addresses

// PIOOutputDriver implements core.GPIODriver with one PIO state machine
type PIOOutputDriver struct {
	pio    *rp2pio.PIO
	sm     rp2pio.StateMachine
	offset uint8

	pin        core.GPIOPin
	configured bool
	value      bool
}

// NewPIOOutputDriver creates a new PIO-based output driver
// pioNum: 0 for PIO0, 1 for PIO1
// smNum: 0-3 for state machine number
func NewPIOOutputDriver(pioNum, smNum uint8) *PIOOutputDriver {
	var pioHW *rp2pio.PIO
	if pioNum == 0 {
		pioHW = rp2pio.PIO0
	} else {
		pioHW = rp2pio.PIO1
	}

	return &PIOOutputDriver{
		pio: pioHW,
		sm:  pioHW.StateMachine(smNum),
	}
}

// ConfigureOutput loads the program and hands the pin to the state machine.
// Only one pin is supported per driver.
func (d *PIOOutputDriver) ConfigureOutput(pin core.GPIOPin) error {
	if d.configured {
		if pin == d.pin {
			return nil
		}
		return errPinNotOwned
	}

	// Claim the state machine before touching it
	d.sm.TryClaim()

	program := buildOutputProgram()
	offset, err := d.pio.AddProgram(program, outputPIOOrigin)
	if err != nil {
		return err
	}
	d.offset = offset

	machinePin := machine.Pin(pin)
	machinePin.Configure(machine.PinConfig{Mode: d.pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetOutPins(machinePin, 1)

	// Shift right, no autopull, 32-bit threshold
	cfg.SetOutShift(true, false, 32)
	cfg.SetWrap(offset+uint8(len(program))-1, offset)
	cfg.SetClkDivIntFrac(1000, 0)

	d.sm.Init(offset, cfg)
	d.sm.SetPindirsConsecutive(machinePin, 1, true)
	d.sm.SetPinsConsecutive(machinePin, 1, false)
	d.sm.SetEnabled(true)

	d.pin = pin
	d.configured = true
	d.value = false
	return nil
}

// SetPin queues the new level. It never waits on the FIFO.
func (d *PIOOutputDriver) SetPin(pin core.GPIOPin, value bool) error {
	if !d.configured || pin != d.pin {
		return errPinNotOwned
	}
	if d.sm.IsTxFIFOFull() {
		return errFIFOFull
	}

	var word uint32
	if value {
		word = 1
	}
	d.sm.TxPut(word)
	d.value = value
	return nil
}

// GetPin returns the last level queued to the state machine
func (d *PIOOutputDriver) GetPin(pin core.GPIOPin) (bool, error) {
	if !d.configured || pin != d.pin {
		return false, errPinNotOwned
	}
	return d.value, nil
}
