//go:build rp2040

package main

import (
	"machine"
)

// InitUSB initializes USB serial communication
// TinyGo automatically sets up USB CDC-ACM on RP2040
func InitUSB() {
	// Configure machine.Serial (which is USB CDC on RP2040)
	err := machine.Serial.Configure(machine.UARTConfig{})
	if err != nil {
		return
	}
}

// USBAvailable returns the number of bytes available to read from USB
func USBAvailable() int {
	return machine.Serial.Buffered()
}

// USBReadBytes reads up to len(data) buffered bytes without waiting
func USBReadBytes(data []byte) (int, error) {
	n := 0
	for n < len(data) && machine.Serial.Buffered() > 0 {
		b, err := machine.Serial.ReadByte()
		if err != nil {
			return n, err
		}
		data[n] = b
		n++
	}
	return n, nil
}

// USBWriteBytes writes multiple bytes to USB
func USBWriteBytes(data []byte) (int, error) {
	n, err := machine.Serial.Write(data)
	return n, err
}
