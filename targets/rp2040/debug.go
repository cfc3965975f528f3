//go:build rp2040

package main

import (
	"machine"
)

var (
	debugUART    *machine.UART
	debugEnabled bool
)

// InitDebugUART initializes UART0 on GPIO0 (TX) and GPIO1 (RX) for debugging
// Baud rate: 115200
func InitDebugUART() {
	debugUART = machine.UART0

	err := debugUART.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GPIO0,
		RX:       machine.GPIO1,
	})

	if err != nil {
		debugEnabled = false
		return
	}

	debugEnabled = true
}

// DebugWrite writes raw bytes to the debug UART.
// It matches core.DebugWriter so the trace ring can drain into it.
func DebugWrite(p []byte) int {
	if !debugEnabled || debugUART == nil {
		// Swallow the trace so the ring never backs up
		return len(p)
	}
	n, _ := debugUART.Write(p)
	return n
}

// DebugPrintln writes a string to the debug UART with newline
func DebugPrintln(s string) {
	if !debugEnabled || debugUART == nil {
		return
	}
	debugUART.Write([]byte(s))
	debugUART.Write([]byte("\r\n"))
}
