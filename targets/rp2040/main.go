//go:build rp2040

package main

import (
	"machine"
	"time"

	"greenhouse/core"
)

var (
	controller *core.Controller
	climate    *ClimateSensor

	// Debug counters
	bytesReceived uint32
	bytesSent     uint32
	msgerrors     uint32

	// USB connection state tracking
	usbWasDisconnected       bool
	consecutiveWriteFailures uint32
)

func main() {
	// CRITICAL: Disable watchdog on boot to clear any previous state
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	// Initialize USB CDC immediately
	InitUSB()
	InitDebugUART()

	mode := GetMode()
	controller = core.NewController(mode.Config, newLEDDriver(mode))

	if mode.Climate {
		climate, err = NewClimateSensor()
		if err != nil {
			DebugPrintln("climate sensor unavailable: " + err.Error())
			climate = nil
		}
	}

	DebugPrintln(banner)

	// Main loop: deliver input, then drain output. Nothing here blocks on
	// the host; a full output buffer just truncates responses.
	for {
		// Recover from panics in the main loop to prevent a firmware crash
		func() {
			defer func() {
				if r := recover(); r != nil {
					msgerrors++
					controller.Reset()
				}
			}()

			readUSB()
			writeUSB()
			controller.DrainTrace(DebugWrite)

			if climate != nil {
				climate.Poll(controller, time.Now())
			}
		}()

		// Yield to other goroutines
		time.Sleep(10 * time.Microsecond)
	}
}

const banner = "USB Greenhouse controller"

// newLEDDriver picks the output backend for the LED
func newLEDDriver(mode ModeConfig) core.GPIODriver {
	if mode.UsePIO {
		return newPIOLEDDriver()
	}
	return NewRPGPIODriver()
}

// readUSB stages whatever the host has sent and feeds it to the parser
func readUSB() {
	if USBAvailable() == 0 {
		return
	}

	// If we were disconnected and now receiving data, start from a clean state
	if usbWasDisconnected {
		usbWasDisconnected = false
		consecutiveWriteFailures = 0
		controller.Reset()
	}

	n, err := USBReadBytes(controller.InputBuffer())
	if err != nil {
		msgerrors++
	}
	if n > 0 {
		bytesReceived += uint32(n)
		controller.InputDelivered(n)
	}
}

// writeUSB offers the next span of pending output to USB
func writeUSB() {
	span := controller.OutputSpan()
	if len(span) == 0 {
		return
	}

	n, err := USBWriteBytes(span)
	if err != nil || n == 0 {
		// Write error or no progress - likely disconnect
		consecutiveWriteFailures++
		// After several failures, mark as disconnected and drop stale output
		if consecutiveWriteFailures > 10 {
			usbWasDisconnected = true
			consecutiveWriteFailures = 0
			controller.Reset()
		}
		return
	}

	consecutiveWriteFailures = 0
	bytesSent += uint32(n)
	controller.OutputSent(n)
}
