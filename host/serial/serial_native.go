package serial

import (
	"fmt"
	"time"

	"github.com/tarm/serial"
)

// NativePort is a tarm/serial port. Read, Write, Close and Flush come
// straight from the embedded port.
type NativePort struct {
	*serial.Port
	device string
}

// Open opens a native serial port, 8N1
func Open(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Device == "" {
		return nil, fmt.Errorf("no serial device given")
	}
	if cfg.Baud <= 0 {
		return nil, fmt.Errorf("invalid baud rate %d", cfg.Baud)
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: time.Duration(cfg.ReadTimeout) * time.Millisecond,
		Size:        8,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}

	return &NativePort{Port: port, device: cfg.Device}, nil
}

// String returns the device path
func (p *NativePort) String() string {
	return p.device
}
