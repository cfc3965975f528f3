package serial

import (
	"errors"
	"io"
	"sync"
	"time"

	"greenhouse/core"
)

var ErrClosed = errors.New("serial: port closed")

// Loopback is a Port backed by an in-process controller. Bytes written are
// fed to the controller exactly as the firmware's USB loop would, and Read
// returns whatever the controller has queued for the host.
type Loopback struct {
	mu      sync.Mutex
	ctrl    *core.Controller
	led     *SimulatedLED
	pending []byte
	timeout time.Duration
	closed  bool
}

// NewLoopback creates a loopback port with a simulated LED. Read waits up
// to readTimeout for output before reporting io.EOF, like a native port
// whose read timed out.
func NewLoopback(readTimeout time.Duration) *Loopback {
	led := NewSimulatedLED()
	return &Loopback{
		ctrl:    core.NewController(core.DefaultConfig(), led),
		led:     led,
		timeout: readTimeout,
	}
}

// Write feeds p to the controller in input-buffer sized chunks
func (l *Loopback) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return 0, ErrClosed
	}

	written := 0
	for written < len(p) {
		in := l.ctrl.InputBuffer()
		n := copy(in, p[written:])
		l.ctrl.InputDelivered(n)
		written += n

		// Drain between chunks so a long write cannot overrun the output ring
		l.collect()
	}
	return written, nil
}

// Read returns queued controller output
func (l *Loopback) Read(p []byte) (int, error) {
	if n, err := l.read(p); n > 0 || err != nil {
		return n, err
	}

	time.Sleep(l.timeout)

	n, err := l.read(p)
	if n == 0 && err == nil {
		return 0, io.EOF
	}
	return n, err
}

func (l *Loopback) read(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return 0, ErrClosed
	}

	l.collect()
	n := copy(p, l.pending)
	l.pending = l.pending[n:]
	return n, nil
}

// collect moves everything the controller has queued into pending.
// Callers hold mu.
func (l *Loopback) collect() {
	l.ctrl.DrainOutput(func(p []byte) int {
		l.pending = append(l.pending, p...)
		return len(p)
	})
}

// Flush discards output that has not been read yet
func (l *Loopback) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.collect()
	l.pending = nil
	return nil
}

// Close marks the port closed. Later reads and writes fail.
func (l *Loopback) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed = true
	return nil
}

// SetClimate hands the controller a sensor reading, as the firmware's
// climate poller does.
func (l *Loopback) SetClimate(reading core.Climate) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.ctrl.SetClimate(reading)
}

// LED reports the simulated LED level
func (l *Loopback) LED() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.led.Level()
}

// SimulatedLED is a core.GPIODriver with a single in-memory output
type SimulatedLED struct {
	pin        core.GPIOPin
	configured bool
	level      bool
}

func NewSimulatedLED() *SimulatedLED {
	return &SimulatedLED{}
}

func (s *SimulatedLED) ConfigureOutput(pin core.GPIOPin) error {
	s.pin = pin
	s.configured = true
	s.level = false
	return nil
}

func (s *SimulatedLED) SetPin(pin core.GPIOPin, value bool) error {
	if !s.configured || pin != s.pin {
		return errors.New("serial: simulated pin not configured")
	}
	s.level = value
	return nil
}

func (s *SimulatedLED) GetPin(pin core.GPIOPin) (bool, error) {
	if !s.configured || pin != s.pin {
		return false, errors.New("serial: simulated pin not configured")
	}
	return s.level, nil
}

// Level returns the current output level
func (s *SimulatedLED) Level() bool {
	return s.level
}
