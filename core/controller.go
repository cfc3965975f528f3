package core

import (
	"errors"

	"greenhouse/protocol"
)

var errNoLED = errors.New("no LED driver configured")

// Climate is a temperature and humidity reading
type Climate struct {
	Temperature float64 // degrees Celsius
	Humidity    float64 // percent relative humidity
}

// Controller owns every buffer and piece of state the command interface
// needs. Each instance is independent; nothing is global.
//
// All methods must be called from one cooperative context, normally the
// target's polling loop. Nothing blocks and nothing allocates after
// NewController returns.
type Controller struct {
	cfg Config

	staging    protocol.StagingBuffer
	output     *protocol.RingBuffer
	trace      *protocol.RingBuffer
	parser     Parser
	formatter  Formatter
	dispatcher *Dispatcher

	gpio       GPIODriver
	ledPin     GPIOPin
	climate    Climate
	hasClimate bool

	traceEnabled bool
}

// NewController creates a controller. gpio may be nil, in which case the
// LED is reported as undefined.
func NewController(cfg Config, gpio GPIODriver) *Controller {
	applyDefaults(&cfg)
	if gpio != nil && cfg.LEDActiveLow {
		gpio = ActiveLow(gpio)
	}

	c := &Controller{
		cfg:          cfg,
		output:       protocol.NewRingBuffer(cfg.OutputBufferSize),
		trace:        protocol.NewRingBuffer(cfg.TraceBufferSize),
		dispatcher:   NewDispatcher(),
		gpio:         gpio,
		ledPin:       cfg.LEDPin,
		traceEnabled: cfg.Trace,
	}

	if gpio != nil {
		if err := gpio.ConfigureOutput(cfg.LEDPin); err != nil {
			c.Tracef("led: %s\r\n", String(err.Error()))
		}
	}
	return c
}

// InputBuffer offers the staging array to the transport
func (c *Controller) InputBuffer() []byte {
	return c.staging.Stage()
}

// InputDelivered feeds the first n staged bytes through the parser
func (c *Controller) InputDelivered(n int) {
	c.staging.Commit(n, c.Feed)
}

// OutputSpan returns the next contiguous span of pending response bytes
func (c *Controller) OutputSpan() []byte {
	return c.output.ReadableSpan()
}

// OutputSent releases n bytes of the last OutputSpan
func (c *Controller) OutputSent(n int) {
	c.output.CommitRead(n)
}

// DrainOutput hands pending responses to w until w stops accepting bytes
func (c *Controller) DrainOutput(w DebugWriter) int {
	return drain(c.output, w)
}

// Feed processes one received byte
func (c *Controller) Feed(b byte) {
	switch c.parser.Feed(b) {
	case EventUnrecognised:
		c.Printf("\r\n"+protocol.Unrecognised+" '%c'\r\n", Char(b))
	case EventDispatch:
		param1, param2 := c.parser.Params()
		c.Printf(protocol.Ack)
		c.dispatcher.Dispatch(c, c.parser.Command(), param1, param2)
	}

	c.Tracef("state: %s byte: %u\r\n", String(c.parser.State().String()), Uint(uint32(b)))
}

// Printf formats into the response stream. Output that does not fit is
// dropped; see Formatter.Format.
func (c *Controller) Printf(pattern string, values ...Value) (int, error) {
	return c.formatter.Format(c.output, pattern, values...)
}

// State returns the parser state
func (c *Controller) State() State {
	return c.parser.State()
}

// Params returns the parser's accumulated parameters
func (c *Controller) Params() (uint32, uint32) {
	return c.parser.Params()
}

// Dispatcher returns the command table, for replacing handlers
func (c *Controller) Dispatcher() *Dispatcher {
	return c.dispatcher
}

// SetLED drives the LED output
func (c *Controller) SetLED(on bool) error {
	if c.gpio == nil {
		return errNoLED
	}
	return c.gpio.SetPin(c.ledPin, on)
}

// LEDState reads back the LED output. known is false when there is no
// driver or the pin cannot be read.
func (c *Controller) LEDState() (on bool, known bool) {
	if c.gpio == nil {
		return false, false
	}
	on, err := c.gpio.GetPin(c.ledPin)
	if err != nil {
		return false, false
	}
	return on, true
}

// SetClimate stores the latest sensor reading for status reports
func (c *Controller) SetClimate(reading Climate) {
	c.climate = reading
	c.hasClimate = true
}

// Climate returns the latest sensor reading, if any
func (c *Controller) Climate() (Climate, bool) {
	return c.climate, c.hasClimate
}

// Reset discards a partial command and any queued output
func (c *Controller) Reset() {
	c.parser.Reset()
	c.output.Reset()
	c.trace.Reset()
}
