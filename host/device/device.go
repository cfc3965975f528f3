package device

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"greenhouse/host/serial"
	"greenhouse/protocol"

	"github.com/rs/zerolog"
)

var (
	// ErrTimeout is returned when the controller does not answer in time
	ErrTimeout = errors.New("device: response timeout")

	// ErrUnrecognised is returned when the controller rejects a command letter
	ErrUnrecognised = errors.New("device: command not recognised")
)

const ackLine = "ack"

// Report is a decoded status or LED report
type Report struct {
	// LED is nil when the controller reported "undefined"
	LED *bool

	// Climate fields are only present when the board has a sensor
	Temperature *float64
	Humidity    *float64
}

type wireReport struct {
	LED         json.RawMessage `json:"led"`
	Temperature *float64        `json:"temperature"`
	Humidity    *float64        `json:"humidity"`
}

// Device talks the single-letter command protocol over a serial Port
type Device struct {
	port    serial.Port
	timeout time.Duration
	log     zerolog.Logger

	// bytes received after the last complete line
	partial []byte
	lines   []string
}

// New creates a Device on an open port
func New(port serial.Port, responseTimeout time.Duration, log zerolog.Logger) *Device {
	return &Device{
		port:    port,
		timeout: responseTimeout,
		log:     log,
	}
}

// Close closes the underlying port
func (d *Device) Close() error {
	return d.port.Close()
}

// Status sends S and waits for the report
func (d *Device) Status() (*Report, error) {
	return d.command(fmt.Sprintf("%c0\n", protocol.LetterStatus))
}

// SetLED sends L with the requested level and waits for the report
func (d *Device) SetLED(on bool) (*Report, error) {
	level := 0
	if on {
		level = 1
	}
	return d.command(fmt.Sprintf("%c1 %d\n", protocol.LetterUpdateLed, level))
}

// Raw sends text as-is and returns every line received before the
// response timeout.
func (d *Device) Raw(text string) ([]string, error) {
	if err := d.send(text); err != nil {
		return nil, err
	}

	deadline := time.Now().Add(d.timeout)
	var out []string
	for time.Now().Before(deadline) {
		line, err := d.readLine(deadline)
		if errors.Is(err, ErrTimeout) {
			break
		}
		if err != nil {
			return out, err
		}
		out = append(out, line)
	}
	return out, nil
}

func (d *Device) command(text string) (*Report, error) {
	// Anything left from an earlier exchange is stale
	d.lines = nil
	d.partial = nil
	if err := d.port.Flush(); err != nil {
		return nil, fmt.Errorf("failed to flush port: %w", err)
	}

	if err := d.send(text); err != nil {
		return nil, err
	}

	deadline := time.Now().Add(d.timeout)
	acked := false
	for {
		line, err := d.readLine(deadline)
		if err != nil {
			return nil, err
		}

		switch {
		case line == "":
			continue
		case line == ackLine:
			acked = true
		case strings.HasPrefix(line, protocol.Unrecognised):
			return nil, fmt.Errorf("%w: %s", ErrUnrecognised, line)
		case acked && strings.HasPrefix(line, "{"):
			return ParseReport(line)
		default:
			d.log.Debug().Str("line", line).Msg("ignoring unexpected line")
		}
	}
}

func (d *Device) send(text string) error {
	d.log.Debug().Str("tx", text).Msg("sending")
	if _, err := io.WriteString(d.port, text); err != nil {
		return fmt.Errorf("failed to write command: %w", err)
	}
	return nil
}

// readLine returns the next CRLF or LF terminated line without its
// terminator, reading from the port until deadline.
func (d *Device) readLine(deadline time.Time) (string, error) {
	buf := make([]byte, 256)
	for len(d.lines) == 0 {
		if !time.Now().Before(deadline) {
			return "", ErrTimeout
		}

		n, err := d.port.Read(buf)
		if n > 0 {
			d.split(buf[:n])
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read response: %w", err)
		}
	}

	line := d.lines[0]
	d.lines = d.lines[1:]
	d.log.Debug().Str("rx", line).Msg("received")
	return line, nil
}

func (d *Device) split(data []byte) {
	d.partial = append(d.partial, data...)
	for {
		i := bytes.IndexByte(d.partial, '\n')
		if i < 0 {
			return
		}
		line := strings.TrimRight(string(d.partial[:i]), "\r")
		d.lines = append(d.lines, line)
		d.partial = d.partial[i+1:]
	}
}

// ParseReport decodes one JSON report line
func ParseReport(line string) (*Report, error) {
	var wire wireReport
	if err := json.Unmarshal([]byte(line), &wire); err != nil {
		return nil, fmt.Errorf("failed to parse report %q: %w", line, err)
	}

	report := &Report{
		Temperature: wire.Temperature,
		Humidity:    wire.Humidity,
	}

	if len(wire.LED) == 0 {
		return nil, fmt.Errorf("report %q has no led field", line)
	}

	var on bool
	if err := json.Unmarshal(wire.LED, &on); err == nil {
		report.LED = &on
		return report, nil
	}

	var token string
	if err := json.Unmarshal(wire.LED, &token); err != nil || token != "undefined" {
		return nil, fmt.Errorf("report %q has invalid led field", line)
	}
	return report, nil
}

// String renders a report for display
func (r *Report) String() string {
	led := "undefined"
	if r.LED != nil {
		led = "off"
		if *r.LED {
			led = "on"
		}
	}

	var b strings.Builder
	b.WriteString("led=" + led)
	if r.Temperature != nil {
		fmt.Fprintf(&b, " temperature=%.2f", *r.Temperature)
	}
	if r.Humidity != nil {
		fmt.Fprintf(&b, " humidity=%.2f", *r.Humidity)
	}
	return b.String()
}
