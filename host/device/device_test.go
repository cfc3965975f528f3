package device

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"greenhouse/core"
	"greenhouse/host/serial"
)

func newLoopbackDevice(t *testing.T) (*Device, *serial.Loopback) {
	t.Helper()
	port := serial.NewLoopback(time.Millisecond)
	dev := New(port, 50*time.Millisecond, zerolog.Nop())
	t.Cleanup(func() { dev.Close() })
	return dev, port
}

func TestStatus(t *testing.T) {
	dev, _ := newLoopbackDevice(t)

	report, err := dev.Status()
	require.NoError(t, err)
	require.NotNil(t, report.LED)
	require.False(t, *report.LED)
	require.Nil(t, report.Temperature)
	require.Nil(t, report.Humidity)
}

func TestStatusWithClimate(t *testing.T) {
	dev, port := newLoopbackDevice(t)
	port.SetClimate(core.Climate{Temperature: 23.4, Humidity: 55})

	report, err := dev.Status()
	require.NoError(t, err)
	require.NotNil(t, report.Temperature)
	require.InDelta(t, 23.4, *report.Temperature, 0.001)
	require.InDelta(t, 55.0, *report.Humidity, 0.001)
	require.Equal(t, "led=off temperature=23.40 humidity=55.00", report.String())
}

func TestSetLED(t *testing.T) {
	dev, port := newLoopbackDevice(t)

	report, err := dev.SetLED(true)
	require.NoError(t, err)
	require.True(t, *report.LED)
	require.True(t, port.LED())

	report, err = dev.Status()
	require.NoError(t, err)
	require.True(t, *report.LED)

	report, err = dev.SetLED(false)
	require.NoError(t, err)
	require.False(t, *report.LED)
	require.False(t, port.LED())
}

func TestRaw(t *testing.T) {
	dev, _ := newLoopbackDevice(t)

	lines, err := dev.Raw("X")
	require.NoError(t, err)
	require.Equal(t, []string{"", "Unrecognised command code 'X'"}, lines)

	lines, err = dev.Raw("L7 1\r")
	require.NoError(t, err)
	require.Equal(t, []string{"ack", `{"led":true}`}, lines)
}

func TestRawAbort(t *testing.T) {
	dev, _ := newLoopbackDevice(t)

	// ESC drops the half-typed command, nothing is answered
	lines, err := dev.Raw("L1 1\x1b")
	require.NoError(t, err)
	require.Empty(t, lines)
}

// silentPort accepts writes and never answers
type silentPort struct {
	bytes.Buffer
}

func (p *silentPort) Read(b []byte) (int, error) {
	time.Sleep(time.Millisecond)
	return 0, io.EOF
}

func (p *silentPort) Close() error { return nil }
func (p *silentPort) Flush() error { return nil }

func TestStatusTimeout(t *testing.T) {
	port := &silentPort{}
	dev := New(port, 10*time.Millisecond, zerolog.Nop())

	_, err := dev.Status()
	require.ErrorIs(t, err, ErrTimeout)
	require.Equal(t, "S0\n", port.String())
}

// scriptedPort replays a fixed response
type scriptedPort struct {
	resp    *bytes.Reader
	written bytes.Buffer
	readErr error
}

func (p *scriptedPort) Read(b []byte) (int, error) {
	if p.readErr != nil {
		return 0, p.readErr
	}
	return p.resp.Read(b)
}

func (p *scriptedPort) Write(b []byte) (int, error) { return p.written.Write(b) }
func (p *scriptedPort) Close() error { return nil }
func (p *scriptedPort) Flush() error { return nil }

func TestUnrecognisedResponse(t *testing.T) {
	port := &scriptedPort{resp: bytes.NewReader([]byte("\r\nUnrecognised command code 'S'\r\n"))}
	dev := New(port, 20*time.Millisecond, zerolog.Nop())

	_, err := dev.Status()
	require.ErrorIs(t, err, ErrUnrecognised)
}

func TestReportBeforeAckIgnored(t *testing.T) {
	port := &scriptedPort{resp: bytes.NewReader([]byte("{\"led\":false}\r\nack\r\n{\"led\":true}\r\n"))}
	dev := New(port, 20*time.Millisecond, zerolog.Nop())

	report, err := dev.SetLED(true)
	require.NoError(t, err)
	require.True(t, *report.LED)
	require.Equal(t, "L1 1\n", port.written.String())
}

func TestReadError(t *testing.T) {
	port := &scriptedPort{readErr: errors.New("unplugged")}
	dev := New(port, 20*time.Millisecond, zerolog.Nop())

	_, err := dev.Status()
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrTimeout)
}

func TestParseReport(t *testing.T) {
	report, err := ParseReport(`{"led":"undefined"}`)
	require.NoError(t, err)
	require.Nil(t, report.LED)
	require.Equal(t, "led=undefined", report.String())

	report, err = ParseReport(`{"led":true,"temperature":-3.50,"humidity":12.00}`)
	require.NoError(t, err)
	require.True(t, *report.LED)
	require.InDelta(t, -3.5, *report.Temperature, 0.001)

	_, err = ParseReport(`{"temperature":1.00}`)
	require.Error(t, err)

	_, err = ParseReport(`{"led":"maybe"}`)
	require.Error(t, err)

	_, err = ParseReport(`not json`)
	require.Error(t, err)
}
