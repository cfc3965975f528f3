package serial

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"greenhouse/core"
)

func readAll(t *testing.T, l *Loopback) string {
	t.Helper()
	var out []byte
	buf := make([]byte, 64)
	for {
		n, err := l.Read(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return string(out)
		}
		require.NoError(t, err)
	}
}

func TestLoopbackStatus(t *testing.T) {
	l := NewLoopback(time.Millisecond)

	n, err := l.Write([]byte("S0\n"))
	require.NoError(t, err)
	require.Equal(t, 3, n)

	require.Equal(t, "ack\r\n{\"led\":false}\r\n", readAll(t, l))
}

func TestLoopbackUpdateLed(t *testing.T) {
	l := NewLoopback(time.Millisecond)

	_, err := l.Write([]byte("L1 1\r"))
	require.NoError(t, err)
	require.Equal(t, "ack\r\n{\"led\":true}\r\n", readAll(t, l))
	require.True(t, l.LED())

	_, err = l.Write([]byte("L1 0\n"))
	require.NoError(t, err)
	require.Equal(t, "ack\r\n{\"led\":false}\r\n", readAll(t, l))
	require.False(t, l.LED())
}

func TestLoopbackClimate(t *testing.T) {
	l := NewLoopback(time.Millisecond)
	l.SetClimate(core.Climate{Temperature: 21.5, Humidity: 40.25})

	_, err := l.Write([]byte("S0\n"))
	require.NoError(t, err)
	require.Equal(t, "ack\r\n{\"led\":false,\"temperature\":21.50,\"humidity\":40.25}\r\n", readAll(t, l))
}

func TestLoopbackLongWrite(t *testing.T) {
	l := NewLoopback(time.Millisecond)

	// More than one input buffer of commands in a single write
	var cmds []byte
	for i := 0; i < 30; i++ {
		cmds = append(cmds, "S0\n"...)
	}
	n, err := l.Write(cmds)
	require.NoError(t, err)
	require.Equal(t, len(cmds), n)

	out := readAll(t, l)
	require.Len(t, out, 30*len("ack\r\n{\"led\":false}\r\n"))
}

func TestLoopbackFlush(t *testing.T) {
	l := NewLoopback(time.Millisecond)

	_, err := l.Write([]byte("S0\n"))
	require.NoError(t, err)
	require.NoError(t, l.Flush())
	require.Equal(t, "", readAll(t, l))
}

func TestLoopbackClosed(t *testing.T) {
	l := NewLoopback(time.Millisecond)
	require.NoError(t, l.Close())

	_, err := l.Write([]byte("S0\n"))
	require.ErrorIs(t, err, ErrClosed)

	_, err = l.Read(make([]byte, 8))
	require.ErrorIs(t, err, ErrClosed)
}

func TestSimulatedLED(t *testing.T) {
	led := NewSimulatedLED()
	require.Error(t, led.SetPin(25, true))

	require.NoError(t, led.ConfigureOutput(25))
	require.NoError(t, led.SetPin(25, true))
	on, err := led.GetPin(25)
	require.NoError(t, err)
	require.True(t, on)

	_, err = led.GetPin(3)
	require.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("/dev/ttyACM1")
	require.Equal(t, "/dev/ttyACM1", cfg.Device)
	require.Equal(t, 115200, cfg.Baud)
	require.Equal(t, 100, cfg.ReadTimeout)
}

func TestOpenRequiresDevice(t *testing.T) {
	_, err := Open(nil)
	require.Error(t, err)

	_, err = Open(&Config{})
	require.Error(t, err)
}
