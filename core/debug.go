package core

import "greenhouse/protocol"

// DebugWriter is a function type for writing debug output.
// Targets point it at a debug UART or similar.
type DebugWriter func(p []byte) int

// The trace ring is a separate, lossy diagnostics channel. Parser traces
// and actuator errors go here, never into the response stream, so the
// host only ever sees protocol text on the command port.

// SetTraceEnabled enables or disables the per-byte parser trace
// Disabled by default: tracing every byte costs far more than parsing it
func (c *Controller) SetTraceEnabled(enabled bool) {
	c.traceEnabled = enabled
}

// IsTraceEnabled returns whether tracing is active
func (c *Controller) IsTraceEnabled() bool {
	return c.traceEnabled
}

// Tracef formats into the trace ring. It is a no-op while tracing is off.
func (c *Controller) Tracef(pattern string, values ...Value) {
	if !c.traceEnabled {
		return
	}
	c.formatter.Format(c.trace, pattern, values...)
}

// TraceSpan returns the next contiguous span of pending trace output
func (c *Controller) TraceSpan() []byte {
	return c.trace.ReadableSpan()
}

// TraceSent releases n bytes of the last TraceSpan
func (c *Controller) TraceSent(n int) {
	c.trace.CommitRead(n)
}

// DrainTrace hands pending trace output to w until w stops accepting
// bytes or the ring is empty. It returns the number of bytes written.
func (c *Controller) DrainTrace(w DebugWriter) int {
	return drain(c.trace, w)
}

func drain(ring *protocol.RingBuffer, w DebugWriter) int {
	total := 0
	for {
		span := ring.ReadableSpan()
		if len(span) == 0 {
			return total
		}
		n := w(span)
		if n <= 0 {
			return total
		}
		ring.CommitRead(n)
		total += n
	}
}
