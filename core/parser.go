package core

import "greenhouse/protocol"

// State is the position of the protocol state machine
type State uint8

const (
	WaitCommand State = iota
	WaitParam1
	CollectParam1
	WaitParam2
	CollectParam2
)

func (s State) String() string {
	switch s {
	case WaitCommand:
		return "wait_command"
	case WaitParam1:
		return "wait_param1"
	case CollectParam1:
		return "collect_param1"
	case WaitParam2:
		return "wait_param2"
	case CollectParam2:
		return "collect_param2"
	default:
		return "unknown"
	}
}

// Event reports what a single byte did to the parser
type Event uint8

const (
	EventNone         Event = iota
	EventAbort              // partial command discarded
	EventUnrecognised       // bad byte at command position
	EventDispatch           // command complete, ready to dispatch
)

// Parser turns a byte stream into {command, param1, param2} tuples.
// It holds no buffers and never formats; the Controller acts on the
// returned events.
//
// Parameters accumulate as value*10+digit with no overflow guard and wrap
// like any uint32.
type Parser struct {
	state   State
	command Command
	param1  uint32
	param2  uint32
}

// Feed advances the state machine by one byte
func (p *Parser) Feed(c byte) Event {
	switch p.state {
	case WaitCommand:
		return p.waitCommand(c)
	case WaitParam1:
		return p.waitParam(c, &p.param1, CollectParam1)
	case CollectParam1:
		return p.collectParam1(c)
	case WaitParam2:
		return p.waitParam(c, &p.param2, CollectParam2)
	case CollectParam2:
		return p.collectParam2(c)
	}
	// Unreachable unless state was corrupted
	p.state = WaitCommand
	return EventAbort
}

// State returns the current parser state
func (p *Parser) State() State {
	return p.state
}

// Command returns the command being collected, or the last one dispatched
func (p *Parser) Command() Command {
	return p.command
}

// Params returns the accumulated parameters
func (p *Parser) Params() (uint32, uint32) {
	return p.param1, p.param2
}

// Reset returns the parser to WaitCommand. Parameters are left alone.
func (p *Parser) Reset() {
	p.state = WaitCommand
}

func (p *Parser) waitCommand(c byte) Event {
	switch c {
	case protocol.ByteEscape, protocol.ByteCR, protocol.ByteLF:
		p.state = WaitCommand
		return EventNone
	case protocol.LetterStatus, protocol.LetterStatus + 'a' - 'A':
		// Status has no first parameter
		p.command = Status
		p.param2 = 0
		p.state = CollectParam2
		return EventNone
	case protocol.LetterUpdateLed, protocol.LetterUpdateLed + 'a' - 'A':
		p.command = UpdateLed
		p.param2 = 0
		p.state = WaitParam1
		return EventNone
	default:
		return EventUnrecognised
	}
}

// waitParam skips anything until the first digit of a parameter
func (p *Parser) waitParam(c byte, param *uint32, next State) Event {
	if isAbort(c) {
		p.state = WaitCommand
		return EventAbort
	}
	if isDigit(c) {
		*param = uint32(c - '0')
		p.state = next
	}
	return EventNone
}

func (p *Parser) collectParam1(c byte) Event {
	switch {
	case isAbort(c):
		p.state = WaitCommand
		return EventAbort
	case isDigit(c):
		p.param1 = p.param1*10 + uint32(c-'0')
	default:
		// The separator only triggers the state change
		p.state = WaitParam2
	}
	return EventNone
}

func (p *Parser) collectParam2(c byte) Event {
	switch {
	case c == protocol.ByteEscape:
		// CR and LF terminate the command here rather than abort it
		p.state = WaitCommand
		return EventAbort
	case isDigit(c):
		p.param2 = p.param2*10 + uint32(c-'0')
		return EventNone
	default:
		p.state = WaitCommand
		return EventDispatch
	}
}

func isAbort(c byte) bool {
	return c == protocol.ByteEscape || c == protocol.ByteCR || c == protocol.ByteLF
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
