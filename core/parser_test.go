package core

import "testing"

// feedAll feeds bytes and returns the state after each one
func feedAll(p *Parser, input string) ([]State, []Event) {
	states := make([]State, 0, len(input))
	events := make([]Event, 0, len(input))
	for i := 0; i < len(input); i++ {
		events = append(events, p.Feed(input[i]))
		states = append(states, p.State())
	}
	return states, events
}

func TestParserStatus(t *testing.T) {
	var p Parser

	states, events := feedAll(&p, "S5\n")

	want := []State{CollectParam2, CollectParam2, WaitCommand}
	for i := range want {
		if states[i] != want[i] {
			t.Errorf("Byte %d: expected state %s, got %s", i, want[i], states[i])
		}
	}

	if events[2] != EventDispatch {
		t.Errorf("Expected dispatch on terminator, got event %d", events[2])
	}
	if p.Command() != Status {
		t.Errorf("Expected command %s, got %s", Status, p.Command())
	}
	if _, param2 := p.Params(); param2 != 5 {
		t.Errorf("Expected param2 5, got %d", param2)
	}
}

func TestParserUpdateLed(t *testing.T) {
	var p Parser

	states, events := feedAll(&p, "L10 1\r")

	want := []State{WaitParam1, CollectParam1, CollectParam1, WaitParam2, CollectParam2, WaitCommand}
	for i := range want {
		if states[i] != want[i] {
			t.Errorf("Byte %d: expected state %s, got %s", i, want[i], states[i])
		}
	}

	for i, ev := range events[:5] {
		if ev != EventNone {
			t.Errorf("Byte %d: expected no event, got %d", i, ev)
		}
	}
	if events[5] != EventDispatch {
		t.Errorf("Expected dispatch, got event %d", events[5])
	}

	param1, param2 := p.Params()
	if p.Command() != UpdateLed || param1 != 10 || param2 != 1 {
		t.Errorf("Expected (update_led, 10, 1), got (%s, %d, %d)", p.Command(), param1, param2)
	}
}

func TestParserLowerCaseCommands(t *testing.T) {
	var p Parser

	if p.Feed('s'); p.State() != CollectParam2 {
		t.Errorf("Expected 's' to start a status command, got %s", p.State())
	}
	p.Reset()
	if p.Feed('l'); p.State() != WaitParam1 {
		t.Errorf("Expected 'l' to start an LED command, got %s", p.State())
	}
}

func TestParserUnrecognised(t *testing.T) {
	var p Parser

	for _, c := range []byte{'X', '7', ' ', 0xFF} {
		if ev := p.Feed(c); ev != EventUnrecognised {
			t.Errorf("Byte 0x%02X: expected unrecognised event, got %d", c, ev)
		}
		if p.State() != WaitCommand {
			t.Errorf("Byte 0x%02X: expected to stay in %s, got %s", c, WaitCommand, p.State())
		}
	}
}

func TestParserIdleTerminators(t *testing.T) {
	var p Parser

	for _, c := range []byte{0x1B, '\r', '\n'} {
		if ev := p.Feed(c); ev != EventNone {
			t.Errorf("Byte 0x%02X at command position: expected no event, got %d", c, ev)
		}
		if p.State() != WaitCommand {
			t.Errorf("Byte 0x%02X: expected %s, got %s", c, WaitCommand, p.State())
		}
	}
}

func TestParserEscapeAbortsAnyState(t *testing.T) {
	prefixes := map[State]string{
		WaitParam1:    "L",
		CollectParam1: "L12",
		WaitParam2:    "L12 ",
		CollectParam2: "L12 34",
	}

	for state, prefix := range prefixes {
		var p Parser
		feedAll(&p, prefix)
		if p.State() != state {
			t.Fatalf("Prefix %q: expected %s, got %s", prefix, state, p.State())
		}

		if ev := p.Feed(0x1B); ev != EventAbort {
			t.Errorf("ESC in %s: expected abort, got event %d", state, ev)
		}
		if p.State() != WaitCommand {
			t.Errorf("ESC in %s: expected %s, got %s", state, WaitCommand, p.State())
		}
	}
}

func TestParserLineEndAbortsBeforeParam2(t *testing.T) {
	for _, prefix := range []string{"L", "L12", "L12 "} {
		var p Parser
		feedAll(&p, prefix)

		if ev := p.Feed('\n'); ev != EventAbort {
			t.Errorf("LF after %q: expected abort, got event %d", prefix, ev)
		}
		if p.State() != WaitCommand {
			t.Errorf("LF after %q: expected %s, got %s", prefix, WaitCommand, p.State())
		}
	}
}

func TestParserWaitStatesIgnoreNoise(t *testing.T) {
	var p Parser

	_, events := feedAll(&p, "Lx,S 7;a 9;")
	for i, ev := range events[:len(events)-1] {
		if ev != EventNone {
			t.Errorf("Byte %d: expected no event, got %d", i, ev)
		}
	}
	if events[len(events)-1] != EventDispatch {
		t.Errorf("Expected dispatch on final separator, got %d", events[len(events)-1])
	}

	param1, param2 := p.Params()
	if param1 != 7 || param2 != 9 {
		t.Errorf("Expected params (7, 9), got (%d, %d)", param1, param2)
	}
}

func TestParserParamOverflowWraps(t *testing.T) {
	var p Parser

	// 2^32 + 5 wraps to 5
	feedAll(&p, "S4294967301\n")
	if _, param2 := p.Params(); param2 != 5 {
		t.Errorf("Expected param2 to wrap to 5, got %d", param2)
	}
}

func TestParserStatusKeepsParam1(t *testing.T) {
	var p Parser

	feedAll(&p, "L42 0\n")
	feedAll(&p, "S3\n")

	param1, param2 := p.Params()
	if param1 != 42 {
		t.Errorf("Expected status to leave param1 at 42, got %d", param1)
	}
	if param2 != 3 {
		t.Errorf("Expected param2 3, got %d", param2)
	}
}
