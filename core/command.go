package core

// Command is a dispatched protocol command
type Command uint8

const (
	Status Command = iota
	UpdateLed

	commandCount
)

func (c Command) String() string {
	switch c {
	case Status:
		return "status"
	case UpdateLed:
		return "update_led"
	default:
		return "unknown"
	}
}

// CommandHandler performs a command and writes its report through c.
// Handlers cannot fail; a report that does not fit is truncated.
type CommandHandler func(c *Controller, param1, param2 uint32)

// Dispatcher maps commands to handlers. It is a fixed table indexed by
// Command, so lookups never allocate.
type Dispatcher struct {
	handlers [commandCount]CommandHandler
}

// NewDispatcher creates a dispatcher with the default command handlers
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{}
	d.Register(Status, handleStatus)
	d.Register(UpdateLed, handleUpdateLed)
	return d
}

// Register installs handler for cmd, replacing any previous one.
// Commands outside the closed set are ignored.
func (d *Dispatcher) Register(cmd Command, handler CommandHandler) {
	if cmd >= commandCount {
		return
	}
	d.handlers[cmd] = handler
}

// Handler returns the handler registered for cmd
func (d *Dispatcher) Handler(cmd Command) (CommandHandler, bool) {
	if cmd >= commandCount || d.handlers[cmd] == nil {
		return nil, false
	}
	return d.handlers[cmd], true
}

// Dispatch runs the handler for cmd. Unknown commands are dropped.
func (d *Dispatcher) Dispatch(c *Controller, cmd Command, param1, param2 uint32) {
	handler, ok := d.Handler(cmd)
	if !ok {
		return
	}
	handler(c, param1, param2)
}
