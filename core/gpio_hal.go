package core

// GPIOPin identifies a hardware GPIO pin number
type GPIOPin uint32

// GPIODriver is the output side of a board's GPIO block. The controller
// only ever drives one pin through it.
type GPIODriver interface {
	// ConfigureOutput makes pin a digital output, initially low
	ConfigureOutput(pin GPIOPin) error

	// SetPin drives the pin high (true) or low (false)
	SetPin(pin GPIOPin, value bool) error

	// GetPin reports the level the pin is driven to
	GetPin(pin GPIOPin) (bool, error)
}

// activeLow flips levels for outputs wired between the pin and VCC
type activeLow struct {
	GPIODriver
}

// ActiveLow wraps d so that true means "pin low"
func ActiveLow(d GPIODriver) GPIODriver {
	return activeLow{d}
}

func (a activeLow) ConfigureOutput(pin GPIOPin) error {
	if err := a.GPIODriver.ConfigureOutput(pin); err != nil {
		return err
	}
	// Start off, which for an active-low output is high
	return a.GPIODriver.SetPin(pin, true)
}

func (a activeLow) SetPin(pin GPIOPin, value bool) error {
	return a.GPIODriver.SetPin(pin, !value)
}

func (a activeLow) GetPin(pin GPIOPin) (bool, error) {
	level, err := a.GPIODriver.GetPin(pin)
	return !level, err
}
