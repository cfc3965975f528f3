package core

// Report patterns. The LED field is filled with a literal token so the
// same pattern serves true, false and "undefined".
const (
	ledReport     = "{\"led\":%s}\r\n"
	climateReport = "{\"led\":%s,\"temperature\":%f,\"humidity\":%f}\r\n"
)

// handleStatus reports the LED output and, when a sensor has supplied
// one, the latest climate reading. It never touches the parameters.
func handleStatus(c *Controller, _, _ uint32) {
	led := ledToken(c.LEDState())

	if climate, ok := c.Climate(); ok {
		c.Printf(climateReport, String(led), Double(climate.Temperature), Double(climate.Humidity))
		return
	}
	c.Printf(ledReport, String(led))
}

// handleUpdateLed drives the LED on when param2 is non-zero
func handleUpdateLed(c *Controller, _, param2 uint32) {
	on := param2 != 0
	if err := c.SetLED(on); err != nil {
		c.Tracef("led: %s\r\n", String(err.Error()))
	}
	c.Printf(ledReport, String(boolToken(on)))
}

func ledToken(on, known bool) string {
	if !known {
		return "\"undefined\""
	}
	return boolToken(on)
}

func boolToken(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
