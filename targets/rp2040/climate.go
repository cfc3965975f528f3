//go:build rp2040

package main

import (
	"machine"
	"time"

	"greenhouse/core"

	"tinygo.org/x/drivers/aht20"
)

// I2C0 on GPIO8 (SDA) and GPIO9 (SCL) at 400kHz
const (
	climateI2CFrequency = 400000
	climateInterval     = 5 * time.Second
)

// ClimateSensor samples an AHT20 temperature/humidity sensor and hands
// the readings to the controller, which only ever sees the cached value.
type ClimateSensor struct {
	dev  aht20.Device
	last time.Time
}

// NewClimateSensor configures the I2C bus and the sensor
func NewClimateSensor() (*ClimateSensor, error) {
	bus := machine.I2C0
	err := bus.Configure(machine.I2CConfig{
		Frequency: climateI2CFrequency,
		SDA:       machine.GPIO8,
		SCL:       machine.GPIO9,
	})
	if err != nil {
		return nil, err
	}

	dev := aht20.New(bus)
	dev.Configure()
	dev.Reset()

	return &ClimateSensor{dev: dev}, nil
}

// Poll takes a reading once per climateInterval.
// A read takes the sensor's conversion time, so it is kept off every tick.
func (s *ClimateSensor) Poll(c *core.Controller, now time.Time) {
	if !s.last.IsZero() && now.Sub(s.last) < climateInterval {
		return
	}
	s.last = now

	if err := s.dev.Read(); err != nil {
		DebugPrintln("climate: " + err.Error())
		return
	}

	c.SetClimate(core.Climate{
		Temperature: float64(s.dev.DeciCelsius()) / 10,
		Humidity:    float64(s.dev.DeciRelHumidity()) / 10,
	})
}
