//go:build linux

package actuator

import (
	"github.com/davecheney/gpio"
	"github.com/pkg/errors"
)

// GPIO drives a light wired to a GPIO output pin.
type GPIO struct {
	pin gpio.Pin
}

// OpenGPIO exports pin n as an output and drives it low.
func OpenGPIO(n int) (*GPIO, error) {
	pin, err := gpio.OpenPin(n, gpio.ModeOutput)
	if err != nil {
		return nil, errors.Wrapf(err, "gpio: open pin %d", n)
	}
	g := NewGPIO(pin)
	if err := g.SetState(false); err != nil {
		pin.Close()
		return nil, err
	}
	return g, nil
}

// NewGPIO wraps an open pin.
func NewGPIO(pin gpio.Pin) *GPIO {
	return &GPIO{pin: pin}
}

func (g *GPIO) SetState(on bool) error {
	if on {
		g.pin.Set()
	} else {
		g.pin.Clear()
	}
	if err := g.pin.Err(); err != nil {
		return errors.Wrap(err, "gpio")
	}
	return nil
}

// Close drives the pin low and unexports it. The pin is released even when
// driving it low fails.
func (g *GPIO) Close() error {
	offErr := g.SetState(false)

	if err := g.pin.Close(); err != nil {
		return errors.Wrap(err, "gpio: close")
	}
	return offErr
}
