package flashtx

import (
	"github.com/pkg/errors"

	"github.com/Zereker/flashtx/translate"
)

var f = translate.From

// Errors returned by the encoder and transmitter.
var (
	// ErrInvalidInput is returned when an empty message is encoded.
	ErrInvalidInput = errors.New(f("empty message"))
	// ErrInvalidActuator is returned when no actuator is provided.
	ErrInvalidActuator = errors.New(f("invalid actuator"))
	// ErrSessionActive is returned when a transmission is already running on the actuator.
	ErrSessionActive = errors.New(f("transmission already active"))
	// ErrNoSession is returned when there is no active transmission to act on.
	ErrNoSession = errors.New(f("no active transmission"))
)

// ActuatorError reports a failed state change on the actuator.
// The light may not reflect the intended bit; transmission continues.
type ActuatorError struct {
	On  bool
	Err error
}

func (err *ActuatorError) Error() string {
	state := "off"
	if err.On {
		state = "on"
	}
	return f("actuator %s: %v", state, err.Err)
}

func (err *ActuatorError) Unwrap() error {
	return err.Err
}
