package flashtx

// Actuator is the single binary output driven by a transmission.
// Implementations own the physical device; SetState is only ever called
// from one goroutine at a time, in the order the bits specify.
type Actuator interface {
	// SetState turns the light on or off.
	SetState(on bool) error
}

// ActuatorFunc adapts an ordinary function to the Actuator interface.
type ActuatorFunc func(on bool) error

// SetState calls f(on).
func (f ActuatorFunc) SetState(on bool) error {
	return f(on)
}
