// Package actuator provides light outputs for flashtx transmissions:
// a serial light tower, a GPIO pin, a sysfs LED, a console renderer and an
// in-memory recorder.
//
// Every output implements SetState(on bool) error and Close() error.
// Close switches the light off before releasing the device.
package actuator
