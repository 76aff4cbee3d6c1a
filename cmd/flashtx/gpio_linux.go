//go:build linux

package main

import "github.com/Zereker/flashtx/actuator"

func openGPIO(pin int) (lamp, error) {
	return actuator.OpenGPIO(pin)
}
