//go:build !linux

package main

import "github.com/pkg/errors"

func openGPIO(int) (lamp, error) {
	return nil, errors.New("gpio actuator is only supported on linux")
}
