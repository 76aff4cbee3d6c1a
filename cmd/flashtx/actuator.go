package main

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/Zereker/flashtx"
	"github.com/Zereker/flashtx/actuator"
	"github.com/Zereker/flashtx/internal/config"
)

// lamp is an actuator that must be switched off and released on exit.
type lamp interface {
	flashtx.Actuator
	io.Closer
}

func openActuator(cfg config.ActuatorConfig) (lamp, error) {
	switch cfg.Kind {
	case config.KindConsole:
		return actuator.NewConsole(os.Stdout), nil
	case config.KindSerial:
		return actuator.OpenSerial(actuator.SerialConfig{
			Port:       cfg.Port,
			Baud:       cfg.Baud,
			OnCommand:  cfg.OnCommand,
			OffCommand: cfg.OffCommand,
		})
	case config.KindGPIO:
		return openGPIO(cfg.Pin)
	case config.KindLED:
		if cfg.LED == "" {
			return actuator.FirstLED(actuator.SysfsLEDRoot)
		}
		return actuator.OpenLED(actuator.SysfsLEDRoot, cfg.LED)
	default:
		return nil, errors.Errorf("unknown actuator kind %q", cfg.Kind)
	}
}

func closeActuator(l lamp, log flashtx.Logger) {
	if err := l.Close(); err != nil {
		log.Error(f("failed to switch the light off"), "error", err)
	}
}
