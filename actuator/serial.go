package actuator

import (
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/tarm/serial"
)

// Command bytes understood by USB signal towers for the red lamp.
const (
	DefaultOnCommand  byte = 0x11
	DefaultOffCommand byte = 0x21
	DefaultBaud            = 9600
)

// SerialConfig describes a light tower attached to a serial port.
type SerialConfig struct {
	Port       string
	Baud       int
	OnCommand  byte
	OffCommand byte
	Timeout    time.Duration
}

// Serial switches a lamp by writing one command byte per state change.
type Serial struct {
	mu   sync.Mutex
	port io.WriteCloser
	on   byte
	off  byte
}

// OpenSerial opens the port and switches the lamp off.
func OpenSerial(cfg SerialConfig) (*Serial, error) {
	if cfg.Port == "" {
		return nil, errors.New("serial: port is required")
	}
	if cfg.Baud <= 0 {
		cfg.Baud = DefaultBaud
	}
	if cfg.OnCommand == 0 && cfg.OffCommand == 0 {
		cfg.OnCommand, cfg.OffCommand = DefaultOnCommand, DefaultOffCommand
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Port,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.Timeout,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "serial: open %s", cfg.Port)
	}

	s := NewSerial(port, cfg.OnCommand, cfg.OffCommand)
	if err := s.SetState(false); err != nil {
		port.Close()
		return nil, err
	}
	return s, nil
}

// NewSerial wraps an already open port.
func NewSerial(port io.WriteCloser, on, off byte) *Serial {
	return &Serial{port: port, on: on, off: off}
}

func (s *Serial) SetState(on bool) error {
	cmd := s.off
	if on {
		cmd = s.on
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.port.Write([]byte{cmd}); err != nil {
		return errors.Wrapf(err, "serial: send command 0x%02x", cmd)
	}
	return nil
}

// Close switches the lamp off and closes the port.
func (s *Serial) Close() error {
	offErr := s.SetState(false)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.port.Close(); err != nil {
		return errors.Wrap(err, "serial: close")
	}
	return offErr
}
