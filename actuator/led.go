package actuator

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// SysfsLEDRoot is where the kernel exposes LED class devices.
const SysfsLEDRoot = "/sys/class/leds"

// ErrNoLED is returned by FirstLED when no LED device exists.
var ErrNoLED = errors.New("led: no devices found")

// LED drives a kernel LED class device through its brightness attribute.
type LED struct {
	name       string
	brightness string
	on         []byte
}

// OpenLED opens the named LED under root (normally SysfsLEDRoot).
// "On" writes the device's max_brightness, falling back to 1.
func OpenLED(root, name string) (*LED, error) {
	dir := filepath.Join(root, name)
	brightness := filepath.Join(dir, "brightness")
	if _, err := os.Stat(brightness); err != nil {
		return nil, errors.Wrapf(err, "led: %s", name)
	}

	on := []byte("1")
	if raw, err := os.ReadFile(filepath.Join(dir, "max_brightness")); err == nil {
		if v := strings.TrimSpace(string(raw)); v != "" && v != "0" {
			on = []byte(v)
		}
	}

	l := &LED{name: name, brightness: brightness, on: on}
	if err := l.SetState(false); err != nil {
		return nil, err
	}
	return l, nil
}

// Name returns the LED device name.
func (l *LED) Name() string {
	return l.name
}

func (l *LED) SetState(on bool) error {
	val := []byte("0")
	if on {
		val = l.on
	}
	if err := os.WriteFile(l.brightness, val, 0o644); err != nil {
		return errors.Wrapf(err, "led: %s", l.name)
	}
	return nil
}

// Close switches the LED off.
func (l *LED) Close() error {
	return l.SetState(false)
}

// Discover lists the LED devices under root in name order.
func Discover(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.Wrapf(err, "led: list %s", root)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if _, err := os.Stat(filepath.Join(root, e.Name(), "brightness")); err == nil {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// FirstLED opens the first LED found under root.
func FirstLED(root string) (*LED, error) {
	names, err := Discover(root)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, ErrNoLED
	}
	return OpenLED(root, names[0])
}
