package translate

// messages maps each en-US format to its translations.
var messages = []struct {
	key string
	de  string
}{
	// errors
	{"empty message", "leere Nachricht"},
	{"invalid actuator", "ungültiger Aktor"},
	{"transmission already active", "Übertragung läuft bereits"},
	{"no active transmission", "keine aktive Übertragung"},
	{"actuator %s: %v", "Aktor %s: %v"},

	// cmd/flashtx
	{"usage: %s [flags] send|encode|serve|leds [args]", "Aufruf: %s [Optionen] send|encode|serve|leds [Argumente]"},
	{"TOML configuration file", "TOML-Konfigurationsdatei"},
	{"actuator kind: console, serial, gpio or led", "Aktortyp: console, serial, gpio oder led"},
	{"bit slot duration (default from config, 100ms)", "Dauer eines Bits (Standard aus der Konfiguration, 100ms)"},
	{"message to transmit", "zu sendende Nachricht"},
	{"flashtx: %v", "flashtx: %v"},
	{"transmission did not complete", "Übertragung nicht abgeschlossen"},
	{"failed to switch the light off", "Licht konnte nicht ausgeschaltet werden"},
}
