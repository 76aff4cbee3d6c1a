package translate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPrinter_Languages(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("empty message", newPrinter("en-US").Sprintf("empty message"))
	assert.Equal("leere Nachricht", newPrinter("de-DE").Sprintf("empty message"))
	assert.Equal("leere Nachricht", newPrinter("de-AT").Sprintf("empty message"))

	// unsupported or missing locales fall back to English
	assert.Equal("empty message", newPrinter("fr-FR").Sprintf("empty message"))
	assert.Equal("empty message", newPrinter().Sprintf("empty message"))
}

func TestNewPrinter_Formats(t *testing.T) {
	assert := assert.New(t)

	de := newPrinter("de-DE")
	assert.Equal("Aktor on: port gone", de.Sprintf("actuator %s: %v", "on", "port gone"))

	// keys outside the catalog are formatted as given
	assert.Equal("slot 3 of 10", de.Sprintf("slot %d of %d", 3, 10))
}

func TestCatalog_Complete(t *testing.T) {
	en, de := newPrinter("en"), newPrinter("de")

	seen := make(map[string]bool)
	for _, m := range messages {
		assert.False(t, seen[m.key], "duplicate key %q", m.key)
		seen[m.key] = true

		assert.NotEmpty(t, m.de, m.key)
		assert.Equal(t, strings.Count(m.key, "%"), strings.Count(m.de, "%"), "verbs in %q", m.key)
		if !strings.Contains(m.key, "%") {
			assert.Equal(t, m.key, en.Sprintf(m.key))
		}
	}
	assert.Equal(t, "Übertragung läuft bereits", de.Sprintf("transmission already active"))
}

func TestFrom(t *testing.T) {
	// the detected locale decides the language; only the shape is fixed
	assert.NotEmpty(t, From("empty message"))
	assert.Contains(t, From("actuator %s: %v", "off", "boom"), "boom")
}
