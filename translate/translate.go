// Package translate formats user-facing text through a locale-aware printer
// backed by the flashtx message catalog.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// supported lists the catalog languages; the first is the fallback.
var supported = []language.Tag{language.English, language.German}

var (
	cat     = catalog.NewBuilder(catalog.Fallback(language.English))
	matcher = language.NewMatcher(supported)
	printer *message.Printer
)

func init() {
	for _, m := range messages {
		mustSet(language.English, m.key, m.key)
		mustSet(language.German, m.key, m.de)
	}

	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("flashtx: locale: %v", err)
	}

	printer = newPrinter(locales...)
}

func mustSet(tag language.Tag, key, msg string) {
	if err := cat.SetString(tag, key, msg); err != nil {
		panic(err)
	}
}

// newPrinter picks the best catalog language for the given BCP 47 locales.
func newPrinter(locales ...string) *message.Printer {
	_, index := language.MatchStrings(matcher, locales...)
	return message.NewPrinter(supported[index], message.Catalog(cat))
}

// From formats an en-US Sprintf() format in the detected locale. Formats
// missing from the catalog are used as given.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
