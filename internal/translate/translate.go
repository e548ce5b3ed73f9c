// Package translate formats user-visible messages for the host locale.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"
	"golang.org/x/text/message"
)

var printer *message.Printer

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("z80core: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// From formats an en-US Sprintf() style key for the detected locale.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
