// Copyright 2026, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package translate formats user visible messages for the sim86 tools
// using the locale of the running process.
package translate

import (
	"log"
	"sync"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DEFAULT_LOCALE is used when the environment does not name one.
const DEFAULT_LOCALE = "en-US"

var (
	printerLock sync.Mutex
	printerTag  language.Tag
	printer     *message.Printer
)

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("sim86: locale: %v", err)
	}

	SetLanguage(locales...)
}

// SetLanguage selects the message printer for the best match among locales.
// An empty list selects DEFAULT_LOCALE.
func SetLanguage(locales ...string) {
	if len(locales) == 0 {
		locales = []string{DEFAULT_LOCALE}
	}

	printerLock.Lock()
	defer printerLock.Unlock()

	printerTag = message.MatchLanguage(locales...)
	printer = message.NewPrinter(printerTag)
}

// Language returns the tag of the active message printer.
func Language() language.Tag {
	printerLock.Lock()
	defer printerLock.Unlock()

	return printerTag
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	printerLock.Lock()
	defer printerLock.Unlock()

	return printer.Sprintf(key, args...)
}
