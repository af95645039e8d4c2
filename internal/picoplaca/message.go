package picoplaca

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// DisplayDateLayout is how dates are echoed back to the user.
const DisplayDateLayout = "Monday, 02.01.2006"

const (
	msgAllowed   = "This vehicle can circulate. Have a nice trip!"
	msgForbidden = "This vehicle cannot circulate."
	msgBarred    = "If this is a private vehicle, it cannot circulate."

	LabelPlate = "License no.: %s"
	LabelDate  = "Date: %s"
	LabelTime  = "Time: %s"
)

var supportedLanguages = []language.Tag{language.English, language.Spanish}

var (
	languageMatcher = language.NewMatcher(supportedLanguages)
	messages        = newCatalog()
)

type translation struct {
	tag language.Tag
	key string
	msg string
}

var translations = []translation{
	{language.Spanish, msgAllowed, "Este vehículo puede circular. ¡Buen viaje!"},
	{language.Spanish, msgForbidden, "Este vehículo no puede circular."},
	{language.Spanish, msgBarred, "Si es un vehículo particular, no puede circular."},
	{language.Spanish, LabelPlate, "Placa: %s"},
	{language.Spanish, LabelDate, "Fecha: %s"},
	{language.Spanish, LabelTime, "Hora: %s"},
}

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	entries := make([]translation, 0, 6+len(translations))
	for _, key := range []string{msgAllowed, msgForbidden, msgBarred, LabelPlate, LabelDate, LabelTime} {
		entries = append(entries, translation{language.English, key, key})
	}
	for _, e := range append(entries, translations...) {
		if err := b.SetString(e.tag, e.key, e.msg); err != nil {
			panic(fmt.Sprintf("picoplaca: catalog %s %q: %v", e.tag, e.key, err))
		}
	}
	return b
}

// ParseLanguage resolves a BCP 47 tag to a supported language, English when unknown.
func ParseLanguage(tag string) language.Tag {
	if tag == "" {
		return language.English
	}
	t, err := language.Parse(tag)
	if err != nil {
		return language.English
	}
	_, idx, conf := languageMatcher.Match(t)
	if conf == language.No {
		return language.English
	}
	return supportedLanguages[idx]
}

// NewPrinter returns a printer bound to the verdict catalog.
func NewPrinter(lang language.Tag) *message.Printer {
	return message.NewPrinter(lang, message.Catalog(messages))
}

// Message renders the user-facing text for v.
func Message(lang language.Tag, v Verdict) string {
	p := NewPrinter(lang)
	switch v {
	case VerdictForbidden:
		return p.Sprintf(msgForbidden)
	case VerdictAllPrivateVehiclesBarred:
		return p.Sprintf(msgBarred)
	default:
		return p.Sprintf(msgAllowed)
	}
}

// FormatDate renders a date as "Monday, 02.01.2006".
func FormatDate(date time.Time) string {
	return date.Format(DisplayDateLayout)
}
