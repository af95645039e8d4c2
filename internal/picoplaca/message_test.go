package picoplaca

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestMessageEnglish(t *testing.T) {
	require.Equal(t, "This vehicle can circulate. Have a nice trip!", Message(language.English, VerdictAllowed))
	require.Equal(t, "This vehicle cannot circulate.", Message(language.English, VerdictForbidden))
	require.Equal(t, "If this is a private vehicle, it cannot circulate.", Message(language.English, VerdictAllPrivateVehiclesBarred))
}

func TestMessageSpanish(t *testing.T) {
	es := ParseLanguage("es-EC")
	require.Equal(t, language.Spanish, es)
	require.Equal(t, "Este vehículo no puede circular.", Message(es, VerdictForbidden))
}

func TestParseLanguageFallsBackToEnglish(t *testing.T) {
	require.Equal(t, language.English, ParseLanguage(""))
	require.Equal(t, language.English, ParseLanguage("not a tag!"))
	require.Equal(t, language.English, ParseLanguage("en-GB"))
}

func TestFormatDate(t *testing.T) {
	date := time.Date(2024, 10, 7, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "Monday, 07.10.2024", FormatDate(date))
}

func TestPrinterLabels(t *testing.T) {
	require.Equal(t, "Placa: PCQ-8981", NewPrinter(language.Spanish).Sprintf(LabelPlate, "PCQ-8981"))
	require.Equal(t, "Time: 08:00", NewPrinter(language.English).Sprintf(LabelTime, "08:00"))
}

func TestNewCatalogRegistersEveryTranslation(t *testing.T) {
	var cat interface{ Languages() []language.Tag }
	require.NotPanics(t, func() { cat = newCatalog() })
	require.ElementsMatch(t, []language.Tag{language.English, language.Spanish}, cat.Languages())

	for _, tr := range translations {
		var args []any
		if strings.Contains(tr.msg, "%s") {
			args = append(args, "PCQ-8981")
		}
		require.Equal(t, fmt.Sprintf(tr.msg, args...), NewPrinter(tr.tag).Sprintf(tr.key, args...), tr.key)
	}
}
