package flow

import (
	"unicode"

	"github.com/AVVKavvk/sahay-call-agent/models"
)

// Whole Unicode blocks, so the danda and other shared marks count too.
var (
	devanagariBlock = &unicode.RangeTable{R16: []unicode.Range16{{Lo: 0x0900, Hi: 0x097F, Stride: 1}}}
	gujaratiBlock   = &unicode.RangeTable{R16: []unicode.Range16{{Lo: 0x0A80, Hi: 0x0AFF, Stride: 1}}}
)

// DetectLanguage picks a language from the script blocks present in text.
// Gujarati wins over Devanagari, anything else is English.
func DetectLanguage(text string) models.Language {
	devanagari := false
	for _, r := range text {
		if unicode.Is(gujaratiBlock, r) {
			return models.Gujarati
		}
		if unicode.Is(devanagariBlock, r) {
			devanagari = true
		}
	}
	if devanagari {
		return models.Hindi
	}
	return models.English
}
