package flow

import "strings"

var escalationKeywords = []string{
	"agent", "human", "officer", "operator", "complaint",
	"adhikari", "shikayat",
	"एजेंट", "इंसान", "अधिकारी", "शिकायत",
	"એજન્ટ", "માણસ", "અધિકારી", "ફરિયાદ",
}

// IsEscalation reports whether the caller asked for a person.
func IsEscalation(utterance string) bool {
	return containsAny(strings.ToLower(utterance), escalationKeywords)
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
