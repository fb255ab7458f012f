package flow

import (
	"strings"

	"github.com/AVVKavvk/sahay-call-agent/models"
)

type trigger struct {
	words []string
	next  models.Step
	// freeText matches any non-blank utterance and keeps it as the captured answer.
	freeText bool
}

var (
	affirmative = []string{"yes", "yeah", "haan", "ok", "sure", "हाँ", "हां", "हा", "जी", "હા", "હાં", "જી"}
	negative    = []string{"not", "no", "nahi", "pending", "baaki", "नहीं", "नही", "बाकी", "अधूरा", "ના", "નથી", "બાકી"}
	completed   = []string{"done", "complete", "yes", "ho gaya", "हो गया", "हाँ", "हां", "पूरा", "થઈ ગયું", "થયું", "પૂરું", "હા"}
	noDetails   = []string{"no details", "nothing", "don't know", "dont know", "not sure", "कुछ नहीं", "पता नहीं", "કંઈ નહીં", "ખબર નથી"}
)

// Order matters: the first trigger whose words match wins.
var transitions = map[models.Step][]trigger{
	models.StepIntro: {
		// a refusal wins even when it contains an affirmative ("not okay")
		{words: negative, next: models.StepFallback},
		{words: affirmative, next: models.StepTaskCheck},
	},
	models.StepTaskCheck: {
		{words: negative, next: models.StepTaskPending},
		{words: completed, next: models.StepTaskDone},
	},
	models.StepTaskPending: {
		{words: noDetails, next: models.StepNoDetails},
		{freeText: true, next: models.StepProblemRecorded},
	},
}

// Next resolves the step that follows step for the given utterance.
// Every combination without a matching trigger resolves to StepFallback.
func Next(step models.Step, utterance string) models.Step {
	next, _ := match(step, utterance)
	return next
}

func match(step models.Step, utterance string) (models.Step, bool) {
	text := strings.ToLower(strings.TrimSpace(utterance))
	for _, t := range transitions[step] {
		if t.freeText {
			if text != "" {
				return t.next, true
			}
			continue
		}
		if containsAny(text, t.words) {
			return t.next, false
		}
	}
	return models.StepFallback, false
}

// Advance applies one caller turn to state: language, step and any captured answer.
func Advance(state models.CallState, utterance string) models.CallState {
	if strings.TrimSpace(utterance) != "" {
		state.Language = DetectLanguage(utterance)
	}
	next, captured := match(state.Step, utterance)
	if captured {
		state.CapturedText = strings.TrimSpace(utterance)
	}
	state.Step = next
	return state
}
