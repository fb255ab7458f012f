package flow

import (
	"fmt"

	"github.com/AVVKavvk/sahay-call-agent/models"
)

// FlowStep is one scripted point of the call.
type FlowStep struct {
	ID          models.Step
	Prompts     map[models.Language]string
	HasFollowUp bool
}

// Prompt returns the step's text in lang, falling back to English.
func (f FlowStep) Prompt(lang models.Language) string {
	if p, ok := f.Prompts[lang]; ok {
		return p
	}
	return f.Prompts[models.English]
}

var script = map[models.Step]FlowStep{
	models.StepIntro: {
		ID:          models.StepIntro,
		HasFollowUp: true,
		Prompts: map[models.Language]string{
			models.English:  "Namaste. This is the Sahay helpline calling about your recent government service request. Can we talk for a minute? Please say yes or no.",
			models.Hindi:    "नमस्ते। सहाय हेल्पलाइन से आपके हाल के सरकारी सेवा अनुरोध के बारे में कॉल है। क्या हम एक मिनट बात कर सकते हैं? कृपया हाँ या नहीं बोलें।",
			models.Gujarati: "નમસ્તે. સહાય હેલ્પલાઇન તરફથી તમારી તાજેતરની સરકારી સેવા વિનંતી વિશે કૉલ છે. શું આપણે એક મિનિટ વાત કરી શકીએ? કૃપા કરીને હા અથવા ના કહો.",
		},
	},
	models.StepTaskCheck: {
		ID:          models.StepTaskCheck,
		HasFollowUp: true,
		Prompts: map[models.Language]string{
			models.English:  "Thank you. Has your work been completed? Please say done, or say pending.",
			models.Hindi:    "धन्यवाद। क्या आपका काम पूरा हो गया है? कृपया हो गया या बाकी है बोलें।",
			models.Gujarati: "આભાર. શું તમારું કામ પૂરું થઈ ગયું છે? કૃપા કરીને થઈ ગયું અથવા બાકી છે કહો.",
		},
	},
	models.StepTaskPending: {
		ID:          models.StepTaskPending,
		HasFollowUp: true,
		Prompts: map[models.Language]string{
			models.English:  "Sorry to hear that. Please tell us briefly what problem you are facing.",
			models.Hindi:    "यह सुनकर खेद है। कृपया संक्षेप में बताइए कि आपको क्या समस्या आ रही है।",
			models.Gujarati: "એ સાંભળીને દુઃખ થયું. કૃપા કરીને ટૂંકમાં જણાવો કે તમને શું તકલીફ છે.",
		},
	},
	models.StepTaskDone: {
		ID: models.StepTaskDone,
		Prompts: map[models.Language]string{
			models.English:  "Wonderful, we are glad your work is complete. Thank you for your time. Goodbye.",
			models.Hindi:    "बहुत अच्छा, हमें खुशी है कि आपका काम पूरा हो गया। आपके समय के लिए धन्यवाद। नमस्ते।",
			models.Gujarati: "સરસ, તમારું કામ પૂરું થયું તેનો અમને આનંદ છે. તમારા સમય બદલ આભાર. આવજો.",
		},
	},
	models.StepNoDetails: {
		ID: models.StepNoDetails,
		Prompts: map[models.Language]string{
			models.English:  "No problem. An officer will contact you soon to understand the issue. Thank you. Goodbye.",
			models.Hindi:    "कोई बात नहीं। एक अधिकारी जल्द ही आपसे संपर्क करेंगे। धन्यवाद। नमस्ते।",
			models.Gujarati: "કોઈ વાંધો નહીં. એક અધિકારી ટૂંક સમયમાં તમારો સંપર્ક કરશે. આભાર. આવજો.",
		},
	},
	models.StepProblemRecorded: {
		ID: models.StepProblemRecorded,
		Prompts: map[models.Language]string{
			models.English:  "Thank you. Your problem has been recorded and will be sent to the concerned office. Goodbye.",
			models.Hindi:    "धन्यवाद। आपकी समस्या दर्ज कर ली गई है और संबंधित कार्यालय को भेजी जाएगी। नमस्ते।",
			models.Gujarati: "આભાર. તમારી સમસ્યા નોંધી લેવામાં આવી છે અને સંબંધિત કચેરીને મોકલવામાં આવશે. આવજો.",
		},
	},
	models.StepFallback: {
		ID: models.StepFallback,
		Prompts: map[models.Language]string{
			models.English:  "Sorry, I could not understand that.",
			models.Hindi:    "माफ़ कीजिए, मैं समझ नहीं पाई।",
			models.Gujarati: "માફ કરશો, હું સમજી શકી નહીં.",
		},
	},
}

// Lookup returns the scripted step. Unknown ids resolve to the fallback step.
func Lookup(step models.Step) FlowStep {
	if s, ok := script[step]; ok {
		return s
	}
	return script[models.StepFallback]
}

type PhraseKey string

const (
	PhraseConnecting         PhraseKey = "connecting"
	PhraseNoHuman            PhraseKey = "no_human"
	PhraseCompletionFallback PhraseKey = "completion_fallback"
	PhraseAssistantGreeting  PhraseKey = "assistant_greeting"
	PhraseAskAgain           PhraseKey = "ask_again"
	// PhraseCallHelpline takes the helpline number as its only argument.
	PhraseCallHelpline PhraseKey = "call_helpline"
)

var phrases = map[PhraseKey]map[models.Language]string{
	PhraseConnecting: {
		models.English:  "Please hold, connecting you to an officer.",
		models.Hindi:    "कृपया लाइन पर बने रहें, आपको अधिकारी से जोड़ा जा रहा है।",
		models.Gujarati: "કૃપા કરીને લાઇન પર રહો, તમને અધિકારી સાથે જોડવામાં આવી રહ્યા છે.",
	},
	PhraseNoHuman: {
		models.English:  "Our officers are not available right now. Please call again later. Goodbye.",
		models.Hindi:    "अभी हमारे अधिकारी उपलब्ध नहीं हैं। कृपया बाद में फिर से कॉल करें। नमस्ते।",
		models.Gujarati: "હાલમાં અમારા અધિકારી ઉપલબ્ધ નથી. કૃપા કરીને પછી ફરી કૉલ કરો. આવજો.",
	},
	PhraseCompletionFallback: {
		models.English:  "Sorry, I am having trouble responding right now.",
		models.Hindi:    "माफ़ कीजिए, अभी जवाब देने में दिक्कत हो रही है।",
		models.Gujarati: "માફ કરશો, હાલમાં જવાબ આપવામાં મુશ્કેલી થઈ રહી છે.",
	},
	PhraseAssistantGreeting: {
		models.English:  "Namaste, hello. This is the Sahay assistance helpline. How may I help you today?",
		models.Hindi:    "नमस्ते। यह सहाय सहायता हेल्पलाइन है। मैं आज आपकी क्या मदद कर सकती हूँ?",
		models.Gujarati: "નમસ્તે. આ સહાય સહાયતા હેલ્પલાઇન છે. આજે હું તમારી શું મદદ કરી શકું?",
	},
	PhraseAskAgain: {
		models.English:  "Is there anything else I can help you with?",
		models.Hindi:    "क्या मैं आपकी और कोई मदद कर सकती हूँ?",
		models.Gujarati: "શું હું તમારી બીજી કોઈ મદદ કરી શકું?",
	},
	PhraseCallHelpline: {
		models.English:  "To speak with an officer, please call our helpline at %s.",
		models.Hindi:    "अधिकारी से बात करने के लिए कृपया हमारी हेल्पलाइन %s पर कॉल करें।",
		models.Gujarati: "અધિકારી સાથે વાત કરવા માટે કૃપા કરીને અમારી હેલ્પલાઇન %s પર કૉલ કરો.",
	},
}

// Phrase returns a fixed localized line. Args are applied for keys that take them.
func Phrase(key PhraseKey, lang models.Language, args ...any) string {
	byLang := phrases[key]
	text, ok := byLang[lang]
	if !ok {
		text = byLang[models.English]
	}
	if len(args) > 0 {
		return fmt.Sprintf(text, args...)
	}
	return text
}
