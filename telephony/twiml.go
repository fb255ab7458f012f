// Package telephony speaks to the voice provider: it renders call
// instructions as TwiML and places outbound calls.
package telephony

import (
	"github.com/twilio/twilio-go/twiml"

	"github.com/AVVKavvk/sahay-call-agent/models"
)

// Action is what the call does after the prompt is spoken.
type Action int

const (
	// Gather listens for the caller's next utterance.
	Gather Action = iota
	Hangup
	// Dial connects the caller to DialNumber.
	Dial
)

// Response is one instruction for the voice provider.
type Response struct {
	Text       string
	Language   models.Language
	Action     Action
	DialNumber string
}

type voice struct {
	name     string
	language string
}

var voices = map[models.Language]voice{
	models.English:  {name: "Polly.Aditi", language: "en-IN"},
	models.Hindi:    {name: "Polly.Aditi", language: "hi-IN"},
	models.Gujarati: {name: "Google.gu-IN-Standard-A", language: "gu-IN"},
}

func voiceFor(lang models.Language) voice {
	if v, ok := voices[lang]; ok {
		return v
	}
	return voices[models.English]
}

// Renderer turns responses into TwiML documents. GatherURL receives the
// caller's speech result.
type Renderer struct {
	GatherURL string
}

func (r Renderer) Render(resp Response) (string, error) {
	v := voiceFor(resp.Language)
	say := &twiml.VoiceSay{
		Message:  resp.Text,
		Voice:    v.name,
		Language: v.language,
	}

	var verbs []twiml.Element
	switch resp.Action {
	case Gather:
		verbs = append(verbs, &twiml.VoiceGather{
			Input:         "speech",
			Action:        r.GatherURL,
			Method:        "POST",
			Language:      v.language,
			Timeout:       "5",
			SpeechTimeout: "auto",
			InnerElements: []twiml.Element{say},
		})
		// Twilio falls through here when the caller stays silent.
		verbs = append(verbs, &twiml.VoiceRedirect{Url: r.GatherURL, Method: "POST"})
	case Dial:
		verbs = append(verbs, say, &twiml.VoiceDial{Number: resp.DialNumber})
	default:
		verbs = append(verbs, say, &twiml.VoiceHangup{})
	}

	return twiml.Voice(verbs)
}
