package completion

import "github.com/AVVKavvk/sahay-call-agent/models"

var languageNames = map[models.Language]string{
	models.English:  "English",
	models.Hindi:    "Hindi (Devanagari script)",
	models.Gujarati: "Gujarati (Gujarati script)",
}

const persona = `You are Sahay, a friendly phone helpline assistant for Indian citizens.
You only help with Indian government schemes: eligibility, benefits, required documents,
how to apply, and the status of grievances or service requests.
If the caller asks about anything else, politely say you can only help with government schemes.
Keep every answer under 80 words, in plain spoken sentences with no lists, markdown, or emojis.
Never ask for Aadhaar numbers, bank details, passwords, or OTPs.`

// SystemInstruction is the fixed instruction sent ahead of every caller turn.
func SystemInstruction(lang models.Language) string {
	name, ok := languageNames[lang]
	if !ok {
		name = languageNames[models.English]
	}
	return persona + "\nAlways reply in " + name + "."
}
