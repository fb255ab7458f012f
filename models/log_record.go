package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// LogRecord is one exchange shipped to the spreadsheet webhook.
type LogRecord struct {
	ID            string    `json:"id"`
	CallID        string    `json:"callId,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Step          string    `json:"step"`
	UtteranceText string    `json:"utteranceText"`
	CapturedText  string    `json:"capturedText,omitempty"`
	Reply         string    `json:"reply,omitempty"`
	LanguageTag   Language  `json:"language"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewLogRecord(callID, phone, step, utterance string, lang Language) LogRecord {
	return LogRecord{
		ID:            uuid.NewString(),
		CallID:        callID,
		Phone:         phone,
		Step:          step,
		UtteranceText: utterance,
		LanguageTag:   lang,
		Timestamp:     time.Now().UTC(),
	}
}

func (l *LogRecord) MarshalBinary() ([]byte, error) {
	return json.Marshal(l)
}

func (l *LogRecord) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, l)
}
