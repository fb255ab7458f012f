package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type Step string

const (
	StepIntro           Step = "intro"
	StepTaskCheck       Step = "task_check"
	StepTaskPending     Step = "task_pending"
	StepTaskDone        Step = "task_done"
	StepNoDetails       Step = "no_details"
	StepProblemRecorded Step = "problem_recorded"
	StepFallback        Step = "fallback"
)

// Terminal reports whether the step ends the scripted interaction.
func (s Step) Terminal() bool {
	switch s {
	case StepTaskDone, StepNoDetails, StepProblemRecorded, StepFallback:
		return true
	}
	return false
}

type Language string

const (
	English  Language = "en"
	Hindi    Language = "hi"
	Gujarati Language = "gu"
)

func ParseLanguage(s string) (Language, error) {
	switch Language(s) {
	case English, Hindi, Gujarati:
		return Language(s), nil
	}
	return "", fmt.Errorf("unsupported language %q", s)
}

// CallState is what we remember about one in-flight call between webhooks.
type CallState struct {
	CallID       string    `json:"callId"`
	Phone        string    `json:"phone,omitempty"`
	Step         Step      `json:"step"`
	Language     Language  `json:"language"`
	CapturedText string    `json:"capturedText,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func InitialState(callID string, lang Language) CallState {
	return CallState{
		CallID:   callID,
		Step:     StepIntro,
		Language: lang,
	}
}

func (c *CallState) MarshalBinary() ([]byte, error) {
	return json.Marshal(c)
}

func (c *CallState) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, c)
}
