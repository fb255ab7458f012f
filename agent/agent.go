// Package agent runs one caller turn: escalation check, scripted step or
// free-text completion, state bookkeeping and best-effort logging.
package agent

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/AVVKavvk/sahay-call-agent/conversation"
	"github.com/AVVKavvk/sahay-call-agent/flow"
	"github.com/AVVKavvk/sahay-call-agent/models"
	"github.com/AVVKavvk/sahay-call-agent/telephony"
)

type Mode string

const (
	// ModeScript walks the fixed follow-up script.
	ModeScript Mode = "script"
	// ModeAssistant answers free questions through the completion API.
	ModeAssistant Mode = "assistant"
)

const stepEscalated = "escalated"

// Completer turns caller text into a reply.
type Completer interface {
	Complete(ctx context.Context, text string, lang models.Language) (string, error)
}

// LogSink accepts records without blocking.
type LogSink interface {
	Enqueue(rec models.LogRecord)
}

type Options struct {
	Mode             Mode
	HumanAgentNumber string
	DefaultLanguage  models.Language
}

type Service struct {
	tracker   conversation.Tracker
	completer Completer
	logs      LogSink
	opts      Options
}

func New(tracker conversation.Tracker, completer Completer, logs LogSink, opts Options) *Service {
	if opts.Mode == "" {
		opts.Mode = ModeScript
	}
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = models.English
	}
	if logs == nil {
		logs = discard{}
	}
	return &Service{tracker: tracker, completer: completer, logs: logs, opts: opts}
}

// Start begins a call from scratch; any earlier state for callID is dropped.
func (s *Service) Start(ctx context.Context, callID, phone string) telephony.Response {
	logger := log.WithField("call_sid", callID)
	if err := s.tracker.Reset(callID); err != nil {
		logger.WithError(err).Warn("could not reset call state")
	}

	state := models.InitialState(callID, s.opts.DefaultLanguage)
	state.Phone = phone
	if err := s.tracker.Put(state); err != nil {
		logger.WithError(err).Warn("could not save call state")
	}

	text := flow.Lookup(models.StepIntro).Prompt(state.Language)
	if s.opts.Mode == ModeAssistant {
		text = flow.Phrase(flow.PhraseAssistantGreeting, state.Language)
	}
	logger.WithField("mode", s.opts.Mode).Info("call started")

	return telephony.Response{Text: text, Language: state.Language, Action: telephony.Gather}
}

// Turn handles one utterance of an ongoing call.
func (s *Service) Turn(ctx context.Context, callID, phone, utterance string) telephony.Response {
	logger := log.WithField("call_sid", callID)

	state, err := s.tracker.Get(callID)
	if err != nil {
		logger.WithError(err).Warn("could not load call state, starting over")
		state = models.InitialState(callID, s.opts.DefaultLanguage)
	}
	state.CallID = callID
	if phone != "" {
		state.Phone = phone
	}
	if strings.TrimSpace(utterance) != "" {
		state.Language = flow.DetectLanguage(utterance)
	}

	if flow.IsEscalation(utterance) {
		resp := s.escalate(state.Language)
		s.save(logger, state)
		s.record(state, stepEscalated, utterance, resp.Text)
		logger.Info("caller asked for a human")
		return resp
	}

	if s.opts.Mode == ModeAssistant {
		return s.assistantTurn(ctx, logger, state, utterance)
	}
	return s.scriptTurn(logger, state, utterance)
}

func (s *Service) scriptTurn(logger *log.Entry, state models.CallState, utterance string) telephony.Response {
	prev := state.Step
	state = flow.Advance(state, utterance)
	s.save(logger, state)

	step := flow.Lookup(state.Step)
	resp := telephony.Response{
		Text:     step.Prompt(state.Language),
		Language: state.Language,
		Action:   telephony.Hangup,
	}
	switch {
	case step.HasFollowUp:
		resp.Action = telephony.Gather
	case state.Step == models.StepFallback:
		esc := s.escalate(state.Language)
		resp.Text = resp.Text + " " + esc.Text
		resp.Action = esc.Action
		resp.DialNumber = esc.DialNumber
	}

	logger.WithFields(log.Fields{
		"from":     prev,
		"to":       state.Step,
		"language": state.Language,
	}).Info("step resolved")
	s.record(state, string(state.Step), utterance, resp.Text)
	return resp
}

func (s *Service) assistantTurn(ctx context.Context, logger *log.Entry, state models.CallState, utterance string) telephony.Response {
	s.save(logger, state)

	if strings.TrimSpace(utterance) == "" {
		text := flow.Phrase(flow.PhraseAskAgain, state.Language)
		return telephony.Response{Text: text, Language: state.Language, Action: telephony.Gather}
	}

	reply := s.complete(ctx, logger, utterance, state.Language)
	s.record(state, string(ModeAssistant), utterance, reply)
	return telephony.Response{Text: reply, Language: state.Language, Action: telephony.Gather}
}

// Talk answers browser demo text. It never fails: problems turn into a
// localized fallback line.
func (s *Service) Talk(ctx context.Context, text string) string {
	lang := flow.DetectLanguage(text)
	logger := log.WithField("channel", "web")

	var reply string
	switch {
	case flow.IsEscalation(text) && s.opts.HumanAgentNumber != "":
		reply = flow.Phrase(flow.PhraseCallHelpline, lang, s.opts.HumanAgentNumber)
	case flow.IsEscalation(text):
		reply = flow.Phrase(flow.PhraseNoHuman, lang)
	default:
		reply = s.complete(ctx, logger, text, lang)
	}

	rec := models.NewLogRecord("", "", "web", text, lang)
	rec.Reply = reply
	s.logs.Enqueue(rec)
	return reply
}

func (s *Service) complete(ctx context.Context, logger *log.Entry, text string, lang models.Language) string {
	if s.completer == nil {
		return flow.Phrase(flow.PhraseCompletionFallback, lang)
	}
	reply, err := s.completer.Complete(ctx, text, lang)
	if err != nil {
		logger.WithError(err).Warn("completion failed, using fallback phrase")
		return flow.Phrase(flow.PhraseCompletionFallback, lang)
	}
	return reply
}

func (s *Service) escalate(lang models.Language) telephony.Response {
	if s.opts.HumanAgentNumber == "" {
		return telephony.Response{
			Text:     flow.Phrase(flow.PhraseNoHuman, lang),
			Language: lang,
			Action:   telephony.Hangup,
		}
	}
	return telephony.Response{
		Text:       flow.Phrase(flow.PhraseConnecting, lang),
		Language:   lang,
		Action:     telephony.Dial,
		DialNumber: s.opts.HumanAgentNumber,
	}
}

func (s *Service) save(logger *log.Entry, state models.CallState) {
	if err := s.tracker.Put(state); err != nil {
		logger.WithError(err).Warn("could not save call state")
	}
}

func (s *Service) record(state models.CallState, step, utterance, reply string) {
	rec := models.NewLogRecord(state.CallID, state.Phone, step, utterance, state.Language)
	rec.CapturedText = state.CapturedText
	rec.Reply = reply
	s.logs.Enqueue(rec)
}

type discard struct{}

func (discard) Enqueue(models.LogRecord) {}
