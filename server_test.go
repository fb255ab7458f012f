package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AVVKavvk/sahay-call-agent/agent"
	"github.com/AVVKavvk/sahay-call-agent/config"
	"github.com/AVVKavvk/sahay-call-agent/conversation"
	"github.com/AVVKavvk/sahay-call-agent/flow"
	"github.com/AVVKavvk/sahay-call-agent/models"
	"github.com/AVVKavvk/sahay-call-agent/sheetlog"
	"github.com/AVVKavvk/sahay-call-agent/telephony"
)

const (
	testSecret    = "test-secret"
	testHumanLine = "+911800111555"
)

type fakeCaller struct {
	to        []string
	answerURL string
	err       error
}

func (f *fakeCaller) PlaceCall(to, answerURL string) (string, error) {
	f.to = append(f.to, to)
	f.answerURL = answerURL
	if f.err != nil {
		return "", f.err
	}
	return "CA0001", nil
}

type echoCompleter struct{}

func (echoCompleter) Complete(_ context.Context, text string, _ models.Language) (string, error) {
	return "you said: " + text, nil
}

type fixedStats struct{}

func (fixedStats) Stats() sheetlog.Stats { return sheetlog.Stats{Enqueued: 4, Delivered: 3, Failed: 1} }

func newTestServer(t *testing.T, caller *fakeCaller) *echo.Echo {
	t.Helper()
	cfg := config.Config{
		PublicBaseURL:    "https://sahay.example",
		InternalAPIKey:   testSecret,
		HumanAgentNumber: testHumanLine,
		CallMode:         "script",
		DefaultLanguage:  "en",
	}
	tracker := conversation.NewMemoryTracker(time.Hour, models.English)
	svc := agent.New(tracker, echoCompleter{}, nil, agent.Options{
		Mode:             agent.ModeScript,
		HumanAgentNumber: testHumanLine,
	})
	var c telephony.Caller
	if caller != nil {
		c = caller
	}
	return NewServer(cfg, svc, c, fixedStats{}).Routes()
}

func postForm(e *echo.Echo, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func postJSON(e *echo.Echo, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	e := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestStats(t *testing.T) {
	e := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"callLog":{"enqueued":4,"published":0,"delivered":3,"failed":1,"dropped":0}}`, rec.Body.String())
}

func TestIncomingCallSpeaksIntro(t *testing.T) {
	e := newTestServer(t, nil)

	rec := postForm(e, "/twilio/voice", url.Values{"CallSid": {"CA1"}, "From": {"+919876543210"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "application/xml")
	body := rec.Body.String()
	assert.Contains(t, body, "<Gather")
	assert.Contains(t, body, `action="https://sahay.example/twilio/gather"`)
	assert.Contains(t, body, flow.Lookup(models.StepIntro).Prompt(models.English))
}

func TestGatherRequiresCallSid(t *testing.T) {
	e := newTestServer(t, nil)

	rec := postForm(e, "/twilio/gather", url.Values{"SpeechResult": {"yes"}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGujaratiYesMovesToTaskCheck(t *testing.T) {
	e := newTestServer(t, nil)
	postForm(e, "/twilio/voice", url.Values{"CallSid": {"CA2"}})

	rec := postForm(e, "/twilio/gather", url.Values{"CallSid": {"CA2"}, "SpeechResult": {"હા"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<Gather")
	assert.Contains(t, body, `language="gu-IN"`)
	assert.Contains(t, body, flow.Lookup(models.StepTaskCheck).Prompt(models.Gujarati))
}

func TestAgentPleaseConnectsHuman(t *testing.T) {
	e := newTestServer(t, nil)
	postForm(e, "/twilio/voice", url.Values{"CallSid": {"CA3"}})
	postForm(e, "/twilio/gather", url.Values{"CallSid": {"CA3"}, "SpeechResult": {"yes"}})

	rec := postForm(e, "/twilio/gather", url.Values{"CallSid": {"CA3"}, "SpeechResult": {"agent please"}})

	body := rec.Body.String()
	assert.Contains(t, body, "<Dial")
	assert.Contains(t, body, testHumanLine)
	assert.NotContains(t, body, "<Gather")
}

func TestStartCallRequiresSecret(t *testing.T) {
	caller := &fakeCaller{}
	e := newTestServer(t, caller)

	bodies := []string{`{"to":"+919876543210"}`, `{}`, `not json`, ``}
	for _, header := range []map[string]string{nil, {"x-api-key": "wrong"}, {"x-api-key": ""}} {
		for _, body := range bodies {
			rec := postJSON(e, "/start-call", body, header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %v body %q", header, body)
		}
	}
	assert.Empty(t, caller.to)
}

func TestStartCallWithoutConfiguredSecretIsUnauthorized(t *testing.T) {
	e := NewServer(config.Config{}, agent.New(conversation.NewMemoryTracker(time.Hour, models.English), nil, nil, agent.Options{}), &fakeCaller{}, nil).Routes()

	rec := postJSON(e, "/start-call", `{"to":"+919876543210"}`, map[string]string{"x-api-key": ""})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStartCallValidatesNumber(t *testing.T) {
	caller := &fakeCaller{}
	e := newTestServer(t, caller)
	auth := map[string]string{"x-api-key": testSecret}

	rec := postJSON(e, "/start-call", `{"to":"9876543210"}`, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "9876543210")

	rec = postJSON(e, "/start-call", `{}`, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, caller.to)

	rec = postJSON(e, "/start-call", `{"to":"+919876543210"}`, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"+919876543210"}, caller.to)
	assert.Equal(t, "https://sahay.example/twilio/voice", caller.answerURL)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "CA0001", out["sid"])
}

func TestStartCallProviderFailure(t *testing.T) {
	caller := &fakeCaller{err: errors.New("twilio 21215: geo permissions")}
	e := newTestServer(t, caller)

	rec := postJSON(e, "/start-call", `{"to":"+919876543210"}`, map[string]string{"x-api-key": testSecret})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestStartCallWithoutProvider(t *testing.T) {
	e := newTestServer(t, nil)

	rec := postJSON(e, "/start-call", `{"to":"+919876543210"}`, map[string]string{"x-api-key": testSecret})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestTalk(t *testing.T) {
	e := newTestServer(t, nil)

	rec := postJSON(e, "/api/talk", `{"text":"what is PM Awas?"}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"reply":"you said: what is PM Awas?"}`, rec.Body.String())

	rec = postJSON(e, "/api/talk", `{"text":"  "}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTalkStream(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t, nil))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/talk"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// blank frames get no reply
	require.NoError(t, conn.WriteJSON(TalkRequest{Text: "   "}))
	require.NoError(t, conn.WriteJSON(TalkRequest{Text: "hello"}))
	var resp TalkResponse
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "you said: hello", resp.Reply)

	require.NoError(t, conn.WriteJSON(TalkRequest{Text: "officer please"}))
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, flow.Phrase(flow.PhraseCallHelpline, models.English, testHumanLine), resp.Reply)
}
