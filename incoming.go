package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/AVVKavvk/sahay-call-agent/telephony"
)

// HandleIncomingCall answers a new call (inbound, or an outbound call we
// placed) with the opening prompt.
func (s *Server) HandleIncomingCall(c echo.Context) error {
	callSID := c.FormValue("CallSid")
	if callSID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing 'CallSid'")
	}
	phone := callerNumber(c)

	log.WithFields(log.Fields{
		"call_sid":  callSID,
		"from":      c.FormValue("From"),
		"to":        c.FormValue("To"),
		"direction": c.FormValue("Direction"),
	}).Info("call received")

	resp := s.agent.Start(c.Request().Context(), callSID, phone)
	return s.writeTwiML(c, resp)
}

// HandleGather receives the caller's transcribed speech for one turn.
func (s *Server) HandleGather(c echo.Context) error {
	callSID := c.FormValue("CallSid")
	if callSID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing 'CallSid'")
	}
	speech := c.FormValue("SpeechResult")

	log.WithFields(log.Fields{
		"call_sid":   callSID,
		"confidence": c.FormValue("Confidence"),
	}).Debugf("caller said: %s", speech)

	resp := s.agent.Turn(c.Request().Context(), callSID, callerNumber(c), speech)
	return s.writeTwiML(c, resp)
}

func (s *Server) writeTwiML(c echo.Context, resp telephony.Response) error {
	doc, err := s.renderer.Render(resp)
	if err != nil {
		log.WithError(err).Error("render twiml")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to render voice response")
	}
	return c.Blob(http.StatusOK, "application/xml", []byte(doc))
}

// callerNumber is the citizen's side of the call: To for calls we placed,
// From otherwise.
func callerNumber(c echo.Context) string {
	if c.FormValue("Direction") == "outbound-api" {
		return c.FormValue("To")
	}
	return c.FormValue("From")
}
