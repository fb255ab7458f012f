package main

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/AVVKavvk/sahay-call-agent/telephony"
)

const apiKeyHeader = "x-api-key"

// OutboundCallRequest is the JSON body of POST /start-call.
type OutboundCallRequest struct {
	To string `json:"to"`
}

// HandleOutboundCall asks the provider to ring a citizen and run the script.
func (s *Server) HandleOutboundCall(c echo.Context) error {
	if !s.authorized(c.Request().Header.Get(apiKeyHeader)) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or missing x-api-key")
	}

	req := new(OutboundCallRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON body")
	}
	if req.To == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing 'to' number")
	}
	if err := telephony.ValidateE164(req.To); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if s.caller == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Call placement is not configured")
	}

	answerURL := s.answerURL(c)
	log.WithFields(log.Fields{"to": req.To, "answer_url": answerURL}).Info("outbound call api is triggered")

	sid, err := s.caller.PlaceCall(req.To, answerURL)
	if errors.Is(err, telephony.ErrInvalidNumber) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err != nil {
		log.WithError(err).WithField("to", req.To).Error("outbound call failed")
		return echo.NewHTTPError(http.StatusBadGateway, fmt.Sprintf("Call placement failed: %v", err))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"sid":     sid,
	})
}

// authorized compares the header against INTERNAL_API_KEY. With no key
// configured nothing is authorized.
func (s *Server) authorized(got string) bool {
	want := s.cfg.InternalAPIKey
	if want == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

func (s *Server) answerURL(c echo.Context) string {
	if s.cfg.PublicBaseURL != "" {
		return publicURL(s.cfg.PublicBaseURL, "/twilio/voice")
	}

	scheme := c.Scheme()
	if scheme == "" {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s/twilio/voice", scheme, c.Request().Host)
}
