package main

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type TalkRequest struct {
	Text string `json:"text"`
}

type TalkResponse struct {
	Reply string `json:"reply"`
}

// HandleTalk answers one line of text from the browser demo.
func (s *Server) HandleTalk(c echo.Context) error {
	req := new(TalkRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing 'text'")
	}

	reply := s.agent.Talk(c.Request().Context(), req.Text)
	return c.JSON(http.StatusOK, TalkResponse{Reply: reply})
}
