package main

import (
	"strings"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// HandleTalkStream keeps a websocket open for the browser demo: every
// {"text": ...} frame is answered with a {"reply": ...} frame.
func (s *Server) HandleTalkStream(c echo.Context) error {
	ws, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	logger := log.WithField("remote", c.RealIP())
	logger.Info("talk stream connected")

	ctx := c.Request().Context()
	for {
		var msg TalkRequest
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.WithError(err).Warn("talk stream closed unexpectedly")
			} else {
				logger.Info("talk stream closed")
			}
			return nil
		}
		if strings.TrimSpace(msg.Text) == "" {
			continue
		}

		reply := s.agent.Talk(ctx, msg.Text)
		if err := ws.WriteJSON(TalkResponse{Reply: reply}); err != nil {
			logger.WithError(err).Warn("error sending reply")
			return nil
		}
	}
}
