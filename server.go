package main

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/AVVKavvk/sahay-call-agent/agent"
	"github.com/AVVKavvk/sahay-call-agent/config"
	"github.com/AVVKavvk/sahay-call-agent/sheetlog"
	"github.com/AVVKavvk/sahay-call-agent/telephony"
)

// StatsSource reports call log delivery counters.
type StatsSource interface {
	Stats() sheetlog.Stats
}

type Server struct {
	cfg      config.Config
	agent    *agent.Service
	caller   telephony.Caller
	renderer telephony.Renderer
	logStats StatsSource
	upgrader websocket.Upgrader
}

// NewServer wires the HTTP surface. caller and logStats may be nil when the
// provider or the sheet logging is not configured.
func NewServer(cfg config.Config, svc *agent.Service, caller telephony.Caller, logStats StatsSource) *Server {
	return &Server{
		cfg:      cfg,
		agent:    svc,
		caller:   caller,
		renderer: telephony.Renderer{GatherURL: publicURL(cfg.PublicBaseURL, "/twilio/gather")},
		logStats: logStats,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (s *Server) Routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Twilio voice webhooks
	e.POST("/twilio/voice", s.HandleIncomingCall)
	e.POST("/twilio/gather", s.HandleGather)

	// Browser demo
	e.POST("/api/talk", s.HandleTalk)
	e.GET("/ws/talk", s.HandleTalkStream)

	e.POST("/start-call", s.HandleOutboundCall)
	e.GET("/health", s.handleHealth)
	e.GET("/stats", s.handleStats)

	if s.cfg.StaticDir != "" {
		e.Static("/", s.cfg.StaticDir)
	}
	return e
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleStats(c echo.Context) error {
	var stats sheetlog.Stats
	if s.logStats != nil {
		stats = s.logStats.Stats()
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"callLog": stats})
}

// publicURL joins path onto base; an empty base leaves a relative path,
// which Twilio resolves against the webhook URL.
func publicURL(base, path string) string {
	if base == "" {
		return path
	}
	return strings.TrimRight(base, "/") + path
}
