package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/AVVKavvk/sahay-call-agent/agent"
	"github.com/AVVKavvk/sahay-call-agent/completion"
	"github.com/AVVKavvk/sahay-call-agent/config"
	"github.com/AVVKavvk/sahay-call-agent/conversation"
	"github.com/AVVKavvk/sahay-call-agent/rabbitmq"
	"github.com/AVVKavvk/sahay-call-agent/redisClient"
	"github.com/AVVKavvk/sahay-call-agent/sheetlog"
	"github.com/AVVKavvk/sahay-call-agent/telephony"
)

const (
	sweepInterval   = time.Minute
	webhookTimeout  = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	setupLogging(cfg)

	if missing := cfg.Missing(); len(missing) > 0 {
		log.WithField("missing", missing).Warn("some provider settings are not set, related endpoints will degrade")
	}
	log.Infof("starting with %s", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracker, err := newTracker(ctx, cfg)
	if err != nil {
		log.Fatalf("Error creating call state store: %v", err)
	}

	dispatcher, err := newCallLog(ctx, cfg)
	if err != nil {
		log.Fatalf("Error creating call log: %v", err)
	}

	var completer agent.Completer
	if cfg.GroqAPIKey != "" {
		completer = completion.New(completion.Config{
			APIKey:  cfg.GroqAPIKey,
			BaseURL: cfg.CompletionBaseURL,
			Model:   cfg.CompletionModel,
			Timeout: cfg.CompletionTimeout,
		})
	}

	var caller telephony.Caller
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" && cfg.TwilioNumber != "" {
		caller = telephony.NewTwilioCaller(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioNumber)
	}

	svc := agent.New(tracker, completer, logSink(dispatcher), agent.Options{
		Mode:             agent.Mode(cfg.CallMode),
		HumanAgentNumber: cfg.HumanAgentNumber,
		DefaultLanguage:  cfg.Language(),
	})

	var stats StatsSource
	if dispatcher != nil {
		stats = dispatcher
	}
	e := NewServer(cfg, svc, caller, stats).Routes()

	go func() {
		if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown")
	}
}

func setupLogging(cfg config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if cfg.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// newTracker prefers redis when configured; otherwise states live in memory
// and are swept once they go stale.
func newTracker(ctx context.Context, cfg config.Config) (conversation.Tracker, error) {
	if cfg.RedisAddr != "" {
		rc, err := redisClient.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		go func() {
			<-ctx.Done()
			rc.Close()
		}()
		return redisClient.NewTracker(rc, cfg.StateTTL, cfg.Language()), nil
	}

	mem := conversation.NewMemoryTracker(cfg.StateTTL, cfg.Language())
	go mem.Run(ctx, sweepInterval)
	return mem, nil
}

// newCallLog returns nil when no spreadsheet webhook is configured. With
// AMQP_URL set, records travel through rabbitmq and a consumer in this
// process forwards them to the webhook.
func newCallLog(ctx context.Context, cfg config.Config) (*sheetlog.Dispatcher, error) {
	if cfg.SheetWebhookURL == "" {
		return nil, nil
	}
	webhook := sheetlog.NewWebhookSink(cfg.SheetWebhookURL, webhookTimeout)

	if cfg.AMQPURL == "" {
		d := sheetlog.NewDispatcher(webhook, cfg.LogQueueSize)
		go d.Run(ctx)
		return d, nil
	}

	conn, err := rabbitmq.Dial(cfg.AMQPURL)
	if err != nil {
		return nil, err
	}
	producer, err := rabbitmq.NewProducer(conn, cfg.LogExchange)
	if err != nil {
		conn.Close()
		return nil, err
	}

	d := sheetlog.NewRelayDispatcher(producer, cfg.LogQueueSize)
	go d.Run(ctx)
	go func() {
		if err := rabbitmq.Consume(ctx, conn, cfg.LogExchange, d.Forward(webhook)); err != nil {
			log.WithError(err).Error("call log consumer stopped")
		}
	}()
	go func() {
		<-ctx.Done()
		producer.Close()
		conn.Close()
	}()
	return d, nil
}

func logSink(d *sheetlog.Dispatcher) agent.LogSink {
	if d == nil {
		return nil
	}
	return d
}
