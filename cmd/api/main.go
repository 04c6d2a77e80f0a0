package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/BruksfildServices01/branch-queue/internal/audit"
	"github.com/BruksfildServices01/branch-queue/internal/config"
	dbpkg "github.com/BruksfildServices01/branch-queue/internal/db"
	"github.com/BruksfildServices01/branch-queue/internal/infra/repository"
	"github.com/BruksfildServices01/branch-queue/internal/middleware"
	"github.com/BruksfildServices01/branch-queue/internal/notify"
	"github.com/BruksfildServices01/branch-queue/internal/observability"
	"github.com/BruksfildServices01/branch-queue/internal/realtime"
	"github.com/BruksfildServices01/branch-queue/internal/reminder"
	"github.com/BruksfildServices01/branch-queue/internal/routes"
	"github.com/BruksfildServices01/branch-queue/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/branch-queue/internal/usecase/appointment"
)

const serviceName = "branch-queue"

func main() {

	cfg := config.Load()
	observability.InitLogger(serviceName, cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing := observability.SetupTracing(serviceName, cfg.OTLPEndpoint, !cfg.IsProduction())

	if !timezone.IsValid(cfg.Timezone) {
		log.Warn().Str("timezone", cfg.Timezone).Msg("invalid APP_TIMEZONE, keeping default")
	}
	timezone.SetDefault(cfg.Timezone)

	db := dbpkg.NewDB(cfg)

	// ======================================================
	// BACKGROUND WORKERS
	// ======================================================
	auditDispatcher := audit.NewDispatcher(audit.New(db))

	hub := realtime.NewHub()
	var publisher realtime.Publisher = realtime.NewLocalPublisher(hub)
	var bridge *realtime.RedisBridge
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		bridge = realtime.NewRedisBridge(redis.NewClient(opts), realtime.DefaultChannel, hub)
		if err := bridge.Start(ctx); err != nil {
			log.Error().Err(err).Msg("redis bridge unavailable, broadcasting locally")
			bridge = nil
		} else {
			publisher = bridge
		}
	}

	email, sms := notify.ProvidersFromConfig(cfg)
	messenger := notify.NewMessenger(notify.NewGormDirectory(db), email, sms)

	// realtime and messaging have their own workers so a slow mail server
	// never delays queue updates on screens
	broadcasts := notify.NewDispatcher(cfg.NotifyQueueSize, realtime.NewBroadcaster(publisher))
	messages := notify.NewDispatcher(cfg.NotifyQueueSize, messenger)
	notifier := notify.Fanout{broadcasts, messages}

	reminders := ucAppointment.NewSendReminders(
		repository.NewAppointmentGormRepository(db),
		messenger,
		time.Now,
	)
	scheduler, err := reminder.NewScheduler(cfg.ReminderCron, timezone.Location(""), reminders)
	if err != nil {
		log.Fatal().Err(err).Str("spec", cfg.ReminderCron).Msg("invalid REMINDER_CRON")
	}
	scheduler.Start()

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins...))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Notifier: notifier,
		Audit:    auditDispatcher,
		Realtime: realtime.NewHandler(hub),
		Clock:    time.Now,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           otelhttp.NewHandler(r, serviceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	scheduler.Stop(shutdownCtx)
	broadcasts.Close()
	messages.Close()
	if bridge != nil {
		bridge.Close()
	}
	auditDispatcher.Close()
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracing shutdown failed")
	}
}
