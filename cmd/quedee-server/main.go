package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"quedee/internal/config"
	"quedee/internal/notify"
	"quedee/internal/reminder"
	"quedee/internal/service/bookings"
	"quedee/internal/service/catalog"
	"quedee/internal/store"
	"quedee/internal/store/memstore"
	"quedee/internal/store/postgres"
	"quedee/internal/transport/httpapi"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found")
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With(
		slog.String("service", "quedee-server"),
	)
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}

	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)})).With(
		slog.String("service", "quedee-server"),
	)
	slog.SetDefault(log)

	log.Info("starting", slog.String("http_addr", cfg.HTTPAddr), slog.String("store_backend", cfg.StoreBackend), slog.String("log_level", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rows, cleanup, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Error("store init failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer cleanup()

	sink := pickSink(cfg, log)
	dispatcher := notify.NewDispatcher(sink, log)
	dispatcher.Start()
	defer dispatcher.Close()

	bookingSvc := bookings.NewService(rows, dispatcher, bookings.Options{
		SiteURL:    cfg.SiteURL,
		AdminEmail: cfg.AdminEmail,
		Logger:     log,
	})
	catalogSvc := catalog.NewService(rows, dispatcher, catalog.Options{
		AdminEmail: cfg.AdminEmail,
		Logger:     log,
	})

	if cfg.ReminderEnabled {
		var sms notify.SMSSender
		if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" && cfg.TwilioFromNumber != "" {
			sms = notify.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
		}
		job := reminder.New(rows, dispatcher, reminder.Options{SMS: sms, Logger: log})
		if err := job.Start(cfg.ReminderCron); err != nil {
			log.Error("reminder scheduler failed", slog.Any("err", err), slog.String("cron", cfg.ReminderCron))
			os.Exit(1)
		}
		defer job.Stop()
	}

	api := httpapi.NewServer(bookingSvc, catalogSvc, cfg.AdminPassword, log)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Router(cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Info("http server started", slog.String("http_addr", cfg.HTTPAddr))

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
		shutdown(log, srv, cfg.ShutdownTimeout)
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server stopped with error", slog.Any("err", err))
			os.Exit(1)
		}
	}
}

func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (store.RowStore, func(), error) {
	if cfg.StoreBackend == config.StoreBackendMemory {
		log.Warn("using in-memory store; rows are lost on restart")
		return memstore.New(), func() {}, nil
	}

	log.Info("connecting to database", databaseLogArgs(cfg.DatabaseURL)...)
	db, err := postgres.Open(ctx, cfg.DatabaseURL, postgres.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
	})
	if err != nil {
		return nil, nil, err
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		_ = postgres.Close(db)
		return nil, nil, err
	}

	cleanup := func() {
		if err := postgres.Close(db); err != nil {
			log.Warn("database close failed", slog.Any("err", err))
		}
	}
	return postgres.NewSheetStore(db), cleanup, nil
}

func pickSink(cfg config.Config, log *slog.Logger) notify.Sink {
	if cfg.SMTPHost != "" {
		return notify.NewSMTPSink(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)
	}
	log.Warn("smtp host not configured; emails are logged, not sent")
	return notify.NewLogSink(log)
}

func shutdown(log *slog.Logger, srv *http.Server, timeout time.Duration) {
	log.Info("shutting down http server", slog.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("http graceful shutdown failed; forcing close", slog.Any("err", err))
		_ = srv.Close()
		return
	}
	log.Info("http server stopped")
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func databaseLogArgs(databaseURL string) []any {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return []any{slog.String("db_url", "invalid")}
	}
	name := strings.TrimPrefix(u.Path, "/")
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "default"
	}
	if host == "" {
		host = "unknown"
	}
	if name == "" {
		name = "unknown"
	}
	return []any{
		slog.String("db_host", host),
		slog.String("db_port", port),
		slog.String("db_name", name),
	}
}
