package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shareit/internal/cache"
	"shareit/internal/config"
	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/export"
	"shareit/internal/logging"
	"shareit/internal/metrics"
	"shareit/internal/models"
	"shareit/internal/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	exportOwner := flag.Int64("export-owner", 0, "render an xlsx report of this owner's bookings and exit")
	exportOut := flag.String("export-out", "bookings.xlsx", "output path for -export-owner")
	flag.Parse()

	if err := run(*exportOwner, *exportOut); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(exportOwner int64, exportOut string) error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	metrics.Register()

	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer db.Close()

	var itemCache domain.ItemCache
	if cfg.Redis.Enabled {
		redisClient := cache.NewRedisClient(cfg.Redis)
		defer redisClient.Close()
		itemCache = cache.NewItemCache(redisClient, time.Duration(cfg.Redis.ItemTTLSeconds)*time.Second, logger)
		logger.Info().Str("address", cfg.Redis.Address).Msg("item cache enabled")
	}

	eventBus := events.NewEventBus()
	subscribeEventLog(eventBus, logger)

	itemService := service.NewItemService(db, db, db, db, db, itemCache, eventBus, logger)
	bookingService := service.NewBookingService(db, db, db, eventBus, logger)

	if exportOwner > 0 {
		return runExport(context.Background(), bookingService, itemService, exportOwner, exportOut, logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startMonitoring(ctx, cfg, db, logger)

	logger.Info().Str("env", cfg.App.Environment).Msg("shareit core started")
	<-ctx.Done()
	logger.Info().Msg("shutting down")
	return nil
}

// runExport renders every booking on the owner's items into an xlsx file.
func runExport(ctx context.Context, bookings domain.BookingService, items domain.ItemService, ownerID int64, out string, logger *zerolog.Logger) error {
	all, err := bookings.GetBookingsByItemOwner(ctx, ownerID, string(models.FilterAll), models.Page{Limit: models.MaxPageSize})
	if err != nil {
		return fmt.Errorf("list owner bookings: %w", err)
	}

	ownerItems, err := items.GetItemsByOwner(ctx, ownerID, models.Page{Limit: models.MaxPageSize})
	if err != nil {
		return fmt.Errorf("list owner items: %w", err)
	}

	names := make(map[int64]string, len(ownerItems))
	for _, item := range ownerItems {
		names[item.ID] = item.Name
	}

	report, err := export.BuildBookingsReport(all, names, time.Now().Format("2006-01-02"))
	if err != nil {
		return fmt.Errorf("build report: %w", err)
	}
	defer report.Close()

	if err := report.SaveAs(out); err != nil {
		return fmt.Errorf("save report: %w", err)
	}

	logger.Info().Str("path", out).Int("bookings", len(all)).Msg("bookings report written")
	return nil
}

// subscribeEventLog mirrors every lifecycle event into the log so the bus
// always has at least one consumer.
func subscribeEventLog(bus *events.EventBus, logger *zerolog.Logger) {
	handler := func(event *events.Event) error {
		logger.Info().
			Str("event_id", event.ID.String()).
			Str("event_type", event.Type).
			RawJSON("payload", event.Payload).
			Msg("domain event")
		return nil
	}

	for _, eventType := range []string{
		events.EventBookingCreated,
		events.EventBookingApproved,
		events.EventBookingRejected,
		events.EventCommentAdded,
	} {
		bus.Subscribe(eventType, handler)
	}
}

func startMonitoring(ctx context.Context, cfg *config.Config, db *database.DB, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("db unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if cfg.Monitoring.PrometheusEnabled {
		mux.Handle("/metrics", promhttp.Handler())
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Monitoring.HealthCheckPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("monitoring endpoints listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("monitoring server error")
		}
	}()
}
