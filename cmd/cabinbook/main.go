package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	availabilityapp "cabinbook/internal/app/availability"
	"cabinbook/internal/app/policies"
	"cabinbook/internal/domain/booking"
	"cabinbook/internal/domain/pricing"
	"cabinbook/internal/infra/broker/kafka"
	"cabinbook/internal/infra/config"
	mongostore "cabinbook/internal/infra/db/mongo"
	ginserver "cabinbook/internal/infra/http/gin"
	"cabinbook/internal/infra/ical"
	"cabinbook/internal/infra/obs"
	"cabinbook/internal/infra/storage/local"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	localStore, err := local.NewStore(cfg.DataDir)
	if err != nil {
		logger.Error("offline store unavailable", "error", err, "dir", cfg.DataDir)
		os.Exit(1)
	}

	var feed *ical.FeedClient
	if cfg.ICalFeedURL != "" {
		feed = &ical.FeedClient{
			Client: &http.Client{Timeout: cfg.FeedTimeout},
			URL:    cfg.ICalFeedURL,
		}
	} else {
		logger.Info("no calendar feed configured, external blocks disabled")
	}

	var mongoClient *mongostore.Client
	var remote *mongostore.BookingStore
	if cfg.MongoURI != "" {
		mongoClient, err = mongostore.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			logger.Warn("remote booking store unreachable, running offline", "error", err)
		} else {
			remote = mongostore.NewBookingStore(mongoClient.DB)
		}
	} else {
		logger.Info("no remote booking store configured, running offline")
	}

	var notifier policies.Notifier = policies.NopNotifier{}
	var producer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer, err = kafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			logger.Warn("notification broker unreachable, notifications disabled", "error", err)
		} else {
			notifier = &kafka.Notifier{Producer: producer, TopicPrefix: cfg.KafkaTopicPrefix}
			defer producer.Close()
		}
	} else {
		logger.Info("no notification broker configured")
	}

	resolver := availabilityapp.NewResolver(availabilityapp.Deps{
		Feed:     feedSource(feed),
		Remote:   remoteStore(remote),
		Local:    localStore,
		Cache:    localStore,
		Notifier: notifier,
		Logger:   logger,
		Config: availabilityapp.Config{
			FeedTimeout:       cfg.FeedTimeout,
			StoreReadTimeout:  cfg.StoreReadTimeout,
			StoreWriteTimeout: cfg.StoreWriteTimeout,
			FeedTTL:           cfg.FeedTTL,
			CacheMaxAge:       cfg.CacheMaxAge,
		},
	})

	handlers := ginserver.Handlers{
		Availability: ginserver.AvailabilityHandler{Resolver: resolver},
		Booking:      ginserver.BookingHandler{Resolver: resolver},
		Pricing:      ginserver.PricingHandler{Tariff: pricing.DefaultTariff},
		Admin:        ginserver.AdminHandler{Store: adminStore(remote, localStore)},
	}
	if feed != nil {
		handlers.Feed = ginserver.FeedProxyHandler{Feed: feed, Timeout: cfg.FeedTimeout}
	}
	handlers.AdminMiddleware = ginserver.AdminAuth(cfg.AdminTokenHash)

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: readiness(mongoClient),
	}, handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

// feedSource keeps the resolver free of a typed-nil interface when no feed
// is configured.
func feedSource(feed *ical.FeedClient) availabilityapp.FeedSource {
	if feed == nil {
		return nil
	}
	return feed
}

func remoteStore(store *mongostore.BookingStore) booking.Store {
	if store == nil {
		return nil
	}
	return store
}

func adminStore(remote *mongostore.BookingStore, fallback *local.Store) ginserver.AdminBookingStore {
	if remote != nil {
		return remote
	}
	return fallback
}

func readiness(client *mongostore.Client) func() error {
	if client == nil {
		return func() error { return nil }
	}
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return client.Ping(ctx)
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
