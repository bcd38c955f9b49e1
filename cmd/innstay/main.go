package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisclient "github.com/redis/go-redis/v9"

	"innstay/internal/app/availability"
	appoutbox "innstay/internal/app/outbox"
	authsvc "innstay/internal/app/services/auth"
	bookingsvc "innstay/internal/app/services/booking"
	discountsvc "innstay/internal/app/services/discount"
	hotelsvc "innstay/internal/app/services/hotel"
	paymentsvc "innstay/internal/app/services/payment"
	ratingsvc "innstay/internal/app/services/rating"
	domainaccount "innstay/internal/domain/account"
	domainauth "innstay/internal/domain/auth"
	domainbooking "innstay/internal/domain/booking"
	domaindiscount "innstay/internal/domain/discount"
	domainhotel "innstay/internal/domain/hotel"
	domainrating "innstay/internal/domain/rating"
	"innstay/internal/infra/cache/redis"
	"innstay/internal/infra/config"
	"innstay/internal/infra/db/mongo"
	ginserver "innstay/internal/infra/http/gin"
	"innstay/internal/infra/obs"
	infraoutbox "innstay/internal/infra/outbox"
	"innstay/internal/infra/payments"
	"innstay/internal/infra/security"
	"innstay/internal/infra/storage/memory"
	"innstay/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("using fallback configuration", "error", err)
		cfg.Env = env
		cfg.HTTPAddr = getenv("HTTP_ADDR", ":8080")
		cfg.PublicBaseURL = getenv("PUBLIC_BASE_URL", "http://localhost:8080")
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application bootstrap failed", "error", err)
		os.Exit(1)
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

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

type application struct {
	handlers ginserver.Handlers
	ready    func() error
}

type stores struct {
	accounts  domainaccount.Repository
	sessions  domainauth.SessionStore
	hotels    domainhotel.Repository
	bookings  domainbooking.Repository
	ratings   domainrating.Repository
	discounts domaindiscount.Repository
	tx        bookingsvc.Atomic
	outbox    *infraoutbox.MongoStore
	ready     func() error
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, error) {
	st, err := buildStores(ctx, cfg, logger)
	if err != nil {
		return application{}, err
	}

	var photos hotelsvc.PhotoStore
	if cfg.S3AccessKey != "" {
		client, err := s3.NewClient(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicEndpoint, logger)
		if err != nil {
			logger.Warn("object storage unavailable, photo uploads disabled", "error", err)
		} else {
			photos = client
		}
	}

	auth := &authsvc.Service{
		Accounts:   st.accounts,
		Sessions:   st.sessions,
		Passwords:  security.BcryptHasher{},
		Tokens:     security.RandomTokenGenerator{},
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
	}
	checker := &availability.Checker{Bookings: st.bookings}
	booking := &bookingsvc.Service{
		Bookings:       st.bookings,
		Hotels:         st.hotels,
		Discounts:      st.discounts,
		Checker:        checker,
		Tx:             st.tx,
		Outbox:         outboxOrNil(st.outbox),
		RequirePayment: cfg.RequirePayment,
		Logger:         logger,
	}
	hotel := &hotelsvc.Service{Hotels: st.hotels, Ratings: st.ratings, Photos: photos, Logger: logger}
	rating := &ratingsvc.Service{Ratings: st.ratings, Bookings: st.bookings, Logger: logger}
	discount := &discountsvc.Service{Discounts: st.discounts, Hotels: st.hotels, Logger: logger}
	payment := &paymentsvc.Service{
		Bookings: st.bookings,
		Workflow: booking,
		Provider: payments.NewFakeProvider(cfg.PublicBaseURL),
		Logger:   logger,
	}

	handlers := ginserver.Handlers{
		Auth:  ginserver.AuthHandler{Service: auth, Logger: logger},
		Hotel: ginserver.HotelHandler{Hotels: hotel, Ratings: rating, Checker: checker, Logger: logger},
		OwnerHotel: ginserver.OwnerHotelHandler{
			Hotels:   hotel,
			Bookings: booking,
			Logger:   logger,
		},
		Booking:        ginserver.BookingHandler{Service: booking, Hotels: st.hotels, Logger: logger},
		Rating:         ginserver.RatingHandler{Service: rating, Logger: logger},
		Discount:       ginserver.DiscountHandler{Service: discount, Logger: logger},
		Payment:        ginserver.PaymentHandler{Service: payment, Logger: logger},
		AuthMiddleware: ginserver.AuthMiddleware{Service: auth, Logger: logger}.Handle,
	}

	return application{handlers: handlers, ready: st.ready}, nil
}

func buildStores(ctx context.Context, cfg config.Config, logger *slog.Logger) (stores, error) {
	if cfg.MongoURI == "" {
		logger.Warn("MONGO_URI not set, using in-memory storage")
		return memoryStores(), nil
	}

	client, err := mongo.New(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return stores{}, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx); err != nil {
		return stores{}, err
	}

	st := stores{
		accounts:  mongo.NewAccountRepository(client.DB),
		hotels:    mongo.NewHotelRepository(client.DB),
		bookings:  mongo.NewBookingRepository(client.DB),
		ratings:   mongo.NewRatingRepository(client.DB),
		discounts: mongo.NewDiscountRepository(client.DB),
		tx:        &mongo.Atomic{DB: client.DB},
		outbox:    infraoutbox.NewMongoStore(client.DB),
		ready: func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		},
	}

	if cfg.RedisAddr != "" {
		rdb := redisclient.NewClient(&redisclient.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		st.sessions = redis.NewSessionStore(rdb, "")
	} else {
		logger.Warn("REDIS_ADDR not set, sessions kept in memory")
		st.sessions = memory.NewSessionStore()
	}
	return st, nil
}

func memoryStores() stores {
	return stores{
		accounts:  memory.NewAccountRepository(),
		sessions:  memory.NewSessionStore(),
		hotels:    memory.NewHotelRepository(),
		bookings:  memory.NewBookingRepository(),
		ratings:   memory.NewRatingRepository(),
		discounts: memory.NewDiscountRepository(),
		tx:        memory.NewAtomic(),
		ready:     func() error { return nil },
	}
}

func outboxOrNil(store *infraoutbox.MongoStore) appoutbox.Outbox {
	if store == nil {
		return nil
	}
	return store
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
