package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"innstay/internal/app/report"
	"innstay/internal/app/scheduler"
	"innstay/internal/infra/broker/kafka"
	"innstay/internal/infra/config"
	"innstay/internal/infra/db/mongo"
	"innstay/internal/infra/inbox"
	"innstay/internal/infra/mail"
	"innstay/internal/infra/notify"
	"innstay/internal/infra/obs"
	infraoutbox "innstay/internal/infra/outbox"
	infrareport "innstay/internal/infra/report"
	"innstay/internal/infra/storage/s3"
)

// The worker binary runs everything that is not request-driven: the booking
// status scheduler, the outbox relay, the notification consumer and the
// daily report.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	logger := obs.NewLogger(cfg.Env)
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	client, err := mongo.New(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongo connection failed", "error", err)
		os.Exit(1)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := client.Ping(pingCtx); err != nil {
		cancel()
		logger.Error("mongo ping failed", "error", err)
		os.Exit(1)
	}
	cancel()

	bookings := mongo.NewBookingRepository(client.DB)
	accounts := mongo.NewAccountRepository(client.DB)
	outboxStore := infraoutbox.NewMongoStore(client.DB)

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
	if err != nil {
		logger.Error("kafka producer init failed", "error", err)
		os.Exit(1)
	}
	defer producer.Close()

	hostname, _ := os.Hostname()
	relay := &infraoutbox.Worker{
		Store:       outboxStore,
		Producer:    producer,
		Interval:    cfg.OutboxPollInterval,
		TopicPrefix: cfg.KafkaTopicPrefix,
		ID:          hostname,
		Backoff:     cfg.RetryBackoff,
	}

	sched := &scheduler.Scheduler{
		Bookings: bookings,
		Outbox:   outboxStore,
		Interval: cfg.SchedulerInterval,
		Logger:   logger,
	}

	var artifacts infrareport.Uploader
	if s3Client, err := s3.NewClient(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicEndpoint, logger); err != nil {
		logger.Warn("object storage unavailable, report artifacts stay local", "error", err)
	} else {
		artifacts = s3Client
	}
	reporter := &report.DailyReporter{
		Bookings: bookings,
		Accounts: accounts,
		Renderer: &infrareport.CSVRenderer{Store: artifacts},
		Mailer:   mail.LogMailer{Logger: logger},
		Interval: cfg.ReportInterval,
		Logger:   logger,
	}

	notifier := &notify.Handler{
		Bookings: bookings,
		Accounts: accounts,
		Mailer:   mail.LogMailer{Logger: logger},
		Inbox:    inbox.NewStore(client.DB, "innstay-notify"),
		Logger:   logger,
	}
	consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, "innstay-notify", nil, notifier)
	if err != nil {
		logger.Error("kafka consumer init failed", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	bookingTopic := cfg.KafkaTopicPrefix + "booking.events.v1"

	var wg sync.WaitGroup
	run := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil && ctx.Err() == nil {
				logger.Error("worker loop stopped", "loop", name, "error", err)
				stop()
			}
		}()
	}

	logger.Info("worker starting",
		"scheduler_interval", cfg.SchedulerInterval,
		"outbox_poll", cfg.OutboxPollInterval,
		"report_interval", cfg.ReportInterval,
	)

	run("scheduler", sched.Run)
	run("outbox-relay", relay.Run)
	run("daily-report", reporter.Run)
	run("notifications", func(ctx context.Context) error {
		return consumer.Run(ctx, []string{bookingTopic})
	})

	<-ctx.Done()
	wg.Wait()
	logger.Info("worker stopped")
}
