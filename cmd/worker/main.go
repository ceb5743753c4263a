// Command worker delivers queued two-factor notifications and serves the
// health endpoints.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/authguard/pkg/config"
	"github.com/dmitrymomot/authguard/pkg/email"
	"github.com/dmitrymomot/authguard/pkg/httpserver"
	"github.com/dmitrymomot/authguard/pkg/logger"
	"github.com/dmitrymomot/authguard/pkg/mongo"
	"github.com/dmitrymomot/authguard/pkg/notification"
	"github.com/dmitrymomot/authguard/pkg/redis"
)

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(logger.WithEnvironment(cfg.Env, cfg.AppName+"-worker"))
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("worker stopped with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	rdb, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	checks := map[string]httpserver.Check{
		"redis": redis.Healthcheck(rdb),
	}

	if cfg.Mongo.Enabled() {
		client, err := mongo.New(ctx, cfg.Mongo)
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(context.WithoutCancel(ctx)) }()
		checks["mongo"] = mongo.Healthcheck(client)
	}

	sender, err := newSender(cfg.Email, log)
	if err != nil {
		return err
	}

	queue := notification.NewRedisQueue(rdb, cfg.Notification.QueueKey,
		notification.WithPollTimeout(cfg.Notification.PollTimeout),
	)
	dispatcher := notification.NewDispatcher(queue,
		notification.NewEmailDeliverer(sender, cfg.AppName, cfg.Email.SupportEmail),
		notification.WithWorkers(cfg.Notification.Workers),
		notification.WithRetries(cfg.Notification.MaxRetries, cfg.Notification.RetryDelay),
		notification.WithLogger(log),
	)

	server := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
	router := httpserver.NewRouter(log, cfg.HTTP.CheckTimeout, checks)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(dispatcher.Run(ctx))
	g.Go(func() error {
		return server.Run(ctx, router)
	})
	return g.Wait()
}

// newSender prefers Postmark, then the file sender when EMAIL_DEV_DIR is set,
// then logging the message.
func newSender(cfg email.Config, log *slog.Logger) (email.Sender, error) {
	switch {
	case cfg.UsePostmark():
		log.Info("email delivery via postmark")
		return email.NewPostmarkSender(cfg)
	case cfg.DevDir != "":
		log.Info("email delivery to directory", slog.String("dir", cfg.DevDir))
		return email.NewDevSender(cfg.DevDir), nil
	default:
		log.Warn("no email provider configured, logging messages instead")
		return email.NewLogSender(log), nil
	}
}
