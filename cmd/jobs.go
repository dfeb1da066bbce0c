package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/planforge/ms-go-plans/app/repository"
	"github.com/planforge/ms-go-plans/app/service"
	"github.com/planforge/ms-go-plans/config"

	_ "github.com/go-sql-driver/mysql"
)

var expireWorker bool

var expireCmd = &cobra.Command{
	Use:   "expire",
	Short: "Deactivate active subscriptions whose end date has passed",
	Run: func(_ *cobra.Command, _ []string) {
		cfg, subscriptionService, cleanup := mustCreateSubscriptionService()
		defer cleanup()

		if expireWorker {
			runWorker("expire", cfg.Jobs.ExpirationCheckInterval, subscriptionService)
			return
		}

		runJob(context.Background(), "expire", subscriptionService)
	},
}

func init() {
	rootCmd.AddCommand(expireCmd)
	expireCmd.Flags().BoolVar(&expireWorker, "worker", false, "Run continuously using configured interval")
}

func runWorker(name string, interval time.Duration, subscriptionService *service.SubscriptionService) {
	if interval <= 0 {
		logrus.WithField("job", name).Fatal("invalid worker interval")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runJob(ctx, name, subscriptionService)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	for {
		select {
		case <-quit:
			logrus.WithField("job", name).Info("Worker shutdown requested")
			return
		case <-ticker.C:
			runJob(ctx, name, subscriptionService)
		}
	}
}

func mustCreateSubscriptionService() (*config.Config, *service.SubscriptionService, func()) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	db, err := openDatabase(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	subscriptionRepo := repository.NewSubscriptionRepository(db)
	planRepo := repository.NewPlanRepository(db)
	txManager := repository.NewTxManager(db)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, planRepo, txManager)

	cleanup := func() {
		if err := db.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close database")
		}
	}

	return cfg, subscriptionService, cleanup
}

func runJob(ctx context.Context, name string, subscriptionService *service.SubscriptionService) {
	start := time.Now()
	expired, err := subscriptionService.RunExpirationBatch(ctx)
	latency := time.Since(start)
	if err != nil {
		logrus.WithError(err).WithField("job", name).WithField("latency", latency.String()).Error("job_failed")
		return
	}
	logrus.WithField("job", name).
		WithField("expired", expired).
		WithField("latency", latency.String()).
		Info("job_completed")
}
