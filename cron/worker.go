package cron

import (
	"context"
	"time"

	"tradelink/config"
	"tradelink/models"
	"tradelink/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Expirer switches off lapsed subscriptions.
type Expirer interface {
	ExpireSubscription(ctx context.Context, id string, now time.Time) (*models.Specialist, error)
	ExpireSubscriptions(ctx context.Context, now time.Time) (int, error)
}

// QueueRedisOpt is the asynq connection used by both the scheduler client
// and the worker.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitExpiryWorker runs the asynq worker in the background. The returned
// server must be shut down by the caller.
func InitExpiryWorker(store Expirer, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		QueueRedisOpt(),
		asynq.Config{
			Concurrency: 4,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSubscriptionExpire, handleExpiryTask(store, logger, time.Now))

	go func() {
		logger.Info("Starting expiry worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			logger.Error("Expiry worker failed to start", zap.Int("attempt", attempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Fatal("Expiry worker: max retry attempts reached")
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

func handleExpiryTask(store Expirer, logger *zap.Logger, now func() time.Time) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseExpiryPayload(task)
		if err != nil {
			logger.Error("Dropping expiry task", zap.Error(err))
			return asynq.SkipRetry
		}

		rec, err := store.ExpireSubscription(ctx, p.SpecialistID, now())
		if err != nil {
			logger.Error("Failed to expire subscription", zap.String("id", p.SpecialistID), zap.Error(err))
			return err
		}
		if rec == nil {
			logger.Warn("Expiry task for unknown specialist", zap.String("id", p.SpecialistID))
			return nil
		}
		logger.Info("Subscription expiry processed",
			zap.String("id", rec.ID),
			zap.Bool("active", rec.IsSubscriptionActive))
		return nil
	}
}
