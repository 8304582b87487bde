package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tablebook/config"
	"tablebook/models"
	"tablebook/services/notification"
	"tablebook/services/tasks"
	"tablebook/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ReminderRedisOpt is the asynq connection shared by the worker and the scheduler client.
func ReminderRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}
}

// InitReminderWorker runs the async worker in background. The returned server is shut down by the caller.
func InitReminderWorker(ctx context.Context, notifSvc notification.NotificationService) *asynq.Server {
	logger := utils.GetLogger()
	srv := asynq.NewServer(
		ReminderRedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask(notifSvc))

	go monitorRedisConnection(ctx)

	go func() {
		logger.Info("[ReminderWorker] Starting async worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Error("[ReminderWorker] Failed to start worker",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Fatal("[ReminderWorker] Max retry attempts reached")
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

func handleReminderTask(notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.BookingNotice
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			// A malformed payload never succeeds.
			return fmt.Errorf("invalid reminder payload: %v: %w", err, asynq.SkipRetry)
		}

		utils.GetLogger().Info("[ReminderHandler] Sending reminder",
			zap.Int64("bookingID", p.BookingID), zap.String("userID", p.UserID))

		if err := notifSvc.SendReminder(ctx, p); err != nil {
			utils.GetLogger().Error("[ReminderHandler] Failed to send reminder", zap.Int64("bookingID", p.BookingID), zap.Error(err))
			return err
		}
		return nil
	}
}

// monitorRedisConnection pings the queue database periodically to detect failures at runtime.
func monitorRedisConnection(ctx context.Context) {
	opt := ReminderRedisOpt()
	client := redis.NewClient(&redis.Options{Addr: opt.Addr, Password: opt.Password, DB: opt.DB})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil {
				utils.GetLogger().Warn("[ReminderWorker] Redis connection lost", zap.Error(err))
			}
		}
	}
}
