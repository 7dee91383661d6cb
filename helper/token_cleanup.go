package helper

import (
	"time"

	"cinema_reservation/logger"
	"cinema_reservation/model"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PurgeExpiredResetTokens deletes password reset tokens that expired before now.
func PurgeExpiredResetTokens(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Where("expires_at < ?", now).Delete(&model.PasswordResetToken{})
	return result.RowsAffected, result.Error
}

// StartTokenCleanupScheduler runs the reset token purge every day at 00:05.
func StartTokenCleanupScheduler(db *gorm.DB) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, err
	}

	_, err = s.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(
				gocron.NewAtTime(0, 5, 0),
			),
		),
		gocron.NewTask(func() {
			n, err := PurgeExpiredResetTokens(db, time.Now())
			if err != nil {
				logger.Log.Error("purge reset tokens", zap.Error(err))
				return
			}
			logger.Log.Info("reset tokens purged", zap.Int64("count", n))
		}),
	)
	if err != nil {
		return nil, err
	}

	s.Start()
	logger.Log.Info("token cleanup scheduler started", zap.String("at", "00:05 UTC"))
	return s, nil
}
