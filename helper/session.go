package helper

import (
	"time"

	"cinema_reservation/constants"
	"cinema_reservation/logger"
	"cinema_reservation/model"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SessionScheduler marks sessions finished once their last time range ended.
type SessionScheduler struct {
	db   *gorm.DB
	cron *cron.Cron
	now  func() time.Time
}

func NewSessionScheduler(db *gorm.DB) *SessionScheduler {
	return &SessionScheduler{db: db, now: time.Now}
}

func (s *SessionScheduler) Start() error {
	s.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))
	if _, err := s.cron.AddFunc("*/5 * * * *", s.run); err != nil {
		return err
	}
	s.cron.Start()
	logger.Log.Info("session scheduler started", zap.String("schedule", "*/5 * * * *"))
	return nil
}

func (s *SessionScheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
		logger.Log.Info("session scheduler stopped")
	}
}

func (s *SessionScheduler) run() {
	if _, err := FinishEndedSessions(s.db, s.now()); err != nil {
		logger.Log.Error("finish ended sessions", zap.Error(err))
	}
}

// FinishEndedSessions flags scheduled sessions whose every time range ended
// before now and returns how many changed.
func FinishEndedSessions(db *gorm.DB, now time.Time) (int64, error) {
	ended := db.Model(&model.TimeRange{}).
		Select("session_id").
		Group("session_id").
		Having(`MAX("end") < ?`, now.UTC())

	result := db.Model(&model.Session{}).
		Where("status = ? AND id IN (?)", constants.SESSION_SCHEDULED, ended).
		Update("status", constants.SESSION_FINISHED)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		logger.Log.Info("sessions finished", zap.Int64("count", result.RowsAffected))
	}
	return result.RowsAffected, nil
}
