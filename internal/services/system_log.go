package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/sm2control/backend/internal/models"
	"github.com/sm2control/backend/pkg/logger"
)

// SystemLogService records audit events in the local database. A nil service
// is valid and drops everything, which is how remote gateway deployments run.
type SystemLogService struct {
	db *gorm.DB
}

func NewSystemLogService(db *gorm.DB) *SystemLogService {
	return &SystemLogService{db: db}
}

func (s *SystemLogService) Log(level, action, username, detail string) {
	if s == nil || s.db == nil {
		return
	}
	entry := models.SystemLog{Level: level, Action: action, Username: username, Detail: detail}
	if err := s.db.Create(&entry).Error; err != nil {
		logger.Error().Err(err).Str("action", action).Msg("failed to write system log")
	}
}

// List returns the newest entries, optionally filtered by level.
func (s *SystemLogService) List(level string, limit int) ([]models.SystemLog, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	q := s.db.Order("created_at desc").Limit(limit)
	if level != "" {
		q = q.Where("level = ?", level)
	}
	var entries []models.SystemLog
	err := q.Find(&entries).Error
	return entries, err
}

// Cleanup drops entries older than the retention window.
func (s *SystemLogService) Cleanup(retention time.Duration) error {
	if s == nil || s.db == nil {
		return nil
	}
	cutoff := time.Now().Add(-retention)
	res := s.db.Where("created_at < ?", cutoff).Delete(&models.SystemLog{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		logger.Info().Int64("deleted", res.RowsAffected).Msg("cleaned up old system logs")
	}
	return nil
}
