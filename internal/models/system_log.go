package models

import "time"

const (
	LogLevelInfo    = "info"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
)

// SystemLog is an audit trail row for mutations and background checks.
type SystemLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Level     string    `gorm:"size:20;index" json:"level"`
	Action    string    `gorm:"size:100;index" json:"action"`
	Username  string    `gorm:"size:50" json:"username"`
	Detail    string    `gorm:"size:1000" json:"detail"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (SystemLog) TableName() string { return "system_logs" }
