package logger

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// HoldAuditEvent - строка аудита операций с холдами и депозитами
type HoldAuditEvent struct {
	ID           uint `gorm:"primaryKey"`
	RequestID    string
	UserID       string `gorm:"index"`
	Action       string `gorm:"index"` // "hold.created_multi", "hold.released", "hold.refunded", "deposit.credited", ...
	ResourceType string
	ResourceID   string
	Details      string `gorm:"type:jsonb"`
	Timestamp    time.Time
}

type HoldEventLogger interface {
	LogHoldEvent(ctx context.Context, event HoldAuditEvent) error
}

type PGHoldEventLogger struct {
	db *gorm.DB
}

func NewPGHoldEventLogger(db *gorm.DB) *PGHoldEventLogger {
	return &PGHoldEventLogger{db: db}
}

func (l *PGHoldEventLogger) LogHoldEvent(ctx context.Context, event HoldAuditEvent) error {
	return l.db.WithContext(ctx).Create(&event).Error
}
