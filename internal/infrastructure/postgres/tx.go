package postgres

import (
	"context"

	"gorm.io/gorm"
)

type txContextKey struct{}

// GormTxManager injects the running *gorm.DB transaction into the context;
// repositories pick it up via dbFromContext so every call made with txCtx
// joins the same transaction.
type GormTxManager struct {
	db *gorm.DB
}

func NewGormTxManager(db *gorm.DB) *GormTxManager {
	return &GormTxManager{db: db}
}

func (m *GormTxManager) Transaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, txContextKey{}, tx)
		return fn(txCtx)
	})
}

// DBFromContext returns the transaction bound to ctx by GormTxManager, or
// the fallback handle when no transaction is running.
func DBFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback
}
