package service

import (
	"context"

	"gorm.io/gorm"
)

// TxManager ejecuta fn como unidad atómica: o se confirma todo lo escrito
// dentro de fn o no queda nada. La implementación real abre una transacción
// GORM; los tests inyectan una versión en memoria con snapshot/rollback.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gormTxManager struct{ db *gorm.DB }

func NewTxManager(db *gorm.DB) TxManager { return &gormTxManager{db: db} }

func (m *gormTxManager) RunInTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return m.db.WithContext(ctx).Transaction(fn)
}
