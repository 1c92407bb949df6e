package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/marketplace-backend/internal/repository/common"
)

// Atomic предоставляет settlement-сервисам атомарную единицу работы:
// замыкание выполняется под одним транзакционным хэндлом с ограниченным
// ожиданием блокировок строк.
type Atomic struct {
	db          *sqlx.DB
	lockTimeout time.Duration
}

// NewAtomic создаёт обёртку атомарных единиц над подключением к базе.
func NewAtomic(db *sqlx.DB, lockTimeout time.Duration) *Atomic {
	return &Atomic{db: db, lockTimeout: lockTimeout}
}

// WithinTx выполняет fn в одной транзакции; см. common.WithinTx.
func (a *Atomic) WithinTx(ctx context.Context, fn func(q common.Queryer) error) error {
	return common.WithinTx(ctx, a.db, a.lockTimeout, fn)
}
