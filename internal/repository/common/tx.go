package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Queryer объединяет *sqlx.DB и *sqlx.Tx: репозитории, участвующие в
// атомарной единице, принимают его и не знают, выполняются ли они в
// транзакции вызывающего или напрямую.
type Queryer = sqlx.ExtContext

// pgLockNotAvailable — код ошибки PostgreSQL при истечении lock_timeout.
const pgLockNotAvailable = "55P03"

// WithinTx выполняет fn внутри одной транзакции: все чтения и записи
// коммитятся или откатываются как целое. lockTimeout ограничивает ожидание
// блокировок строк; по истечении операция завершается ErrLockTimeout и
// ничего не остаётся применённым наполовину.
func WithinTx(ctx context.Context, db *sqlx.DB, lockTimeout time.Duration, fn func(q Queryer) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if lockTimeout > 0 {
		// SET LOCAL действует до конца транзакции; значение нельзя передать
		// плейсхолдером, поэтому форматируем миллисекунды напрямую.
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", lockTimeout.Milliseconds())); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("set lock_timeout: %w", err)
		}
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx error: %w, rollback error: %v", err, rbErr)
		}
		return translateLockError(err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", translateLockError(err))
	}

	return nil
}

// translateLockError приводит истечение lock_timeout к ErrLockTimeout.
func translateLockError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgLockNotAvailable {
		return fmt.Errorf("%w: %v", ErrLockTimeout, err)
	}
	return err
}
