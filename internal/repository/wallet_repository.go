package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/marketplace-backend/internal/domain/valueobject"
	"github.com/ignatzorin/marketplace-backend/internal/models"
	"github.com/ignatzorin/marketplace-backend/internal/pkg/apperror"
	"github.com/ignatzorin/marketplace-backend/internal/repository/common"
)

// WalletRepository хранит кошельки пользователей. Баланс изменяется только
// методами Credit/Debit под эксклюзивной блокировкой строки, внутри
// атомарной единицы вызывающего.
type WalletRepository struct {
	db       *sqlx.DB
	currency string
}

func NewWalletRepository(db *sqlx.DB, currency string) *WalletRepository {
	if currency == "" {
		currency = "NGN"
	}
	return &WalletRepository{db: db, currency: currency}
}

// GetOrCreate возвращает кошелёк пользователя, создавая его с нулевым
// балансом при первом обращении. Идемпотентна.
func (r *WalletRepository) GetOrCreate(ctx context.Context, q common.Queryer, userID uuid.UUID) (*models.Wallet, error) {
	var wallet models.Wallet
	query := `
		INSERT INTO wallets (user_id, balance, currency)
		VALUES ($1, 0, $2)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW()
		RETURNING id, user_id, balance, currency, created_at, updated_at
	`
	if err := sqlx.GetContext(ctx, q, &wallet, query, userID, r.currency); err != nil {
		return nil, fmt.Errorf("wallet repository: get or create %w", err)
	}
	return &wallet, nil
}

// GetByUserID возвращает кошелёк без блокировки (для чтения баланса).
func (r *WalletRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	return common.GetByField[models.Wallet](ctx, r.db, "wallets", "user_id", userID, apperror.ErrWalletNotFound)
}

// Credit увеличивает баланс под блокировкой строки.
func (r *WalletRepository) Credit(ctx context.Context, q common.Queryer, userID uuid.UUID, amount decimal.Decimal) (*models.Wallet, error) {
	if err := valueobject.ValidateAmount(amount); err != nil {
		return nil, err
	}

	wallet, err := r.lockForUpdate(ctx, q, userID)
	if err != nil {
		return nil, err
	}

	return r.applyDelta(ctx, q, wallet.UserID, amount)
}

// Debit уменьшает баланс под блокировкой строки. Если средств недостаточно,
// возвращает InsufficientFunds, не трогая баланс.
func (r *WalletRepository) Debit(ctx context.Context, q common.Queryer, userID uuid.UUID, amount decimal.Decimal) (*models.Wallet, error) {
	if err := valueobject.ValidateAmount(amount); err != nil {
		return nil, err
	}

	wallet, err := r.lockForUpdate(ctx, q, userID)
	if err != nil {
		return nil, err
	}

	if wallet.Balance.LessThan(amount) {
		return nil, apperror.ErrInsufficientFunds
	}

	return r.applyDelta(ctx, q, wallet.UserID, amount.Neg())
}

// lockForUpdate берёт эксклюзивную блокировку на строку кошелька,
// создавая кошелёк, если его ещё нет. Строка, вставленная в текущей
// транзакции, и так принадлежит ей, поэтому повторный FOR UPDATE безопасен.
func (r *WalletRepository) lockForUpdate(ctx context.Context, q common.Queryer, userID uuid.UUID) (*models.Wallet, error) {
	var wallet models.Wallet
	query := `SELECT * FROM wallets WHERE user_id = $1 FOR UPDATE`

	err := sqlx.GetContext(ctx, q, &wallet, query, userID)
	if err == nil {
		return &wallet, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("wallet repository: lock %w", err)
	}

	return r.GetOrCreate(ctx, q, userID)
}

// applyDelta изменяет заблокированный баланс и возвращает итоговое состояние.
func (r *WalletRepository) applyDelta(ctx context.Context, q common.Queryer, userID uuid.UUID, delta decimal.Decimal) (*models.Wallet, error) {
	var wallet models.Wallet
	query := `
		UPDATE wallets SET balance = balance + $2, updated_at = NOW()
		WHERE user_id = $1
		RETURNING id, user_id, balance, currency, created_at, updated_at
	`
	if err := sqlx.GetContext(ctx, q, &wallet, query, userID, delta); err != nil {
		return nil, fmt.Errorf("wallet repository: update balance %w", err)
	}
	return &wallet, nil
}
