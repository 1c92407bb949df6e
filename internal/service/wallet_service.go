package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/marketplace-backend/internal/domain/valueobject"
	"github.com/ignatzorin/marketplace-backend/internal/models"
	"github.com/ignatzorin/marketplace-backend/internal/pkg/apperror"
	"github.com/ignatzorin/marketplace-backend/internal/repository/common"
)

// WalletService — пользовательская поверхность кошелька: баланс, пополнение,
// история транзакций. Кошелёк пополняется «игровыми» деньгами: интеграция
// с платёжным шлюзом за границей системы.
type WalletService struct {
	atomic       Atomic
	wallets      WalletStore
	transactions TransactionLog
}

func NewWalletService(atomic Atomic, wallets WalletStore, transactions TransactionLog) *WalletService {
	return &WalletService{atomic: atomic, wallets: wallets, transactions: transactions}
}

// GetBalance возвращает кошелёк пользователя, создавая его при первом обращении.
func (s *WalletService) GetBalance(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	wallet, err := s.wallets.GetByUserID(ctx, userID)
	if err == nil {
		return wallet, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, err
	}

	var created *models.Wallet
	err = s.atomic.WithinTx(ctx, func(q common.Queryer) error {
		var txErr error
		created, txErr = s.wallets.GetOrCreate(ctx, q, userID)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Deposit пополняет баланс. Запись в журнал транзакций не создаётся:
// журнал отражает только settlement-движения по сделкам.
func (s *WalletService) Deposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*models.Wallet, error) {
	if err := valueobject.ValidateAmount(amount); err != nil {
		return nil, err
	}

	var wallet *models.Wallet
	err := s.atomic.WithinTx(ctx, func(q common.Queryer) error {
		var txErr error
		wallet, txErr = s.wallets.Credit(ctx, q, userID, amount)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return wallet, nil
}

// ListTransactions возвращает историю движений средств пользователя.
func (s *WalletService) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.transactions.ListByUser(ctx, userID, limit, offset)
}
