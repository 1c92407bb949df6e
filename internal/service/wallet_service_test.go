package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/marketplace-backend/internal/models"
	"github.com/ignatzorin/marketplace-backend/internal/pkg/apperror"
)

func newWalletFixture() (*WalletService, *mockWalletStore, *mockTransactionLog) {
	wallets := new(mockWalletStore)
	transactions := new(mockTransactionLog)
	svc := NewWalletService(&fakeAtomic{}, wallets, transactions)
	return svc, wallets, transactions
}

func TestGetBalance_Existing(t *testing.T) {
	svc, wallets, _ := newWalletFixture()

	userID := uuid.New()
	wallet := &models.Wallet{UserID: userID, Balance: decimal.NewFromInt(100)}
	wallets.On("GetByUserID", mock.Anything, userID).Return(wallet, nil)

	result, err := svc.GetBalance(context.Background(), userID)

	assert.NoError(t, err)
	assert.True(t, result.Balance.Equal(decimal.NewFromInt(100)))
	wallets.AssertNotCalled(t, "GetOrCreate", mock.Anything, mock.Anything, mock.Anything)
}

// Первое обращение к кошельку создаёт его с нулевым балансом.
func TestGetBalance_LazyCreate(t *testing.T) {
	svc, wallets, _ := newWalletFixture()

	userID := uuid.New()
	wallets.On("GetByUserID", mock.Anything, userID).Return(nil, apperror.ErrWalletNotFound)
	wallets.On("GetOrCreate", mock.Anything, mock.Anything, userID).
		Return(&models.Wallet{UserID: userID, Balance: decimal.Zero}, nil)

	result, err := svc.GetBalance(context.Background(), userID)

	assert.NoError(t, err)
	assert.True(t, result.Balance.IsZero())
	wallets.AssertExpectations(t)
}

// Пополнение меняет баланс, но не создаёт запись в журнале транзакций:
// журнал отражает только движения по сделкам.
func TestDeposit_NoTransactionRecord(t *testing.T) {
	svc, wallets, transactions := newWalletFixture()

	userID := uuid.New()
	wallets.On("Credit", mock.Anything, mock.Anything, userID, decimalEq("250")).
		Return(&models.Wallet{UserID: userID, Balance: decimal.NewFromInt(250)}, nil)

	result, err := svc.Deposit(context.Background(), userID, decimal.NewFromInt(250))

	assert.NoError(t, err)
	assert.True(t, result.Balance.Equal(decimal.NewFromInt(250)))
	transactions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeposit_InvalidAmount(t *testing.T) {
	svc, wallets, _ := newWalletFixture()

	_, err := svc.Deposit(context.Background(), uuid.New(), decimal.NewFromInt(-10))
	assert.Error(t, err)

	_, err = svc.Deposit(context.Background(), uuid.New(), decimal.RequireFromString("5.999999"))
	assert.Error(t, err)

	wallets.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListTransactions_ClampsLimit(t *testing.T) {
	svc, _, transactions := newWalletFixture()

	userID := uuid.New()
	transactions.On("ListByUser", mock.Anything, userID, 20, 0).Return([]models.Transaction{}, nil)

	_, err := svc.ListTransactions(context.Background(), userID, 500, -3)

	assert.NoError(t, err)
	transactions.AssertExpectations(t)
}
