package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/marketplace-backend/internal/domain/valueobject"
	"github.com/ignatzorin/marketplace-backend/internal/models"
	"github.com/ignatzorin/marketplace-backend/internal/repository"
	"github.com/ignatzorin/marketplace-backend/internal/repository/common"
)

// fakeAtomic выполняет замыкание напрямую, без транзакции.
type fakeAtomic struct{}

func (f *fakeAtomic) WithinTx(ctx context.Context, fn func(q common.Queryer) error) error {
	return fn(nil)
}

type mockWalletStore struct {
	mock.Mock
}

func (m *mockWalletStore) GetOrCreate(ctx context.Context, q common.Queryer, userID uuid.UUID) (*models.Wallet, error) {
	args := m.Called(ctx, q, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *mockWalletStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *mockWalletStore) Credit(ctx context.Context, q common.Queryer, userID uuid.UUID, amount decimal.Decimal) (*models.Wallet, error) {
	args := m.Called(ctx, q, userID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *mockWalletStore) Debit(ctx context.Context, q common.Queryer, userID uuid.UUID, amount decimal.Decimal) (*models.Wallet, error) {
	args := m.Called(ctx, q, userID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

type mockBookingStore struct {
	mock.Mock
}

func (m *mockBookingStore) Create(ctx context.Context, booking *models.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *mockBookingStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *mockBookingStore) GetByIDForUpdate(ctx context.Context, q common.Queryer, id uuid.UUID) (*models.Booking, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *mockBookingStore) UpdateStatus(ctx context.Context, q common.Queryer, id uuid.UUID, status valueobject.BookingStatus) error {
	args := m.Called(ctx, q, id, status)
	return args.Error(0)
}

func (m *mockBookingStore) MarkFunded(ctx context.Context, q common.Queryer, id uuid.UUID, amount decimal.Decimal) error {
	args := m.Called(ctx, q, id, amount)
	return args.Error(0)
}

func (m *mockBookingStore) MarkCompleted(ctx context.Context, q common.Queryer, id uuid.UUID, completedAt time.Time) error {
	args := m.Called(ctx, q, id, completedAt)
	return args.Error(0)
}

func (m *mockBookingStore) ListByBuyer(ctx context.Context, buyerID uuid.UUID, f repository.ListFilter) ([]models.Booking, int, error) {
	args := m.Called(ctx, buyerID, f)
	return args.Get(0).([]models.Booking), args.Int(1), args.Error(2)
}

func (m *mockBookingStore) ListBySeller(ctx context.Context, sellerID uuid.UUID, f repository.ListFilter) ([]models.Booking, int, error) {
	args := m.Called(ctx, sellerID, f)
	return args.Get(0).([]models.Booking), args.Int(1), args.Error(2)
}

type mockEscrowStore struct {
	mock.Mock
}

func (m *mockEscrowStore) Create(ctx context.Context, q common.Queryer, escrow *models.EscrowAccount) error {
	args := m.Called(ctx, q, escrow)
	return args.Error(0)
}

func (m *mockEscrowStore) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.EscrowAccount, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EscrowAccount), args.Error(1)
}

func (m *mockEscrowStore) GetByBookingIDForUpdate(ctx context.Context, q common.Queryer, bookingID uuid.UUID) (*models.EscrowAccount, error) {
	args := m.Called(ctx, q, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EscrowAccount), args.Error(1)
}

func (m *mockEscrowStore) Freeze(ctx context.Context, q common.Queryer, escrow *models.EscrowAccount) error {
	args := m.Called(ctx, q, escrow)
	return args.Error(0)
}

func (m *mockEscrowStore) Release(ctx context.Context, q common.Queryer, escrow *models.EscrowAccount, at time.Time) error {
	args := m.Called(ctx, q, escrow, at)
	return args.Error(0)
}

func (m *mockEscrowStore) Refund(ctx context.Context, q common.Queryer, escrow *models.EscrowAccount) error {
	args := m.Called(ctx, q, escrow)
	return args.Error(0)
}

type mockTransactionLog struct {
	mock.Mock
}

func (m *mockTransactionLog) Create(ctx context.Context, q common.Queryer, t *models.Transaction) error {
	args := m.Called(ctx, q, t)
	return args.Error(0)
}

func (m *mockTransactionLog) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Transaction, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]models.Transaction), args.Error(1)
}

func (m *mockTransactionLog) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]models.Transaction, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]models.Transaction), args.Error(1)
}

type mockDisputeStore struct {
	mock.Mock
}

func (m *mockDisputeStore) Create(ctx context.Context, q common.Queryer, d *models.Dispute) error {
	args := m.Called(ctx, q, d)
	return args.Error(0)
}

func (m *mockDisputeStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Dispute, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Dispute), args.Error(1)
}

func (m *mockDisputeStore) GetByIDForUpdate(ctx context.Context, q common.Queryer, id uuid.UUID) (*models.Dispute, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Dispute), args.Error(1)
}

func (m *mockDisputeStore) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.Dispute, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Dispute), args.Error(1)
}

func (m *mockDisputeStore) Resolve(ctx context.Context, q common.Queryer, d *models.Dispute, decision valueobject.ResolutionDecision, notes *string, resolvedBy uuid.UUID, at time.Time) error {
	args := m.Called(ctx, q, d, decision, notes, resolvedBy, at)
	return args.Error(0)
}

func (m *mockDisputeStore) ListOpen(ctx context.Context, limit, offset int) ([]models.Dispute, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]models.Dispute), args.Error(1)
}

func (m *mockDisputeStore) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Dispute, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]models.Dispute), args.Error(1)
}
