package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/marketplace-backend/internal/domain/valueobject"
	"github.com/ignatzorin/marketplace-backend/internal/models"
	"github.com/ignatzorin/marketplace-backend/internal/repository"
	"github.com/ignatzorin/marketplace-backend/internal/repository/common"
)

// Atomic — атомарная единица работы settlement-операций: замыкание
// выполняется под одним транзакционным хэндлом, всё коммитится или
// откатывается целиком.
type Atomic interface {
	WithinTx(ctx context.Context, fn func(q common.Queryer) error) error
}

// WalletStore описывает хранилище кошельков.
type WalletStore interface {
	GetOrCreate(ctx context.Context, q common.Queryer, userID uuid.UUID) (*models.Wallet, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
	Credit(ctx context.Context, q common.Queryer, userID uuid.UUID, amount decimal.Decimal) (*models.Wallet, error)
	Debit(ctx context.Context, q common.Queryer, userID uuid.UUID, amount decimal.Decimal) (*models.Wallet, error)
}

// BookingStore описывает хранилище бронирований.
type BookingStore interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	GetByIDForUpdate(ctx context.Context, q common.Queryer, id uuid.UUID) (*models.Booking, error)
	UpdateStatus(ctx context.Context, q common.Queryer, id uuid.UUID, status valueobject.BookingStatus) error
	MarkFunded(ctx context.Context, q common.Queryer, id uuid.UUID, amount decimal.Decimal) error
	MarkCompleted(ctx context.Context, q common.Queryer, id uuid.UUID, completedAt time.Time) error
	ListByBuyer(ctx context.Context, buyerID uuid.UUID, f repository.ListFilter) ([]models.Booking, int, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID, f repository.ListFilter) ([]models.Booking, int, error)
}

// EscrowStore описывает эскроу-леджер.
type EscrowStore interface {
	Create(ctx context.Context, q common.Queryer, escrow *models.EscrowAccount) error
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.EscrowAccount, error)
	GetByBookingIDForUpdate(ctx context.Context, q common.Queryer, bookingID uuid.UUID) (*models.EscrowAccount, error)
	Freeze(ctx context.Context, q common.Queryer, escrow *models.EscrowAccount) error
	Release(ctx context.Context, q common.Queryer, escrow *models.EscrowAccount, at time.Time) error
	Refund(ctx context.Context, q common.Queryer, escrow *models.EscrowAccount) error
}

// TransactionLog описывает append-only журнал движений средств.
type TransactionLog interface {
	Create(ctx context.Context, q common.Queryer, t *models.Transaction) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Transaction, error)
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]models.Transaction, error)
}

// DisputeStore описывает хранилище споров.
type DisputeStore interface {
	Create(ctx context.Context, q common.Queryer, d *models.Dispute) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Dispute, error)
	GetByIDForUpdate(ctx context.Context, q common.Queryer, id uuid.UUID) (*models.Dispute, error)
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.Dispute, error)
	Resolve(ctx context.Context, q common.Queryer, d *models.Dispute, decision valueobject.ResolutionDecision, notes *string, resolvedBy uuid.UUID, at time.Time) error
	ListOpen(ctx context.Context, limit, offset int) ([]models.Dispute, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Dispute, error)
}

// WSNotifier интерфейс для отправки уведомлений участникам. Доставка
// best-effort: сбой уведомления никогда не откатывает settlement-операцию.
type WSNotifier interface {
	BroadcastToUser(userID uuid.UUID, event string, data interface{}) error
}
