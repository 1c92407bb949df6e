package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/marketplace-backend/internal/domain/valueobject"
	"github.com/ignatzorin/marketplace-backend/internal/goroutine"
	"github.com/ignatzorin/marketplace-backend/internal/models"
	"github.com/ignatzorin/marketplace-backend/internal/pkg/apperror"
	"github.com/ignatzorin/marketplace-backend/internal/repository/common"
)

// EscrowService выполняет внесение средств на эскроу-счёт бронирования.
// Вся операция — одна атомарная единица: списание с кошелька покупателя,
// создание эскроу-счёта, запись в журнал и перевод бронирования в
// in_progress коммитятся или откатываются вместе.
type EscrowService struct {
	atomic       Atomic
	bookings     BookingStore
	escrows      EscrowStore
	wallets      WalletStore
	transactions TransactionLog
	hub          WSNotifier
}

func NewEscrowService(atomic Atomic, bookings BookingStore, escrows EscrowStore, wallets WalletStore, transactions TransactionLog) *EscrowService {
	return &EscrowService{
		atomic:       atomic,
		bookings:     bookings,
		escrows:      escrows,
		wallets:      wallets,
		transactions: transactions,
	}
}

// SetHub устанавливает hub для отправки уведомлений после коммита.
func (s *EscrowService) SetHub(hub WSNotifier) {
	s.hub = hub
}

// FundEscrow списывает amount с кошелька покупателя и удерживает средства
// на эскроу-счёте. Предусловия проверяются по заблокированной строке
// бронирования: при конкурентных вызовах ровно один проходит, остальные
// получают InvalidBookingState.
func (s *EscrowService) FundEscrow(ctx context.Context, actor models.Actor, bookingID uuid.UUID, amount decimal.Decimal) (*models.EscrowAccount, error) {
	if err := valueobject.ValidateAmount(amount); err != nil {
		return nil, err
	}

	var (
		escrow  *models.EscrowAccount
		booking *models.Booking
	)
	err := s.atomic.WithinTx(ctx, func(q common.Queryer) error {
		// Порядок блокировок фиксирован: бронирование/эскроу раньше кошелька.
		var txErr error
		booking, txErr = s.bookings.GetByIDForUpdate(ctx, q, bookingID)
		if txErr != nil {
			return txErr
		}

		// Авторизация проверяется раньше валидности состояния.
		if !actor.Role.IsBuyer() || booking.BuyerID != actor.ID {
			return apperror.ErrNotParticipant
		}

		if booking.Status != valueobject.BookingStatusPendingNegotiation {
			return apperror.InvalidBookingState(string(booking.Status), "fund_escrow")
		}

		if _, txErr = s.wallets.Debit(ctx, q, actor.ID, amount); txErr != nil {
			return txErr
		}

		fee, freelancerAmount, txErr := valueobject.SplitFee(amount)
		if txErr != nil {
			return txErr
		}

		escrow = &models.EscrowAccount{
			BookingID:        booking.ID,
			TotalAmount:      amount,
			PlatformFee:      fee,
			FreelancerAmount: freelancerAmount,
			Status:           valueobject.EscrowStatusHeld,
		}
		if txErr = s.escrows.Create(ctx, q, escrow); txErr != nil {
			return txErr
		}

		description := "Удержание средств на эскроу по бронированию"
		if txErr = s.transactions.Create(ctx, q, &models.Transaction{
			BookingID:   &booking.ID,
			UserID:      actor.ID,
			Type:        models.TransactionTypeEscrowHold,
			Amount:      amount,
			Description: &description,
		}); txErr != nil {
			return txErr
		}

		return s.bookings.MarkFunded(ctx, q, booking.ID, amount)
	})
	if err != nil {
		return nil, err
	}

	s.notify(booking, models.EventEscrowCreated, map[string]interface{}{
		"booking_id": booking.ID,
		"escrow_id":  escrow.ID,
		"amount":     escrow.TotalAmount,
	})

	return escrow, nil
}

// GetEscrow возвращает эскроу-счёт бронирования его участникам.
func (s *EscrowService) GetEscrow(ctx context.Context, actor models.Actor, bookingID uuid.UUID) (*models.EscrowAccount, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.IsParticipant(actor.ID) && !actor.Role.IsAdmin() {
		return nil, apperror.ErrNotParticipant
	}
	return s.escrows.GetByBookingID(ctx, bookingID)
}

// notify отправляет событие обеим сторонам сделки после коммита.
// Доставка best-effort и не влияет на результат операции.
func (s *EscrowService) notify(booking *models.Booking, event string, data map[string]interface{}) {
	if s.hub == nil || booking == nil {
		return
	}
	hub := s.hub
	buyerID, sellerID := booking.BuyerID, booking.SellerID
	goroutine.SafeGo(func() {
		_ = hub.BroadcastToUser(buyerID, event, data)
		_ = hub.BroadcastToUser(sellerID, event, data)
	})
}
