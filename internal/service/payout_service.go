package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/marketplace-backend/internal/domain/valueobject"
	"github.com/ignatzorin/marketplace-backend/internal/goroutine"
	"github.com/ignatzorin/marketplace-backend/internal/models"
	"github.com/ignatzorin/marketplace-backend/internal/pkg/apperror"
	"github.com/ignatzorin/marketplace-backend/internal/repository/common"
)

// PayoutService освобождает средства эскроу в пользу продавца после
// одобрения работы покупателем. Комиссия площадки удерживается, но не
// зачисляется отдельному кошельку — фиксируется только записью в журнале.
type PayoutService struct {
	atomic       Atomic
	bookings     BookingStore
	escrows      EscrowStore
	wallets      WalletStore
	transactions TransactionLog
	hub          WSNotifier
}

func NewPayoutService(atomic Atomic, bookings BookingStore, escrows EscrowStore, wallets WalletStore, transactions TransactionLog) *PayoutService {
	return &PayoutService{
		atomic:       atomic,
		bookings:     bookings,
		escrows:      escrows,
		wallets:      wallets,
		transactions: transactions,
	}
}

// SetHub устанавливает hub для отправки уведомлений после коммита.
func (s *PayoutService) SetHub(hub WSNotifier) {
	s.hub = hub
}

// ReleaseFunds — одобрение работы покупателем: эскроу освобождается,
// продавец получает свою долю, бронирование завершается. Повторный вызов
// находит бронирование уже в completed и отклоняется InvalidBookingState —
// средства не могут быть освобождены дважды.
func (s *PayoutService) ReleaseFunds(ctx context.Context, actor models.Actor, bookingID uuid.UUID) (*models.Booking, error) {
	var booking *models.Booking

	err := s.atomic.WithinTx(ctx, func(q common.Queryer) error {
		var txErr error
		booking, txErr = s.bookings.GetByIDForUpdate(ctx, q, bookingID)
		if txErr != nil {
			return txErr
		}

		if !actor.Role.IsBuyer() || booking.BuyerID != actor.ID {
			return apperror.ErrNotParticipant
		}

		if booking.Status != valueobject.BookingStatusPendingApproval {
			return apperror.InvalidBookingState(string(booking.Status), "release_funds")
		}

		escrow, txErr := s.escrows.GetByBookingIDForUpdate(ctx, q, booking.ID)
		if txErr != nil {
			return txErr
		}
		if escrow.Status != valueobject.EscrowStatusHeld {
			return apperror.InvalidEscrowState(string(escrow.Status))
		}

		now := time.Now()
		if txErr = s.escrows.Release(ctx, q, escrow, now); txErr != nil {
			return txErr
		}

		if _, txErr = s.wallets.Credit(ctx, q, booking.SellerID, escrow.FreelancerAmount); txErr != nil {
			return txErr
		}

		payoutDesc := "Выплата продавцу"
		if txErr = s.transactions.Create(ctx, q, &models.Transaction{
			BookingID:   &booking.ID,
			UserID:      booking.SellerID,
			Type:        models.TransactionTypePayout,
			Amount:      escrow.FreelancerAmount,
			Description: &payoutDesc,
		}); txErr != nil {
			return txErr
		}

		feeDesc := "Комиссия площадки"
		if txErr = s.transactions.Create(ctx, q, &models.Transaction{
			BookingID:   &booking.ID,
			UserID:      booking.BuyerID,
			Type:        models.TransactionTypePlatformFee,
			Amount:      escrow.PlatformFee,
			Description: &feeDesc,
		}); txErr != nil {
			return txErr
		}

		if txErr = s.bookings.MarkCompleted(ctx, q, booking.ID, now); txErr != nil {
			return txErr
		}

		booking.Status = valueobject.BookingStatusCompleted
		booking.CompletedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(booking, models.EventFundsReleased, map[string]interface{}{
		"booking_id": booking.ID,
	})

	return booking, nil
}

func (s *PayoutService) notify(booking *models.Booking, event string, data map[string]interface{}) {
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
