package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignatzorin/marketplace-backend/internal/domain/valueobject"
	"github.com/ignatzorin/marketplace-backend/internal/goroutine"
	"github.com/ignatzorin/marketplace-backend/internal/models"
	"github.com/ignatzorin/marketplace-backend/internal/pkg/apperror"
	"github.com/ignatzorin/marketplace-backend/internal/repository/common"
)

// CancellationService отменяет бронирование до начала работы. Отмена
// допустима только из pending_negotiation; после внесения средств на
// эскроу единственный путь возврата — спор.
type CancellationService struct {
	atomic       Atomic
	bookings     BookingStore
	escrows      EscrowStore
	wallets      WalletStore
	transactions TransactionLog
	hub          WSNotifier
}

func NewCancellationService(atomic Atomic, bookings BookingStore, escrows EscrowStore, wallets WalletStore, transactions TransactionLog) *CancellationService {
	return &CancellationService{
		atomic:       atomic,
		bookings:     bookings,
		escrows:      escrows,
		wallets:      wallets,
		transactions: transactions,
	}
}

// SetHub устанавливает hub для отправки уведомлений.
func (s *CancellationService) SetHub(hub WSNotifier) {
	s.hub = hub
}

// Cancel отменяет бронирование от имени любой из сторон. Если по
// бронированию существует эскроу-счёт в held, вся сумма возвращается
// покупателю одной записью cancellation_refund.
func (s *CancellationService) Cancel(ctx context.Context, actor models.Actor, bookingID uuid.UUID, reason *string) (*models.Booking, error) {
	var booking *models.Booking

	err := s.atomic.WithinTx(ctx, func(q common.Queryer) error {
		var txErr error
		booking, txErr = s.bookings.GetByIDForUpdate(ctx, q, bookingID)
		if txErr != nil {
			return txErr
		}

		if !booking.IsParticipant(actor.ID) {
			return apperror.ErrNotParticipant
		}

		if booking.Status != valueobject.BookingStatusPendingNegotiation {
			return apperror.InvalidBookingState(string(booking.Status), "cancel")
		}

		escrow, txErr := s.escrows.GetByBookingIDForUpdate(ctx, q, booking.ID)
		switch {
		case txErr == nil:
			if escrow.Status != valueobject.EscrowStatusHeld {
				return apperror.InvalidEscrowState(string(escrow.Status))
			}
			if txErr = s.escrows.Refund(ctx, q, escrow); txErr != nil {
				return txErr
			}
			if _, txErr = s.wallets.Credit(ctx, q, booking.BuyerID, escrow.TotalAmount); txErr != nil {
				return txErr
			}
			description := "Возврат средств при отмене бронирования"
			if reason != nil && *reason != "" {
				description = fmt.Sprintf("%s: %s", description, *reason)
			}
			if txErr = s.transactions.Create(ctx, q, &models.Transaction{
				BookingID:   &booking.ID,
				UserID:      booking.BuyerID,
				Type:        models.TransactionTypeCancellationRefund,
				Amount:      escrow.TotalAmount,
				Description: &description,
			}); txErr != nil {
				return txErr
			}
		case apperror.IsNotFound(txErr):
			// Эскроу ещё не создавался, возвращать нечего.
		default:
			return txErr
		}

		if txErr = s.bookings.UpdateStatus(ctx, q, booking.ID, valueobject.BookingStatusCancelled); txErr != nil {
			return txErr
		}
		booking.Status = valueobject.BookingStatusCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(booking, models.EventBookingCancelled, map[string]interface{}{
		"booking_id":   booking.ID,
		"cancelled_by": actor.ID,
	})

	return booking, nil
}

func (s *CancellationService) notify(booking *models.Booking, event string, data map[string]interface{}) {
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
