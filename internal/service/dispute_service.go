package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ignatzorin/marketplace-backend/internal/domain/valueobject"
	"github.com/ignatzorin/marketplace-backend/internal/goroutine"
	"github.com/ignatzorin/marketplace-backend/internal/models"
	"github.com/ignatzorin/marketplace-backend/internal/pkg/apperror"
	"github.com/ignatzorin/marketplace-backend/internal/repository/common"
	"github.com/ignatzorin/marketplace-backend/internal/validation"
)

// OpenDisputeInput — параметры открытия спора.
type OpenDisputeInput struct {
	Reason        string   `json:"reason"`
	Description   *string  `json:"description"`
	EvidenceFiles []string `json:"evidence_files"`
}

// ResolveDisputeInput — решение администратора по спору.
type ResolveDisputeInput struct {
	Decision valueobject.ResolutionDecision `json:"decision"`
	Notes    *string                        `json:"notes"`
}

// DisputeService — слой споров поверх settlement-ядра. Открытие спора
// замораживает эскроу, разрешение спора администратором завершает сделку
// возвратом покупателю или выплатой продавцу.
type DisputeService struct {
	atomic       Atomic
	disputes     DisputeStore
	bookings     BookingStore
	escrows      EscrowStore
	wallets      WalletStore
	transactions TransactionLog
	hub          WSNotifier
}

func NewDisputeService(atomic Atomic, disputes DisputeStore, bookings BookingStore, escrows EscrowStore, wallets WalletStore, transactions TransactionLog) *DisputeService {
	return &DisputeService{
		atomic:       atomic,
		disputes:     disputes,
		bookings:     bookings,
		escrows:      escrows,
		wallets:      wallets,
		transactions: transactions,
	}
}

// SetHub устанавливает hub для отправки уведомлений.
func (s *DisputeService) SetHub(hub WSNotifier) {
	s.hub = hub
}

// OpenDispute открывает спор по бронированию от имени покупателя.
// Эскроу-счёт замораживается, бронирование переходит в disputed.
func (s *DisputeService) OpenDispute(ctx context.Context, actor models.Actor, bookingID uuid.UUID, input OpenDisputeInput) (*models.Dispute, error) {
	if err := validation.ValidateLength("reason", input.Reason, validation.MinDisputeReasonLength, validation.MaxDisputeReasonLength); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if input.Description != nil {
		if err := validation.ValidateLength("description", *input.Description, 0, validation.MaxDisputeDescription); err != nil {
			return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
		}
	}

	var (
		dispute *models.Dispute
		booking *models.Booking
	)
	err := s.atomic.WithinTx(ctx, func(q common.Queryer) error {
		var txErr error
		booking, txErr = s.bookings.GetByIDForUpdate(ctx, q, bookingID)
		if txErr != nil {
			return txErr
		}

		if !actor.Role.IsBuyer() || booking.BuyerID != actor.ID {
			return apperror.ErrNotParticipant
		}

		if booking.Status != valueobject.BookingStatusInProgress &&
			booking.Status != valueobject.BookingStatusPendingApproval {
			return apperror.InvalidBookingState(string(booking.Status), "open_dispute")
		}

		escrow, txErr := s.escrows.GetByBookingIDForUpdate(ctx, q, booking.ID)
		if txErr != nil {
			return txErr
		}
		if txErr = s.escrows.Freeze(ctx, q, escrow); txErr != nil {
			return txErr
		}

		dispute = &models.Dispute{
			BookingID:     booking.ID,
			CreatedByID:   actor.ID,
			Reason:        input.Reason,
			Description:   input.Description,
			EvidenceFiles: pq.StringArray(input.EvidenceFiles),
			Status:        valueobject.DisputeStatusOpen,
		}
		if txErr = s.disputes.Create(ctx, q, dispute); txErr != nil {
			return txErr
		}

		if txErr = s.bookings.UpdateStatus(ctx, q, booking.ID, valueobject.BookingStatusDisputed); txErr != nil {
			return txErr
		}
		booking.Status = valueobject.BookingStatusDisputed
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(booking, models.EventDisputeOpened, map[string]interface{}{
		"booking_id": booking.ID,
		"dispute_id": dispute.ID,
		"reason":     dispute.Reason,
	})

	return dispute, nil
}

// ResolveDispute — администратор закрывает спор. refund_to_buyer возвращает
// покупателю полную сумму эскроу; release_to_seller выплачивает продавцу его
// долю с удержанием комиссии, как при штатном одобрении.
func (s *DisputeService) ResolveDispute(ctx context.Context, actor models.Actor, disputeID uuid.UUID, input ResolveDisputeInput) (*models.Dispute, error) {
	// Права проверяются до захвата блокировок.
	if !actor.Role.IsAdmin() {
		return nil, apperror.ErrAdminOnly
	}
	if _, err := valueobject.NewResolutionDecision(string(input.Decision)); err != nil {
		return nil, err
	}
	if input.Notes != nil {
		if err := validation.ValidateLength("notes", *input.Notes, 0, validation.MaxResolutionNotes); err != nil {
			return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
		}
	}

	var (
		dispute *models.Dispute
		booking *models.Booking
	)
	err := s.atomic.WithinTx(ctx, func(q common.Queryer) error {
		var txErr error
		dispute, txErr = s.disputes.GetByIDForUpdate(ctx, q, disputeID)
		if txErr != nil {
			return txErr
		}
		if dispute.Status != valueobject.DisputeStatusOpen {
			return apperror.New(apperror.ErrCodeInvalidState, "спор уже разрешён")
		}

		booking, txErr = s.bookings.GetByIDForUpdate(ctx, q, dispute.BookingID)
		if txErr != nil {
			return txErr
		}
		if booking.Status != valueobject.BookingStatusDisputed {
			return apperror.InvalidBookingState(string(booking.Status), "resolve_dispute")
		}

		escrow, txErr := s.escrows.GetByBookingIDForUpdate(ctx, q, booking.ID)
		if txErr != nil {
			return txErr
		}

		now := time.Now()
		switch input.Decision {
		case valueobject.ResolutionRefundToBuyer:
			if txErr = s.refundToBuyer(ctx, q, booking, escrow); txErr != nil {
				return txErr
			}
		case valueobject.ResolutionReleaseToSeller:
			if txErr = s.releaseToSeller(ctx, q, booking, escrow, now); txErr != nil {
				return txErr
			}
		}

		return s.disputes.Resolve(ctx, q, dispute, input.Decision, input.Notes, actor.ID, now)
	})
	if err != nil {
		return nil, err
	}

	s.notify(booking, models.EventDisputeResolved, map[string]interface{}{
		"booking_id": booking.ID,
		"dispute_id": dispute.ID,
		"decision":   dispute.ResolutionDecision,
	})

	return dispute, nil
}

// refundToBuyer возвращает покупателю полную сумму эскроу, комиссия не
// удерживается. Бронирование переходит в refunded.
func (s *DisputeService) refundToBuyer(ctx context.Context, q common.Queryer, booking *models.Booking, escrow *models.EscrowAccount) error {
	if err := s.escrows.Refund(ctx, q, escrow); err != nil {
		return err
	}
	if _, err := s.wallets.Credit(ctx, q, booking.BuyerID, escrow.TotalAmount); err != nil {
		return err
	}

	description := "Возврат средств по решению спора"
	if err := s.transactions.Create(ctx, q, &models.Transaction{
		BookingID:   &booking.ID,
		UserID:      booking.BuyerID,
		Type:        models.TransactionTypeRefund,
		Amount:      escrow.TotalAmount,
		Description: &description,
	}); err != nil {
		return err
	}

	if err := s.bookings.UpdateStatus(ctx, q, booking.ID, valueobject.BookingStatusRefunded); err != nil {
		return err
	}
	booking.Status = valueobject.BookingStatusRefunded
	return nil
}

// releaseToSeller выплачивает продавцу его долю, комиссия площадки
// удерживается. Бронирование завершается как при одобрении покупателем.
func (s *DisputeService) releaseToSeller(ctx context.Context, q common.Queryer, booking *models.Booking, escrow *models.EscrowAccount, now time.Time) error {
	if err := s.escrows.Release(ctx, q, escrow, now); err != nil {
		return err
	}
	if _, err := s.wallets.Credit(ctx, q, booking.SellerID, escrow.FreelancerAmount); err != nil {
		return err
	}

	payoutDesc := "Выплата продавцу по решению спора"
	if err := s.transactions.Create(ctx, q, &models.Transaction{
		BookingID:   &booking.ID,
		UserID:      booking.SellerID,
		Type:        models.TransactionTypePayout,
		Amount:      escrow.FreelancerAmount,
		Description: &payoutDesc,
	}); err != nil {
		return err
	}

	feeDesc := "Комиссия площадки"
	if err := s.transactions.Create(ctx, q, &models.Transaction{
		BookingID:   &booking.ID,
		UserID:      booking.BuyerID,
		Type:        models.TransactionTypePlatformFee,
		Amount:      escrow.PlatformFee,
		Description: &feeDesc,
	}); err != nil {
		return err
	}

	if err := s.bookings.MarkCompleted(ctx, q, booking.ID, now); err != nil {
		return err
	}
	booking.Status = valueobject.BookingStatusCompleted
	booking.CompletedAt = &now
	return nil
}

// GetDispute возвращает спор его участникам и администраторам.
func (s *DisputeService) GetDispute(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Dispute, error) {
	dispute, err := s.disputes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role.IsAdmin() {
		return dispute, nil
	}
	booking, err := s.bookings.GetByID(ctx, dispute.BookingID)
	if err != nil {
		return nil, err
	}
	if !booking.IsParticipant(actor.ID) {
		return nil, apperror.ErrNotParticipant
	}
	return dispute, nil
}

// ListMyDisputes возвращает споры по сделкам пользователя.
func (s *DisputeService) ListMyDisputes(ctx context.Context, actor models.Actor, limit, offset int) ([]models.Dispute, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.disputes.ListByUser(ctx, actor.ID, limit, offset)
}

// ListOpenDisputes возвращает открытые споры для очереди администратора.
func (s *DisputeService) ListOpenDisputes(ctx context.Context, actor models.Actor, limit, offset int) ([]models.Dispute, error) {
	if !actor.Role.IsAdmin() {
		return nil, apperror.ErrAdminOnly
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.disputes.ListOpen(ctx, limit, offset)
}

func (s *DisputeService) notify(booking *models.Booking, event string, data map[string]interface{}) {
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
