package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/marketplace-backend/internal/domain/valueobject"
	"github.com/ignatzorin/marketplace-backend/internal/goroutine"
	"github.com/ignatzorin/marketplace-backend/internal/models"
	"github.com/ignatzorin/marketplace-backend/internal/pkg/apperror"
	"github.com/ignatzorin/marketplace-backend/internal/repository"
	"github.com/ignatzorin/marketplace-backend/internal/repository/common"
	"github.com/ignatzorin/marketplace-backend/internal/validation"
)

// ListingStore описывает хранилище услуг в объёме, нужном бронированиям.
type ListingStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error)
}

// UserStore описывает хранилище пользователей в объёме, нужном бронированиям.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// CreateBookingInput — параметры создания бронирования.
type CreateBookingInput struct {
	ListingID        uuid.UUID       `json:"listing_id"`
	AgreedAmount     decimal.Decimal `json:"agreed_amount"`
	NegotiationNotes *string         `json:"negotiation_notes"`
	StartDate        *time.Time      `json:"start_date"`
	DueDate          *time.Time      `json:"due_date"`
}

// BookingService управляет жизненным циклом бронирований вне
// settlement-операций: создание, просмотр, отметка о выполнении работы.
type BookingService struct {
	atomic   Atomic
	bookings BookingStore
	listings ListingStore
	users    UserStore
	hub      WSNotifier
}

func NewBookingService(atomic Atomic, bookings BookingStore, listings ListingStore, users UserStore) *BookingService {
	return &BookingService{
		atomic:   atomic,
		bookings: bookings,
		listings: listings,
		users:    users,
	}
}

// SetHub устанавливает hub для отправки уведомлений.
func (s *BookingService) SetHub(hub WSNotifier) {
	s.hub = hub
}

// CreateBooking создаёт бронирование от имени покупателя по активной услуге.
// Продавец не может бронировать собственную услугу.
func (s *BookingService) CreateBooking(ctx context.Context, actor models.Actor, input CreateBookingInput) (*models.Booking, error) {
	if !actor.Role.IsBuyer() {
		return nil, apperror.ErrForbidden
	}
	if err := valueobject.ValidateAmount(input.AgreedAmount); err != nil {
		return nil, err
	}

	listing, err := s.listings.GetByID(ctx, input.ListingID)
	if err != nil {
		return nil, err
	}
	if !listing.IsActive {
		return nil, apperror.ErrListingNotFound
	}
	if listing.SellerID == actor.ID {
		return nil, apperror.New(apperror.ErrCodeValidation, "нельзя бронировать собственную услугу")
	}
	if _, err = s.users.GetByID(ctx, listing.SellerID); err != nil {
		return nil, err
	}

	if input.NegotiationNotes != nil {
		if err = validation.ValidateLength("negotiation_notes", *input.NegotiationNotes, 0, validation.MaxNegotiationNotes); err != nil {
			return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
		}
	}

	booking := &models.Booking{
		BuyerID:          actor.ID,
		SellerID:         listing.SellerID,
		ListingID:        listing.ID,
		Status:           valueobject.BookingStatusPendingNegotiation,
		AgreedAmount:     input.AgreedAmount,
		NegotiationNotes: input.NegotiationNotes,
		StartDate:        input.StartDate,
		DueDate:          input.DueDate,
	}
	if err = s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.notify(booking, models.EventBookingCreated, map[string]interface{}{
		"booking_id": booking.ID,
		"listing_id": listing.ID,
	})

	return booking, nil
}

// GetBooking возвращает бронирование его участникам и администраторам.
func (s *BookingService) GetBooking(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !booking.IsParticipant(actor.ID) && !actor.Role.IsAdmin() {
		return nil, apperror.ErrNotParticipant
	}
	return booking, nil
}

// ListMyBookings возвращает бронирования пользователя по его роли в сделках.
func (s *BookingService) ListMyBookings(ctx context.Context, actor models.Actor, f repository.ListFilter) ([]models.Booking, int, error) {
	if actor.Role.IsSeller() {
		return s.bookings.ListBySeller(ctx, actor.ID, f)
	}
	return s.bookings.ListByBuyer(ctx, actor.ID, f)
}

// MarkComplete — продавец сообщает о выполнении работы: бронирование
// переходит из in_progress в pending_approval и ждёт решения покупателя.
func (s *BookingService) MarkComplete(ctx context.Context, actor models.Actor, bookingID uuid.UUID) (*models.Booking, error) {
	var booking *models.Booking

	err := s.atomic.WithinTx(ctx, func(q common.Queryer) error {
		var txErr error
		booking, txErr = s.bookings.GetByIDForUpdate(ctx, q, bookingID)
		if txErr != nil {
			return txErr
		}

		if !actor.Role.IsSeller() || booking.SellerID != actor.ID {
			return apperror.ErrNotParticipant
		}

		if booking.Status != valueobject.BookingStatusInProgress {
			return apperror.InvalidBookingState(string(booking.Status), "mark_complete")
		}

		if txErr = s.bookings.UpdateStatus(ctx, q, booking.ID, valueobject.BookingStatusPendingApproval); txErr != nil {
			return txErr
		}
		booking.Status = valueobject.BookingStatusPendingApproval
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(booking, models.EventWorkComplete, map[string]interface{}{
		"booking_id": booking.ID,
	})

	return booking, nil
}

func (s *BookingService) notify(booking *models.Booking, event string, data map[string]interface{}) {
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
