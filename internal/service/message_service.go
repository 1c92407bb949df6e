package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ignatzorin/marketplace-backend/internal/goroutine"
	"github.com/ignatzorin/marketplace-backend/internal/models"
	"github.com/ignatzorin/marketplace-backend/internal/pkg/apperror"
	"github.com/ignatzorin/marketplace-backend/internal/repository"
	"github.com/ignatzorin/marketplace-backend/internal/validation"
)

// ConversationStore описывает хранилище переписок.
type ConversationStore interface {
	GetOrCreate(ctx context.Context, bookingID, buyerID, sellerID uuid.UUID) (*models.Conversation, error)
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.Conversation, error)
	AddMessage(ctx context.Context, msg *models.Message) error
	ListMessages(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]models.Message, error)
}

// MessageService — переписка сторон в рамках бронирования. Сообщения
// доступны только участникам сделки.
type MessageService struct {
	conversations ConversationStore
	bookings      BookingStore
	hub           WSNotifier
}

func NewMessageService(conversations ConversationStore, bookings BookingStore) *MessageService {
	return &MessageService{conversations: conversations, bookings: bookings}
}

// SetHub устанавливает hub для доставки сообщений в реальном времени.
func (s *MessageService) SetHub(hub WSNotifier) {
	s.hub = hub
}

// SendMessage отправляет сообщение в переписку бронирования, создавая
// переписку при первом сообщении.
func (s *MessageService) SendMessage(ctx context.Context, actor models.Actor, bookingID uuid.UUID, content string) (*models.Message, error) {
	if err := validation.ValidateLength("message", content, validation.MinMessageLength, validation.MaxMessageLength); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.IsParticipant(actor.ID) {
		return nil, apperror.ErrNotParticipant
	}

	conv, err := s.conversations.GetOrCreate(ctx, booking.ID, booking.BuyerID, booking.SellerID)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		ConversationID: conv.ID,
		SenderID:       actor.ID,
		Content:        content,
	}
	if err = s.conversations.AddMessage(ctx, msg); err != nil {
		return nil, err
	}

	if s.hub != nil {
		hub := s.hub
		recipient := booking.BuyerID
		if actor.ID == booking.BuyerID {
			recipient = booking.SellerID
		}
		payload := map[string]interface{}{
			"booking_id": booking.ID,
			"message_id": msg.ID,
			"sender_id":  msg.SenderID,
			"content":    msg.Content,
		}
		goroutine.SafeGo(func() {
			_ = hub.BroadcastToUser(recipient, "new_message", payload)
		})
	}

	return msg, nil
}

// ListMessages возвращает сообщения переписки бронирования участникам сделки.
func (s *MessageService) ListMessages(ctx context.Context, actor models.Actor, bookingID uuid.UUID, limit, offset int) ([]models.Message, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.IsParticipant(actor.ID) && !actor.Role.IsAdmin() {
		return nil, apperror.ErrNotParticipant
	}

	conv, err := s.conversations.GetByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			return []models.Message{}, nil
		}
		return nil, err
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.conversations.ListMessages(ctx, conv.ID, limit, offset)
}
