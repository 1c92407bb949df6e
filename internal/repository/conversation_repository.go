package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/marketplace-backend/internal/models"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrMessageNotFound      = errors.New("message not found")
)

type ConversationRepository struct {
	db *sqlx.DB
}

func NewConversationRepository(db *sqlx.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// GetOrCreate возвращает переписку бронирования, создавая её при первом сообщении.
func (r *ConversationRepository) GetOrCreate(ctx context.Context, bookingID, buyerID, sellerID uuid.UUID) (*models.Conversation, error) {
	var conv models.Conversation
	query := `
		INSERT INTO conversations (booking_id, buyer_id, seller_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (booking_id) DO UPDATE SET booking_id = EXCLUDED.booking_id
		RETURNING id, booking_id, buyer_id, seller_id, created_at
	`
	if err := r.db.GetContext(ctx, &conv, query, bookingID, buyerID, sellerID); err != nil {
		return nil, fmt.Errorf("conversation repository: get or create %w", err)
	}
	return &conv, nil
}

func (r *ConversationRepository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.db.GetContext(ctx, &conv, `SELECT * FROM conversations WHERE booking_id = $1`, bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("conversation repository: get %w", err)
	}
	return &conv, nil
}

// AddMessage сохраняет сообщение в переписке.
func (r *ConversationRepository) AddMessage(ctx context.Context, msg *models.Message) error {
	query := `
		INSERT INTO messages (conversation_id, sender_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query, msg.ConversationID, msg.SenderID, msg.Content).
		Scan(&msg.ID, &msg.CreatedAt)
}

// ListMessages возвращает сообщения переписки от новых к старым.
func (r *ConversationRepository) ListMessages(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.SelectContext(ctx, &messages, `
		SELECT * FROM messages WHERE conversation_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, conversationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("conversation repository: list messages %w", err)
	}
	return messages, nil
}
