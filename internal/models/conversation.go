package models

import (
	"time"

	"github.com/google/uuid"
)

// Conversation — переписка сторон в рамках бронирования.
type Conversation struct {
	ID        uuid.UUID `db:"id" json:"id"`
	BookingID uuid.UUID `db:"booking_id" json:"booking_id"`
	BuyerID   uuid.UUID `db:"buyer_id" json:"buyer_id"`
	SellerID  uuid.UUID `db:"seller_id" json:"seller_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Message — сообщение в переписке.
type Message struct {
	ID             uuid.UUID `db:"id" json:"id"`
	ConversationID uuid.UUID `db:"conversation_id" json:"conversation_id"`
	SenderID       uuid.UUID `db:"sender_id" json:"sender_id"`
	Content        string    `db:"content" json:"content"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
