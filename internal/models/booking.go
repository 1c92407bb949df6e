package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/marketplace-backend/internal/domain/valueobject"
)

// Booking представляет сделку между покупателем и продавцом.
// Жизненный цикл статуса описан в valueobject.BookingStatus; денежные
// операции меняют статус только через settlement-сервисы.
type Booking struct {
	ID               uuid.UUID                 `db:"id" json:"id"`
	BuyerID          uuid.UUID                 `db:"buyer_id" json:"buyer_id"`
	SellerID         uuid.UUID                 `db:"seller_id" json:"seller_id"`
	ListingID        uuid.UUID                 `db:"listing_id" json:"listing_id"`
	Status           valueobject.BookingStatus `db:"status" json:"status"`
	AgreedAmount     decimal.Decimal           `db:"agreed_amount" json:"agreed_amount"`
	NegotiationNotes *string                   `db:"negotiation_notes" json:"negotiation_notes,omitempty"`
	StartDate        *time.Time                `db:"start_date" json:"start_date,omitempty"`
	DueDate          *time.Time                `db:"due_date" json:"due_date,omitempty"`
	CompletedAt      *time.Time                `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt        time.Time                 `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time                 `db:"updated_at" json:"updated_at"`
}

// IsParticipant сообщает, является ли пользователь стороной сделки.
func (b *Booking) IsParticipant(userID uuid.UUID) bool {
	return b.BuyerID == userID || b.SellerID == userID
}
