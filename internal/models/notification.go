package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// События, о которых уведомляются участники сделки.
const (
	EventBookingCreated   = "booking_created"
	EventBookingCancelled = "booking_cancelled"
	EventEscrowCreated    = "escrow_created"
	EventWorkComplete     = "work_complete"
	EventFundsReleased    = "funds_released"
	EventDisputeOpened    = "dispute_opened"
	EventDisputeResolved  = "dispute_resolved"
)

// Notification представляет уведомление пользователя.
type Notification struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	UserID    uuid.UUID       `db:"user_id" json:"user_id"`
	Payload   json.RawMessage `db:"payload" json:"payload"`
	IsRead    bool            `db:"is_read" json:"is_read"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
