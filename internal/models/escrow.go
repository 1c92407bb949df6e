package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/marketplace-backend/internal/domain/valueobject"
)

// EscrowAccount представляет эскроу-счёт бронирования (1:1).
// Инвариант: PlatformFee + FreelancerAmount == TotalAmount.
type EscrowAccount struct {
	ID               uuid.UUID                `db:"id" json:"id"`
	BookingID        uuid.UUID                `db:"booking_id" json:"booking_id"`
	TotalAmount      decimal.Decimal          `db:"total_amount" json:"total_amount"`
	PlatformFee      decimal.Decimal          `db:"platform_fee" json:"platform_fee"`
	FreelancerAmount decimal.Decimal          `db:"freelancer_amount" json:"freelancer_amount"`
	Status           valueobject.EscrowStatus `db:"status" json:"status"`
	ReleasedAt       *time.Time               `db:"released_at" json:"released_at,omitempty"`
	CreatedAt        time.Time                `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time                `db:"updated_at" json:"updated_at"`
}
