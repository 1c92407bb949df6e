package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Типы транзакций
const (
	TransactionTypeEscrowHold         = "escrow_hold"
	TransactionTypePayout             = "payout"
	TransactionTypeRefund             = "refund"
	TransactionTypePlatformFee        = "platform_fee"
	TransactionTypeCancellationRefund = "cancellation_refund"
)

// Статусы транзакций
const (
	TransactionStatusCompleted = "completed"
)

// ValidTransactionTypes список валидных типов транзакций
var ValidTransactionTypes = map[string]struct{}{
	TransactionTypeEscrowHold:         {},
	TransactionTypePayout:             {},
	TransactionTypeRefund:             {},
	TransactionTypePlatformFee:        {},
	TransactionTypeCancellationRefund: {},
}

// Transaction представляет запись в журнале движений средств.
// Журнал только пополняется: записи не обновляются и не удаляются.
type Transaction struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	BookingID   *uuid.UUID      `db:"booking_id" json:"booking_id,omitempty"`
	UserID      uuid.UUID       `db:"user_id" json:"user_id"`
	Type        string          `db:"type" json:"type"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Status      string          `db:"status" json:"status"`
	Description *string         `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}
