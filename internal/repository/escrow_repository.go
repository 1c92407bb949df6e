package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/marketplace-backend/internal/domain/valueobject"
	"github.com/ignatzorin/marketplace-backend/internal/models"
	"github.com/ignatzorin/marketplace-backend/internal/pkg/apperror"
	"github.com/ignatzorin/marketplace-backend/internal/repository/common"
)

// EscrowRepository хранит эскроу-счета. Переходы статуса выполняются только
// через Freeze/Release/Refund по уже заблокированной строке; переход,
// не разрешённый таблицей valueobject.EscrowStatus, отклоняется.
type EscrowRepository struct {
	db *sqlx.DB
}

func NewEscrowRepository(db *sqlx.DB) *EscrowRepository {
	return &EscrowRepository{db: db}
}

// Create сохраняет новый эскроу-счёт со статусом held.
func (r *EscrowRepository) Create(ctx context.Context, q common.Queryer, escrow *models.EscrowAccount) error {
	query := `
		INSERT INTO escrow_accounts (booking_id, total_amount, platform_fee, freelancer_amount, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	return q.QueryRowxContext(ctx, query,
		escrow.BookingID, escrow.TotalAmount, escrow.PlatformFee, escrow.FreelancerAmount, escrow.Status,
	).Scan(&escrow.ID, &escrow.CreatedAt, &escrow.UpdatedAt)
}

// GetByBookingID возвращает эскроу-счёт бронирования без блокировки.
func (r *EscrowRepository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.EscrowAccount, error) {
	return common.GetByField[models.EscrowAccount](ctx, r.db, "escrow_accounts", "booking_id", bookingID, apperror.ErrEscrowNotFound)
}

// GetByBookingIDForUpdate читает эскроу-счёт под эксклюзивной блокировкой.
func (r *EscrowRepository) GetByBookingIDForUpdate(ctx context.Context, q common.Queryer, bookingID uuid.UUID) (*models.EscrowAccount, error) {
	var escrow models.EscrowAccount
	err := sqlx.GetContext(ctx, q, &escrow, `SELECT * FROM escrow_accounts WHERE booking_id = $1 FOR UPDATE`, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrEscrowNotFound
		}
		return nil, fmt.Errorf("escrow repository: lock %w", err)
	}
	return &escrow, nil
}

// Freeze переводит held → frozen.
func (r *EscrowRepository) Freeze(ctx context.Context, q common.Queryer, escrow *models.EscrowAccount) error {
	return r.transition(ctx, q, escrow, valueobject.EscrowStatusFrozen, nil)
}

// Release переводит held|frozen → released и фиксирует время освобождения.
func (r *EscrowRepository) Release(ctx context.Context, q common.Queryer, escrow *models.EscrowAccount, at time.Time) error {
	return r.transition(ctx, q, escrow, valueobject.EscrowStatusReleased, &at)
}

// Refund переводит held|frozen → refunded.
func (r *EscrowRepository) Refund(ctx context.Context, q common.Queryer, escrow *models.EscrowAccount) error {
	return r.transition(ctx, q, escrow, valueobject.EscrowStatusRefunded, nil)
}

func (r *EscrowRepository) transition(ctx context.Context, q common.Queryer, escrow *models.EscrowAccount, next valueobject.EscrowStatus, releasedAt *time.Time) error {
	if !escrow.Status.CanTransitionTo(next) {
		return apperror.InvalidEscrowState(string(escrow.Status))
	}

	_, err := q.ExecContext(ctx, `
		UPDATE escrow_accounts SET status = $2, released_at = COALESCE($3, released_at), updated_at = NOW()
		WHERE id = $1
	`, escrow.ID, next, releasedAt)
	if err != nil {
		return fmt.Errorf("escrow repository: transition to %s %w", next, err)
	}

	escrow.Status = next
	if releasedAt != nil {
		escrow.ReleasedAt = releasedAt
	}
	return nil
}
