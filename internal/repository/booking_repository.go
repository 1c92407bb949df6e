package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/marketplace-backend/internal/domain/valueobject"
	"github.com/ignatzorin/marketplace-backend/internal/models"
	"github.com/ignatzorin/marketplace-backend/internal/pkg/apperror"
	"github.com/ignatzorin/marketplace-backend/internal/repository/common"
)

type BookingRepository struct {
	db *sqlx.DB
}

func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create сохраняет новое бронирование в статусе pending_negotiation.
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (buyer_id, seller_id, listing_id, status, agreed_amount, negotiation_notes, start_date, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		booking.BuyerID, booking.SellerID, booking.ListingID, booking.Status,
		booking.AgreedAmount, booking.NegotiationNotes, booking.StartDate, booking.DueDate,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
}

// GetByID возвращает бронирование без блокировки.
func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return common.GetByID[models.Booking](ctx, r.db, "bookings", id, apperror.ErrBookingNotFound)
}

// GetByIDForUpdate читает бронирование под эксклюзивной блокировкой строки.
// Проверка предусловий settlement-операции выполняется по этой, уже
// заблокированной версии, а не по чтению до начала атомарной единицы.
func (r *BookingRepository) GetByIDForUpdate(ctx context.Context, q common.Queryer, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := sqlx.GetContext(ctx, q, &booking, `SELECT * FROM bookings WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrBookingNotFound
		}
		return nil, fmt.Errorf("booking repository: lock %w", err)
	}
	return &booking, nil
}

// UpdateStatus переводит бронирование в новый статус.
func (r *BookingRepository) UpdateStatus(ctx context.Context, q common.Queryer, id uuid.UUID, status valueobject.BookingStatus) error {
	_, err := q.ExecContext(ctx, `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("booking repository: update status %w", err)
	}
	return nil
}

// MarkFunded фиксирует внесение средств: статус in_progress и согласованную сумму.
func (r *BookingRepository) MarkFunded(ctx context.Context, q common.Queryer, id uuid.UUID, amount decimal.Decimal) error {
	_, err := q.ExecContext(ctx, `
		UPDATE bookings SET status = $2, agreed_amount = $3, updated_at = NOW() WHERE id = $1
	`, id, valueobject.BookingStatusInProgress, amount)
	if err != nil {
		return fmt.Errorf("booking repository: mark funded %w", err)
	}
	return nil
}

// MarkCompleted переводит бронирование в completed с отметкой времени.
func (r *BookingRepository) MarkCompleted(ctx context.Context, q common.Queryer, id uuid.UUID, completedAt time.Time) error {
	_, err := q.ExecContext(ctx, `
		UPDATE bookings SET status = $2, completed_at = $3, updated_at = NOW() WHERE id = $1
	`, id, valueobject.BookingStatusCompleted, completedAt)
	if err != nil {
		return fmt.Errorf("booking repository: mark completed %w", err)
	}
	return nil
}

// ListFilter параметры выборки бронирований.
type ListFilter struct {
	Status *valueobject.BookingStatus
	Limit  int
	Offset int
}

// ListByBuyer возвращает бронирования покупателя с общим количеством.
func (r *BookingRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID, f ListFilter) ([]models.Booking, int, error) {
	return r.list(ctx, "buyer_id", buyerID, f)
}

// ListBySeller возвращает бронирования продавца с общим количеством.
func (r *BookingRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID, f ListFilter) ([]models.Booking, int, error) {
	return r.list(ctx, "seller_id", sellerID, f)
}

func (r *BookingRepository) list(ctx context.Context, field string, userID uuid.UUID, f ListFilter) ([]models.Booking, int, error) {
	where := fmt.Sprintf("WHERE %s = $1", field)
	args := []interface{}{userID}
	if f.Status != nil {
		where += " AND status = $2"
		args = append(args, *f.Status)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM bookings "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("booking repository: count %w", err)
	}

	query := fmt.Sprintf(
		"SELECT * FROM bookings %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, len(args)+1, len(args)+2,
	)
	args = append(args, f.Limit, f.Offset)

	var bookings []models.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, 0, fmt.Errorf("booking repository: list %w", err)
	}
	return bookings, total, nil
}
