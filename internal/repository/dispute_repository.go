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

type DisputeRepository struct {
	db *sqlx.DB
}

func NewDisputeRepository(db *sqlx.DB) *DisputeRepository {
	return &DisputeRepository{db: db}
}

// Create сохраняет открытый спор в рамках атомарной единицы вызывающего.
func (r *DisputeRepository) Create(ctx context.Context, q common.Queryer, d *models.Dispute) error {
	query := `
		INSERT INTO disputes (booking_id, created_by_id, reason, description, evidence_files, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	return q.QueryRowxContext(ctx, query,
		d.BookingID, d.CreatedByID, d.Reason, d.Description, d.EvidenceFiles, d.Status,
	).Scan(&d.ID, &d.CreatedAt)
}

func (r *DisputeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Dispute, error) {
	return common.GetByID[models.Dispute](ctx, r.db, "disputes", id, apperror.ErrDisputeNotFound)
}

// GetByIDForUpdate читает спор под эксклюзивной блокировкой, чтобы
// разрешение выполнилось ровно один раз даже при конкурентных запросах.
func (r *DisputeRepository) GetByIDForUpdate(ctx context.Context, q common.Queryer, id uuid.UUID) (*models.Dispute, error) {
	var d models.Dispute
	err := sqlx.GetContext(ctx, q, &d, `SELECT * FROM disputes WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrDisputeNotFound
		}
		return nil, fmt.Errorf("dispute repository: lock %w", err)
	}
	return &d, nil
}

func (r *DisputeRepository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.Dispute, error) {
	return common.GetByField[models.Dispute](ctx, r.db, "disputes", "booking_id", bookingID, apperror.ErrDisputeNotFound)
}

// Resolve фиксирует решение администратора по спору.
func (r *DisputeRepository) Resolve(ctx context.Context, q common.Queryer, d *models.Dispute, decision valueobject.ResolutionDecision, notes *string, resolvedBy uuid.UUID, at time.Time) error {
	_, err := q.ExecContext(ctx, `
		UPDATE disputes SET status = $2, resolution_decision = $3, resolution_notes = $4, resolved_by = $5, resolved_at = $6
		WHERE id = $1
	`, d.ID, valueobject.DisputeStatusResolved, decision, notes, resolvedBy, at)
	if err != nil {
		return fmt.Errorf("dispute repository: resolve %w", err)
	}

	d.Status = valueobject.DisputeStatusResolved
	d.ResolutionDecision = &decision
	d.ResolutionNotes = notes
	d.ResolvedBy = &resolvedBy
	d.ResolvedAt = &at
	return nil
}

// ListOpen возвращает открытые споры для административной очереди.
func (r *DisputeRepository) ListOpen(ctx context.Context, limit, offset int) ([]models.Dispute, error) {
	var disputes []models.Dispute
	err := r.db.SelectContext(ctx, &disputes, `
		SELECT * FROM disputes WHERE status = $1 ORDER BY created_at ASC LIMIT $2 OFFSET $3
	`, valueobject.DisputeStatusOpen, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("dispute repository: list open %w", err)
	}
	return disputes, nil
}

// ListByUser возвращает споры, в которых пользователь — сторона сделки.
func (r *DisputeRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Dispute, error) {
	var disputes []models.Dispute
	err := r.db.SelectContext(ctx, &disputes, `
		SELECT d.* FROM disputes d
		JOIN bookings b ON d.booking_id = b.id
		WHERE b.buyer_id = $1 OR b.seller_id = $1
		ORDER BY d.created_at DESC LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("dispute repository: list by user %w", err)
	}
	return disputes, nil
}
