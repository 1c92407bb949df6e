package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/marketplace-backend/internal/models"
	"github.com/ignatzorin/marketplace-backend/internal/repository/common"
)

// TransactionRepository ведёт журнал движений средств. Записи только
// добавляются; обновлений и удалений нет.
type TransactionRepository struct {
	db *sqlx.DB
}

func NewTransactionRepository(db *sqlx.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create добавляет запись в журнал в рамках атомарной единицы вызывающего.
func (r *TransactionRepository) Create(ctx context.Context, q common.Queryer, t *models.Transaction) error {
	if _, ok := models.ValidTransactionTypes[t.Type]; !ok {
		return fmt.Errorf("transaction repository: %w: неизвестный тип %q", common.ErrInvalidInput, t.Type)
	}
	if t.Status == "" {
		t.Status = models.TransactionStatusCompleted
	}

	query := `
		INSERT INTO transactions (booking_id, user_id, type, amount, status, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	return q.QueryRowxContext(ctx, query,
		t.BookingID, t.UserID, t.Type, t.Amount, t.Status, t.Description,
	).Scan(&t.ID, &t.CreatedAt)
}

// ListByUser возвращает историю транзакций пользователя.
func (r *TransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.SelectContext(ctx, &transactions, `
		SELECT * FROM transactions WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("transaction repository: list %w", err)
	}
	return transactions, nil
}

// ListByBooking возвращает все движения средств по бронированию.
func (r *TransactionRepository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.SelectContext(ctx, &transactions, `
		SELECT * FROM transactions WHERE booking_id = $1 ORDER BY created_at ASC
	`, bookingID)
	if err != nil {
		return nil, fmt.Errorf("transaction repository: list by booking %w", err)
	}
	return transactions, nil
}
