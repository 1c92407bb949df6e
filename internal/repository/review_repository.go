package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/marketplace-backend/internal/models"
	"github.com/ignatzorin/marketplace-backend/internal/repository/common"
)

var ErrReviewNotFound = errors.New("review not found")

type ReviewRepository struct {
	db *sqlx.DB
}

func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create сохраняет отзыв; на бронирование допускается один отзыв.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (booking_id, buyer_id, seller_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		review.BookingID, review.BuyerID, review.SellerID, review.Rating, review.Comment,
	).Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("review repository: %w", common.ErrAlreadyExists)
		}
		return fmt.Errorf("review repository: create %w", err)
	}
	return nil
}

func (r *ReviewRepository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.Review, error) {
	return common.GetByField[models.Review](ctx, r.db, "reviews", "booking_id", bookingID, ErrReviewNotFound)
}

// ListBySeller возвращает отзывы о продавце.
func (r *ReviewRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.SelectContext(ctx, &reviews, `
		SELECT * FROM reviews WHERE seller_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, sellerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("review repository: list %w", err)
	}
	return reviews, nil
}

// GetSellerRating возвращает средний рейтинг и количество отзывов.
func (r *ReviewRepository) GetSellerRating(ctx context.Context, sellerID uuid.UUID) (*models.SellerRating, error) {
	var rating models.SellerRating
	err := r.db.GetContext(ctx, &rating, `
		SELECT $1::uuid AS seller_id,
		       COALESCE(AVG(rating), 0) AS average_rating,
		       COUNT(*) AS reviews_count
		FROM reviews WHERE seller_id = $1
	`, sellerID)
	if err != nil {
		return nil, fmt.Errorf("review repository: rating %w", err)
	}
	return &rating, nil
}
