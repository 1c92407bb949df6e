package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/marketplace-backend/internal/models"
	"github.com/ignatzorin/marketplace-backend/internal/pkg/apperror"
	"github.com/ignatzorin/marketplace-backend/internal/repository/common"
)

type ListingRepository struct {
	db *sqlx.DB
}

func NewListingRepository(db *sqlx.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

func (r *ListingRepository) Create(ctx context.Context, listing *models.Listing) error {
	query := `
		INSERT INTO listings (seller_id, title, description, price, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		listing.SellerID, listing.Title, listing.Description, listing.Price, listing.IsActive,
	).Scan(&listing.ID, &listing.CreatedAt, &listing.UpdatedAt)
}

func (r *ListingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	return common.GetByID[models.Listing](ctx, r.db, "listings", id, apperror.ErrListingNotFound)
}

// Update изменяет услугу только её владельцу.
func (r *ListingRepository) Update(ctx context.Context, listing *models.Listing) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE listings SET title = $3, description = $4, price = $5, is_active = $6, updated_at = NOW()
		WHERE id = $1 AND seller_id = $2
	`, listing.ID, listing.SellerID, listing.Title, listing.Description, listing.Price, listing.IsActive)
	if err != nil {
		return fmt.Errorf("listing repository: update %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("listing repository: update %w", err)
	}
	if affected == 0 {
		return apperror.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id, sellerID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM listings WHERE id = $1 AND seller_id = $2`, id, sellerID)
	if err != nil {
		return fmt.Errorf("listing repository: delete %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("listing repository: delete %w", err)
	}
	if affected == 0 {
		return apperror.ErrListingNotFound
	}
	return nil
}

// List возвращает активные услуги, опционально фильтруя по продавцу.
func (r *ListingRepository) List(ctx context.Context, sellerID *uuid.UUID, limit, offset int) ([]models.Listing, int, error) {
	where := "WHERE is_active = TRUE"
	args := []interface{}{}
	if sellerID != nil {
		where += " AND seller_id = $1"
		args = append(args, *sellerID)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM listings "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("listing repository: count %w", err)
	}

	query := fmt.Sprintf(
		"SELECT * FROM listings %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	var listings []models.Listing
	if err := r.db.SelectContext(ctx, &listings, query, args...); err != nil {
		return nil, 0, fmt.Errorf("listing repository: list %w", err)
	}
	return listings, total, nil
}
