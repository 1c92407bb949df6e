package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ignatzorin/marketplace-backend/internal/domain/valueobject"
	"github.com/ignatzorin/marketplace-backend/internal/models"
	"github.com/ignatzorin/marketplace-backend/internal/pkg/apperror"
	"github.com/ignatzorin/marketplace-backend/internal/repository/common"
	"github.com/ignatzorin/marketplace-backend/internal/validation"
)

// ReviewInput — параметры отзыва.
type ReviewInput struct {
	Rating  int     `json:"rating"`
	Comment *string `json:"comment"`
}

// ReviewStore описывает хранилище отзывов.
type ReviewStore interface {
	Create(ctx context.Context, review *models.Review) error
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.Review, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]models.Review, error)
	GetSellerRating(ctx context.Context, sellerID uuid.UUID) (*models.SellerRating, error)
}

// ReviewService — отзывы покупателей о завершённых сделках.
type ReviewService struct {
	reviews  ReviewStore
	bookings BookingStore
}

func NewReviewService(reviews ReviewStore, bookings BookingStore) *ReviewService {
	return &ReviewService{reviews: reviews, bookings: bookings}
}

// CreateReview — покупатель оставляет отзыв о завершённом бронировании,
// один на сделку.
func (s *ReviewService) CreateReview(ctx context.Context, actor models.Actor, bookingID uuid.UUID, input ReviewInput) (*models.Review, error) {
	if err := validation.ValidateRating(input.Rating); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if input.Comment != nil {
		if err := validation.ValidateLength("comment", *input.Comment, 0, validation.MaxReviewCommentLength); err != nil {
			return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
		}
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.BuyerID != actor.ID {
		return nil, apperror.ErrNotParticipant
	}
	if booking.Status != valueobject.BookingStatusCompleted {
		return nil, apperror.InvalidBookingState(string(booking.Status), "create_review")
	}

	review := &models.Review{
		BookingID: booking.ID,
		BuyerID:   booking.BuyerID,
		SellerID:  booking.SellerID,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}
	if err = s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, apperror.New(apperror.ErrCodeConflict, "отзыв по этому бронированию уже оставлен")
		}
		return nil, err
	}
	return review, nil
}

// GetBookingReview возвращает отзыв по бронированию.
func (s *ReviewService) GetBookingReview(ctx context.Context, bookingID uuid.UUID) (*models.Review, error) {
	return s.reviews.GetByBookingID(ctx, bookingID)
}

// ListSellerReviews возвращает отзывы о продавце.
func (s *ReviewService) ListSellerReviews(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]models.Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.reviews.ListBySeller(ctx, sellerID, limit, offset)
}

// GetSellerRating возвращает агрегированный рейтинг продавца.
func (s *ReviewService) GetSellerRating(ctx context.Context, sellerID uuid.UUID) (*models.SellerRating, error) {
	return s.reviews.GetSellerRating(ctx, sellerID)
}
