package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/marketplace-backend/internal/domain/valueobject"
	"github.com/ignatzorin/marketplace-backend/internal/models"
	"github.com/ignatzorin/marketplace-backend/internal/pkg/apperror"
	"github.com/ignatzorin/marketplace-backend/internal/repository/common"
)

type mockReviewStore struct {
	mock.Mock
}

func (m *mockReviewStore) Create(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewStore) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.Review, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *mockReviewStore) ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]models.Review, error) {
	args := m.Called(ctx, sellerID, limit, offset)
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *mockReviewStore) GetSellerRating(ctx context.Context, sellerID uuid.UUID) (*models.SellerRating, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SellerRating), args.Error(1)
}

func newReviewFixture() (*ReviewService, *mockReviewStore, *mockBookingStore) {
	reviews := new(mockReviewStore)
	bookings := new(mockBookingStore)
	return NewReviewService(reviews, bookings), reviews, bookings
}

func TestCreateReview_Success(t *testing.T) {
	svc, reviews, bookings := newReviewFixture()

	buyerID := uuid.New()
	booking := &models.Booking{
		ID:       uuid.New(),
		BuyerID:  buyerID,
		SellerID: uuid.New(),
		Status:   valueobject.BookingStatusCompleted,
	}
	actor := models.Actor{ID: buyerID, Role: valueobject.RoleBuyer}
	comment := "отличная работа"

	bookings.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	reviews.On("Create", mock.Anything, mock.MatchedBy(func(r *models.Review) bool {
		return r.BookingID == booking.ID && r.SellerID == booking.SellerID && r.Rating == 5
	})).Return(nil)

	review, err := svc.CreateReview(context.Background(), actor, booking.ID, ReviewInput{
		Rating:  5,
		Comment: &comment,
	})

	assert.NoError(t, err)
	assert.Equal(t, 5, review.Rating)
	reviews.AssertExpectations(t)
}

func TestCreateReview_InvalidRating(t *testing.T) {
	svc, _, bookings := newReviewFixture()

	actor := models.Actor{ID: uuid.New(), Role: valueobject.RoleBuyer}

	_, err := svc.CreateReview(context.Background(), actor, uuid.New(), ReviewInput{Rating: 0})
	assert.Equal(t, apperror.ErrCodeValidation, apperror.CodeOf(err))

	_, err = svc.CreateReview(context.Background(), actor, uuid.New(), ReviewInput{Rating: 6})
	assert.Equal(t, apperror.ErrCodeValidation, apperror.CodeOf(err))

	bookings.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestCreateReview_NotCompleted(t *testing.T) {
	svc, reviews, bookings := newReviewFixture()

	buyerID := uuid.New()
	booking := &models.Booking{
		ID:      uuid.New(),
		BuyerID: buyerID,
		Status:  valueobject.BookingStatusInProgress,
	}
	actor := models.Actor{ID: buyerID, Role: valueobject.RoleBuyer}

	bookings.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)

	_, err := svc.CreateReview(context.Background(), actor, booking.ID, ReviewInput{Rating: 4})

	assert.Equal(t, apperror.ErrCodeInvalidBookingState, apperror.CodeOf(err))
	reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateReview_SellerForbidden(t *testing.T) {
	svc, _, bookings := newReviewFixture()

	booking := &models.Booking{
		ID:       uuid.New(),
		BuyerID:  uuid.New(),
		SellerID: uuid.New(),
		Status:   valueobject.BookingStatusCompleted,
	}
	actor := models.Actor{ID: booking.SellerID, Role: valueobject.RoleSeller}

	bookings.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)

	_, err := svc.CreateReview(context.Background(), actor, booking.ID, ReviewInput{Rating: 5})

	assert.ErrorIs(t, err, apperror.ErrNotParticipant)
}

func TestCreateReview_Duplicate(t *testing.T) {
	svc, reviews, bookings := newReviewFixture()

	buyerID := uuid.New()
	booking := &models.Booking{
		ID:      uuid.New(),
		BuyerID: buyerID,
		Status:  valueobject.BookingStatusCompleted,
	}
	actor := models.Actor{ID: buyerID, Role: valueobject.RoleBuyer}

	bookings.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	reviews.On("Create", mock.Anything, mock.Anything).Return(common.ErrAlreadyExists)

	_, err := svc.CreateReview(context.Background(), actor, booking.ID, ReviewInput{Rating: 3})

	assert.Equal(t, apperror.ErrCodeConflict, apperror.CodeOf(err))
}
