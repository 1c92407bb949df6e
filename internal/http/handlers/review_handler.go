package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/marketplace-backend/internal/http/handlers/common"
	"github.com/ignatzorin/marketplace-backend/internal/service"
)

// ReviewHandler обслуживает отзывы о завершённых сделках.
type ReviewHandler struct {
	reviews *service.ReviewService
}

func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// CreateReview POST /bookings/:id/reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.Fail(c, err)
		return
	}

	bookingID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.Fail(c, err)
		return
	}

	var req service.ReviewInput
	if err := common.BindJSON(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	review, err := h.reviews.CreateReview(c.Request.Context(), actor, bookingID, req)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

// GetBookingReview GET /bookings/:id/reviews
func (h *ReviewHandler) GetBookingReview(c *gin.Context) {
	bookingID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.Fail(c, err)
		return
	}

	review, err := h.reviews.GetBookingReview(c.Request.Context(), bookingID)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// ListSellerReviews GET /sellers/:id/reviews
func (h *ReviewHandler) ListSellerReviews(c *gin.Context) {
	sellerID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.Fail(c, err)
		return
	}

	limit, offset := common.GetPagination(c)
	reviews, err := h.reviews.ListSellerReviews(c.Request.Context(), sellerID, limit, offset)
	if err != nil {
		common.Fail(c, err)
		return
	}

	rating, err := h.reviews.GetSellerRating(c.Request.Context(), sellerID)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews":        reviews,
		"average_rating": rating.AverageRating,
		"total_reviews":  rating.ReviewsCount,
	})
}
