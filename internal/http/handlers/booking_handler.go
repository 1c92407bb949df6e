package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/marketplace-backend/internal/domain/valueobject"
	"github.com/ignatzorin/marketplace-backend/internal/http/handlers/common"
	"github.com/ignatzorin/marketplace-backend/internal/repository"
	"github.com/ignatzorin/marketplace-backend/internal/service"
)

// BookingHandler обслуживает жизненный цикл бронирований.
type BookingHandler struct {
	bookings      *service.BookingService
	cancellations *service.CancellationService
	payouts       *service.PayoutService
}

func NewBookingHandler(bookings *service.BookingService, cancellations *service.CancellationService, payouts *service.PayoutService) *BookingHandler {
	return &BookingHandler{
		bookings:      bookings,
		cancellations: cancellations,
		payouts:       payouts,
	}
}

// CreateBooking POST /bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.Fail(c, err)
		return
	}

	var req service.CreateBookingInput
	if err := common.BindJSON(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	booking, err := h.bookings.CreateBooking(c.Request.Context(), actor, req)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// GetBooking GET /bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.Fail(c, err)
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.Fail(c, err)
		return
	}

	booking, err := h.bookings.GetBooking(c.Request.Context(), actor, id)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// ListMyBookings GET /bookings
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.Fail(c, err)
		return
	}

	limit, offset := common.GetPagination(c)
	filter := repository.ListFilter{Limit: limit, Offset: offset}
	if raw := c.Query("status"); raw != "" {
		status, err := valueobject.NewBookingStatus(raw)
		if err != nil {
			common.Fail(c, err)
			return
		}
		filter.Status = &status
	}

	bookings, total, err := h.bookings.ListMyBookings(c.Request.Context(), actor, filter)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
		"total":    total,
	})
}

// MarkComplete POST /bookings/:id/complete
func (h *BookingHandler) MarkComplete(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.Fail(c, err)
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.Fail(c, err)
		return
	}

	booking, err := h.bookings.MarkComplete(c.Request.Context(), actor, id)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// Approve POST /bookings/:id/approve
func (h *BookingHandler) Approve(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.Fail(c, err)
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.Fail(c, err)
		return
	}

	booking, err := h.payouts.ReleaseFunds(c.Request.Context(), actor, id)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// Cancel POST /bookings/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.Fail(c, err)
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.Fail(c, err)
		return
	}

	var req struct {
		Reason *string `json:"reason"`
	}
	// Тело опционально.
	_ = c.ShouldBindJSON(&req)

	booking, err := h.cancellations.Cancel(c.Request.Context(), actor, id, req.Reason)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}
