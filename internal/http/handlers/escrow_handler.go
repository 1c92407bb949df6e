package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/marketplace-backend/internal/http/handlers/common"
	"github.com/ignatzorin/marketplace-backend/internal/service"
)

// EscrowHandler обслуживает эскроу-счета бронирований.
type EscrowHandler struct {
	escrows *service.EscrowService
}

func NewEscrowHandler(escrows *service.EscrowService) *EscrowHandler {
	return &EscrowHandler{escrows: escrows}
}

// FundEscrow POST /bookings/:id/escrow
func (h *EscrowHandler) FundEscrow(c *gin.Context) {
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

	var req struct {
		Amount decimal.Decimal `json:"amount" binding:"required"`
	}
	if err := common.BindJSON(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	escrow, err := h.escrows.FundEscrow(c.Request.Context(), actor, bookingID, req.Amount)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, escrow)
}

// GetEscrow GET /bookings/:id/escrow
func (h *EscrowHandler) GetEscrow(c *gin.Context) {
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

	escrow, err := h.escrows.GetEscrow(c.Request.Context(), actor, bookingID)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, escrow)
}
