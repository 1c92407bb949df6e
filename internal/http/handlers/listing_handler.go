package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/marketplace-backend/internal/http/handlers/common"
	"github.com/ignatzorin/marketplace-backend/internal/pkg/apperror"
	"github.com/ignatzorin/marketplace-backend/internal/service"
)

// ListingHandler обслуживает каталог услуг.
type ListingHandler struct {
	listings *service.ListingService
}

func NewListingHandler(listings *service.ListingService) *ListingHandler {
	return &ListingHandler{listings: listings}
}

// CreateListing POST /listings
func (h *ListingHandler) CreateListing(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.Fail(c, err)
		return
	}

	var req service.ListingInput
	if err := common.BindJSON(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	listing, err := h.listings.CreateListing(c.Request.Context(), actor, req)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, listing)
}

// GetListing GET /listings/:id
func (h *ListingHandler) GetListing(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.Fail(c, err)
		return
	}

	listing, err := h.listings.GetListing(c.Request.Context(), id)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

// UpdateListing PUT /listings/:id
func (h *ListingHandler) UpdateListing(c *gin.Context) {
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

	var req service.ListingInput
	if err := common.BindJSON(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	listing, err := h.listings.UpdateListing(c.Request.Context(), actor, id, req)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

// DeleteListing DELETE /listings/:id
func (h *ListingHandler) DeleteListing(c *gin.Context) {
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

	if err := h.listings.DeleteListing(c.Request.Context(), actor, id); err != nil {
		common.Fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListListings GET /listings
func (h *ListingHandler) ListListings(c *gin.Context) {
	limit, offset := common.GetPagination(c)

	var sellerID *uuid.UUID
	if raw := c.Query("seller_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			common.Fail(c, apperror.New(apperror.ErrCodeBadRequest, "неверный формат seller_id"))
			return
		}
		sellerID = &parsed
	}

	listings, total, err := h.listings.ListListings(c.Request.Context(), sellerID, limit, offset)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"listings": listings,
		"total":    total,
	})
}
