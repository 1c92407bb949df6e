package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/marketplace-backend/internal/http/handlers/common"
	"github.com/ignatzorin/marketplace-backend/internal/pkg/apperror"
	"github.com/ignatzorin/marketplace-backend/internal/service"
	"github.com/ignatzorin/marketplace-backend/internal/storage"
)

// DisputeHandler обслуживает споры по бронированиям.
type DisputeHandler struct {
	disputes *service.DisputeService
	evidence *storage.EvidenceStorage
}

func NewDisputeHandler(disputes *service.DisputeService, evidence *storage.EvidenceStorage) *DisputeHandler {
	return &DisputeHandler{disputes: disputes, evidence: evidence}
}

// OpenDispute POST /bookings/:id/disputes
func (h *DisputeHandler) OpenDispute(c *gin.Context) {
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

	var req service.OpenDisputeInput
	if err := common.BindJSON(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	dispute, err := h.disputes.OpenDispute(c.Request.Context(), actor, bookingID, req)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, dispute)
}

// UploadEvidence POST /disputes/evidence — загружает файл доказательства
// и возвращает путь для включения в evidence_files при открытии спора.
func (h *DisputeHandler) UploadEvidence(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.Fail(c, err)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		common.Fail(c, apperror.New(apperror.ErrCodeBadRequest, "поле file обязательно"))
		return
	}
	if file.Size == 0 {
		common.Fail(c, apperror.New(apperror.ErrCodeBadRequest, "файл не может быть пустым"))
		return
	}

	src, err := file.Open()
	if err != nil {
		common.Fail(c, err)
		return
	}
	defer src.Close()

	relativePath, size, err := h.evidence.Save(c.Request.Context(), userID, file.Filename, src)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"file_path": relativePath,
		"file_size": size,
	})
}

// GetDispute GET /disputes/:id
func (h *DisputeHandler) GetDispute(c *gin.Context) {
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

	dispute, err := h.disputes.GetDispute(c.Request.Context(), actor, id)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dispute)
}

// ListMyDisputes GET /disputes
func (h *DisputeHandler) ListMyDisputes(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.Fail(c, err)
		return
	}

	limit, offset := common.GetPagination(c)
	disputes, err := h.disputes.ListMyDisputes(c.Request.Context(), actor, limit, offset)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"disputes": disputes})
}

// ListOpenDisputes GET /admin/disputes
func (h *DisputeHandler) ListOpenDisputes(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.Fail(c, err)
		return
	}

	limit, offset := common.GetPagination(c)
	disputes, err := h.disputes.ListOpenDisputes(c.Request.Context(), actor, limit, offset)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"disputes": disputes})
}

// ResolveDispute POST /admin/disputes/:id/resolve
func (h *DisputeHandler) ResolveDispute(c *gin.Context) {
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

	var req service.ResolveDisputeInput
	if err := common.BindJSON(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	dispute, err := h.disputes.ResolveDispute(c.Request.Context(), actor, id, req)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dispute)
}
