package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/marketplace-backend/internal/service"
)

// SeedHandler наполняет базу демо-данными. Маршрут регистрируется
// только вне production.
type SeedHandler struct {
	seed *service.SeedService
}

func NewSeedHandler(seed *service.SeedService) *SeedHandler {
	return &SeedHandler{seed: seed}
}

// Seed POST /api/seed
func (h *SeedHandler) Seed(c *gin.Context) {
	if err := h.seed.Seed(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "не удалось создать демо-данные",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "демо-данные созданы",
		"accounts": []gin.H{
			{"email": "buyer@example.com", "password": "Password123", "role": "buyer"},
			{"email": "seller@example.com", "password": "Password123", "role": "seller"},
			{"email": "admin@example.com", "password": "Password123", "role": "admin"},
		},
	})
}
