package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/marketplace-backend/internal/http/middleware"
	"github.com/ignatzorin/marketplace-backend/internal/logger"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger.Init("error")
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	return r
}

// withUser подставляет аутентифицированного пользователя в контекст запроса.
func withUser(userID uuid.UUID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, userID)
		c.Set(middleware.ContextRoleKey, role)
		c.Next()
	}
}

func TestWalletHandler_GetBalance_Unauthorized(t *testing.T) {
	r := newTestRouter()
	h := NewWalletHandler(nil)
	r.GET("/wallet", h.GetBalance)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/wallet", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestWalletHandler_Deposit_InvalidBody(t *testing.T) {
	r := newTestRouter()
	h := NewWalletHandler(nil)
	r.POST("/wallet/deposit", withUser(uuid.New(), "buyer"), h.Deposit)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/wallet/deposit", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWalletHandler_ListTransactions_Unauthorized(t *testing.T) {
	r := newTestRouter()
	h := NewWalletHandler(nil)
	r.GET("/wallet/transactions", h.ListTransactions)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/wallet/transactions", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
