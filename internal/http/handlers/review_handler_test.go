package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestReviewHandler_CreateReview_Unauthorized(t *testing.T) {
	r := newTestRouter()
	h := NewReviewHandler(nil)
	r.POST("/bookings/:id/reviews", h.CreateReview)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bookings/"+uuid.NewString()+"/reviews",
		strings.NewReader(`{"rating": 5}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReviewHandler_CreateReview_BadUUID(t *testing.T) {
	r := newTestRouter()
	h := NewReviewHandler(nil)
	r.POST("/bookings/:id/reviews", withUser(uuid.New(), "buyer"), h.CreateReview)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bookings/not-a-uuid/reviews",
		strings.NewReader(`{"rating": 5}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewHandler_GetBookingReview_BadUUID(t *testing.T) {
	r := newTestRouter()
	h := NewReviewHandler(nil)
	r.GET("/bookings/:id/reviews", h.GetBookingReview)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bookings/42/reviews", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
