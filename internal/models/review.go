package models

import (
	"time"

	"github.com/google/uuid"
)

// Review представляет отзыв покупателя о завершённой сделке (1:1 с бронированием).
type Review struct {
	ID        uuid.UUID `db:"id" json:"id"`
	BookingID uuid.UUID `db:"booking_id" json:"booking_id"`
	BuyerID   uuid.UUID `db:"buyer_id" json:"buyer_id"`
	SellerID  uuid.UUID `db:"seller_id" json:"seller_id"`
	Rating    int       `db:"rating" json:"rating"`
	Comment   *string   `db:"comment" json:"comment,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SellerRating агрегированный рейтинг продавца.
type SellerRating struct {
	SellerID      uuid.UUID `db:"seller_id" json:"seller_id"`
	AverageRating float64   `db:"average_rating" json:"average_rating"`
	ReviewsCount  int       `db:"reviews_count" json:"reviews_count"`
}
