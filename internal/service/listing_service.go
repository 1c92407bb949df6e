package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/marketplace-backend/internal/domain/valueobject"
	"github.com/ignatzorin/marketplace-backend/internal/models"
	"github.com/ignatzorin/marketplace-backend/internal/pkg/apperror"
	"github.com/ignatzorin/marketplace-backend/internal/validation"
)

// ListingInput — параметры создания и обновления услуги.
type ListingInput struct {
	Title       string          `json:"title"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	IsActive    *bool           `json:"is_active"`
}

// ListingWriter описывает операции записи каталога услуг.
type ListingWriter interface {
	ListingStore
	Create(ctx context.Context, listing *models.Listing) error
	Update(ctx context.Context, listing *models.Listing) error
	Delete(ctx context.Context, id, sellerID uuid.UUID) error
	List(ctx context.Context, sellerID *uuid.UUID, limit, offset int) ([]models.Listing, int, error)
}

// ListingService — каталог услуг продавцов.
type ListingService struct {
	listings ListingWriter
}

func NewListingService(listings ListingWriter) *ListingService {
	return &ListingService{listings: listings}
}

func (s *ListingService) validateInput(input ListingInput) error {
	if err := validation.ValidateLength("title", input.Title, validation.MinListingTitleLength, validation.MaxListingTitleLength); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if input.Description != nil {
		if err := validation.ValidateLength("description", *input.Description, 0, validation.MaxListingDescription); err != nil {
			return apperror.New(apperror.ErrCodeValidation, err.Error())
		}
	}
	return valueobject.ValidateAmount(input.Price)
}

// CreateListing публикует услугу от имени продавца.
func (s *ListingService) CreateListing(ctx context.Context, actor models.Actor, input ListingInput) (*models.Listing, error) {
	if !actor.Role.IsSeller() {
		return nil, apperror.ErrForbidden
	}
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	listing := &models.Listing{
		SellerID:    actor.ID,
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		IsActive:    true,
	}
	if input.IsActive != nil {
		listing.IsActive = *input.IsActive
	}
	if err := s.listings.Create(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// GetListing возвращает услугу по идентификатору.
func (s *ListingService) GetListing(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	return s.listings.GetByID(ctx, id)
}

// UpdateListing изменяет услугу, принадлежащую продавцу.
func (s *ListingService) UpdateListing(ctx context.Context, actor models.Actor, id uuid.UUID, input ListingInput) (*models.Listing, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	listing, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.SellerID != actor.ID {
		return nil, apperror.ErrForbidden
	}

	listing.Title = input.Title
	listing.Description = input.Description
	listing.Price = input.Price
	if input.IsActive != nil {
		listing.IsActive = *input.IsActive
	}
	if err = s.listings.Update(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// DeleteListing удаляет услугу продавца.
func (s *ListingService) DeleteListing(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	return s.listings.Delete(ctx, id, actor.ID)
}

// ListListings возвращает активные услуги с пагинацией.
func (s *ListingService) ListListings(ctx context.Context, sellerID *uuid.UUID, limit, offset int) ([]models.Listing, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.listings.List(ctx, sellerID, limit, offset)
}
