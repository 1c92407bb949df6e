package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/marketplace-backend/internal/domain/valueobject"
	"github.com/ignatzorin/marketplace-backend/internal/logger"
	"github.com/ignatzorin/marketplace-backend/internal/models"
	"github.com/ignatzorin/marketplace-backend/internal/repository/common"
)

// SeedService наполняет базу демо-данными для разработки: пользователи
// всех ролей, пополненные кошельки и пример услуги. В production не
// подключается.
type SeedService struct {
	atomic   Atomic
	users    AuthUserStore
	wallets  WalletStore
	listings ListingWriter
}

func NewSeedService(atomic Atomic, users AuthUserStore, wallets WalletStore, listings ListingWriter) *SeedService {
	return &SeedService{atomic: atomic, users: users, wallets: wallets, listings: listings}
}

type seedUser struct {
	email   string
	name    string
	role    valueobject.Role
	balance decimal.Decimal
}

// Seed создаёт демо-аккаунты. Повторный вызов пропускает уже существующих
// пользователей.
func (s *SeedService) Seed(ctx context.Context) error {
	log := logger.WithComponent("seed")

	demo := []seedUser{
		{email: "buyer@example.com", name: "Демо покупатель", role: valueobject.RoleBuyer, balance: decimal.NewFromInt(1000)},
		{email: "seller@example.com", name: "Демо продавец", role: valueobject.RoleSeller, balance: decimal.Zero},
		{email: "admin@example.com", name: "Демо администратор", role: valueobject.RoleAdmin, balance: decimal.Zero},
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("Password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	for _, d := range demo {
		user := &models.User{
			Email:        d.email,
			Name:         d.name,
			PasswordHash: string(hash),
			Role:         d.role,
		}
		if err := s.users.Create(ctx, user); err != nil {
			if errors.Is(err, common.ErrAlreadyExists) {
				log.WithField("email", d.email).Debug("демо-пользователь уже существует")
				continue
			}
			return err
		}

		if d.balance.IsPositive() {
			balance := d.balance
			err = s.atomic.WithinTx(ctx, func(q common.Queryer) error {
				_, txErr := s.wallets.Credit(ctx, q, user.ID, balance)
				return txErr
			})
			if err != nil {
				return err
			}
		}

		if d.role.IsSeller() {
			description := "Демо-услуга для локальной разработки"
			listing := &models.Listing{
				SellerID:    user.ID,
				Title:       "Разработка лендинга",
				Description: &description,
				Price:       decimal.NewFromInt(500),
				IsActive:    true,
			}
			if err := s.listings.Create(ctx, listing); err != nil {
				return err
			}
		}

		log.WithField("email", d.email).Info("создан демо-пользователь")
	}

	return nil
}
