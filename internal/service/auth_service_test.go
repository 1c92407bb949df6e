package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/marketplace-backend/internal/domain/valueobject"
	"github.com/ignatzorin/marketplace-backend/internal/models"
	"github.com/ignatzorin/marketplace-backend/internal/pkg/apperror"
	"github.com/ignatzorin/marketplace-backend/internal/repository/common"
)

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newAuthFixture() (*AuthService, *mockUserStore) {
	users := new(mockUserStore)
	tokens := NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
	return NewAuthService(users, tokens), users
}

func TestRegister_Success(t *testing.T) {
	svc, users := newAuthFixture()

	users.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "user@example.com" && u.Role == valueobject.RoleBuyer && u.PasswordHash != ""
	})).Return(nil)

	user, pair, err := svc.Register(context.Background(), RegisterInput{
		Email:    "  User@Example.com ",
		Name:     "Иван",
		Password: "Password123",
		Role:     "buyer",
	})

	assert.NoError(t, err)
	assert.Equal(t, "user@example.com", user.Email)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	users.AssertExpectations(t)
}

func TestRegister_AdminRejected(t *testing.T) {
	svc, users := newAuthFixture()

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "admin@example.com",
		Name:     "Админ",
		Password: "Password123",
		Role:     "admin",
	})

	assert.Equal(t, apperror.ErrCodeValidation, apperror.CodeOf(err))
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, users := newAuthFixture()

	users.On("Create", mock.Anything, mock.Anything).Return(common.ErrAlreadyExists)

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "user@example.com",
		Name:     "Иван",
		Password: "Password123",
		Role:     "seller",
	})

	assert.Equal(t, apperror.ErrCodeConflict, apperror.CodeOf(err))
}

func TestRegister_WeakPassword(t *testing.T) {
	svc, users := newAuthFixture()

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "user@example.com",
		Name:     "Иван",
		Password: "123",
		Role:     "buyer",
	})

	assert.Equal(t, apperror.ErrCodeValidation, apperror.CodeOf(err))
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin_Success(t *testing.T) {
	svc, users := newAuthFixture()

	hash, err := bcrypt.GenerateFromPassword([]byte("Password123"), bcrypt.MinCost)
	assert.NoError(t, err)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		PasswordHash: string(hash),
		Role:         valueobject.RoleBuyer,
	}
	users.On("GetByEmail", mock.Anything, "user@example.com").Return(user, nil)

	_, pair, err := svc.Login(context.Background(), "user@example.com", "Password123")

	assert.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
}

// Несуществующий email и неверный пароль неразличимы для клиента.
func TestLogin_InvalidCredentials(t *testing.T) {
	svc, users := newAuthFixture()

	hash, err := bcrypt.GenerateFromPassword([]byte("Password123"), bcrypt.MinCost)
	assert.NoError(t, err)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		PasswordHash: string(hash),
		Role:         valueobject.RoleBuyer,
	}
	users.On("GetByEmail", mock.Anything, "user@example.com").Return(user, nil)
	users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, apperror.ErrUserNotFound)

	_, _, err = svc.Login(context.Background(), "user@example.com", "wrong")
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "ghost@example.com", "Password123")
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestRefresh_RoundTrip(t *testing.T) {
	svc, users := newAuthFixture()

	user := &models.User{
		ID:    uuid.New(),
		Email: "user@example.com",
		Role:  valueobject.RoleSeller,
	}
	pair, err := NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour).GeneratePair(user)
	assert.NoError(t, err)

	users.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	fresh, err := svc.Refresh(context.Background(), pair.RefreshToken)

	assert.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)
}

func TestRefresh_GarbageToken(t *testing.T) {
	svc, users := newAuthFixture()

	_, err := svc.Refresh(context.Background(), "not.a.token")

	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}
