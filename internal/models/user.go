package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/marketplace-backend/internal/domain/valueobject"
)

// User представляет пользователя площадки.
type User struct {
	ID           uuid.UUID        `db:"id" json:"id"`
	Email        string           `db:"email" json:"email"`
	Name         string           `db:"name" json:"name"`
	PasswordHash string           `db:"password_hash" json:"-"`
	Role         valueobject.Role `db:"role" json:"role"`
	CreatedAt    time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time        `db:"updated_at" json:"updated_at"`
}

// Actor — аутентифицированный инициатор операции. Идентичность и роль
// приходят из слоя авторизации и не перепроверяются ядром.
type Actor struct {
	ID   uuid.UUID
	Role valueobject.Role
}
