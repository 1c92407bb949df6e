package common

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/marketplace-backend/internal/domain/valueobject"
	"github.com/ignatzorin/marketplace-backend/internal/http/middleware"
	"github.com/ignatzorin/marketplace-backend/internal/models"
	"github.com/ignatzorin/marketplace-backend/internal/pkg/apperror"
)

// CurrentUserID извлекает userID из контекста запроса.
func CurrentUserID(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	userID, ok := raw.(uuid.UUID)
	if !ok {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	return userID, nil
}

// CurrentActor извлекает инициатора операции: идентичность и роль из
// проверенного токена.
func CurrentActor(c *gin.Context) (models.Actor, error) {
	userID, err := CurrentUserID(c)
	if err != nil {
		return models.Actor{}, err
	}

	rawRole, _ := c.Get(middleware.ContextRoleKey)
	roleStr, ok := rawRole.(string)
	if !ok {
		return models.Actor{}, apperror.ErrUnauthorized
	}

	role, err := valueobject.NewRole(roleStr)
	if err != nil {
		return models.Actor{}, apperror.ErrUnauthorized
	}

	return models.Actor{ID: userID, Role: role}, nil
}

// ParseUUIDParam парсит UUID из URL параметра.
func ParseUUIDParam(c *gin.Context, paramName string) (uuid.UUID, error) {
	param := c.Param(paramName)
	if param == "" {
		return uuid.Nil, apperror.New(apperror.ErrCodeBadRequest,
			fmt.Sprintf("параметр %s отсутствует", paramName))
	}

	parsed, err := uuid.Parse(param)
	if err != nil {
		return uuid.Nil, apperror.New(apperror.ErrCodeBadRequest, "неверный формат UUID")
	}

	return parsed, nil
}

// BindJSON привязывает тело запроса, оборачивая ошибку в доменную.
func BindJSON(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeBadRequest, "некорректное тело запроса")
	}
	return nil
}

// Fail регистрирует ошибку для централизованного обработчика и прерывает
// цепочку.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ParseIntQuery безопасно читает числовой query-параметр.
func ParseIntQuery(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

// GetPagination извлекает limit и offset из query-параметров.
func GetPagination(c *gin.Context) (limit, offset int) {
	limit = ParseIntQuery(c, "limit", 20)
	offset = ParseIntQuery(c, "offset", 0)
	if limit > 100 {
		limit = 100
	}
	if limit < 1 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return
}
