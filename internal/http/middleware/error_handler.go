package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/marketplace-backend/internal/logger"
	"github.com/ignatzorin/marketplace-backend/internal/pkg/apperror"
	"github.com/ignatzorin/marketplace-backend/internal/repository/common"
)

// ErrorHandler обрабатывает ошибки централизованно: переводит доменные
// ошибки в HTTP статусы и маскирует внутренние. Ответ всегда содержит
// машинный код ошибки и сообщение.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		appErr := translate(err)

		entry := logger.Log.WithFields(logrus.Fields{
			"code":   appErr.Code,
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
		if appErr.Code == apperror.ErrCodeInternal || appErr.Code == apperror.ErrCodeDatabaseError {
			entry.WithError(err).Error("внутренняя ошибка запроса")
		} else {
			entry.WithError(err).Debug("запрос завершился ошибкой")
		}

		c.JSON(appErr.HTTPStatus, gin.H{
			"error": appErr.Message,
			"code":  appErr.Code,
		})
	}
}

// translate приводит произвольную ошибку к AppError. Не дождавшаяся
// блокировки строки операция отвечает 503 BUSY, неизвестные ошибки
// маскируются как внутренние.
func translate(err error) *apperror.AppError {
	if errors.Is(err, common.ErrLockTimeout) {
		return apperror.ErrBusy
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	if errors.Is(err, common.ErrNotFound) {
		return apperror.New(apperror.ErrCodeNotFound, "запись не найдена")
	}
	if errors.Is(err, common.ErrAlreadyExists) {
		return apperror.New(apperror.ErrCodeConflict, "запись уже существует")
	}

	return apperror.New(apperror.ErrCodeInternal, "внутренняя ошибка сервера")
}
