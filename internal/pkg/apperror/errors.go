package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound            ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized        ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden           ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest          ErrorCode = "BAD_REQUEST"
	ErrCodeConflict            ErrorCode = "CONFLICT"
	ErrCodeInternal            ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation          ErrorCode = "VALIDATION_ERROR"
	ErrCodeDatabaseError       ErrorCode = "DATABASE_ERROR"
	ErrCodeInvalidAmount       ErrorCode = "INVALID_AMOUNT"
	ErrCodeInsufficientFunds   ErrorCode = "INSUFFICIENT_FUNDS"
	ErrCodeInvalidState        ErrorCode = "INVALID_STATE"
	ErrCodeInvalidBookingState ErrorCode = "INVALID_BOOKING_STATE"
	ErrCodeBusy                ErrorCode = "BUSY"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is позволяет сравнивать ошибки через errors.Is по коду.
func (e *AppError) Is(target error) bool {
	var other *AppError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation, ErrCodeInvalidAmount:
		return http.StatusBadRequest
	case ErrCodeConflict, ErrCodeInvalidState, ErrCodeInvalidBookingState:
		return http.StatusConflict
	case ErrCodeInsufficientFunds:
		return http.StatusUnprocessableEntity
	case ErrCodeBusy:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeNotFound
}

func IsForbidden(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeForbidden
}

func IsValidation(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeValidation
}

// CodeOf возвращает код ошибки или ErrCodeInternal для неизвестных ошибок.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

var (
	ErrBookingNotFound    = New(ErrCodeNotFound, "бронирование не найдено")
	ErrEscrowNotFound     = New(ErrCodeNotFound, "эскроу-счёт не найден")
	ErrDisputeNotFound    = New(ErrCodeNotFound, "спор не найден")
	ErrWalletNotFound     = New(ErrCodeNotFound, "кошелёк не найден")
	ErrUserNotFound       = New(ErrCodeNotFound, "пользователь не найден")
	ErrListingNotFound    = New(ErrCodeNotFound, "услуга не найдена")
	ErrUnauthorized       = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrForbidden          = New(ErrCodeForbidden, "недостаточно прав")
	ErrNotParticipant     = New(ErrCodeForbidden, "вы не являетесь участником этого бронирования")
	ErrAdminOnly          = New(ErrCodeForbidden, "требуются права администратора")
	ErrInvalidAmount      = New(ErrCodeInvalidAmount, "сумма должна быть положительной")
	ErrInsufficientFunds  = New(ErrCodeInsufficientFunds, "недостаточно средств на кошельке")
	ErrBusy               = New(ErrCodeBusy, "операция занята, попробуйте позже")
	ErrInvalidCredentials = New(ErrCodeUnauthorized, "неверные учетные данные")
)

// InvalidBookingState формирует ошибку недопустимого перехода,
// называя текущий статус и запрошенное действие.
func InvalidBookingState(current, action string) *AppError {
	return New(ErrCodeInvalidBookingState,
		fmt.Sprintf("действие %q недопустимо для бронирования в статусе %q", action, current))
}

// InvalidEscrowState формирует ошибку недопустимого статуса эскроу.
func InvalidEscrowState(current string) *AppError {
	return New(ErrCodeInvalidState,
		fmt.Sprintf("эскроу-счёт в статусе %q не допускает эту операцию", current))
}
