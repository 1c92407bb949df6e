package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestTranslateLockError(t *testing.T) {
	lockErr := &pq.Error{Code: pq.ErrorCode(pgLockNotAvailable), Message: "canceling statement due to lock timeout"}

	translated := translateLockError(lockErr)
	assert.ErrorIs(t, translated, ErrLockTimeout)

	// Обёрнутая ошибка драйвера тоже распознаётся.
	wrapped := fmt.Errorf("update wallet: %w", lockErr)
	assert.ErrorIs(t, translateLockError(wrapped), ErrLockTimeout)
}

func TestTranslateLockError_Passthrough(t *testing.T) {
	plain := errors.New("connection refused")
	assert.Equal(t, plain, translateLockError(plain))

	otherPq := &pq.Error{Code: "23505"}
	assert.NotErrorIs(t, translateLockError(otherPq), ErrLockTimeout)
}
