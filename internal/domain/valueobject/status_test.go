package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatus_Transitions(t *testing.T) {
	assert.True(t, BookingStatusPendingNegotiation.CanTransitionTo(BookingStatusInProgress))
	assert.True(t, BookingStatusPendingNegotiation.CanTransitionTo(BookingStatusCancelled))
	assert.True(t, BookingStatusInProgress.CanTransitionTo(BookingStatusPendingApproval))
	assert.True(t, BookingStatusInProgress.CanTransitionTo(BookingStatusDisputed))
	assert.True(t, BookingStatusPendingApproval.CanTransitionTo(BookingStatusCompleted))
	assert.True(t, BookingStatusPendingApproval.CanTransitionTo(BookingStatusDisputed))
	assert.True(t, BookingStatusDisputed.CanTransitionTo(BookingStatusCompleted))
	assert.True(t, BookingStatusDisputed.CanTransitionTo(BookingStatusRefunded))

	// Запрещённые переходы.
	assert.False(t, BookingStatusPendingNegotiation.CanTransitionTo(BookingStatusCompleted))
	assert.False(t, BookingStatusInProgress.CanTransitionTo(BookingStatusCancelled))
	assert.False(t, BookingStatusCompleted.CanTransitionTo(BookingStatusDisputed))
	assert.False(t, BookingStatusCancelled.CanTransitionTo(BookingStatusInProgress))
	assert.False(t, BookingStatusRefunded.CanTransitionTo(BookingStatusCompleted))
}

func TestBookingStatus_Terminal(t *testing.T) {
	assert.True(t, BookingStatusCompleted.IsTerminal())
	assert.True(t, BookingStatusCancelled.IsTerminal())
	assert.True(t, BookingStatusRefunded.IsTerminal())
	assert.False(t, BookingStatusInProgress.IsTerminal())
	assert.False(t, BookingStatus("nonsense").IsTerminal())
}

func TestEscrowStatus_Transitions(t *testing.T) {
	assert.True(t, EscrowStatusHeld.CanTransitionTo(EscrowStatusFrozen))
	assert.True(t, EscrowStatusHeld.CanTransitionTo(EscrowStatusReleased))
	assert.True(t, EscrowStatusHeld.CanTransitionTo(EscrowStatusRefunded))
	assert.True(t, EscrowStatusFrozen.CanTransitionTo(EscrowStatusReleased))
	assert.True(t, EscrowStatusFrozen.CanTransitionTo(EscrowStatusRefunded))

	assert.False(t, EscrowStatusReleased.CanTransitionTo(EscrowStatusRefunded))
	assert.False(t, EscrowStatusRefunded.CanTransitionTo(EscrowStatusReleased))
	assert.False(t, EscrowStatusFrozen.CanTransitionTo(EscrowStatusHeld))
}

func TestNewBookingStatus(t *testing.T) {
	s, err := NewBookingStatus("in_progress")
	assert.NoError(t, err)
	assert.Equal(t, BookingStatusInProgress, s)

	_, err = NewBookingStatus("unknown")
	assert.Error(t, err)
}

func TestNewRole(t *testing.T) {
	r, err := NewRole("buyer")
	assert.NoError(t, err)
	assert.True(t, r.IsBuyer())

	_, err = NewRole("superuser")
	assert.Error(t, err)
}

func TestNewResolutionDecision(t *testing.T) {
	d, err := NewResolutionDecision("refund_to_buyer")
	assert.NoError(t, err)
	assert.Equal(t, ResolutionRefundToBuyer, d)

	_, err = NewResolutionDecision("split")
	assert.Error(t, err)
}
