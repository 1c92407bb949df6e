package valueobject

import "github.com/ignatzorin/marketplace-backend/internal/pkg/apperror"

// Role — роль пользователя на площадке.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

func (r Role) IsBuyer() bool  { return r == RoleBuyer }
func (r Role) IsSeller() bool { return r == RoleSeller }
func (r Role) IsAdmin() bool  { return r == RoleAdmin }

func NewRole(role string) (Role, error) {
	r := Role(role)
	if !r.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректная роль пользователя")
	}
	return r, nil
}

// BookingStatus — статус бронирования.
type BookingStatus string

const (
	BookingStatusPendingNegotiation BookingStatus = "pending_negotiation"
	BookingStatusInProgress         BookingStatus = "in_progress"
	BookingStatusPendingApproval    BookingStatus = "pending_approval"
	BookingStatusCompleted          BookingStatus = "completed"
	BookingStatusDisputed           BookingStatus = "disputed"
	BookingStatusCancelled          BookingStatus = "cancelled"
	BookingStatusRefunded           BookingStatus = "refunded"
)

// bookingTransitions — единственный источник правды о жизненном цикле
// бронирования. Переход, не перечисленный здесь, запрещён.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPendingNegotiation: {BookingStatusInProgress, BookingStatusCancelled},
	BookingStatusInProgress:         {BookingStatusPendingApproval, BookingStatusDisputed},
	BookingStatusPendingApproval:    {BookingStatusCompleted, BookingStatusDisputed},
	BookingStatusDisputed:           {BookingStatusCompleted, BookingStatusRefunded},
	BookingStatusCompleted:          {},
	BookingStatusCancelled:          {},
	BookingStatusRefunded:           {},
}

func (s BookingStatus) IsValid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

// IsTerminal сообщает, определены ли из статуса дальнейшие переходы.
func (s BookingStatus) IsTerminal() bool {
	allowed, ok := bookingTransitions[s]
	return ok && len(allowed) == 0
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func NewBookingStatus(status string) (BookingStatus, error) {
	s := BookingStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус бронирования")
	}
	return s, nil
}

// EscrowStatus — статус эскроу-счёта.
type EscrowStatus string

const (
	EscrowStatusHeld     EscrowStatus = "held"
	EscrowStatusReleased EscrowStatus = "released"
	EscrowStatusRefunded EscrowStatus = "refunded"
	EscrowStatusFrozen   EscrowStatus = "frozen"
)

// released и refunded терминальны; frozen допускает обе развязки спора.
var escrowTransitions = map[EscrowStatus][]EscrowStatus{
	EscrowStatusHeld:     {EscrowStatusFrozen, EscrowStatusReleased, EscrowStatusRefunded},
	EscrowStatusFrozen:   {EscrowStatusReleased, EscrowStatusRefunded},
	EscrowStatusReleased: {},
	EscrowStatusRefunded: {},
}

func (s EscrowStatus) IsValid() bool {
	_, ok := escrowTransitions[s]
	return ok
}

func (s EscrowStatus) IsTerminal() bool {
	allowed, ok := escrowTransitions[s]
	return ok && len(allowed) == 0
}

func (s EscrowStatus) CanTransitionTo(next EscrowStatus) bool {
	for _, allowed := range escrowTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// DisputeStatus — статус спора.
type DisputeStatus string

const (
	DisputeStatusOpen     DisputeStatus = "open"
	DisputeStatusResolved DisputeStatus = "resolved"
)

// ResolutionDecision — решение администратора по спору.
type ResolutionDecision string

const (
	ResolutionRefundToBuyer   ResolutionDecision = "refund_to_buyer"
	ResolutionReleaseToSeller ResolutionDecision = "release_to_seller"
)

func (d ResolutionDecision) IsValid() bool {
	return d == ResolutionRefundToBuyer || d == ResolutionReleaseToSeller
}

func NewResolutionDecision(decision string) (ResolutionDecision, error) {
	d := ResolutionDecision(decision)
	if !d.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректное решение по спору")
	}
	return d, nil
}
