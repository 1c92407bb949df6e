package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/marketplace-backend/internal/domain/valueobject"
	"github.com/ignatzorin/marketplace-backend/internal/models"
	"github.com/ignatzorin/marketplace-backend/internal/pkg/apperror"
)

func newDisputeFixture() (*DisputeService, *mockDisputeStore, *mockBookingStore, *mockEscrowStore, *mockWalletStore, *mockTransactionLog) {
	disputes := new(mockDisputeStore)
	bookings := new(mockBookingStore)
	escrows := new(mockEscrowStore)
	wallets := new(mockWalletStore)
	transactions := new(mockTransactionLog)
	svc := NewDisputeService(&fakeAtomic{}, disputes, bookings, escrows, wallets, transactions)
	return svc, disputes, bookings, escrows, wallets, transactions
}

func TestOpenDispute_FreezesEscrow(t *testing.T) {
	svc, disputes, bookings, escrows, _, _ := newDisputeFixture()

	buyerID := uuid.New()
	booking := &models.Booking{
		ID:       uuid.New(),
		BuyerID:  buyerID,
		SellerID: uuid.New(),
		Status:   valueobject.BookingStatusInProgress,
	}
	escrow := &models.EscrowAccount{
		BookingID: booking.ID,
		Status:    valueobject.EscrowStatusHeld,
	}
	actor := models.Actor{ID: buyerID, Role: valueobject.RoleBuyer}

	bookings.On("GetByIDForUpdate", mock.Anything, mock.Anything, booking.ID).Return(booking, nil)
	escrows.On("GetByBookingIDForUpdate", mock.Anything, mock.Anything, booking.ID).Return(escrow, nil)
	escrows.On("Freeze", mock.Anything, mock.Anything, escrow).Return(nil)
	disputes.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(d *models.Dispute) bool {
		return d.BookingID == booking.ID &&
			d.CreatedByID == buyerID &&
			d.Status == valueobject.DisputeStatusOpen
	})).Return(nil)
	bookings.On("UpdateStatus", mock.Anything, mock.Anything, booking.ID, valueobject.BookingStatusDisputed).Return(nil)

	dispute, err := svc.OpenDispute(context.Background(), actor, booking.ID, OpenDisputeInput{
		Reason: "работа не соответствует описанию",
	})

	assert.NoError(t, err)
	assert.Equal(t, valueobject.DisputeStatusOpen, dispute.Status)
	escrows.AssertExpectations(t)
	disputes.AssertExpectations(t)
	bookings.AssertExpectations(t)
}

func TestOpenDispute_SellerForbidden(t *testing.T) {
	svc, disputes, bookings, _, _, _ := newDisputeFixture()

	booking := &models.Booking{
		ID:       uuid.New(),
		BuyerID:  uuid.New(),
		SellerID: uuid.New(),
		Status:   valueobject.BookingStatusInProgress,
	}
	actor := models.Actor{ID: booking.SellerID, Role: valueobject.RoleSeller}

	bookings.On("GetByIDForUpdate", mock.Anything, mock.Anything, booking.ID).Return(booking, nil)

	_, err := svc.OpenDispute(context.Background(), actor, booking.ID, OpenDisputeInput{Reason: "спор"})

	assert.ErrorIs(t, err, apperror.ErrNotParticipant)
	disputes.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestOpenDispute_WrongState(t *testing.T) {
	svc, _, bookings, escrows, _, _ := newDisputeFixture()

	buyerID := uuid.New()
	booking := &models.Booking{
		ID:      uuid.New(),
		BuyerID: buyerID,
		Status:  valueobject.BookingStatusPendingNegotiation,
	}
	actor := models.Actor{ID: buyerID, Role: valueobject.RoleBuyer}

	bookings.On("GetByIDForUpdate", mock.Anything, mock.Anything, booking.ID).Return(booking, nil)

	_, err := svc.OpenDispute(context.Background(), actor, booking.ID, OpenDisputeInput{Reason: "спор"})

	assert.Equal(t, apperror.ErrCodeInvalidBookingState, apperror.CodeOf(err))
	escrows.AssertNotCalled(t, "Freeze", mock.Anything, mock.Anything, mock.Anything)
}

// Не-администратор отклоняется до обращения к хранилищам.
func TestResolveDispute_AdminOnly(t *testing.T) {
	svc, disputes, bookings, _, _, _ := newDisputeFixture()

	actor := models.Actor{ID: uuid.New(), Role: valueobject.RoleBuyer}

	_, err := svc.ResolveDispute(context.Background(), actor, uuid.New(), ResolveDisputeInput{
		Decision: valueobject.ResolutionRefundToBuyer,
	})

	assert.ErrorIs(t, err, apperror.ErrAdminOnly)
	disputes.AssertNotCalled(t, "GetByIDForUpdate", mock.Anything, mock.Anything, mock.Anything)
	bookings.AssertNotCalled(t, "GetByIDForUpdate", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolveDispute_RefundToBuyer(t *testing.T) {
	svc, disputes, bookings, escrows, wallets, transactions := newDisputeFixture()

	admin := models.Actor{ID: uuid.New(), Role: valueobject.RoleAdmin}
	buyerID := uuid.New()
	booking := &models.Booking{
		ID:       uuid.New(),
		BuyerID:  buyerID,
		SellerID: uuid.New(),
		Status:   valueobject.BookingStatusDisputed,
	}
	dispute := &models.Dispute{
		ID:        uuid.New(),
		BookingID: booking.ID,
		Status:    valueobject.DisputeStatusOpen,
	}
	escrow := &models.EscrowAccount{
		BookingID:        booking.ID,
		TotalAmount:      decimal.NewFromInt(500),
		PlatformFee:      decimal.NewFromInt(50),
		FreelancerAmount: decimal.NewFromInt(450),
		Status:           valueobject.EscrowStatusFrozen,
	}

	disputes.On("GetByIDForUpdate", mock.Anything, mock.Anything, dispute.ID).Return(dispute, nil)
	bookings.On("GetByIDForUpdate", mock.Anything, mock.Anything, booking.ID).Return(booking, nil)
	escrows.On("GetByBookingIDForUpdate", mock.Anything, mock.Anything, booking.ID).Return(escrow, nil)
	escrows.On("Refund", mock.Anything, mock.Anything, escrow).Return(nil)
	// Возврат по спору — полная сумма, без удержания комиссии.
	wallets.On("Credit", mock.Anything, mock.Anything, buyerID, decimalEq("500")).
		Return(&models.Wallet{UserID: buyerID, Balance: decimal.NewFromInt(500)}, nil)
	transactions.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(tr *models.Transaction) bool {
		return tr.Type == models.TransactionTypeRefund &&
			tr.UserID == buyerID &&
			tr.Amount.Equal(decimal.NewFromInt(500))
	})).Return(nil)
	bookings.On("UpdateStatus", mock.Anything, mock.Anything, booking.ID, valueobject.BookingStatusRefunded).Return(nil)
	disputes.On("Resolve", mock.Anything, mock.Anything, dispute, valueobject.ResolutionRefundToBuyer, (*string)(nil), admin.ID, mock.Anything).Return(nil)

	_, err := svc.ResolveDispute(context.Background(), admin, dispute.ID, ResolveDisputeInput{
		Decision: valueobject.ResolutionRefundToBuyer,
	})

	assert.NoError(t, err)
	assert.Equal(t, valueobject.BookingStatusRefunded, booking.Status)
	disputes.AssertExpectations(t)
	escrows.AssertExpectations(t)
	wallets.AssertExpectations(t)
	transactions.AssertExpectations(t)
}

func TestResolveDispute_ReleaseToSeller(t *testing.T) {
	svc, disputes, bookings, escrows, wallets, transactions := newDisputeFixture()

	admin := models.Actor{ID: uuid.New(), Role: valueobject.RoleAdmin}
	buyerID := uuid.New()
	sellerID := uuid.New()
	booking := &models.Booking{
		ID:       uuid.New(),
		BuyerID:  buyerID,
		SellerID: sellerID,
		Status:   valueobject.BookingStatusDisputed,
	}
	dispute := &models.Dispute{
		ID:        uuid.New(),
		BookingID: booking.ID,
		Status:    valueobject.DisputeStatusOpen,
	}
	escrow := &models.EscrowAccount{
		BookingID:        booking.ID,
		TotalAmount:      decimal.NewFromInt(500),
		PlatformFee:      decimal.NewFromInt(50),
		FreelancerAmount: decimal.NewFromInt(450),
		Status:           valueobject.EscrowStatusFrozen,
	}

	disputes.On("GetByIDForUpdate", mock.Anything, mock.Anything, dispute.ID).Return(dispute, nil)
	bookings.On("GetByIDForUpdate", mock.Anything, mock.Anything, booking.ID).Return(booking, nil)
	escrows.On("GetByBookingIDForUpdate", mock.Anything, mock.Anything, booking.ID).Return(escrow, nil)
	escrows.On("Release", mock.Anything, mock.Anything, escrow, mock.Anything).Return(nil)
	wallets.On("Credit", mock.Anything, mock.Anything, sellerID, decimalEq("450")).
		Return(&models.Wallet{UserID: sellerID, Balance: decimal.NewFromInt(450)}, nil)
	transactions.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(tr *models.Transaction) bool {
		return tr.Type == models.TransactionTypePayout && tr.UserID == sellerID
	})).Return(nil).Once()
	transactions.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(tr *models.Transaction) bool {
		return tr.Type == models.TransactionTypePlatformFee && tr.UserID == buyerID
	})).Return(nil).Once()
	bookings.On("MarkCompleted", mock.Anything, mock.Anything, booking.ID, mock.Anything).Return(nil)
	disputes.On("Resolve", mock.Anything, mock.Anything, dispute, valueobject.ResolutionReleaseToSeller, (*string)(nil), admin.ID, mock.Anything).Return(nil)

	_, err := svc.ResolveDispute(context.Background(), admin, dispute.ID, ResolveDisputeInput{
		Decision: valueobject.ResolutionReleaseToSeller,
	})

	assert.NoError(t, err)
	assert.Equal(t, valueobject.BookingStatusCompleted, booking.Status)
	transactions.AssertExpectations(t)
	escrows.AssertExpectations(t)
}

func TestResolveDispute_AlreadyResolved(t *testing.T) {
	svc, disputes, bookings, _, _, _ := newDisputeFixture()

	admin := models.Actor{ID: uuid.New(), Role: valueobject.RoleAdmin}
	dispute := &models.Dispute{
		ID:        uuid.New(),
		BookingID: uuid.New(),
		Status:    valueobject.DisputeStatusResolved,
	}

	disputes.On("GetByIDForUpdate", mock.Anything, mock.Anything, dispute.ID).Return(dispute, nil)

	_, err := svc.ResolveDispute(context.Background(), admin, dispute.ID, ResolveDisputeInput{
		Decision: valueobject.ResolutionRefundToBuyer,
	})

	assert.Equal(t, apperror.ErrCodeInvalidState, apperror.CodeOf(err))
	bookings.AssertNotCalled(t, "GetByIDForUpdate", mock.Anything, mock.Anything, mock.Anything)
}

func TestListOpenDisputes_AdminOnly(t *testing.T) {
	svc, disputes, _, _, _, _ := newDisputeFixture()

	_, err := svc.ListOpenDisputes(context.Background(), models.Actor{ID: uuid.New(), Role: valueobject.RoleSeller}, 20, 0)

	assert.ErrorIs(t, err, apperror.ErrAdminOnly)
	disputes.AssertNotCalled(t, "ListOpen", mock.Anything, mock.Anything, mock.Anything)
}
