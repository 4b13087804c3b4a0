package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"monthly-club.backend/internal/domain/entities"
	domainerrors "monthly-club.backend/internal/domain/errors"
	"monthly-club.backend/internal/usecases"
)

type orphanFixture struct {
	orphanRepo   *MockOrphanRepository
	profileRepo  *MockCustomerProfileRepository
	businessRepo *MockBusinessRepository
	processor    *fakeProcessor
	uc           *usecases.OrphanReconcileUsecase
}

func newOrphanFixture(processor *fakeProcessor) *orphanFixture {
	f := &orphanFixture{
		orphanRepo:   new(MockOrphanRepository),
		profileRepo:  new(MockCustomerProfileRepository),
		businessRepo: new(MockBusinessRepository),
		processor:    processor,
	}
	f.uc = usecases.NewOrphanReconcileUsecase(f.orphanRepo, f.profileRepo, f.businessRepo, f.processor)
	return f
}

func TestOrphanReconcileUsecase_Sweep(t *testing.T) {
	ctx := context.Background()
	f := newOrphanFixture(&fakeProcessor{})

	account := &entities.OrphanedProcessorObject{ID: uuid.New(), Kind: entities.OrphanKindAccount, ProcessorID: "acct_9", OwnerID: uuid.New()}
	customer := &entities.OrphanedProcessorObject{ID: uuid.New(), Kind: entities.OrphanKindCustomer, ProcessorID: "cus_9", OwnerID: uuid.New()}
	unknown := &entities.OrphanedProcessorObject{ID: uuid.New(), Kind: "invoice", ProcessorID: "in_9"}

	// The winner of the race is linked, not the orphan
	f.businessRepo.On("GetByID", ctx, account.OwnerID).
		Return(&entities.Business{ID: account.OwnerID, PayoutAccountID: null.StringFrom("acct_winner")}, nil).Once()
	f.profileRepo.On("GetByUserID", ctx, customer.OwnerID).Return(nil, domainerrors.ErrNotFound).Once()

	f.orphanRepo.On("ListUnresolved", ctx, 10).Return([]*entities.OrphanedProcessorObject{account, customer, unknown}, nil).Once()
	f.orphanRepo.On("MarkResolved", ctx, account.ID).Return(nil).Once()
	f.orphanRepo.On("MarkResolved", ctx, customer.ID).Return(nil).Once()
	f.orphanRepo.On("RecordFailure", ctx, unknown.ID, mock.MatchedBy(func(reason string) bool {
		return reason != ""
	})).Return(nil).Once()

	result, err := f.uc.Sweep(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Resolved)
	assert.Equal(t, 0, result.Kept)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []string{"acct_9"}, f.processor.deletedAccounts)
	assert.Equal(t, []string{"cus_9"}, f.processor.deletedCustomers)
	f.orphanRepo.AssertExpectations(t)
	f.businessRepo.AssertExpectations(t)
	f.profileRepo.AssertExpectations(t)
}

func TestOrphanReconcileUsecase_SweepKeepsReferencedCustomer(t *testing.T) {
	ctx := context.Background()
	f := newOrphanFixture(&fakeProcessor{})

	// The profile insert committed even though the caller saw an error
	userID := uuid.New()
	o := &entities.OrphanedProcessorObject{
		ID:          uuid.New(),
		Kind:        entities.OrphanKindCustomer,
		ProcessorID: "cus_x",
		OwnerID:     userID,
		Reason:      entities.OrphanReasonPersistFailed,
	}
	f.orphanRepo.On("ListUnresolved", ctx, 5).Return([]*entities.OrphanedProcessorObject{o}, nil).Once()
	f.profileRepo.On("GetByUserID", ctx, userID).
		Return(&entities.CustomerPaymentProfile{UserID: userID, ProcessorCustomerID: "cus_x"}, nil).Once()
	f.orphanRepo.On("MarkResolved", ctx, o.ID).Return(nil).Once()

	result, err := f.uc.Sweep(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Resolved)
	assert.Equal(t, 1, result.Kept)
	assert.Equal(t, 0, result.Failed)
	assert.Empty(t, f.processor.deletedCustomers)
	f.orphanRepo.AssertExpectations(t)
	f.orphanRepo.AssertNotCalled(t, "RecordFailure", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrphanReconcileUsecase_SweepKeepsReferencedAccount(t *testing.T) {
	ctx := context.Background()
	f := newOrphanFixture(&fakeProcessor{})

	businessID := uuid.New()
	o := &entities.OrphanedProcessorObject{
		ID:          uuid.New(),
		Kind:        entities.OrphanKindAccount,
		ProcessorID: "acct_x",
		OwnerID:     businessID,
		Reason:      entities.OrphanReasonPersistFailed,
	}
	f.orphanRepo.On("ListUnresolved", ctx, 5).Return([]*entities.OrphanedProcessorObject{o}, nil).Once()
	f.businessRepo.On("GetByID", ctx, businessID).
		Return(&entities.Business{ID: businessID, PayoutAccountID: null.StringFrom("acct_x")}, nil).Once()
	f.orphanRepo.On("MarkResolved", ctx, o.ID).Return(nil).Once()

	result, err := f.uc.Sweep(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Resolved)
	assert.Equal(t, 1, result.Kept)
	assert.Empty(t, f.processor.deletedAccounts)
	f.orphanRepo.AssertExpectations(t)
}

func TestOrphanReconcileUsecase_SweepReferenceLookupFailure(t *testing.T) {
	ctx := context.Background()
	f := newOrphanFixture(&fakeProcessor{})

	o := &entities.OrphanedProcessorObject{ID: uuid.New(), Kind: entities.OrphanKindCustomer, ProcessorID: "cus_x", OwnerID: uuid.New()}
	f.orphanRepo.On("ListUnresolved", ctx, 5).Return([]*entities.OrphanedProcessorObject{o}, nil).Once()
	f.profileRepo.On("GetByUserID", ctx, o.OwnerID).Return(nil, errors.New("db down")).Once()
	f.orphanRepo.On("RecordFailure", ctx, o.ID, "db down").Return(nil).Once()

	result, err := f.uc.Sweep(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Resolved)
	assert.Equal(t, 1, result.Failed)
	assert.Empty(t, f.processor.deletedCustomers)
	f.orphanRepo.AssertNotCalled(t, "MarkResolved", mock.Anything, mock.Anything)
}

func TestOrphanReconcileUsecase_SweepRecordsProviderFailure(t *testing.T) {
	ctx := context.Background()
	f := newOrphanFixture(&fakeProcessor{deleteErr: errors.New("rate limited")})

	o := &entities.OrphanedProcessorObject{ID: uuid.New(), Kind: entities.OrphanKindAccount, ProcessorID: "acct_9", OwnerID: uuid.New()}
	f.orphanRepo.On("ListUnresolved", ctx, 5).Return([]*entities.OrphanedProcessorObject{o}, nil).Once()
	f.businessRepo.On("GetByID", ctx, o.OwnerID).Return(nil, domainerrors.ErrBusinessNotFound).Once()
	f.orphanRepo.On("RecordFailure", ctx, o.ID, "rate limited").Return(nil).Once()

	result, err := f.uc.Sweep(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Resolved)
	assert.Equal(t, 1, result.Failed)
	f.orphanRepo.AssertNotCalled(t, "MarkResolved", mock.Anything, mock.Anything)
}

func TestOrphanReconcileUsecase_SweepListError(t *testing.T) {
	ctx := context.Background()
	f := newOrphanFixture(&fakeProcessor{})

	f.orphanRepo.On("ListUnresolved", ctx, 5).Return(nil, errors.New("db down")).Once()

	_, err := f.uc.Sweep(ctx, 5)
	assert.EqualError(t, err, "db down")
}

func TestOrphanReconcileUsecase_List(t *testing.T) {
	ctx := context.Background()
	f := newOrphanFixture(&fakeProcessor{})

	want := []*entities.OrphanedProcessorObject{{ID: uuid.New()}}
	f.orphanRepo.On("ListUnresolved", ctx, 0).Return(want, nil).Once()

	got, err := f.uc.List(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
