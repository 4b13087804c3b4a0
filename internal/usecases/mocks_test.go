package usecases_test

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"monthly-club.backend/internal/domain/entities"
	"monthly-club.backend/internal/domain/gateways"
	"monthly-club.backend/pkg/redis"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

// Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

// Mock BusinessRepository
type MockBusinessRepository struct {
	mock.Mock
}

func (m *MockBusinessRepository) Create(ctx context.Context, business *entities.Business) error {
	args := m.Called(ctx, business)
	return args.Error(0)
}

func (m *MockBusinessRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Business, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Business), args.Error(1)
}

func (m *MockBusinessRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Business, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Business), args.Error(1)
}

func (m *MockBusinessRepository) SetPayoutAccountIDIfEmpty(ctx context.Context, id uuid.UUID, accountID string) (bool, error) {
	args := m.Called(ctx, id, accountID)
	return args.Bool(0), args.Error(1)
}

// Mock ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *entities.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Product), args.Error(1)
}

func (m *MockProductRepository) ListByBusinessID(ctx context.Context, businessID uuid.UUID, limit, offset int) ([]*entities.Product, int64, error) {
	args := m.Called(ctx, businessID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Product), args.Get(1).(int64), args.Error(2)
}

// Mock CustomerPaymentProfileRepository
type MockCustomerProfileRepository struct {
	mock.Mock
}

func (m *MockCustomerProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.CustomerPaymentProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CustomerPaymentProfile), args.Error(1)
}

func (m *MockCustomerProfileRepository) CreateIfAbsent(ctx context.Context, profile *entities.CustomerPaymentProfile) (bool, error) {
	args := m.Called(ctx, profile)
	return args.Bool(0), args.Error(1)
}

// Mock PurchaseRepository
type MockPurchaseRepository struct {
	mock.Mock
}

func (m *MockPurchaseRepository) CreateIfAbsent(ctx context.Context, purchase *entities.Purchase) (bool, error) {
	args := m.Called(ctx, purchase)
	return args.Bool(0), args.Error(1)
}

func (m *MockPurchaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Purchase, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) GetByCheckoutSessionID(ctx context.Context, sessionID string) (*entities.Purchase, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Purchase), args.Error(1)
}

// Mock ScheduledPaymentRepository
type MockScheduledPaymentRepository struct {
	mock.Mock
}

func (m *MockScheduledPaymentRepository) Create(ctx context.Context, payment *entities.ScheduledPayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockScheduledPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.ScheduledPayment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ScheduledPayment), args.Error(1)
}

func (m *MockScheduledPaymentRepository) GetByPurchaseID(ctx context.Context, purchaseID uuid.UUID) (*entities.ScheduledPayment, error) {
	args := m.Called(ctx, purchaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ScheduledPayment), args.Error(1)
}

func (m *MockScheduledPaymentRepository) UpdateScheduledFor(ctx context.Context, purchaseID uuid.UUID, day entities.BillingDay) error {
	args := m.Called(ctx, purchaseID, day)
	return args.Error(0)
}

// Mock OrphanRepository
type MockOrphanRepository struct {
	mock.Mock
}

func (m *MockOrphanRepository) Create(ctx context.Context, orphan *entities.OrphanedProcessorObject) error {
	args := m.Called(ctx, orphan)
	return args.Error(0)
}

func (m *MockOrphanRepository) ListUnresolved(ctx context.Context, limit int) ([]*entities.OrphanedProcessorObject, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.OrphanedProcessorObject), args.Error(1)
}

func (m *MockOrphanRepository) MarkResolved(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrphanRepository) RecordFailure(ctx context.Context, id uuid.UUID, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

// Mock EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, subject string, payload interface{}) error {
	args := m.Called(ctx, subject, payload)
	return args.Error(0)
}

// Mock WebhookVerifier
type MockWebhookVerifier struct {
	mock.Mock
}

func (m *MockWebhookVerifier) ConstructEvent(payload []byte, signature string) (*gateways.WebhookEvent, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateways.WebhookEvent), args.Error(1)
}

// Mock SessionStore
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) CreateSession(ctx context.Context, sessionID string, data *redis.SessionData, expiration time.Duration) error {
	args := m.Called(ctx, sessionID, data, expiration)
	return args.Error(0)
}

func (m *MockSessionStore) GetSession(ctx context.Context, sessionID string) (*redis.SessionData, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*redis.SessionData), args.Error(1)
}

func (m *MockSessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

// fakeProcessor is an in-memory PaymentProcessor that counts remote calls
type fakeProcessor struct {
	mu sync.Mutex

	accountSeq  int
	customerSeq int

	createAccountCalls   int
	createLinkCalls      int
	getAccountCalls      int
	createCustomerCalls  int
	setDefaultPMCalls    int
	createSessionCalls   int
	deletedAccounts      []string
	deletedCustomers     []string
	lastAccountParams    gateways.CreateAccountParams
	lastLinkParams       gateways.AccountLinkParams
	lastSessionParams    gateways.CreateSetupSessionParams
	lastDefaultPMRequest [2]string

	currentlyDue []string

	createAccountErr  error
	createLinkErr     error
	getAccountErr     error
	createCustomerErr error
	deleteErr         error
	setDefaultPMErr   error
	createSessionErr  error
}

func (f *fakeProcessor) CreateAccount(_ context.Context, params gateways.CreateAccountParams) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createAccountCalls++
	f.lastAccountParams = params
	if f.createAccountErr != nil {
		return "", f.createAccountErr
	}
	f.accountSeq++
	return "acct_" + strconv.Itoa(f.accountSeq), nil
}

func (f *fakeProcessor) CreateAccountLink(_ context.Context, params gateways.AccountLinkParams) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createLinkCalls++
	f.lastLinkParams = params
	if f.createLinkErr != nil {
		return "", f.createLinkErr
	}
	return "https://connect.stripe.com/setup/e/" + params.AccountID + "/link", nil
}

func (f *fakeProcessor) GetAccount(_ context.Context, accountID string) (*gateways.ProcessorAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getAccountCalls++
	if f.getAccountErr != nil {
		return nil, f.getAccountErr
	}
	return &gateways.ProcessorAccount{ID: accountID, CurrentlyDue: f.currentlyDue}, nil
}

func (f *fakeProcessor) DeleteAccount(_ context.Context, accountID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedAccounts = append(f.deletedAccounts, accountID)
	return nil
}

func (f *fakeProcessor) CreateCustomer(_ context.Context, _ gateways.CreateCustomerParams) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCustomerCalls++
	if f.createCustomerErr != nil {
		return "", f.createCustomerErr
	}
	f.customerSeq++
	return "cus_" + strconv.Itoa(f.customerSeq), nil
}

func (f *fakeProcessor) DeleteCustomer(_ context.Context, customerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedCustomers = append(f.deletedCustomers, customerID)
	return nil
}

func (f *fakeProcessor) SetDefaultPaymentMethodFromSetupIntent(_ context.Context, customerID, setupIntentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setDefaultPMCalls++
	f.lastDefaultPMRequest = [2]string{customerID, setupIntentID}
	return f.setDefaultPMErr
}

func (f *fakeProcessor) CreateSetupSession(_ context.Context, params gateways.CreateSetupSessionParams) (*gateways.SetupSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createSessionCalls++
	f.lastSessionParams = params
	if f.createSessionErr != nil {
		return nil, f.createSessionErr
	}
	return &gateways.SetupSession{ID: "cs_1", URL: "https://checkout.stripe.com/c/pay/cs_1"}, nil
}

var _ gateways.PaymentProcessor = (*fakeProcessor)(nil)
