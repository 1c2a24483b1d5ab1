package enrollment

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/xpro/backend/internal/domain/catalog"
	"github.com/xpro/backend/internal/domain/ecommerce"
	"github.com/xpro/backend/internal/domain/enrollment"
	"github.com/xpro/backend/internal/domain/identity"
	"github.com/xpro/backend/internal/domain/shared"
)

// MockEnrollmentRepository is a mock implementation of enrollment.Repository
type MockEnrollmentRepository struct {
	mock.Mock
}

func (m *MockEnrollmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*enrollment.CourseRunEnrollment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*enrollment.CourseRunEnrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) FindByUserAndRun(ctx context.Context, userID, runID uuid.UUID) (*enrollment.CourseRunEnrollment, error) {
	args := m.Called(ctx, userID, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*enrollment.CourseRunEnrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]enrollment.CourseRunEnrollment, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]enrollment.CourseRunEnrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) Save(ctx context.Context, e *enrollment.CourseRunEnrollment) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEnrollmentRepository) FindProgramEnrollment(ctx context.Context, userID, programID uuid.UUID) (*enrollment.ProgramEnrollment, error) {
	args := m.Called(ctx, userID, programID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*enrollment.ProgramEnrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) SaveProgramEnrollment(ctx context.Context, e *enrollment.ProgramEnrollment) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

// MockOrderRepository is a mock implementation of ecommerce.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ecommerce.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ecommerce.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByPurchaser(ctx context.Context, purchaserID uuid.UUID, filter shared.Filter) ([]ecommerce.Order, error) {
	args := m.Called(ctx, purchaserID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ecommerce.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *ecommerce.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveReceipt(ctx context.Context, receipt *ecommerce.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveAudit(ctx context.Context, record *shared.AuditRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of ecommerce.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*ecommerce.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ecommerce.Product), args.Error(1)
}

func (m *MockProductRepository) FindByObject(ctx context.Context, productType ecommerce.ProductType, objectID uuid.UUID) (*ecommerce.Product, error) {
	args := m.Called(ctx, productType, objectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ecommerce.Product), args.Error(1)
}

func (m *MockProductRepository) FindVisible(ctx context.Context, filter shared.Filter) ([]ecommerce.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ecommerce.Product), args.Error(1)
}

func (m *MockProductRepository) FindVersionByID(ctx context.Context, id uuid.UUID) (*ecommerce.ProductVersion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ecommerce.ProductVersion), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *ecommerce.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockCourseRepository is a mock implementation of catalog.CourseRepository
type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Course), args.Error(1)
}

func (m *MockCourseRepository) FindByIDWithRuns(ctx context.Context, id uuid.UUID) (*catalog.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Course), args.Error(1)
}

func (m *MockCourseRepository) FindByReadableID(ctx context.Context, readableID string) (*catalog.Course, error) {
	args := m.Called(ctx, readableID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Course), args.Error(1)
}

func (m *MockCourseRepository) FindByExternalID(ctx context.Context, platformID uuid.UUID, externalCourseID string) (*catalog.Course, error) {
	args := m.Called(ctx, platformID, externalCourseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Course), args.Error(1)
}

func (m *MockCourseRepository) FindLive(ctx context.Context, filter shared.Filter) ([]catalog.Course, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Course), args.Error(1)
}

func (m *MockCourseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Course, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Course), args.Error(1)
}

func (m *MockCourseRepository) FindByProgram(ctx context.Context, programID uuid.UUID) ([]catalog.Course, error) {
	args := m.Called(ctx, programID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Course), args.Error(1)
}

func (m *MockCourseRepository) Save(ctx context.Context, course *catalog.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *MockCourseRepository) AttachTopic(ctx context.Context, courseID, topicID uuid.UUID) error {
	args := m.Called(ctx, courseID, topicID)
	return args.Error(0)
}

func (m *MockCourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCourseRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockCourseRunRepository is a mock implementation of catalog.CourseRunRepository
type MockCourseRunRepository struct {
	mock.Mock
}

func (m *MockCourseRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.CourseRun, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.CourseRun), args.Error(1)
}

func (m *MockCourseRunRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.CourseRun, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.CourseRun), args.Error(1)
}

func (m *MockCourseRunRepository) FindByCoursewareID(ctx context.Context, coursewareID string) (*catalog.CourseRun, error) {
	args := m.Called(ctx, coursewareID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.CourseRun), args.Error(1)
}

func (m *MockCourseRunRepository) FindByExternalID(ctx context.Context, externalCourseRunID string) (*catalog.CourseRun, error) {
	args := m.Called(ctx, externalCourseRunID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.CourseRun), args.Error(1)
}

func (m *MockCourseRunRepository) FindByCourse(ctx context.Context, courseID uuid.UUID) ([]catalog.CourseRun, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.CourseRun), args.Error(1)
}

func (m *MockCourseRunRepository) Save(ctx context.Context, run *catalog.CourseRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockCourseRunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// MockCoursewareAuthRepository is a mock implementation of identity.CoursewareAuthRepository
type MockCoursewareAuthRepository struct {
	mock.Mock
}

func (m *MockCoursewareAuthRepository) GetOrCreateForUpdate(ctx context.Context, userID uuid.UUID) (*identity.CoursewareAuth, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.CoursewareAuth), args.Error(1)
}

func (m *MockCoursewareAuthRepository) Save(ctx context.Context, auth *identity.CoursewareAuth) error {
	args := m.Called(ctx, auth)
	return args.Error(0)
}

// MockCoursewareClient is a mock implementation of CoursewareClient
type MockCoursewareClient struct {
	mock.Mock
}

func (m *MockCoursewareClient) RegisterUser(ctx context.Context, params CoursewareRegistration) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *MockCoursewareClient) ExchangeAuthorizationCode(ctx context.Context, code, redirectURI string) (*CoursewareTokenPair, error) {
	args := m.Called(ctx, code, redirectURI)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CoursewareTokenPair), args.Error(1)
}

func (m *MockCoursewareClient) RefreshAccessToken(ctx context.Context, refreshToken string) (*CoursewareTokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CoursewareTokenPair), args.Error(1)
}

func (m *MockCoursewareClient) Enroll(ctx context.Context, accessToken, username, coursewareID string) (*CoursewareEnrollment, error) {
	args := m.Called(ctx, accessToken, username, coursewareID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CoursewareEnrollment), args.Error(1)
}

func (m *MockCoursewareClient) Unenroll(ctx context.Context, username, coursewareID string) error {
	args := m.Called(ctx, username, coursewareID)
	return args.Error(0)
}

// MockTokenProvider is a mock implementation of TokenProvider
type MockTokenProvider struct {
	mock.Mock
}

func (m *MockTokenProvider) AccessTokenForUser(ctx context.Context, user *identity.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// Ensure mocks satisfy their interfaces
var (
	_ enrollment.Repository             = (*MockEnrollmentRepository)(nil)
	_ ecommerce.OrderRepository         = (*MockOrderRepository)(nil)
	_ ecommerce.ProductRepository       = (*MockProductRepository)(nil)
	_ catalog.CourseRepository          = (*MockCourseRepository)(nil)
	_ catalog.CourseRunRepository       = (*MockCourseRunRepository)(nil)
	_ identity.UserRepository           = (*MockUserRepository)(nil)
	_ identity.CoursewareAuthRepository = (*MockCoursewareAuthRepository)(nil)
	_ CoursewareClient                  = (*MockCoursewareClient)(nil)
	_ TokenProvider                     = (*MockTokenProvider)(nil)
	_ shared.EventPublisher             = (*MockEventPublisher)(nil)
)
