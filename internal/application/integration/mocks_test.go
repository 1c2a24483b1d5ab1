package integration

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/xpro/backend/internal/domain/b2b"
	"github.com/xpro/backend/internal/domain/catalog"
	"github.com/xpro/backend/internal/domain/ecommerce"
	"github.com/xpro/backend/internal/domain/identity"
	"github.com/xpro/backend/internal/domain/shared"
)

// MockCRMClient is a mock implementation of CRMClient
type MockCRMClient struct {
	mock.Mock
}

// MakeSyncMessage mirrors the real client's builder with a fixed
// timestamp so tests can assert on the batched messages
func (m *MockCRMClient) MakeSyncMessage(objectID string, properties map[string]any) CRMSyncMessage {
	scrubbed := make(map[string]string, len(properties))
	for key, value := range properties {
		if value == nil {
			scrubbed[key] = ""
			continue
		}
		scrubbed[key] = fmt.Sprintf("%v", value)
	}
	return CRMSyncMessage{
		IntegratorObjectID:      objectID,
		Action:                  "UPSERT",
		ChangeOccurredTimestamp: 1700000000000,
		PropertyNameToValues:    scrubbed,
	}
}

func (m *MockCRMClient) SyncObjects(ctx context.Context, objectType string, messages []CRMSyncMessage) error {
	args := m.Called(ctx, objectType, messages)
	return args.Error(0)
}

func (m *MockCRMClient) GetSyncErrors(ctx context.Context, sinceMillis int64, limit, offset int) ([]CRMSyncError, int, error) {
	args := m.Called(ctx, sinceMillis, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]CRMSyncError), args.Int(1), args.Error(2)
}

// MockVendorFeedClient is a mock implementation of VendorFeedClient
type MockVendorFeedClient struct {
	mock.Mock
}

func (m *MockVendorFeedClient) FetchCourses(ctx context.Context) ([]VendorCourse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]VendorCourse), args.Error(1)
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

// MockB2BOrderRepository is a mock implementation of b2b.OrderRepository
type MockB2BOrderRepository struct {
	mock.Mock
}

func (m *MockB2BOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*b2b.B2BOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*b2b.B2BOrder), args.Error(1)
}

func (m *MockB2BOrderRepository) FindByUniqueID(ctx context.Context, uniqueID uuid.UUID) (*b2b.B2BOrder, error) {
	args := m.Called(ctx, uniqueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*b2b.B2BOrder), args.Error(1)
}

func (m *MockB2BOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]b2b.B2BOrder, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]b2b.B2BOrder), args.Error(1)
}

func (m *MockB2BOrderRepository) Save(ctx context.Context, order *b2b.B2BOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockB2BOrderRepository) SaveReceipt(ctx context.Context, receipt *b2b.B2BReceipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockB2BOrderRepository) SaveAudit(ctx context.Context, record *shared.AuditRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// MockPlatformRepository is a mock implementation of catalog.PlatformRepository
type MockPlatformRepository struct {
	mock.Mock
}

func (m *MockPlatformRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Platform, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Platform), args.Error(1)
}

func (m *MockPlatformRepository) FindByName(ctx context.Context, name string) (*catalog.Platform, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Platform), args.Error(1)
}

func (m *MockPlatformRepository) FindAll(ctx context.Context) ([]catalog.Platform, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Platform), args.Error(1)
}

func (m *MockPlatformRepository) Save(ctx context.Context, platform *catalog.Platform) error {
	args := m.Called(ctx, platform)
	return args.Error(0)
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

// MockCourseTopicRepository is a mock implementation of catalog.CourseTopicRepository
type MockCourseTopicRepository struct {
	mock.Mock
}

func (m *MockCourseTopicRepository) FindByName(ctx context.Context, name string) (*catalog.CourseTopic, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.CourseTopic), args.Error(1)
}

func (m *MockCourseTopicRepository) FindAll(ctx context.Context) ([]catalog.CourseTopic, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.CourseTopic), args.Error(1)
}

func (m *MockCourseTopicRepository) Save(ctx context.Context, topic *catalog.CourseTopic) error {
	args := m.Called(ctx, topic)
	return args.Error(0)
}

// Ensure mocks satisfy their interfaces
var (
	_ CRMClient                     = (*MockCRMClient)(nil)
	_ VendorFeedClient              = (*MockVendorFeedClient)(nil)
	_ identity.UserRepository       = (*MockUserRepository)(nil)
	_ ecommerce.OrderRepository     = (*MockOrderRepository)(nil)
	_ ecommerce.ProductRepository   = (*MockProductRepository)(nil)
	_ b2b.OrderRepository           = (*MockB2BOrderRepository)(nil)
	_ catalog.PlatformRepository    = (*MockPlatformRepository)(nil)
	_ catalog.CourseRepository      = (*MockCourseRepository)(nil)
	_ catalog.CourseRunRepository   = (*MockCourseRunRepository)(nil)
	_ catalog.CourseTopicRepository = (*MockCourseTopicRepository)(nil)
)
