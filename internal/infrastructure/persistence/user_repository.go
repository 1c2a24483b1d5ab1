package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/xpro/backend/internal/domain/identity"
	"github.com/xpro/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by their ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var user identity.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by their email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	var user identity.User
	if err := r.db.WithContext(ctx).
		First(&user, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by their username
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	var user identity.User
	if err := r.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindAll finds users matching the filter
func (r *GormUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	var users []identity.User
	query := r.db.WithContext(ctx).Model(&identity.User{})
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("email ILIKE ? OR username ILIKE ? OR name ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "is_active":
			query = query.Where("is_active = ?", value)
		case "is_staff":
			query = query.Where("is_staff = ?", value)
		}
	}
	query = applyPaginationAndOrder(query, filter, UserSortFields)
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Save creates or updates a user
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// ExistsByEmail checks if a user with the given email exists
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&identity.User{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GormCoursewareAuthRepository implements CoursewareAuthRepository
// using GORM
type GormCoursewareAuthRepository struct {
	db *gorm.DB
}

// NewGormCoursewareAuthRepository creates a new
// GormCoursewareAuthRepository
func NewGormCoursewareAuthRepository(db *gorm.DB) *GormCoursewareAuthRepository {
	return &GormCoursewareAuthRepository{db: db}
}

// GetOrCreateForUpdate returns the user's auth row, creating it if
// absent. The row is locked so concurrent token grants serialize.
func (r *GormCoursewareAuthRepository) GetOrCreateForUpdate(ctx context.Context, userID uuid.UUID) (*identity.CoursewareAuth, error) {
	var auth identity.CoursewareAuth
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&auth, "user_id = ?", userID).Error
	if err == nil {
		return &auth, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	auth = identity.CoursewareAuth{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
	}
	if err := r.db.WithContext(ctx).Create(&auth).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&auth, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &auth, nil
}

// Save persists the auth row
func (r *GormCoursewareAuthRepository) Save(ctx context.Context, auth *identity.CoursewareAuth) error {
	return r.db.WithContext(ctx).Save(auth).Error
}

var (
	_ identity.UserRepository           = (*GormUserRepository)(nil)
	_ identity.CoursewareAuthRepository = (*GormCoursewareAuthRepository)(nil)
)
