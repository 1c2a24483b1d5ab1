package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/xpro/backend/internal/domain/catalog"
	"github.com/xpro/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormPlatformRepository implements PlatformRepository using GORM
type GormPlatformRepository struct {
	db *gorm.DB
}

// NewGormPlatformRepository creates a new GormPlatformRepository
func NewGormPlatformRepository(db *gorm.DB) *GormPlatformRepository {
	return &GormPlatformRepository{db: db}
}

// FindByID finds a platform by its ID
func (r *GormPlatformRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Platform, error) {
	var platform catalog.Platform
	if err := r.db.WithContext(ctx).First(&platform, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &platform, nil
}

// FindByName finds a platform by its name
func (r *GormPlatformRepository) FindByName(ctx context.Context, name string) (*catalog.Platform, error) {
	var platform catalog.Platform
	if err := r.db.WithContext(ctx).First(&platform, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &platform, nil
}

// FindAll finds all platforms ordered by name
func (r *GormPlatformRepository) FindAll(ctx context.Context) ([]catalog.Platform, error) {
	var platforms []catalog.Platform
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&platforms).Error; err != nil {
		return nil, err
	}
	return platforms, nil
}

// Save creates or updates a platform
func (r *GormPlatformRepository) Save(ctx context.Context, platform *catalog.Platform) error {
	return r.db.WithContext(ctx).Save(platform).Error
}

// GormProgramRepository implements ProgramRepository using GORM
type GormProgramRepository struct {
	db *gorm.DB
}

// NewGormProgramRepository creates a new GormProgramRepository
func NewGormProgramRepository(db *gorm.DB) *GormProgramRepository {
	return &GormProgramRepository{db: db}
}

// FindByID finds a program by its ID
func (r *GormProgramRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Program, error) {
	var program catalog.Program
	if err := r.db.WithContext(ctx).First(&program, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &program, nil
}

// FindByReadableID finds a program by its readable ID
func (r *GormProgramRepository) FindByReadableID(ctx context.Context, readableID string) (*catalog.Program, error) {
	var program catalog.Program
	if err := r.db.WithContext(ctx).
		Preload("Courses", func(db *gorm.DB) *gorm.DB {
			return db.Order("position_in_program ASC")
		}).
		Preload("Courses.Runs").
		First(&program, "readable_id = ?", readableID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &program, nil
}

// FindLive finds all live programs with their courses preloaded
func (r *GormProgramRepository) FindLive(ctx context.Context, filter shared.Filter) ([]catalog.Program, error) {
	var programs []catalog.Program
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&catalog.Program{}).Where("live = ?", true),
		filter,
	)
	if err := query.
		Preload("Courses", func(db *gorm.DB) *gorm.DB {
			return db.Where("live = ?", true).Order("position_in_program ASC")
		}).
		Preload("Courses.Runs").
		Find(&programs).Error; err != nil {
		return nil, err
	}
	return programs, nil
}

// FindAll finds all programs matching the filter
func (r *GormProgramRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Program, error) {
	var programs []catalog.Program
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Program{}), filter)
	if err := query.Find(&programs).Error; err != nil {
		return nil, err
	}
	return programs, nil
}

// MaxPosition returns the highest course position within a program,
// or -1 when the program has no positioned courses
func (r *GormProgramRepository) MaxPosition(ctx context.Context, programID uuid.UUID) (int, error) {
	var max *int
	if err := r.db.WithContext(ctx).
		Model(&catalog.Course{}).
		Where("program_id = ?", programID).
		Select("MAX(position_in_program)").
		Scan(&max).Error; err != nil {
		return -1, err
	}
	if max == nil {
		return -1, nil
	}
	return *max, nil
}

// Save creates or updates a program
func (r *GormProgramRepository) Save(ctx context.Context, program *catalog.Program) error {
	return r.db.WithContext(ctx).Omit("Courses").Save(program).Error
}

// Delete deletes a program
func (r *GormProgramRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Program{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts programs matching the filter
func (r *GormProgramRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&catalog.Program{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormProgramRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	return applyPaginationAndOrder(query, filter, ProgramSortFields)
}

func (r *GormProgramRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR readable_id ILIKE ?", searchPattern, searchPattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "live":
			query = query.Where("live = ?", value)
		}
	}
	return query
}

// GormCourseRepository implements CourseRepository using GORM
type GormCourseRepository struct {
	db *gorm.DB
}

// NewGormCourseRepository creates a new GormCourseRepository
func NewGormCourseRepository(db *gorm.DB) *GormCourseRepository {
	return &GormCourseRepository{db: db}
}

// FindByID finds a course by its ID
func (r *GormCourseRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Course, error) {
	var course catalog.Course
	if err := r.db.WithContext(ctx).First(&course, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &course, nil
}

// FindByIDWithRuns finds a course with its runs and topics preloaded
func (r *GormCourseRepository) FindByIDWithRuns(ctx context.Context, id uuid.UUID) (*catalog.Course, error) {
	var course catalog.Course
	if err := r.db.WithContext(ctx).
		Preload("Runs", func(db *gorm.DB) *gorm.DB {
			return db.Order("start_date ASC")
		}).
		Preload("Topics").
		First(&course, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &course, nil
}

// FindByReadableID finds a course by its readable ID
func (r *GormCourseRepository) FindByReadableID(ctx context.Context, readableID string) (*catalog.Course, error) {
	var course catalog.Course
	if err := r.db.WithContext(ctx).
		Preload("Runs").
		Preload("Topics").
		First(&course, "readable_id = ?", readableID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &course, nil
}

// FindByExternalID finds an external course by its vendor identifier
// and platform
func (r *GormCourseRepository) FindByExternalID(ctx context.Context, platformID uuid.UUID, externalCourseID string) (*catalog.Course, error) {
	var course catalog.Course
	if err := r.db.WithContext(ctx).
		Preload("Runs").
		Where("platform_id = ? AND external_course_id = ?", platformID, externalCourseID).
		First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &course, nil
}

// FindLive finds all live courses with runs preloaded
func (r *GormCourseRepository) FindLive(ctx context.Context, filter shared.Filter) ([]catalog.Course, error) {
	var courses []catalog.Course
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&catalog.Course{}).Where("live = ?", true),
		filter,
	)
	if err := query.
		Preload("Runs", func(db *gorm.DB) *gorm.DB {
			return db.Where("live = ?", true).Order("start_date ASC")
		}).
		Preload("Topics").
		Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

// FindAll finds all courses matching the filter
func (r *GormCourseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Course, error) {
	var courses []catalog.Course
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Course{}), filter)
	if err := query.Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

// FindByProgram finds all courses belonging to a program ordered by
// position
func (r *GormCourseRepository) FindByProgram(ctx context.Context, programID uuid.UUID) ([]catalog.Course, error) {
	var courses []catalog.Course
	if err := r.db.WithContext(ctx).
		Where("program_id = ?", programID).
		Order("position_in_program ASC").
		Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

// Save creates or updates a course
func (r *GormCourseRepository) Save(ctx context.Context, course *catalog.Course) error {
	return r.db.WithContext(ctx).Omit("Runs", "Topics").Save(course).Error
}

// AttachTopic associates a topic with a course
func (r *GormCourseRepository) AttachTopic(ctx context.Context, courseID, topicID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(
		"INSERT INTO course_topics_assoc (course_id, course_topic_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		courseID, topicID,
	).Error
}

// Delete deletes a course
func (r *GormCourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Course{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts courses matching the filter
func (r *GormCourseRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&catalog.Course{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormCourseRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	return applyPaginationAndOrder(query, filter, CourseSortFields)
}

func (r *GormCourseRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR readable_id ILIKE ?", searchPattern, searchPattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "live":
			query = query.Where("live = ?", value)
		case "program_id":
			query = query.Where("program_id = ?", value)
		case "platform_id":
			query = query.Where("platform_id = ?", value)
		case "is_external":
			query = query.Where("is_external = ?", value)
		case "topic":
			query = query.Joins(
				"JOIN course_topics_assoc cta ON cta.course_id = courses.id").Joins(
				"JOIN course_topics ct ON ct.id = cta.course_topic_id").
				Where("ct.name = ?", value)
		}
	}
	return query
}

// GormCourseRunRepository implements CourseRunRepository using GORM
type GormCourseRunRepository struct {
	db *gorm.DB
}

// NewGormCourseRunRepository creates a new GormCourseRunRepository
func NewGormCourseRunRepository(db *gorm.DB) *GormCourseRunRepository {
	return &GormCourseRunRepository{db: db}
}

// FindByID finds a course run by its ID
func (r *GormCourseRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.CourseRun, error) {
	var run catalog.CourseRun
	if err := r.db.WithContext(ctx).First(&run, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &run, nil
}

// FindByIDs finds multiple course runs by their IDs
func (r *GormCourseRunRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.CourseRun, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var runs []catalog.CourseRun
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

// FindByCoursewareID finds a run by its courseware platform key
func (r *GormCourseRunRepository) FindByCoursewareID(ctx context.Context, coursewareID string) (*catalog.CourseRun, error) {
	var run catalog.CourseRun
	if err := r.db.WithContext(ctx).First(&run, "courseware_id = ?", coursewareID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &run, nil
}

// FindByExternalID finds a run by its vendor run identifier
func (r *GormCourseRunRepository) FindByExternalID(ctx context.Context, externalCourseRunID string) (*catalog.CourseRun, error) {
	var run catalog.CourseRun
	if err := r.db.WithContext(ctx).First(&run, "external_course_run_id = ?", externalCourseRunID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &run, nil
}

// FindByCourse finds all runs of a course ordered by start date
func (r *GormCourseRunRepository) FindByCourse(ctx context.Context, courseID uuid.UUID) ([]catalog.CourseRun, error) {
	var runs []catalog.CourseRun
	if err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("start_date ASC").
		Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

// Save creates or updates a course run
func (r *GormCourseRunRepository) Save(ctx context.Context, run *catalog.CourseRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

// Delete deletes a course run
func (r *GormCourseRunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.CourseRun{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormCourseTopicRepository implements CourseTopicRepository using GORM
type GormCourseTopicRepository struct {
	db *gorm.DB
}

// NewGormCourseTopicRepository creates a new GormCourseTopicRepository
func NewGormCourseTopicRepository(db *gorm.DB) *GormCourseTopicRepository {
	return &GormCourseTopicRepository{db: db}
}

// FindByName finds a topic by its name
func (r *GormCourseTopicRepository) FindByName(ctx context.Context, name string) (*catalog.CourseTopic, error) {
	var topic catalog.CourseTopic
	if err := r.db.WithContext(ctx).First(&topic, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &topic, nil
}

// FindAll finds all topics ordered by name
func (r *GormCourseTopicRepository) FindAll(ctx context.Context) ([]catalog.CourseTopic, error) {
	var topics []catalog.CourseTopic
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}

// Save creates or updates a topic
func (r *GormCourseTopicRepository) Save(ctx context.Context, topic *catalog.CourseTopic) error {
	return r.db.WithContext(ctx).Save(topic).Error
}

// applyPaginationAndOrder applies the shared pagination and ordering
// conventions. Sort fields are validated against the whitelist so user
// input never reaches the ORDER BY clause unchecked.
func applyPaginationAndOrder(query *gorm.DB, filter shared.Filter, sortFields map[string]bool) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, sortFields, "created_at")
		dir := ValidateSortOrder(filter.OrderDir)
		query = query.Order(field + " " + dir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// compile-time interface checks
var (
	_ catalog.PlatformRepository    = (*GormPlatformRepository)(nil)
	_ catalog.ProgramRepository     = (*GormProgramRepository)(nil)
	_ catalog.CourseRepository      = (*GormCourseRepository)(nil)
	_ catalog.CourseRunRepository   = (*GormCourseRunRepository)(nil)
	_ catalog.CourseTopicRepository = (*GormCourseTopicRepository)(nil)
)
