package integration

import (
	"context"
	"errors"

	"github.com/xpro/backend/internal/domain/catalog"
	"github.com/xpro/backend/internal/domain/shared"
	"github.com/xpro/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// VendorSyncStats counts the outcome of one feed sync pass
type VendorSyncStats struct {
	RunsCreated  int `json:"runs_created"`
	RunsUpdated  int `json:"runs_updated"`
	RowsSkipped  int `json:"rows_skipped"`
	RowsFailed   int `json:"rows_failed"`
	CoursesSeen  int `json:"courses_seen"`
	RowsReceived int `json:"rows_received"`
}

// VendorSyncService ingests the vendor's course report into the
// catalog. The sync is an idempotent upsert: courses key on their
// vendor course code, runs on their vendor run code, and re-running a
// feed only touches rows whose dates drifted. A bad row is logged and
// counted, never fatal to the pass.
type VendorSyncService struct {
	platformRepo catalog.PlatformRepository
	courseRepo   catalog.CourseRepository
	runRepo      catalog.CourseRunRepository
	topicRepo    catalog.CourseTopicRepository
	client       VendorFeedClient
	platformName string
	logger       *zap.Logger
}

// NewVendorSyncService creates a new VendorSyncService
func NewVendorSyncService(
	platformRepo catalog.PlatformRepository,
	courseRepo catalog.CourseRepository,
	runRepo catalog.CourseRunRepository,
	topicRepo catalog.CourseTopicRepository,
	client VendorFeedClient,
	platformName string,
	logger *zap.Logger,
) *VendorSyncService {
	return &VendorSyncService{
		platformRepo: platformRepo,
		courseRepo:   courseRepo,
		runRepo:      runRepo,
		topicRepo:    topicRepo,
		client:       client,
		platformName: platformName,
		logger:       logger,
	}
}

// Sync fetches the vendor report and upserts every row. Returns the
// pass statistics; the error is reserved for failures that abort the
// whole pass (feed fetch, platform lookup).
func (s *VendorSyncService) Sync(ctx context.Context) (*VendorSyncStats, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "vendor_sync", "import_feed",
		telemetry.WithAttribute("platform", s.platformName))
	defer span.End()

	platform, err := s.getOrCreatePlatform(ctx)
	if err != nil {
		return nil, err
	}

	courses, err := s.client.FetchCourses(ctx)
	if err != nil {
		return nil, err
	}

	stats := &VendorSyncStats{RowsReceived: len(courses)}
	seenCourses := make(map[string]bool)

	for _, row := range courses {
		if !row.Complete() {
			stats.RowsSkipped++
			s.logger.Debug("skipping incomplete feed row",
				zap.String("title", row.Title),
				zap.String("course_code", row.CourseCode),
				zap.String("run_code", row.RunCode),
			)
			continue
		}
		if row.RunTag == "" {
			stats.RowsSkipped++
			s.logger.Warn("feed row carries no parseable run tag",
				zap.String("run_code", row.RunCode),
			)
			continue
		}

		if err := s.syncRow(ctx, platform, row, stats); err != nil {
			stats.RowsFailed++
			s.logger.Error("feed row sync failed",
				zap.String("course_code", row.CourseCode),
				zap.String("run_code", row.RunCode),
				zap.Error(err),
			)
			continue
		}
		if !seenCourses[row.CourseCode] {
			seenCourses[row.CourseCode] = true
			stats.CoursesSeen++
		}
	}

	s.logger.Info("vendor feed sync finished",
		zap.Int("rows_received", stats.RowsReceived),
		zap.Int("runs_created", stats.RunsCreated),
		zap.Int("runs_updated", stats.RunsUpdated),
		zap.Int("rows_skipped", stats.RowsSkipped),
		zap.Int("rows_failed", stats.RowsFailed),
	)
	return stats, nil
}

func (s *VendorSyncService) getOrCreatePlatform(ctx context.Context) (*catalog.Platform, error) {
	platform, err := s.platformRepo.FindByName(ctx, s.platformName)
	if err == nil {
		return platform, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	platform, err = catalog.NewPlatform(s.platformName)
	if err != nil {
		return nil, err
	}
	if err := s.platformRepo.Save(ctx, platform); err != nil {
		return nil, err
	}
	return platform, nil
}

func (s *VendorSyncService) syncRow(ctx context.Context, platform *catalog.Platform, row VendorCourse, stats *VendorSyncStats) error {
	course, err := s.getOrCreateCourse(ctx, platform, row)
	if err != nil {
		return err
	}

	if err := s.upsertRun(ctx, course, row, stats); err != nil {
		return err
	}
	if err := s.attachTopic(ctx, course, row.Category); err != nil {
		return err
	}
	return s.fillMarketing(ctx, course, row)
}

func (s *VendorSyncService) getOrCreateCourse(ctx context.Context, platform *catalog.Platform, row VendorCourse) (*catalog.Course, error) {
	course, err := s.courseRepo.FindByExternalID(ctx, platform.ID, row.CourseCode)
	if err == nil {
		return course, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	course, err = catalog.NewExternalCourse(row.Title, row.ReadableID(), row.CourseCode, platform.ID)
	if err != nil {
		return nil, err
	}
	course.Publish()
	if err := s.courseRepo.Save(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// upsertRun creates the run when the vendor run code is new and
// otherwise updates its dates only when they drifted
func (s *VendorSyncService) upsertRun(ctx context.Context, course *catalog.Course, row VendorCourse, stats *VendorSyncStats) error {
	run, err := s.runRepo.FindByExternalID(ctx, row.RunCode)
	if err == nil {
		if run.UpdateDates(row.StartDate, row.EndDate) {
			if err := s.runRepo.Save(ctx, run); err != nil {
				return err
			}
			stats.RunsUpdated++
		}
		return nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return err
	}

	run, err = catalog.NewCourseRun(course.ID, row.Title, row.CoursewareID(), row.RunTag)
	if err != nil {
		return err
	}
	if err := run.SetSchedule(row.StartDate, row.EndDate); err != nil {
		return err
	}
	run.ExternalCourseRunID = row.RunCode
	run.Publish()
	if err := s.runRepo.Save(ctx, run); err != nil {
		return err
	}
	stats.RunsCreated++
	return nil
}

func (s *VendorSyncService) attachTopic(ctx context.Context, course *catalog.Course, category string) error {
	if category == "" || course.HasTopic(category) {
		return nil
	}

	topic, err := s.topicRepo.FindByName(ctx, category)
	if errors.Is(err, shared.ErrNotFound) {
		topic, err = catalog.NewCourseTopic(category)
		if err != nil {
			return err
		}
		if err := s.topicRepo.Save(ctx, topic); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	if err := s.courseRepo.AttachTopic(ctx, course.ID, topic.ID); err != nil {
		return err
	}
	course.Topics = append(course.Topics, *topic)
	return nil
}

// fillMarketing writes page fields and bullet lists only where the
// catalog holds nothing yet, manual edits win over the feed
func (s *VendorSyncService) fillMarketing(ctx context.Context, course *catalog.Course, row VendorCourse) error {
	changed := course.FillEmptyMarketing("", row.Duration, row.Format, row.Description, row.MarketingURL)
	if course.FillEmptyLists(row.LearningOutcomes, row.WhoShouldEnroll) {
		changed = true
	}
	if !changed {
		return nil
	}
	return s.courseRepo.Save(ctx, course)
}
