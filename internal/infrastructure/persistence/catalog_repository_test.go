package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xpro/backend/internal/domain/shared"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormProgramRepository_FindByID(t *testing.T) {
	t.Run("finds existing program", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormProgramRepository(db)

		programID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "title", "readable_id", "live", "version"}).
			AddRow(programID, "Data Science Bootcamp", "program-v1:xPRO+DSx", true, 1)

		mock.ExpectQuery(`SELECT \* FROM "programs" WHERE id = \$1`).
			WithArgs(programID, 1).
			WillReturnRows(rows)

		program, err := repo.FindByID(context.Background(), programID)

		assert.NoError(t, err)
		require.NotNil(t, program)
		assert.Equal(t, programID, program.ID)
		assert.Equal(t, "Data Science Bootcamp", program.Title)
		assert.True(t, program.Live)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing program", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormProgramRepository(db)

		programID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "programs" WHERE id = \$1`).
			WithArgs(programID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		program, err := repo.FindByID(context.Background(), programID)

		assert.Nil(t, program)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProgramRepository_MaxPosition(t *testing.T) {
	t.Run("returns max position", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormProgramRepository(db)

		programID := uuid.New()
		mock.ExpectQuery(`SELECT MAX\(position_in_program\) FROM "courses" WHERE program_id = \$1`).
			WithArgs(programID).
			WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(3))

		max, err := repo.MaxPosition(context.Background(), programID)

		assert.NoError(t, err)
		assert.Equal(t, 3, max)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns -1 when no courses are positioned", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormProgramRepository(db)

		programID := uuid.New()
		mock.ExpectQuery(`SELECT MAX\(position_in_program\) FROM "courses" WHERE program_id = \$1`).
			WithArgs(programID).
			WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(nil))

		max, err := repo.MaxPosition(context.Background(), programID)

		assert.NoError(t, err)
		assert.Equal(t, -1, max)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCourseRepository_FindByExternalID(t *testing.T) {
	t.Run("finds external course", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormCourseRepository(db)

		courseID := uuid.New()
		platformID := uuid.New()

		courseRows := sqlmock.NewRows([]string{
			"id", "title", "readable_id", "live", "is_external",
			"external_course_id", "platform_id", "version",
		}).AddRow(courseID, "Leadership Essentials", "course-v1:xPRO+LE1", true, true,
			"EMER-991", platformID, 1)

		mock.ExpectQuery(`SELECT \* FROM "courses" WHERE platform_id = \$1 AND external_course_id = \$2`).
			WithArgs(platformID, "EMER-991", 1).
			WillReturnRows(courseRows)
		mock.ExpectQuery(`SELECT \* FROM "course_runs" WHERE "course_runs"\."course_id" = \$1`).
			WithArgs(courseID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "course_id"}))

		course, err := repo.FindByExternalID(context.Background(), platformID, "EMER-991")

		assert.NoError(t, err)
		require.NotNil(t, course)
		assert.Equal(t, "EMER-991", course.ExternalCourseID)
		assert.True(t, course.IsExternal)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound when absent", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormCourseRepository(db)

		platformID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "courses" WHERE platform_id = \$1 AND external_course_id = \$2`).
			WithArgs(platformID, "EMER-404", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		course, err := repo.FindByExternalID(context.Background(), platformID, "EMER-404")

		assert.Nil(t, course)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCourseRunRepository_FindByCoursewareID(t *testing.T) {
	t.Run("finds run by courseware key", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormCourseRunRepository(db)

		runID := uuid.New()
		courseID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "course_id", "title", "courseware_id", "run_tag", "version"}).
			AddRow(runID, courseID, "Leadership Essentials", "course-v1:xPRO+LE1+R1", "R1", 1)

		mock.ExpectQuery(`SELECT \* FROM "course_runs" WHERE courseware_id = \$1`).
			WithArgs("course-v1:xPRO+LE1+R1", 1).
			WillReturnRows(rows)

		run, err := repo.FindByCoursewareID(context.Background(), "course-v1:xPRO+LE1+R1")

		assert.NoError(t, err)
		require.NotNil(t, run)
		assert.Equal(t, "R1", run.RunTag)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCourseRunRepository_FindByIDs(t *testing.T) {
	t.Run("returns nil without querying for empty input", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormCourseRunRepository(db)

		runs, err := repo.FindByIDs(context.Background(), nil)

		assert.NoError(t, err)
		assert.Nil(t, runs)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
