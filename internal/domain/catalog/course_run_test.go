package catalog

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestNewCourseRun(t *testing.T) {
	courseID := uuid.New()

	t.Run("valid run", func(t *testing.T) {
		run, err := NewCourseRun(courseID, "Data Science Run 1", "course-v1:xPRO+DS+R1", "R1")
		require.NoError(t, err)
		assert.Equal(t, courseID, run.CourseID)
		assert.Equal(t, "R1", run.RunTag)
		assert.False(t, run.Live)
		assert.Len(t, run.GetDomainEvents(), 1)
	})

	t.Run("empty courseware id rejected", func(t *testing.T) {
		_, err := NewCourseRun(courseID, "Run", "", "R1")
		assert.Error(t, err)
	})

	t.Run("empty run tag rejected", func(t *testing.T) {
		_, err := NewCourseRun(courseID, "Run", "course-v1:xPRO+DS+R1", "")
		assert.Error(t, err)
	})
}

func TestCourseRunSchedule(t *testing.T) {
	run, err := NewCourseRun(uuid.New(), "Run", "course-v1:xPRO+DS+R1", "R1")
	require.NoError(t, err)

	t.Run("end before start rejected", func(t *testing.T) {
		start := time.Now().Add(48 * time.Hour)
		end := time.Now().Add(24 * time.Hour)
		assert.Error(t, run.SetSchedule(&start, &end))
	})

	t.Run("expiration before end rejected", func(t *testing.T) {
		start := time.Now()
		end := time.Now().Add(30 * 24 * time.Hour)
		require.NoError(t, run.SetSchedule(&start, &end))

		early := end.Add(-24 * time.Hour)
		assert.Error(t, run.SetExpiration(&early))

		later := end.Add(90 * 24 * time.Hour)
		assert.NoError(t, run.SetExpiration(&later))
	})
}

func TestCourseRunPredicates(t *testing.T) {
	now := time.Now().UTC()

	newRun := func() *CourseRun {
		run, err := NewCourseRun(uuid.New(), "Run", uuid.NewString(), "R1")
		require.NoError(t, err)
		return run
	}

	t.Run("is past", func(t *testing.T) {
		run := newRun()
		run.EndDate = timePtr(now.Add(-time.Hour))
		assert.True(t, run.IsPast())
		assert.False(t, run.IsUnexpired())
	})

	t.Run("no end date is never past", func(t *testing.T) {
		run := newRun()
		assert.False(t, run.IsPast())
		assert.True(t, run.IsUnexpired())
	})

	t.Run("enrollment end in future", func(t *testing.T) {
		run := newRun()
		run.EndDate = timePtr(now.Add(30 * 24 * time.Hour))
		run.EnrollmentEnd = timePtr(now.Add(time.Hour))
		assert.True(t, run.IsNotBeyondEnrollment())
		assert.True(t, run.IsUnexpired())
	})

	t.Run("enrollment end in past closes enrollment", func(t *testing.T) {
		run := newRun()
		run.EndDate = timePtr(now.Add(30 * 24 * time.Hour))
		run.EnrollmentEnd = timePtr(now.Add(-time.Hour))
		assert.False(t, run.IsNotBeyondEnrollment())
		assert.False(t, run.IsUnexpired())
	})

	t.Run("no enrollment end falls back to end date", func(t *testing.T) {
		run := newRun()
		run.EndDate = timePtr(now.Add(time.Hour))
		assert.True(t, run.IsNotBeyondEnrollment())

		run.EndDate = timePtr(now.Add(-time.Hour))
		assert.False(t, run.IsNotBeyondEnrollment())
	})

	t.Run("in progress", func(t *testing.T) {
		run := newRun()
		run.StartDate = timePtr(now.Add(-time.Hour))
		run.EndDate = timePtr(now.Add(time.Hour))
		assert.True(t, run.IsInProgress())

		run.StartDate = timePtr(now.Add(time.Hour))
		assert.False(t, run.IsInProgress())
	})
}

func TestCourseRunUpdateDates(t *testing.T) {
	run, err := NewCourseRun(uuid.New(), "Run", "course-v1:xPRO+DS+R1", "R1")
	require.NoError(t, err)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 5, 1, 23, 59, 0, 0, time.UTC)

	assert.True(t, run.UpdateDates(&start, &end))
	assert.False(t, run.UpdateDates(&start, &end), "no-op when dates are unchanged")

	shifted := end.Add(7 * 24 * time.Hour)
	assert.True(t, run.UpdateDates(&start, &shifted))
	assert.True(t, run.EndDate.Equal(shifted))
}
