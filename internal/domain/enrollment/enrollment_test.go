package enrollment

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseRunEnrollmentLifecycle(t *testing.T) {
	orderID := uuid.New()

	t.Run("new enrollment is active and not courseware-enrolled", func(t *testing.T) {
		e := NewCourseRunEnrollment(uuid.New(), uuid.New(), &orderID, nil)
		assert.True(t, e.Active)
		assert.False(t, e.EdxEnrolled)

		events := e.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeEnrollmentCreated, events[0].EventType())
	})

	t.Run("mark courseware enrolled", func(t *testing.T) {
		e := NewCourseRunEnrollment(uuid.New(), uuid.New(), nil, nil)
		e.MarkCoursewareEnrolled()
		assert.True(t, e.EdxEnrolled)
	})

	t.Run("deactivate with status", func(t *testing.T) {
		e := NewCourseRunEnrollment(uuid.New(), uuid.New(), nil, nil)
		require.NoError(t, e.Deactivate(ChangeStatusDeferred))
		assert.False(t, e.Active)
		assert.Equal(t, ChangeStatusDeferred, e.ChangeStatus)
	})

	t.Run("deactivate twice rejected", func(t *testing.T) {
		e := NewCourseRunEnrollment(uuid.New(), uuid.New(), nil, nil)
		require.NoError(t, e.Deactivate(ChangeStatusRefunded))
		assert.Error(t, e.Deactivate(ChangeStatusRefunded))
	})

	t.Run("reactivate clears change status", func(t *testing.T) {
		e := NewCourseRunEnrollment(uuid.New(), uuid.New(), nil, nil)
		require.NoError(t, e.Deactivate(ChangeStatusTransferred))
		require.NoError(t, e.Reactivate())
		assert.True(t, e.Active)
		assert.Empty(t, e.ChangeStatus)

		assert.Error(t, e.Reactivate())
	})
}
