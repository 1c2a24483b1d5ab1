package event

import (
	"github.com/xpro/backend/internal/domain/b2b"
	"github.com/xpro/backend/internal/domain/catalog"
	"github.com/xpro/backend/internal/domain/ecommerce"
	"github.com/xpro/backend/internal/domain/enrollment"
)

// RegisterAllEvents registers all domain event types with the serializer
// This is required for the OutboxProcessor to deserialize events from the outbox table
func RegisterAllEvents(serializer *EventSerializer) {
	// Catalog events
	serializer.Register(catalog.EventTypeProgramCreated, &catalog.ProgramCreatedEvent{})
	serializer.Register(catalog.EventTypeCourseCreated, &catalog.CourseCreatedEvent{})
	serializer.Register(catalog.EventTypeCourseRunCreated, &catalog.CourseRunCreatedEvent{})

	// Order lifecycle events
	serializer.Register(ecommerce.EventTypeOrderFulfilled, &ecommerce.OrderFulfilledEvent{})
	serializer.Register(ecommerce.EventTypeOrderFailed, &ecommerce.OrderFailedEvent{})
	serializer.Register(ecommerce.EventTypeOrderRefunded, &ecommerce.OrderRefundedEvent{})

	// Bulk purchase events
	serializer.Register(b2b.EventTypeB2BOrderFulfilled, &b2b.B2BOrderFulfilledEvent{})

	// Enrollment events
	serializer.Register(enrollment.EventTypeEnrollmentCreated, &enrollment.EnrollmentCreatedEvent{})
	serializer.Register(enrollment.EventTypeEnrollmentDeactivated, &enrollment.EnrollmentDeactivatedEvent{})
	serializer.Register(enrollment.EventTypeCoursewareEnrollmentFailed, &enrollment.CoursewareEnrollmentFailedEvent{})
}
