package repository

import (
	"context"

	"asistencia-service/internal/domain/entity"
)

// AttendeeRepository defines the interface for attendee storage operations
type AttendeeRepository interface {
	// NextID allocates a new attendee identifier
	NextID() string

	// Create inserts a new attendee. A duplicate email yields a validation fault.
	Create(ctx context.Context, attendee *entity.Attendee) error
	FindByID(ctx context.Context, id string) (*entity.Attendee, error)

	// AppendAttendance atomically appends entry unless the attendee already has an
	// entry for entry.Fecha. It returns the updated attendee and true when the entry
	// was appended, or the stored attendee and false when one already existed.
	AppendAttendance(ctx context.Context, id string, entry entity.AttendanceEntry) (*entity.Attendee, bool, error)

	// CountByAttendanceDate counts attendees with at least one entry on fecha
	CountByAttendanceDate(ctx context.Context, fecha string) (int64, error)
}
