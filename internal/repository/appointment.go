package repository

import (
	"context"
	"time"

	"gymapi/internal/model"
)

// AppointmentRepository defines data access for appointments.
type AppointmentRepository interface {
	Create(ctx context.Context, a *model.Appointment) (*model.Appointment, error)
	FindByID(ctx context.Context, id string) (*model.Appointment, error)
	Update(ctx context.Context, a *model.Appointment) (*model.Appointment, error)
	Cancel(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f model.AppointmentFilter) ([]model.Appointment, error)

	// HasOverlap calls the check_appointment_overlap stored function.
	// An empty excludeID checks against every appointment of the staff member.
	HasOverlap(ctx context.Context, staffID string, startsAt, endsAt time.Time, excludeID string) (bool, error)
}
