package model

import "time"

// Appointment status values.
const (
	AppointmentScheduled  = "scheduled"
	AppointmentInProgress = "in_progress"
	AppointmentCompleted  = "completed"
	AppointmentCancelled  = "cancelled"
)

// AppointmentTypes lists accepted appointment kinds.
var AppointmentTypes = []string{"training", "trial", "assessment", "cardio", "check", "consultation"}

// Appointment is a scheduled session between a staff member and an athlete.
type Appointment struct {
	ID          string     `json:"id"`
	OrgID       *string    `json:"org_id,omitempty"`
	AthleteID   string     `json:"athlete_id"`
	StaffID     string     `json:"staff_id"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      time.Time  `json:"ends_at"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	Location    *string    `json:"location,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CreatedBy   *string    `json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// AppointmentFilter narrows appointment listings. Zero values are ignored.
type AppointmentFilter struct {
	OrgID     string
	AthleteID string
	StaffID   string
	From      *time.Time
	To        *time.Time
}
